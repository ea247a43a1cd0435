package panels

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/panel-extractor/internal/imaging"
)

// Extractor cuts comic pages into panels.
//
// An Extractor is safe for concurrent use; it holds no per-batch state.
type Extractor struct {
	cfg      Config
	detector TextDetector
	backend  Backend
	log      logrus.FieldLogger
}

// Option customises an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger. The default is logrus' standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Extractor) { e.log = l }
}

// WithBackend sets the raster backend. The default is Native().
func WithBackend(b Backend) Option {
	return func(e *Extractor) { e.backend = b }
}

// New validates cfg and builds an Extractor. detector may be nil only when
// cfg.KeepText is set.
func New(cfg Config, detector TextDetector, opts ...Option) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if detector == nil && !cfg.KeepText {
		return nil, fmt.Errorf("%w: a text detector is required unless keep_text is set", ErrInvalidConfig)
	}

	e := &Extractor{
		cfg:      cfg,
		detector: detector,
		backend:  Native(),
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the validated configuration.
func (e *Extractor) Config() Config { return e.cfg }

// Backend returns the raster backend in use.
func (e *Extractor) Backend() Backend { return e.backend }

// PageResult is the outcome for one input page.
type PageResult struct {
	Index        int
	Verdict      Verdict
	MidtoneRatio float64

	// TextRemoved reports whether text was erased before segmentation.
	TextRemoved bool

	// Panels are the cut panels of a processable page, in discovery order.
	Panels []Panel

	// Encoded holds one PNG per panel, or the untouched input bytes of a
	// skipped page.
	Encoded [][]byte

	// Err is a *PageError when the page failed; the other fields are then
	// unset.
	Err error
}

// Extract processes a batch of encoded pages and returns the encoded panels
// of every page that succeeded, keyed by input index. A skipped page maps to
// a one-element list holding its original bytes.
//
// Failed pages are left out of the map and reported together in a
// *BatchError; they never affect other pages.
func (e *Extractor) Extract(ctx context.Context, images [][]byte) (map[int][][]byte, error) {
	results, err := e.ExtractPages(ctx, images)
	if err != nil {
		return nil, err
	}

	out := make(map[int][][]byte, len(results))
	failures := make(map[int]error)
	for _, r := range results {
		if r.Err != nil {
			failures[r.Index] = r.Err
			continue
		}
		out[r.Index] = r.Encoded
	}
	if len(failures) > 0 {
		return out, &BatchError{Failures: failures}
	}
	return out, nil
}

// ExtractPages is Extract with the full per-page detail. The returned error
// is only non-nil when ctx ends before the batch completes.
func (e *Extractor) ExtractPages(ctx context.Context, images [][]byte) ([]PageResult, error) {
	results := make([]PageResult, len(images))
	rasters := make([]imaging.Raster, len(images))
	for i := range results {
		results[i].Index = i
	}

	// Decode and classify.
	err := e.forEach(ctx, len(images), func(i int) {
		page, format, err := imaging.Decode(images[i])
		if err != nil {
			results[i].Err = &PageError{Index: i, Err: fmt.Errorf("%w: %w", ErrDecode, err)}
			e.log.WithFields(logrus.Fields{"index": i, "err": err}).Warn("page could not be decoded")
			return
		}
		verdict, ratio := Classify(page, e.cfg.PaperThreshold)
		results[i].Verdict = verdict
		results[i].MidtoneRatio = ratio
		if verdict == Skip {
			results[i].Encoded = [][]byte{images[i]}
		} else {
			rasters[i] = page
		}
		e.log.WithFields(logrus.Fields{
			"index":         i,
			"format":        format,
			"verdict":       verdict.String(),
			"midtone_ratio": ratio,
		}).Debug("page classified")
	})
	if err != nil {
		return results, err
	}

	var todo []int
	for i := range results {
		if results[i].Err == nil && results[i].Verdict == Processable {
			todo = append(todo, i)
		}
	}

	if !e.cfg.KeepText && len(todo) > 0 {
		if err := e.removeText(ctx, todo, rasters, results); err != nil {
			return results, err
		}
	}

	// Segment, cut and encode.
	err = e.forEach(ctx, len(todo), func(k int) {
		i := todo[k]
		found, encoded, err := e.cut(rasters[i])
		if err != nil {
			results[i].Err = &PageError{Index: i, Err: err}
			e.log.WithFields(logrus.Fields{"index": i, "err": err}).Warn("page could not be processed")
			return
		}
		results[i].Panels = found
		results[i].Encoded = encoded
		e.log.WithFields(logrus.Fields{"index": i, "panels": len(found)}).Debug("page cut")
	})
	return results, err
}

// Panels segments page and cuts it into panels without text removal or the
// paper check.
func (e *Extractor) Panels(page imaging.Raster) []Panel {
	block := e.backend.SegmentBlock(page)
	return e.backend.CutPanels(page, block, e.cfg.MinFrac(), e.cfg.MaxFrac())
}

func (e *Extractor) cut(page imaging.Raster) ([]Panel, [][]byte, error) {
	found := e.Panels(page)
	encoded := make([][]byte, 0, len(found))
	for n, p := range found {
		data, err := imaging.EncodePNG(p.Image)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode panel %d: %w", n, err)
		}
		encoded = append(encoded, data)
	}
	return found, encoded, nil
}

// removeText erases text from the pages listed in todo, replacing their
// rasters in place. The batch is tried with retries first; on failure each
// page is tried on its own, and a page that still fails keeps its text.
func (e *Extractor) removeText(ctx context.Context, todo []int, rasters []imaging.Raster, results []PageResult) error {
	batch := make([]imaging.Raster, len(todo))
	for k, i := range todo {
		batch[k] = rasters[i]
	}

	var err error
	for attempt := 0; attempt <= e.cfg.DetectorRetries; attempt++ {
		if attempt > 0 {
			delay := e.cfg.RetryBackoff << (attempt - 1)
			e.log.WithFields(logrus.Fields{"attempt": attempt, "err": err}).Warn("text detection failed, retrying")
			if serr := sleep(ctx, delay); serr != nil {
				return serr
			}
		}
		var cleaned []imaging.Raster
		cleaned, err = RemoveText(ctx, batch, e.detector)
		if err == nil {
			for k, i := range todo {
				rasters[i] = cleaned[k]
				results[i].TextRemoved = true
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	e.log.WithFields(logrus.Fields{"pages": len(todo), "err": err}).Warn("batched text detection failed, falling back to one page at a time")
	for k, i := range todo {
		cleaned, perr := RemoveText(ctx, batch[k:k+1], e.detector)
		if perr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e.log.WithFields(logrus.Fields{"index": i, "err": perr}).Warn("text detection failed, keeping text on page")
			continue
		}
		rasters[i] = cleaned[0]
		results[i].TextRemoved = true
	}
	return nil
}

// forEach runs fn for 0..n-1 on at most Workers goroutines. fn records its
// own failures; only cancellation of ctx stops the loop and is returned.
func (e *Extractor) forEach(ctx context.Context, n int, fn func(i int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (e *Extractor) workers() int {
	if e.cfg.Workers > 0 {
		return e.cfg.Workers
	}
	return runtime.NumCPU()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
