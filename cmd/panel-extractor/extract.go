package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/panel-extractor/internal/imaging"
	"github.com/ironsheep/panel-extractor/internal/manifest"
	"github.com/ironsheep/panel-extractor/internal/panels"
	"github.com/ironsheep/panel-extractor/internal/source"
)

const (
	// batchSize is how many pages are read and sent to the extractor at
	// once. It bounds memory and sets the text detector's batch size.
	batchSize = 16

	manifestName      = "manifest.yaml"
	annotateThickness = 3
)

func runExtract(ctx context.Context, log *logrus.Logger, args []string) error {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	s := bindSettings(fs)
	out := fs.String("out", "panels", "output directory")
	dpi := fs.Int("dpi", source.DefaultDPI, "resolution PDF pages are rendered at")
	annotate := fs.Bool("annotate", false, "also write each page with its panels outlined")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: panel-extractor extract [flags] inputs...")
		fmt.Fprintln(fs.Output(), "\nInputs are image files, directories of images, or PDF documents.")
		fmt.Fprintln(fs.Output(), "\nFlags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("no inputs given")
	}

	cfg, err := s.resolve(fs)
	if err != nil {
		return err
	}
	backend, err := panels.LookupBackend(cfg.Backend)
	if err != nil {
		return err
	}
	detector, closeDetector, err := cfg.NewDetector()
	if err != nil {
		return fmt.Errorf("failed to start text detector (use -keep-text or -engine heuristic to run without OCR): %w", err)
	}
	defer closeDetector()

	ex, err := panels.New(cfg.Panels(), detector, panels.WithLogger(log), panels.WithBackend(backend))
	if err != nil {
		return err
	}

	src, err := source.OpenAll(fs.Args(), *dpi)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	m := manifest.New(cfg)
	job := &extractJob{src: src, ex: ex, out: *out, annotate: *annotate, log: log}
	if err := job.run(ctx, m); err != nil {
		return err
	}
	if err := m.Write(filepath.Join(*out, manifestName)); err != nil {
		return err
	}

	failed := 0
	for _, p := range m.Pages {
		if p.Error != "" {
			failed++
		}
	}
	log.WithFields(logrus.Fields{
		"pages":  len(m.Pages),
		"panels": m.PanelCount(),
		"failed": failed,
		"out":    *out,
	}).Info("extraction finished")
	return nil
}

// extractJob writes the panels of every page of src into out.
type extractJob struct {
	src      source.Source
	ex       *panels.Extractor
	out      string
	annotate bool
	log      logrus.FieldLogger
}

// run processes src in batches and appends one manifest page per input page.
// Page level failures are recorded in the manifest; only cancellation and
// write errors stop the run.
func (j *extractJob) run(ctx context.Context, m *manifest.Manifest) error {
	total := j.src.Len()
	for start := 0; start < total; start += batchSize {
		end := min(start+batchSize, total)

		images := make([][]byte, end-start)
		readErrs := make([]error, end-start)
		for i := range images {
			images[i], readErrs[i] = j.src.Page(start + i)
		}

		results, err := j.ex.ExtractPages(ctx, images)
		if err != nil {
			return err
		}

		for i, r := range results {
			r.Index = start + i
			name := j.src.Name(r.Index)
			if readErrs[i] != nil {
				r.Err = &panels.PageError{Index: r.Index, Err: readErrs[i]}
			}

			page, err := j.write(name, images[i], r)
			if err != nil {
				return err
			}
			m.Pages = append(m.Pages, page)
		}
		j.log.WithFields(logrus.Fields{"done": end, "total": total}).Debug("batch written")
	}
	return nil
}

func (j *extractJob) write(name string, data []byte, r panels.PageResult) (manifest.Page, error) {
	if r.Err != nil {
		j.log.WithFields(logrus.Fields{"index": r.Index, "source": name, "err": r.Err}).Warn("page failed")
		return manifest.FromResult(r, name, nil), nil
	}

	if r.Verdict == panels.Skip {
		page := manifest.FromResult(r, name, nil)
		file := name + pageExt(data)
		if err := j.writeFile(file, data); err != nil {
			return page, err
		}
		page.Copied = file
		return page, nil
	}

	files := make([]string, 0, len(r.Encoded))
	for n, enc := range r.Encoded {
		file := fmt.Sprintf("%s_panel_%d.png", name, n)
		if err := j.writeFile(file, enc); err != nil {
			return manifest.FromResult(r, name, files), err
		}
		files = append(files, file)
	}
	page := manifest.FromResult(r, name, files)

	if j.annotate {
		file, err := j.writeAnnotated(name, data, r.Panels)
		if err != nil {
			return page, err
		}
		page.Annotated = file
	}
	return page, nil
}

func (j *extractJob) writeAnnotated(name string, data []byte, ps []panels.Panel) (string, error) {
	page, _, err := imaging.Decode(data)
	if err != nil {
		return "", err
	}
	boxes := make([]image.Rectangle, len(ps))
	for i, p := range ps {
		boxes[i] = p.Bounds
	}
	enc, err := imaging.EncodePNG(imaging.Color(imaging.Annotate(page, boxes, annotateThickness)))
	if err != nil {
		return "", err
	}
	file := name + "_annotated.png"
	return file, j.writeFile(file, enc)
}

func (j *extractJob) writeFile(name string, data []byte) error {
	if err := os.WriteFile(filepath.Join(j.out, name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// pageExt picks a file extension for an encoded page from its format.
func pageExt(data []byte) string {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ".img"
	}
	if format == "jpeg" {
		return ".jpg"
	}
	return "." + format
}
