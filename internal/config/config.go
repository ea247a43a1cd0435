// Package config loads and saves the YAML settings file of the panel
// extractor and turns it into the pieces the pipeline needs.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/panel-extractor/internal/ocr"
	"github.com/ironsheep/panel-extractor/internal/panels"
)

// Text detector engines.
const (
	EngineTesseract = "tesseract"
	EngineHeuristic = "heuristic"
)

// Config mirrors the settings file.
type Config struct {
	KeepText       bool     `yaml:"keep_text"`
	MinPctPanel    float64  `yaml:"min_pct_panel"`
	MaxPctPanel    float64  `yaml:"max_pct_panel"`
	PaperThreshold float64  `yaml:"paper_th"`
	Workers        int      `yaml:"workers"`
	Detector       Detector `yaml:"detector"`
	Backend        string   `yaml:"backend"`
}

// Detector holds the text detector settings.
type Detector struct {
	Engine        string   `yaml:"engine"`
	Retries       int      `yaml:"retries"`
	Backoff       Duration `yaml:"backoff"`
	Language      string   `yaml:"language"`
	Tessdata      string   `yaml:"tessdata"`
	MinConfidence float64  `yaml:"min_confidence"`
}

// Duration is a time.Duration written as a Go duration string ("250ms").
type Duration time.Duration

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", value.Line, s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the built-in settings.
func Default() Config {
	p := panels.DefaultConfig()
	return Config{
		KeepText:       p.KeepText,
		MinPctPanel:    p.MinPctPanel,
		MaxPctPanel:    p.MaxPctPanel,
		PaperThreshold: p.PaperThreshold,
		Workers:        0,
		Detector: Detector{
			Engine:        EngineTesseract,
			Retries:       p.DetectorRetries,
			Backoff:       Duration(p.RetryBackoff),
			Language:      ocr.DefaultLanguage,
			MinConfidence: 0.3,
		},
		Backend: panels.NativeBackend,
	}
}

// Load reads the file at path over Default. Keys missing from the file keep
// their default values; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path.
func Save(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Panels converts the settings into an extractor configuration. A Workers
// value of zero is resolved with DefaultWorkers.
func (c Config) Panels() panels.Config {
	workers := c.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	return panels.Config{
		KeepText:        c.KeepText,
		MinPctPanel:     c.MinPctPanel,
		MaxPctPanel:     c.MaxPctPanel,
		PaperThreshold:  c.PaperThreshold,
		Workers:         workers,
		DetectorRetries: c.Detector.Retries,
		RetryBackoff:    time.Duration(c.Detector.Backoff),
	}
}

// OCR converts the detector settings into Tesseract options.
func (c Config) OCR() ocr.Options {
	return ocr.Options{
		Language:       c.Detector.Language,
		TessdataPrefix: c.Detector.Tessdata,
		MinConfidence:  c.Detector.MinConfidence,
	}
}

// NewDetector builds the configured text detector. The returned close
// function releases it and is never nil. With KeepText set no detector is
// built.
func (c Config) NewDetector() (panels.TextDetector, func() error, error) {
	noop := func() error { return nil }
	if c.KeepText {
		return nil, noop, nil
	}
	switch c.Detector.Engine {
	case EngineHeuristic:
		return panels.HeuristicDetector{MinConfidence: c.Detector.MinConfidence}, noop, nil
	case EngineTesseract, "":
		d, err := ocr.NewDetector(c.OCR())
		if err != nil {
			return nil, noop, err
		}
		return d, d.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: unknown detector engine %q", panels.ErrInvalidConfig, c.Detector.Engine)
	}
}

// DefaultWorkers is the number of physical CPU cores, falling back to the
// logical count when the host does not report it.
func DefaultWorkers() int {
	n, err := cpu.Counts(false)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}
