package main

import (
	"flag"

	"github.com/ironsheep/panel-extractor/internal/config"
)

// settings are the flags shared by every command. Flags given on the
// command line override the config file, which overrides the defaults.
type settings struct {
	configPath string
	keepText   bool
	minPct     float64
	maxPct     float64
	paperTh    float64
	workers    int
	backend    string
	engine     string
}

func bindSettings(fs *flag.FlagSet) *settings {
	def := config.Default()
	s := &settings{}
	fs.StringVar(&s.configPath, "config", "", "YAML settings file")
	fs.BoolVar(&s.keepText, "keep-text", def.KeepText, "skip text removal")
	fs.Float64Var(&s.minPct, "min-pct", def.MinPctPanel, "smallest panel, in percent of the page area")
	fs.Float64Var(&s.maxPct, "max-pct", def.MaxPctPanel, "largest panel, in percent of the page area")
	fs.Float64Var(&s.paperTh, "paper-th", def.PaperThreshold, "midtone ratio at which a page is skipped")
	fs.IntVar(&s.workers, "workers", def.Workers, "pages processed at once (0 = physical cores)")
	fs.StringVar(&s.backend, "backend", def.Backend, "raster backend (native, or opencv when built with -tags opencv)")
	fs.StringVar(&s.engine, "engine", def.Detector.Engine, "text detector (tesseract or heuristic)")
	return s
}

// resolve loads the config file, if any, and applies the flags that were
// set explicitly.
func (s *settings) resolve(fs *flag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if s.configPath != "" {
		var err error
		if cfg, err = config.Load(s.configPath); err != nil {
			return cfg, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "keep-text":
			cfg.KeepText = s.keepText
		case "min-pct":
			cfg.MinPctPanel = s.minPct
		case "max-pct":
			cfg.MaxPctPanel = s.maxPct
		case "paper-th":
			cfg.PaperThreshold = s.paperTh
		case "workers":
			cfg.Workers = s.workers
		case "backend":
			cfg.Backend = s.backend
		case "engine":
			cfg.Detector.Engine = s.engine
		}
	})

	if err := cfg.Panels().Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
