package main

import (
	"context"
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/panel-extractor/internal/panels"
	"github.com/ironsheep/panel-extractor/internal/server"
)

func runServe(ctx context.Context, log *logrus.Logger, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	s := bindSettings(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := s.resolve(fs)
	if err != nil {
		return err
	}

	backend, err := panels.LookupBackend(cfg.Backend)
	if err != nil {
		return err
	}

	// A missing OCR install should not stop the server; calls that need
	// text removal fail individually instead.
	detector, closeDetector, err := cfg.NewDetector()
	if err != nil {
		log.WithError(err).Warn("text detector unavailable, only keep_text calls will succeed")
		detector = nil
	}
	defer closeDetector()

	srv, err := server.New(cfg.Panels(), detector,
		server.WithLogger(log),
		server.WithBackend(backend),
		server.WithVersion(Version),
	)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"backend":  backend.Name(),
		"detector": cfg.Detector.Engine,
		"workers":  cfg.Panels().Workers,
	}).Info("serving MCP on stdio")
	return srv.Run(ctx)
}
