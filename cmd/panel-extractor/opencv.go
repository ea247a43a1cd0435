//go:build opencv

package main

import (
	"github.com/ironsheep/panel-extractor/internal/opencv"
	"github.com/ironsheep/panel-extractor/internal/panels"
)

func init() {
	panels.RegisterBackend(opencv.Backend())
}
