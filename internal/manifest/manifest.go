// Package manifest records what an extraction run produced, one entry per
// input page, as YAML next to the panel files.
package manifest

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/panel-extractor/internal/config"
	"github.com/ironsheep/panel-extractor/internal/panels"
)

// Version is the manifest format version.
const Version = "1"

// Manifest describes one run.
type Manifest struct {
	Version string        `yaml:"version"`
	Created time.Time     `yaml:"created"`
	Config  config.Config `yaml:"config"`
	Pages   []Page        `yaml:"pages"`
}

// Page is the outcome for one input page.
type Page struct {
	Index        int          `yaml:"index"`
	Source       string       `yaml:"source"`
	Verdict      string       `yaml:"verdict,omitempty"`
	MidtoneRatio float64      `yaml:"midtone_ratio"`
	TextRemoved  bool         `yaml:"text_removed"`
	Copied       string       `yaml:"copied,omitempty"` // skipped page, written unchanged
	Annotated    string       `yaml:"annotated,omitempty"`
	Panels       []PanelEntry `yaml:"panels,omitempty"`
	Error        string       `yaml:"error,omitempty"`
}

// PanelEntry is one written panel and where it sat on the page.
type PanelEntry struct {
	File string  `yaml:"file"`
	X    int     `yaml:"x"`
	Y    int     `yaml:"y"`
	W    int     `yaml:"w"`
	H    int     `yaml:"h"`
	Area float64 `yaml:"area"`
}

// New starts an empty manifest for a run with cfg.
func New(cfg config.Config) *Manifest {
	return &Manifest{Version: Version, Created: time.Now().UTC().Truncate(time.Second), Config: cfg}
}

// FromResult builds the page entry for r. files names the written panel
// files in panel order; it may be shorter than r.Panels if writing stopped.
func FromResult(r panels.PageResult, source string, files []string) Page {
	p := Page{Index: r.Index, Source: source}
	if r.Err != nil {
		p.Error = r.Err.Error()
		return p
	}
	p.Verdict = r.Verdict.String()
	p.MidtoneRatio = r.MidtoneRatio
	p.TextRemoved = r.TextRemoved
	for i, f := range files {
		if i >= len(r.Panels) {
			break
		}
		b := r.Panels[i].Bounds
		p.Panels = append(p.Panels, PanelEntry{
			File: f,
			X:    b.Min.X,
			Y:    b.Min.Y,
			W:    b.Dx(),
			H:    b.Dy(),
			Area: r.Panels[i].Area,
		})
	}
	return p
}

// PanelCount is the number of panels over all pages.
func (m *Manifest) PanelCount() int {
	n := 0
	for _, p := range m.Pages {
		n += len(p.Panels)
	}
	return n
}

// Write writes the manifest to a YAML file.
func (m *Manifest) Write(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Read reads a manifest from a YAML file.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}
