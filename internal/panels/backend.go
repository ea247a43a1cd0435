package panels

import (
	"fmt"
	"image"
	"sort"
	"sync"

	"github.com/ironsheep/panel-extractor/internal/imaging"
)

// Backend performs the raster work of segmentation and panel cutting.
type Backend interface {
	Name() string
	SegmentBlock(page imaging.Raster) *image.Gray
	CutPanels(page imaging.Raster, block *image.Gray, minFrac, maxFrac float64) []Panel
}

// NativeBackend is the pure Go backend.
const NativeBackend = "native"

type nativeBackend struct{}

func (nativeBackend) Name() string { return NativeBackend }

func (nativeBackend) SegmentBlock(page imaging.Raster) *image.Gray {
	return SegmentBlock(page)
}

func (nativeBackend) CutPanels(page imaging.Raster, block *image.Gray, minFrac, maxFrac float64) []Panel {
	return CutPanels(page, block, minFrac, maxFrac)
}

// Native returns the pure Go backend.
func Native() Backend { return nativeBackend{} }

var (
	backendsMu sync.RWMutex
	backends   = map[string]Backend{NativeBackend: nativeBackend{}}
)

// RegisterBackend makes b available to LookupBackend under b.Name(),
// replacing any backend of the same name.
func RegisterBackend(b Backend) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[b.Name()] = b
}

// LookupBackend returns the backend registered under name.
func LookupBackend(name string) (Backend, error) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	b, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown backend %q (available: %v)", ErrInvalidConfig, name, backendNames())
	}
	return b, nil
}

// Backends lists the registered backend names in sorted order.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	return backendNames()
}

func backendNames() []string {
	names := make([]string, 0, len(backends))
	for n := range backends {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
