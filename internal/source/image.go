package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// imageExts are the extensions picked up from a directory. The set matches
// the decoders registered by the imaging package.
var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// ImageSource serves image files as they are stored on disk. The bytes are
// never re-encoded, so a page that is handed back unchanged stays
// byte-identical to its file.
type ImageSource struct {
	paths []string
}

// NewImageSource reads a single image file, or every image file directly
// inside a directory in lexical order. Subdirectories are not descended into.
func NewImageSource(path string) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image source: %w", err)
	}
	if !fi.IsDir() {
		return &ImageSource{paths: []string{path}}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !imageExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(path, entry.Name()))
	}
	sort.Strings(paths)
	return &ImageSource{paths: paths}, nil
}

func (s *ImageSource) Len() int { return len(s.paths) }

// Name is the file name without its extension.
func (s *ImageSource) Name(i int) string {
	base := filepath.Base(s.paths[i])
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Path is the file behind page i.
func (s *ImageSource) Path(i int) string { return s.paths[i] }

func (s *ImageSource) Page(i int) ([]byte, error) {
	if i < 0 || i >= len(s.paths) {
		return nil, fmt.Errorf("page %d out of range [0, %d)", i, len(s.paths))
	}
	data, err := os.ReadFile(s.paths[i])
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	return data, nil
}

func (s *ImageSource) Close() error { return nil }
