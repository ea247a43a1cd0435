// Package source enumerates comic pages from image files, directories of
// images and PDF documents, handing each page out as encoded bytes.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDPI is the resolution PDF pages are rendered at when none is given.
const DefaultDPI = 150

// Source is an ordered collection of encoded pages.
type Source interface {
	// Len is the number of pages.
	Len() int

	// Name is a file-system friendly name for page i, unique within the
	// source.
	Name(i int) string

	// Page returns the encoded bytes of page i.
	Page(i int) ([]byte, error)

	Close() error
}

// Open picks a Source for path: a PDF for a .pdf file, otherwise an image
// file or a directory of images. dpi only applies to PDFs.
func Open(path string, dpi int) (Source, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	if !fi.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewPDFSource(path, dpi)
	}
	return NewImageSource(path)
}

// OpenAll opens every path and concatenates the pages in argument order.
// Sources already opened are closed again if a later one fails.
func OpenAll(paths []string, dpi int) (Source, error) {
	var m Multi
	for _, p := range paths {
		s, err := Open(p, dpi)
		if err != nil {
			m.Close()
			return nil, err
		}
		m = append(m, s)
	}
	return m, nil
}

// Multi chains sources one after another.
type Multi []Source

func (m Multi) Len() int {
	n := 0
	for _, s := range m {
		n += s.Len()
	}
	return n
}

func (m Multi) locate(i int) (Source, int) {
	for _, s := range m {
		if i < s.Len() {
			return s, i
		}
		i -= s.Len()
	}
	return nil, -1
}

func (m Multi) Name(i int) string {
	s, j := m.locate(i)
	if s == nil {
		return ""
	}
	if len(m) == 1 {
		return s.Name(j)
	}
	return fmt.Sprintf("%03d_%s", i+1, s.Name(j))
}

func (m Multi) Page(i int) ([]byte, error) {
	s, j := m.locate(i)
	if s == nil {
		return nil, fmt.Errorf("page %d out of range [0, %d)", i, m.Len())
	}
	return s.Page(j)
}

// Close closes every source and returns the first error.
func (m Multi) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
