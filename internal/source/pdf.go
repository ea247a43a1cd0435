package source

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gen2brain/go-fitz"

	"github.com/ironsheep/panel-extractor/internal/imaging"
)

// PDFSource renders the pages of a PDF with MuPDF and serves them as PNG.
//
// MuPDF documents are not safe for concurrent use; Page serialises access.
type PDFSource struct {
	mu   sync.Mutex
	doc  *fitz.Document
	base string
	dpi  int
}

// NewPDFSource opens the PDF at path. Pages are rendered at dpi, or at
// DefaultDPI when dpi is not positive.
func NewPDFSource(path string, dpi int) (*PDFSource, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	base := filepath.Base(path)
	return &PDFSource{
		doc:  doc,
		base: strings.TrimSuffix(base, filepath.Ext(base)),
		dpi:  dpi,
	}, nil
}

func (s *PDFSource) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.NumPage()
}

// Name is the document name plus the one-based page number.
func (s *PDFSource) Name(i int) string {
	return fmt.Sprintf("%s_p%03d", s.base, i+1)
}

// DPI is the render resolution.
func (s *PDFSource) DPI() int { return s.dpi }

func (s *PDFSource) Page(i int) ([]byte, error) {
	s.mu.Lock()
	img, err := s.doc.ImageDPI(i, float64(s.dpi))
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", i+1, err)
	}
	return imaging.EncodePNG(imaging.FromImage(img))
}

func (s *PDFSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Close()
}
