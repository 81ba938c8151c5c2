// Package export turns built documents into downloadable files and
// names them.
package export

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/cwhuang/quote-app/document"
	"github.com/cwhuang/quote-app/i18n"
	"github.com/cwhuang/quote-app/pdf"
)

// Rasterizer captures a rendered HTML surface as a bitmap at the given
// scale factor. Implementations run a headless browser or an external
// capture service; the export path only needs this one call.
type Rasterizer interface {
	Capture(ctx context.Context, html []byte, scale float64) (image.Image, error)
}

// Service produces export files. With no Rasterizer wired, single-quote
// PDFs fall back to the direct vector layout.
type Service struct {
	Clock      func() time.Time
	Rasterizer Rasterizer
	Scale      float64
}

// NewService returns a Service on the wall clock with the default
// capture scale.
func NewService() *Service {
	return &Service{Clock: time.Now, Scale: 2}
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *Service) scale() float64 {
	if s.Scale > 0 {
		return s.Scale
	}
	return 2
}

// Filename builds the download name: the document type label, the quote
// number (or its date), and the current date, joined by underscores.
// Deterministic for a fixed Clock.
func (s *Service) Filename(docTypeLabel, numberOrDate, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", docTypeLabel, numberOrDate, s.now().Format("2006-01-02"), ext)
}

func numberOrDate(doc *document.Document) string {
	if doc.Meta.Number.Value != "" {
		return doc.Meta.Number.Value
	}
	return doc.Meta.Date.Value
}

// QuoteHTML renders the document as a self-contained HTML file. Chrome
// flagged as export-excluded is hidden for the render and restored
// before returning, whether or not the render succeeds.
func (s *Service) QuoteHTML(doc *document.Document) (filename string, data []byte, err error) {
	restore := doc.HideExportExcluded()
	defer restore()

	data, err = document.RenderHTML(*doc)
	if err != nil {
		return "", nil, err
	}
	return s.Filename(doc.Title, numberOrDate(doc), "html"), data, nil
}

// QuotePDF renders the document as a PDF. With a Rasterizer wired the
// document is rendered to HTML, captured as a bitmap and paginated onto
// A4 pages; otherwise the vector layout is used. Export-excluded chrome
// is hidden during the whole operation and restored on every exit path.
func (s *Service) QuotePDF(ctx context.Context, doc *document.Document) (filename string, data []byte, err error) {
	restore := doc.HideExportExcluded()
	defer restore()

	if s.Rasterizer == nil {
		data, err = pdf.QuotePDF(*doc)
	} else {
		data, err = s.captureAndPaginate(ctx, doc)
	}
	if err != nil {
		return "", nil, err
	}
	return s.Filename(doc.Title, numberOrDate(doc), "pdf"), data, nil
}

func (s *Service) captureAndPaginate(ctx context.Context, doc *document.Document) ([]byte, error) {
	html, err := document.RenderHTML(*doc)
	if err != nil {
		return nil, err
	}
	img, err := s.Rasterizer.Capture(ctx, html, s.scale())
	if err != nil {
		return nil, fmt.Errorf("capture document: %w", err)
	}
	return pdf.PaginateImage(img, pdf.PaginateOptions{})
}

// QuoteList renders the list export and names it by the list label and
// the current date.
func (s *Service) QuoteList(lang string, rows []pdf.ListRow) (filename string, data []byte, err error) {
	now := s.now()
	data, err = pdf.QuoteListPDF(lang, rows, now)
	if err != nil {
		return "", nil, err
	}
	label := i18n.T(lang, "list.title")
	return s.Filename(label, now.Format("2006-01-02"), "pdf"), data, nil
}
