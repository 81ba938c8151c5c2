package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/cwhuang/quote-app/document"
	"github.com/cwhuang/quote-app/internal/models"
	"github.com/cwhuang/quote-app/internal/services"
	"github.com/cwhuang/quote-app/pdf"
)

func TestMain(m *testing.M) {
	api.DisableConfigDir()
	os.Exit(m.Run())
}

func fixedClock() time.Time {
	return time.Date(2025, 1, 20, 10, 30, 0, 0, time.UTC)
}

func buildDoc(t *testing.T, readOnly bool) *document.Document {
	t.Helper()
	valid := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	quote := models.Quote{
		Number:        "Q20250115001",
		CustomerID:    1,
		ContactPerson: "王小明",
		QuoteDate:     time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		ValidUntil:    &valid,
		TaxRate:       5,
		Notes:         "交貨後驗收",
	}
	customer := models.Customer{CompanyName: "大安科技股份有限公司"}
	items := []models.QuoteItem{
		{ProductName: "主機維護", Quantity: 2, UnitPrice: 100},
		{ProductName: "備援設定", Quantity: 1, UnitPrice: 50, SortOrder: 1},
	}
	agg := services.BuildAggregate(quote, &customer, nil, nil, items)
	doc := document.Build(agg, services.CompanyBranding{Name: "雲端服務有限公司"}, services.BankDisplay{}, document.Options{
		ReadOnly: readOnly,
		Now:      fixedClock(),
	})
	return &doc
}

type fakeRasterizer struct {
	captured []byte
	img      image.Image
	err      error
}

func (f *fakeRasterizer) Capture(_ context.Context, html []byte, _ float64) (image.Image, error) {
	f.captured = html
	if f.err != nil {
		return nil, f.err
	}
	return f.img, nil
}

func tallImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 230, G: 230, B: 230, A: 255})
		}
	}
	return img
}

func TestFilenameDeterministic(t *testing.T) {
	svc := &Service{Clock: fixedClock}
	tests := []struct {
		label, middle, ext string
		want               string
	}{
		{"報價單", "Q20250115001", "pdf", "報價單_Q20250115001_2025-01-20.pdf"},
		{"報價單", "Q20250115001", "html", "報價單_Q20250115001_2025-01-20.html"},
		{"報價單清單", "2025-01-20", "pdf", "報價單清單_2025-01-20_2025-01-20.pdf"},
	}
	for _, tt := range tests {
		if got := svc.Filename(tt.label, tt.middle, tt.ext); got != tt.want {
			t.Errorf("Filename(%q, %q, %q) = %q, want %q", tt.label, tt.middle, tt.ext, got, tt.want)
		}
		// same inputs and clock, same name
		if again := svc.Filename(tt.label, tt.middle, tt.ext); again != tt.want {
			t.Errorf("second call drifted: %q", again)
		}
	}
}

func TestQuoteHTMLExport(t *testing.T) {
	svc := &Service{Clock: fixedClock}
	doc := buildDoc(t, false)

	name, data, err := svc.QuoteHTML(doc)
	if err != nil {
		t.Fatalf("QuoteHTML: %v", err)
	}
	if name != "報價單_Q20250115001_2025-01-20.html" {
		t.Errorf("filename = %q", name)
	}
	html := string(data)
	if !strings.HasPrefix(html, "<!DOCTYPE html>") {
		t.Error("export is not a full HTML document")
	}
	if strings.Contains(html, `class="toolbar`) || strings.Contains(html, `class="upload-hint`) {
		t.Error("export-excluded chrome leaked into the HTML file")
	}
	if doc.ExportHidden {
		t.Error("chrome not restored after export")
	}
	if !doc.ShowsChrome() {
		t.Error("editable document must show chrome again after export")
	}
}

func TestQuotePDFVectorPath(t *testing.T) {
	svc := &Service{Clock: fixedClock}
	doc := buildDoc(t, false)

	name, data, err := svc.QuotePDF(context.Background(), doc)
	if err != nil {
		t.Fatalf("QuotePDF: %v", err)
	}
	if name != "報價單_Q20250115001_2025-01-20.pdf" {
		t.Errorf("filename = %q", name)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("vector export is not a PDF")
	}
	if doc.ExportHidden {
		t.Error("chrome not restored after export")
	}
}

func TestQuotePDFRasterPath(t *testing.T) {
	raster := &fakeRasterizer{img: tallImage(800, 1200)}
	svc := &Service{Clock: fixedClock, Rasterizer: raster}
	doc := buildDoc(t, false)

	_, data, err := svc.QuotePDF(context.Background(), doc)
	if err != nil {
		t.Fatalf("QuotePDF: %v", err)
	}
	pages, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	// 210 * 1200/800 = 315mm of content on 297mm pages
	if pages != 2 {
		t.Errorf("page count = %d, want 2", pages)
	}
	if raster.captured == nil {
		t.Fatal("rasterizer never saw the HTML")
	}
	if strings.Contains(string(raster.captured), `class="toolbar`) {
		t.Error("captured HTML still contains export-excluded chrome")
	}
	if doc.ExportHidden {
		t.Error("chrome not restored after export")
	}
}

func TestQuotePDFRestoresChromeOnCaptureError(t *testing.T) {
	raster := &fakeRasterizer{err: errors.New("browser crashed")}
	svc := &Service{Clock: fixedClock, Rasterizer: raster}
	doc := buildDoc(t, false)

	_, _, err := svc.QuotePDF(context.Background(), doc)
	if err == nil {
		t.Fatal("expected the capture error to propagate")
	}
	if doc.ExportHidden {
		t.Error("chrome must be restored on the error path too")
	}
	if !doc.ShowsChrome() {
		t.Error("document left hidden after a failed export")
	}
}

func TestQuoteListExport(t *testing.T) {
	svc := &Service{Clock: fixedClock}
	rows := []pdf.ListRow{
		{Number: "Q20250115001", Customer: "大安科技股份有限公司", Contact: "王小明", Date: "2025-01-15", Total: 262.5, Status: "草稿"},
		{Number: "Q20250115002", Customer: "信義貿易", Contact: "李大華", Date: "2025-01-15", Total: 100, Status: "已送出"},
	}

	name, data, err := svc.QuoteList("zh-TW", rows)
	if err != nil {
		t.Fatalf("QuoteList: %v", err)
	}
	if name != "報價單清單_2025-01-20_2025-01-20.pdf" {
		t.Errorf("filename = %q", name)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("list export is not a PDF")
	}
}
