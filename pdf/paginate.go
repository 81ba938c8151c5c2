package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/phpdave11/gofpdf"
)

// A4 page dimensions in millimeters.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

// PaginateOptions sets the page geometry for raster pagination.
// Zero values mean A4.
type PaginateOptions struct {
	PageWidth  float64
	PageHeight float64
}

func (o PaginateOptions) withDefaults() PaginateOptions {
	if o.PageWidth <= 0 {
		o.PageWidth = PageWidthMM
	}
	if o.PageHeight <= 0 {
		o.PageHeight = PageHeightMM
	}
	return o
}

// PageOffsets returns the vertical draw offset for each page of a
// paginated image: the full image is drawn once per page, shifted up by
// one page height each time, so page i shows the slice starting at
// i*pageHeight. Page count is ceil(imageHeight/pageHeight), never less
// than one.
func PageOffsets(imageHeight, pageHeight float64) []float64 {
	pages := 1
	if imageHeight > 0 && pageHeight > 0 {
		pages = int(math.Ceil(imageHeight / pageHeight))
		if pages < 1 {
			pages = 1
		}
	}
	offsets := make([]float64, pages)
	for i := range offsets {
		offsets[i] = -float64(i) * pageHeight
	}
	return offsets
}

// PaginateImage lays a captured surface onto PDF pages. The image is
// scaled to the full page width; the resulting height follows from the
// source aspect ratio, and anything taller than one page continues on
// the next with a negative offset.
func PaginateImage(img image.Image, opts PaginateOptions) ([]byte, error) {
	opts = opts.withDefaults()

	bounds := img.Bounds()
	srcW := float64(bounds.Dx())
	srcH := float64(bounds.Dy())
	if srcW <= 0 || srcH <= 0 {
		return nil, fmt.Errorf("paginate image: empty image %dx%d", bounds.Dx(), bounds.Dy())
	}
	drawH := opts.PageWidth * srcH / srcW

	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img); err != nil {
		return nil, fmt.Errorf("paginate image: encode: %w", err)
	}

	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: opts.PageWidth, Ht: opts.PageHeight},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("capture", imgOpts, &encoded)

	for _, offset := range PageOffsets(drawH, opts.PageHeight) {
		doc.AddPage()
		doc.ImageOptions("capture", 0, offset, opts.PageWidth, drawH, false, imgOpts, 0, "")
	}

	var out bytes.Buffer
	if err := doc.Output(&out); err != nil {
		return nil, fmt.Errorf("paginate image: %w", err)
	}
	return out.Bytes(), nil
}
