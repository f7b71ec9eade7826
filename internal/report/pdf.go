package report

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/buildhub/homeowner-gateway/internal/models"
)

// A4 dimensions in millimetres as used for slicing.
const (
	pageWidthMM  = 210.0
	pageHeightMM = 295.0
)

// Offsets returns the vertical placement of the source image on each PDF
// page. The image is drawn full width; pages after the first draw it shifted
// up so the next slice shows through.
func Offsets(imgHeight, pageHeight float64) []float64 {
	offsets := []float64{0}
	heightLeft := imgHeight - pageHeight
	for heightLeft >= 0 {
		offsets = append(offsets, heightLeft-imgHeight)
		heightLeft -= pageHeight
	}
	return offsets
}

// WritePDF slices the rendered image across as many A4 pages as it needs and
// writes the result to w.
func WritePDF(w io.Writer, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("report: encode image: %w", err)
	}

	bounds := img.Bounds()
	imgHeight := float64(bounds.Dy()) * pageWidthMM / float64(bounds.Dx())

	pdf := gofpdf.New("P", "mm", "A4", "")
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("report", opts, &buf)

	for _, offset := range Offsets(imgHeight, pageHeightMM) {
		pdf.AddPage()
		pdf.ImageOptions("report", 0, offset, pageWidthMM, imgHeight, false, opts, 0, "")
	}

	return pdf.Output(w)
}

// Generator bundles layout and rasterization behind one call.
type Generator struct {
	rasterizer Rasterizer
}

func NewGenerator(rasterizer Rasterizer) *Generator {
	return &Generator{rasterizer: rasterizer}
}

// EstimateReport renders the full cost estimate report PDF for an estimate.
func (g *Generator) EstimateReport(w io.Writer, est models.Estimate) error {
	doc := BuildDocument(est)
	img, err := g.rasterizer.Render(doc)
	if err != nil {
		return fmt.Errorf("report: render: %w", err)
	}
	return WritePDF(w, img)
}
