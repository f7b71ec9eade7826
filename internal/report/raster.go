package report

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Rasterizer turns a document into an image ready for PDF embedding.
type Rasterizer interface {
	Render(doc Document) (image.Image, error)
}

// TextRasterizer renders the document with a fixed-width bitmap face onto a
// white canvas the proportions of an A4 page column.
type TextRasterizer struct {
	Width      int
	LineHeight int
	Margin     int
}

func NewTextRasterizer() *TextRasterizer {
	return &TextRasterizer{Width: 840, LineHeight: 18, Margin: 40}
}

func (r *TextRasterizer) Render(doc Document) (image.Image, error) {
	height := r.Margin*2 + len(doc.Lines)*r.LineHeight
	if height < r.LineHeight {
		height = r.LineHeight
	}

	img := image.NewRGBA(image.Rect(0, 0, r.Width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	y := r.Margin

	for _, line := range doc.Lines {
		y += r.LineHeight
		if line.Style == StyleRule {
			drawRule(img, r.Margin, r.Width-r.Margin, y-r.LineHeight/2)
			continue
		}
		if line.Text == "" {
			continue
		}

		drawer := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(styleColor(line.Style)),
			Face: face,
			Dot:  fixed.P(r.Margin, y),
		}
		drawer.DrawString(line.Text)

		// Bitmap faces have no bold variant; titles get a double strike
		// one pixel over for weight.
		if line.Style == StyleTitle || line.Style == StyleHeading {
			drawer.Dot = fixed.P(r.Margin+1, y)
			drawer.DrawString(line.Text)
		}
	}

	return img, nil
}

func styleColor(style string) color.Color {
	if style == StyleMuted {
		return color.RGBA{R: 90, G: 90, B: 90, A: 255}
	}
	return color.Black
}

func drawRule(img *image.RGBA, x0, x1, y int) {
	for x := x0; x < x1; x++ {
		img.Set(x, y, color.RGBA{R: 160, G: 160, B: 160, A: 255})
	}
}
