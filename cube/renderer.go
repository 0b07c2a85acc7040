package cube

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// AnnotationRenderer draws the detection result on top of the source
// photograph: sticker outlines, sample points, classified letters, and a
// reading legend. The output is the main debugging artifact when a
// detection looks wrong.
type AnnotationRenderer struct {
	Source    image.Image
	Detection *Detection
}

// NewAnnotationRenderer creates a renderer for one detection.
func NewAnnotationRenderer(src image.Image, det *Detection) *AnnotationRenderer {
	return &AnnotationRenderer{Source: src, Detection: det}
}

var (
	outlineColor = color.RGBA{255, 255, 255, 255}
	cornerColor  = color.RGBA{255, 0, 255, 255}
	centerColor  = color.RGBA{0, 255, 255, 255}
	legendText   = color.RGBA{255, 255, 255, 255}
	legendShadow = color.RGBA{0, 0, 0, 255}
)

// Render copies the source photograph and draws the overlay.
func (r *AnnotationRenderer) Render() *image.RGBA {
	bounds := r.Source.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			img.Set(x, y, nrgbaAt(r.Source, bounds.Min.X+x, bounds.Min.Y+y))
		}
	}

	if r.Detection == nil {
		drawShadowedText(img, 10, 15, "no detection", legendText)
		return img
	}

	for _, s := range r.Detection.Stickers {
		drawQuadOutline(img, s.Contour.Corners, outlineColor)
		for _, c := range s.Contour.Corners {
			drawDot(img, int(c.X), int(c.Y), 2, cornerColor)
		}
		drawDot(img, int(s.Contour.Center.X), int(s.Contour.Center.Y), 2, centerColor)

		// Letter in the canonical color, offset so the center dot stays visible.
		lc := CanonicalRGB(s.Label)
		drawShadowedText(img, int(s.Contour.Center.X)+5, int(s.Contour.Center.Y)+5,
			s.Label.Letter(), color.RGBA{lc.R, lc.G, lc.B, 255})
	}

	r.drawLegend(img)
	return img
}

// SavePNG renders the overlay and writes it to a file.
func (r *AnnotationRenderer) SavePNG(path string) error {
	img := r.Render()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding annotated PNG: %w", err)
	}
	return nil
}

// drawLegend prints the resolved reading and any warning in the top-left
// corner.
func (r *AnnotationRenderer) drawLegend(img *image.RGBA) {
	y := 15
	drawShadowedText(img, 10, y, "reading: "+r.Detection.Reading.String(), legendText)
	if r.Detection.Warning != nil {
		y += 15
		drawShadowedText(img, 10, y, "warning: "+r.Detection.Warning.Detail, legendText)
	}
}

// drawQuadOutline draws the four edges of a quadrilateral.
func drawQuadOutline(img *image.RGBA, q Quad, c color.RGBA) {
	for i := 0; i < 4; i++ {
		a, b := q[i], q[(i+1)%4]
		drawLine(img, int(a.X), int(a.Y), int(b.X), int(b.Y), c)
	}
}

// drawLine draws a line segment with Bresenham stepping.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		setIfInBounds(img, x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawDot draws a filled circle.
func drawDot(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				setIfInBounds(img, cx+dx, cy+dy, c)
			}
		}
	}
}

func setIfInBounds(img *image.RGBA, x, y int, c color.RGBA) {
	if x >= 0 && x < img.Bounds().Max.X && y >= 0 && y < img.Bounds().Max.Y {
		img.Set(x, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// drawShadowedText renders text with a one-pixel dark shadow so it stays
// legible over both bright and dark stickers.
func drawShadowedText(img *image.RGBA, x, y int, text string, c color.RGBA) {
	drawText(img, x+1, y+1, text, legendShadow)
	drawText(img, x, y, text, c)
}

// drawText renders text onto an image at the specified position
func drawText(img *image.RGBA, x, y int, text string, c color.RGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
