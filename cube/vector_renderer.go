package cube

import (
	"image/color"
	"image/png"
	"io"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
)

// nrgbaToRGBA converts color.NRGBA to color.RGBA by premultiplying alpha
// This is needed for the canvas library which expects premultiplied RGBA
func nrgbaToRGBA(c color.NRGBA) color.RGBA {
	if c.A == 0 {
		return color.RGBA{0, 0, 0, 0}
	}
	if c.A == 255 {
		return color.RGBA{c.R, c.G, c.B, 255}
	}
	alpha32 := uint32(c.A)
	return color.RGBA{
		R: uint8((uint32(c.R) * alpha32) / 255),
		G: uint8((uint32(c.G) * alpha32) / 255),
		B: uint8((uint32(c.B) * alpha32) / 255),
		A: c.A,
	}
}

// VectorRenderer draws a detection as a clean vector diagram: every sticker
// quad filled with its classified canonical color over a dark background,
// face boundaries stroked on top. Unlike the raster overlay it contains no
// photograph pixels, which makes mis-classified stickers jump out.
type VectorRenderer struct {
	Detection  *Detection
	Width      float64
	Height     float64
	Resolution canvas.Resolution
}

// NewVectorRenderer creates a renderer sized to the source photograph.
func NewVectorRenderer(det *Detection, width, height int) *VectorRenderer {
	return &VectorRenderer{
		Detection:  det,
		Width:      float64(width),
		Height:     float64(height),
		Resolution: canvas.DPI(96),
	}
}

// canvasRenderer is an interface that both svg and rasterizer renderers implement
type canvasRenderer interface {
	RenderPath(path *canvas.Path, style canvas.Style, m canvas.Matrix)
}

// RenderToSVG writes the diagram as an SVG to the provided writer
func (r *VectorRenderer) RenderToSVG(w io.Writer) error {
	svgRenderer := svg.New(w, r.Width, r.Height, nil)
	r.renderToCanvas(svgRenderer)
	return svgRenderer.Close()
}

// RenderToPNG writes the diagram as a PNG to the provided writer
func (r *VectorRenderer) RenderToPNG(w io.Writer) error {
	rast := rasterizer.New(r.Width, r.Height, r.Resolution, canvas.DefaultColorSpace)
	r.renderToCanvas(rast)
	return png.Encode(w, rast)
}

// renderToCanvas renders the diagram to a canvas renderer (shared logic for
// SVG and PNG). The canvas y axis points up while image coordinates point
// down, so every point is flipped through toCanvas.
func (r *VectorRenderer) renderToCanvas(renderer canvasRenderer) {
	bgStyle := canvas.DefaultStyle
	bgStyle.Fill = canvas.Paint{Color: color.RGBA{30, 30, 30, 255}}
	renderer.RenderPath(canvas.Rectangle(r.Width, r.Height), bgStyle, canvas.Identity)

	if r.Detection == nil {
		return
	}

	toCanvas := func(p Point) (float64, float64) {
		return p.X, r.Height - p.Y
	}

	stickerStyle := canvas.DefaultStyle
	stickerStyle.Stroke = canvas.Paint{Color: canvas.Black}
	stickerStyle.StrokeWidth = 2.0

	for _, s := range r.Detection.Stickers {
		stickerStyle.Fill = canvas.Paint{Color: nrgbaToRGBA(CanonicalRGB(s.Label))}

		cp := &canvas.Path{}
		for i, pt := range s.Contour.Corners {
			cx, cy := toCanvas(pt)
			if i == 0 {
				cp.MoveTo(cx, cy)
			} else {
				cp.LineTo(cx, cy)
			}
		}
		cp.Close()
		renderer.RenderPath(cp, stickerStyle, canvas.Identity)

		dotStyle := canvas.DefaultStyle
		dotStyle.Fill = canvas.Paint{Color: canvas.White}
		dotStyle.Stroke = canvas.Paint{Color: canvas.Transparent}
		cx, cy := toCanvas(s.Contour.Center)
		dot := canvas.Circle(2.0).Translate(cx, cy)
		renderer.RenderPath(dot, dotStyle, canvas.Identity)
	}

	r.renderFaceBorders(renderer, toCanvas)
}

// renderFaceBorders strokes the outer quad of each visible face so the three
// grids read as separate faces in the diagram.
func (r *VectorRenderer) renderFaceBorders(renderer canvasRenderer, toCanvas func(Point) (float64, float64)) {
	borderStyle := canvas.DefaultStyle
	borderStyle.Fill = canvas.Paint{Color: canvas.Transparent}
	borderStyle.Stroke = canvas.Paint{Color: canvas.White}
	borderStyle.StrokeWidth = 3.0

	for face := FaceID(0); face < visibleFaces; face++ {
		quad, ok := r.faceOuterQuad(face)
		if !ok {
			continue
		}
		cp := &canvas.Path{}
		for i, pt := range quad {
			cx, cy := toCanvas(pt)
			if i == 0 {
				cp.MoveTo(cx, cy)
			} else {
				cp.LineTo(cx, cy)
			}
		}
		cp.Close()
		renderer.RenderPath(cp, borderStyle, canvas.Identity)
	}
}

// faceOuterQuad recomputes a face's enclosing quad from the detection's
// sticker corners.
func (r *VectorRenderer) faceOuterQuad(face FaceID) (Quad, bool) {
	var contours []StickerContour
	for _, s := range r.Detection.Stickers {
		if s.Face == face {
			contours = append(contours, s.Contour)
		}
	}
	if len(contours) == 0 {
		return Quad{}, false
	}
	return outerQuad(contours), true
}
