package cube

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testDetection(t *testing.T) (image.Image, *Detection) {
	t.Helper()
	photo := renderCubePhoto(Solved())
	det, derr := Detect(photo, DefaultContourFilter())
	if derr != nil {
		t.Fatalf("Detect: %v", derr)
	}
	return photo, det
}

func TestAnnotationRender(t *testing.T) {
	photo, det := testDetection(t)

	out := NewAnnotationRenderer(photo, det).Render()
	if out.Bounds() != photo.Bounds() {
		t.Errorf("annotated bounds %v differ from source %v", out.Bounds(), photo.Bounds())
	}

	// The overlay must actually change pixels: sticker outlines are drawn
	// in white over the black gaps.
	changed := false
	for y := 0; y < out.Bounds().Dy() && !changed; y++ {
		for x := 0; x < out.Bounds().Dx(); x++ {
			if out.RGBAAt(x, y) != photo.(*image.RGBA).RGBAAt(x, y) {
				changed = true
				break
			}
		}
	}
	if !changed {
		t.Error("overlay drew nothing")
	}
}

func TestAnnotationRenderNilDetection(t *testing.T) {
	photo := renderCubePhoto(Solved())
	out := NewAnnotationRenderer(photo, nil).Render()
	if out.Bounds() != photo.Bounds() {
		t.Errorf("bounds = %v", out.Bounds())
	}
}

func TestAnnotationSavePNG(t *testing.T) {
	photo, det := testDetection(t)
	path := filepath.Join(t.TempDir(), "annotated.png")

	if err := NewAnnotationRenderer(photo, det).SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !IsPNG(data) {
		t.Error("output is not a PNG")
	}
}

func TestVectorRenderToSVG(t *testing.T) {
	photo, det := testDetection(t)
	bounds := photo.Bounds()

	var buf bytes.Buffer
	vr := NewVectorRenderer(det, bounds.Dx(), bounds.Dy())
	if err := vr.RenderToSVG(&buf); err != nil {
		t.Fatalf("RenderToSVG: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "<svg") {
		t.Error("output carries no svg element")
	}
	if !strings.Contains(out, "path") {
		t.Error("output carries no paths")
	}
}

func TestVectorRenderToPNG(t *testing.T) {
	photo, det := testDetection(t)
	bounds := photo.Bounds()

	var buf bytes.Buffer
	vr := NewVectorRenderer(det, bounds.Dx(), bounds.Dy())
	if err := vr.RenderToPNG(&buf); err != nil {
		t.Fatalf("RenderToPNG: %v", err)
	}
	if !IsPNG(buf.Bytes()) {
		t.Error("output is not a PNG")
	}
}

func TestNRGBAToRGBA(t *testing.T) {
	tests := []struct {
		name string
		in   color.NRGBA
		want color.RGBA
	}{
		{"opaque", color.NRGBA{200, 100, 50, 255}, color.RGBA{200, 100, 50, 255}},
		{"transparent", color.NRGBA{200, 100, 50, 0}, color.RGBA{0, 0, 0, 0}},
		{"half", color.NRGBA{200, 100, 50, 128}, color.RGBA{100, 50, 25, 128}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nrgbaToRGBA(tt.in); got != tt.want {
				t.Errorf("nrgbaToRGBA(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
