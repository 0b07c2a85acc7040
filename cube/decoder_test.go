package cube

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeImagePNG(t *testing.T) {
	data := encodePNG(t, image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if !IsPNG(data) {
		t.Error("encoded PNG not recognized")
	}
	if IsJPEG(data) {
		t.Error("PNG misidentified as JPEG")
	}

	img, err := DecodeImage(data)
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Errorf("decoded bounds = %v", b)
	}
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	if _, err := DecodeImage(nil); err == nil {
		t.Error("empty payload accepted")
	}
	if _, err := DecodeImage([]byte("not an image at all")); err == nil {
		t.Error("text payload accepted")
	}
	// Valid magic but truncated body.
	if _, err := DecodeImage([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0}); err == nil {
		t.Error("truncated PNG accepted")
	}
}

func TestImageMagicDetection(t *testing.T) {
	if IsPNG([]byte{0x89, 'P'}) {
		t.Error("short buffer reported as PNG")
	}
	if !IsJPEG([]byte{0xFF, 0xD8, 0xFF, 0xE0}) {
		t.Error("JPEG SOI not recognized")
	}
	if IsJPEG([]byte{0xFF, 0xD8}) {
		t.Error("two-byte buffer reported as JPEG")
	}
}
