package cube

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// DecodeImage decodes an encoded photograph buffer. PNG and JPEG are the two
// formats cameras and upload paths hand us; anything else is rejected up
// front with a format hint rather than a bare decoder error.
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	if !IsPNG(data) && !IsJPEG(data) {
		return nil, fmt.Errorf("unknown image format: not PNG or JPEG")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// IsPNG checks if data starts with PNG magic bytes
func IsPNG(data []byte) bool {
	if len(data) < 8 {
		return false
	}
	// PNG magic bytes: 0x89 'P' 'N' 'G' '\r' '\n' 0x1a '\n'
	return data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G'
}

// IsJPEG checks if data starts with the JPEG SOI marker
func IsJPEG(data []byte) bool {
	return len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF
}

// DecodeImageFile reads and decodes a photograph from disk.
// This is a convenience function for the CLI and for tests.
func DecodeImageFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return DecodeImage(data)
}
