package cube

import (
	"image"
	"image/color"
)

// DetectedSticker ties one sticker contour to its grid slot, sampled color,
// and cluster-assigned label. Instances live for one detection run only.
type DetectedSticker struct {
	Face    FaceID
	Row     int
	Col     int
	Contour StickerContour
	Sample  LabColor
	Label   Color
}

// Detection is a successful vision run: all 27 classified stickers plus the
// 15-sticker reading the resolver consumes. Warning carries the
// ColorAmbiguous soft failure when clustering was suspect but a best-guess
// reading still exists.
type Detection struct {
	Stickers []DetectedSticker
	Reading  Reading
	Warning  *DetectionError
}

// sampleRadius is the half-width of the neighborhood averaged around each
// cell center. Doubled once on a degenerate read before giving up.
const sampleRadius = 3

// Detect runs the full vision pipeline on a photograph: preprocess,
// contour detection, grid assignment, perspective normalization, color
// sampling, and classification. Stage failures come back as a tagged
// DetectionError so the caller can tell an absent cube from a misread one.
//
// Detect is a pure function of its inputs and safe to call from any number
// of goroutines at once.
func Detect(img image.Image, filter ContourFilter) (*Detection, *DetectionError) {
	plane, w, h := intensityPlane(img)
	blurred := boxBlur(plane, w, h)

	threshold := otsuThreshold(blurred)
	mask := make([]bool, len(blurred))
	for i, v := range blurred {
		mask[i] = v > threshold
	}

	contours := FindStickerContours(mask, w, h, filter)
	grids, derr := AssignGrids(contours)
	if derr != nil {
		return nil, derr
	}

	stickers := make([]DetectedSticker, 0, visibleFaces*stickersPerFace)
	samples := make([]LabColor, 0, visibleFaces*stickersPerFace)
	for face := FaceID(0); face < visibleFaces; face++ {
		sampler, err := NewFaceSampler(grids[face].Outer)
		if err != nil {
			return nil, detectFailf(GridMisalignment, "%s face quad unusable: %v", face, err)
		}
		for row := 0; row < FaceGridSize; row++ {
			for col := 0; col < FaceGridSize; col++ {
				center := sampler.CellCenter(row, col)
				lab, derr := sampleCell(img, center, face, row, col)
				if derr != nil {
					return nil, derr
				}
				stickers = append(stickers, DetectedSticker{
					Face:    face,
					Row:     row,
					Col:     col,
					Contour: grids[face].Stickers[row*FaceGridSize+col],
					Sample:  lab,
				})
				samples = append(samples, lab)
			}
		}
	}

	labels, warn := ClassifyColors(samples)
	for i := range stickers {
		stickers[i].Label = labels[i]
	}

	det := &Detection{
		Stickers: stickers,
		Reading:  readingFromLabels(labels),
		Warning:  warn,
	}
	if warn != nil {
		r := det.Reading
		warn.Colors = &r
	}
	return det, nil
}

// readingFromLabels projects the 27 per-cell labels down to the 15
// semantically visible stickers: the whole top face plus the top row of the
// front and right faces.
func readingFromLabels(labels []Color) Reading {
	var r Reading
	copy(r[0:9], labels[0:9])
	copy(r[9:12], labels[int(FaceFront)*stickersPerFace:][:3])
	copy(r[12:15], labels[int(FaceRight)*stickersPerFace:][:3])
	return r
}

// sampleCell averages a small neighborhood at the cell center and converts
// it to Lab. A read that lands outside the image or on a saturated patch is
// retried once with a doubled radius before failing as SamplingDegenerate.
func sampleCell(img image.Image, center Point, face FaceID, row, col int) (LabColor, *DetectionError) {
	for _, radius := range []int{sampleRadius, sampleRadius * 2} {
		lab, ok := averageNeighborhood(img, center, radius)
		if ok {
			return lab, nil
		}
	}
	return LabColor{}, detectFailf(SamplingDegenerate,
		"%s face cell (%d,%d) at (%.0f,%.0f) is out of range or saturated",
		face, row, col, center.X, center.Y)
}

// averageNeighborhood reads the mean color of a (2r+1)^2 window clipped to
// the image bounds. It reports failure for windows entirely outside the
// image and for under- or over-exposed patches where every channel is pinned
// at an extreme.
func averageNeighborhood(img image.Image, center Point, radius int) (LabColor, bool) {
	bounds := img.Bounds()
	cx, cy := int(center.X), int(center.Y)

	var rSum, gSum, bSum, n uint64
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
				continue
			}
			r, g, b, _ := img.At(x, y).RGBA()
			rSum += uint64(r >> 8)
			gSum += uint64(g >> 8)
			bSum += uint64(b >> 8)
			n++
		}
	}
	if n == 0 {
		return LabColor{}, false
	}

	r8 := uint8(rSum / n)
	g8 := uint8(gSum / n)
	b8 := uint8(bSum / n)

	// A patch where every channel pins dark is a miss (cube body or
	// background); every channel pinned bright is blown out.
	if r8 < 3 && g8 < 3 && b8 < 3 {
		return LabColor{}, false
	}
	if r8 > 253 && g8 > 253 && b8 > 253 {
		return LabColor{}, false
	}
	return RGBToLab(r8, g8, b8), true
}

// intensityPlane reduces the image to a single channel: the maximum of the
// three sRGB components per pixel. Unlike luminance this keeps saturated
// sticker colors (pure blue most of all) far from the near-black cube body,
// which is the contrast the contour stage thresholds on.
func intensityPlane(img image.Image) ([]uint8, int, int) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	plane := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			v := r
			if g > v {
				v = g
			}
			if b > v {
				v = b
			}
			plane[y*w+x] = uint8(v >> 8)
		}
	}
	return plane, w, h
}

// boxBlur applies one 3x3 box filter pass: enough to suppress sensor noise
// without softening the black gaps between stickers that tracing relies on.
func boxBlur(plane []uint8, w, h int) []uint8 {
	out := make([]uint8, len(plane))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum, n int
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					sum += int(plane[ny*w+nx])
					n++
				}
			}
			out[y*w+x] = uint8(sum / n)
		}
	}
	return out
}

// otsuThreshold picks the binarization threshold maximizing between-class
// variance of the intensity histogram. Fully adaptive: bright daylight and
// dim indoor shots land on very different thresholds with no tuning.
func otsuThreshold(plane []uint8) uint8 {
	var hist [256]int
	for _, v := range plane {
		hist[v]++
	}
	total := len(plane)

	var sum float64
	for v, c := range hist {
		sum += float64(v) * float64(c)
	}

	var sumB, wB float64
	best, bestVar := uint8(0), -1.0
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > bestVar {
			bestVar = between
			best = uint8(t)
		}
	}
	return best
}

// nrgbaAt reads a pixel as non-premultiplied RGBA, used by the debug
// renderers to copy the source photograph.
func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	r, g, b, a := img.At(x, y).RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}
