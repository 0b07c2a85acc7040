package cube

import (
	"image/color"
	"math"
)

// LabColor is a CIE L*a*b* color under the D65 illuminant. Distances in this
// space track perceived difference far better than raw sensor RGB, which is
// what makes per-photograph clustering workable across lighting conditions.
type LabColor struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// DistanceTo returns the Euclidean distance between two Lab colors.
func (c LabColor) DistanceTo(o LabColor) float64 {
	dl := c.L - o.L
	da := c.A - o.A
	db := c.B - o.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// RGBToLab converts 8-bit sRGB components to Lab (D65).
func RGBToLab(r, g, b uint8) LabColor {
	// sRGB -> linear RGB
	lin := func(c uint8) float64 {
		v := float64(c) / 255.0
		if v <= 0.04045 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	rl, gl, bl := lin(r), lin(g), lin(b)

	// linear RGB -> XYZ (sRGB primaries, D65 white)
	x := 0.4124564*rl + 0.3575761*gl + 0.1804375*bl
	y := 0.2126729*rl + 0.7151522*gl + 0.0721750*bl
	z := 0.0193339*rl + 0.1191920*gl + 0.9503041*bl

	// XYZ -> Lab, normalized to the D65 reference white
	const xn, yn, zn = 0.95047, 1.0, 1.08883
	f := func(t float64) float64 {
		const delta = 6.0 / 29.0
		if t > delta*delta*delta {
			return math.Cbrt(t)
		}
		return t/(3*delta*delta) + 4.0/29.0
	}
	fx, fy, fz := f(x/xn), f(y/yn), f(z/zn)

	return LabColor{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

// NRGBAToLab converts a premultiplication-free color to Lab.
func NRGBAToLab(c color.NRGBA) LabColor {
	return RGBToLab(c.R, c.G, c.B)
}

// canonicalRGB holds the reference sticker colors of the standard scheme,
// indexed by Color. Lab references are derived from these at init so the two
// representations can never drift apart.
var canonicalRGB = [colorCount]color.NRGBA{
	White:  {R: 255, G: 255, B: 255, A: 255},
	Yellow: {R: 255, G: 213, B: 0, A: 255},
	Red:    {R: 196, G: 30, B: 58, A: 255},
	Orange: {R: 255, G: 88, B: 0, A: 255},
	Blue:   {R: 0, G: 81, B: 186, A: 255},
	Green:  {R: 0, G: 158, B: 96, A: 255},
}

var canonicalLab = func() [colorCount]LabColor {
	var labs [colorCount]LabColor
	for c := Color(0); c < colorCount; c++ {
		labs[c] = NRGBAToLab(canonicalRGB[c])
	}
	return labs
}()

// CanonicalRGB returns the display color for a sticker label, used by the
// debug renderers.
func CanonicalRGB(c Color) color.NRGBA {
	return canonicalRGB[c]
}

// CanonicalLab returns the Lab reference for a sticker label.
func CanonicalLab(c Color) LabColor {
	return canonicalLab[c]
}
