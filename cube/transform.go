package cube

import (
	"fmt"
	"math"
)

// Point is a 2D image-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance calculates Euclidean distance between two points
func Distance(p1, p2 Point) float64 {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Centroid calculates the center of mass of a set of points
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}
	n := float64(len(points))
	return Point{X: sumX / n, Y: sumY / n}
}

// Quad is an ordered quadrilateral: top-left, top-right, bottom-right,
// bottom-left in image space.
type Quad [4]Point

// Homography is a 3x3 projective transform in row-major order with the
// bottom-right element normalized to 1. It maps a plane to a plane, which is
// exactly the relationship between a face of the cube and its appearance in
// the photograph.
type Homography [9]float64

// HomographyFromQuad computes the projective transform mapping the four
// source points onto the four destination points (direct linear transform,
// eight unknowns). Degenerate input (three collinear corners) makes the
// system singular and is reported as an error.
func HomographyFromQuad(src, dst Quad) (Homography, error) {
	// Build the 8x9 augmented system. For each correspondence (x,y)->(u,v):
	//   u = (h0 x + h1 y + h2) / (h6 x + h7 y + 1)
	//   v = (h3 x + h4 y + h5) / (h6 x + h7 y + 1)
	var m [8][9]float64
	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y
		m[2*i] = [9]float64{x, y, 1, 0, 0, 0, -u * x, -u * y, u}
		m[2*i+1] = [9]float64{0, 0, 0, x, y, 1, -v * x, -v * y, v}
	}

	// Gaussian elimination with partial pivoting.
	for col := 0; col < 8; col++ {
		pivot := col
		for row := col + 1; row < 8; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return Homography{}, fmt.Errorf("degenerate quad: singular system at column %d", col)
		}
		m[col], m[pivot] = m[pivot], m[col]

		inv := 1.0 / m[col][col]
		for k := col; k < 9; k++ {
			m[col][k] *= inv
		}
		for row := 0; row < 8; row++ {
			if row == col {
				continue
			}
			f := m[row][col]
			if f == 0 {
				continue
			}
			for k := col; k < 9; k++ {
				m[row][k] -= f * m[col][k]
			}
		}
	}

	var h Homography
	for i := 0; i < 8; i++ {
		h[i] = m[i][8]
	}
	h[8] = 1
	return h, nil
}

// Apply maps a point through the homography.
func (h Homography) Apply(p Point) Point {
	w := h[6]*p.X + h[7]*p.Y + h[8]
	if w == 0 {
		return Point{}
	}
	return Point{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / w,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / w,
	}
}

// unitSquare is the canonical source quad for face normalization: each face
// is warped from this square onto its photographed quadrilateral, so cell
// centers are sampled at deterministic fractions regardless of camera angle.
var unitSquare = Quad{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// FaceSampler maps canonical face coordinates (0..1 in both axes, origin at
// the top-left sticker) into image space for one detected face.
type FaceSampler struct {
	h Homography
}

// NewFaceSampler builds the sampler for a face quadrilateral.
func NewFaceSampler(faceQuad Quad) (FaceSampler, error) {
	h, err := HomographyFromQuad(unitSquare, faceQuad)
	if err != nil {
		return FaceSampler{}, err
	}
	return FaceSampler{h: h}, nil
}

// CellCenter returns the image position of the geometric center of grid cell
// (row, col) on the normalized 3x3 face.
func (s FaceSampler) CellCenter(row, col int) Point {
	return s.h.Apply(Point{
		X: (float64(col) + 0.5) / 3.0,
		Y: (float64(row) + 0.5) / 3.0,
	})
}
