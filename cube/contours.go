package cube

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Path represents a sequential list of points
type Path []Point

// VisitKey uniquely identifies an edge visit during boundary tracing
type VisitKey struct {
	Idx int
	Dir int
}

// StickerContour is one surviving sticker candidate: its traced outline,
// the simplified corner quad, and derived geometry used by the grid stage.
type StickerContour struct {
	Outline Path
	Corners Quad
	Center  Point
	Area    float64
}

// ContourFilter bounds what counts as a sticker-shaped contour. Area limits
// are caller-configurable (pixel units); the aspect limit is fixed since
// stickers are square and even steep perspective keeps opposite sides of the
// projected quad within a modest ratio.
type ContourFilter struct {
	MinArea     float64
	MaxArea     float64
	AspectLimit float64
}

// DefaultContourFilter assumes the cube fills most of the frame: on a
// ~1000px-wide photograph each sticker spans very roughly 1/10 of the width.
func DefaultContourFilter() ContourFilter {
	return ContourFilter{
		MinArea:     150,
		MaxArea:     100000,
		AspectLimit: 1.8,
	}
}

// FindStickerContours locates sticker-shaped contours in a binary mask:
// trace every region boundary, simplify each to a polygon, and keep only
// convex quadrilaterals whose area and aspect pass the filter.
func FindStickerContours(mask []bool, width, height int, filter ContourFilter) []StickerContour {
	var stickers []StickerContour
	for _, contour := range traceContours(mask, width, height) {
		sc, ok := contourToSticker(contour, filter)
		if !ok {
			continue
		}
		stickers = append(stickers, sc)
	}
	return stickers
}

// contourToSticker reduces one traced boundary to a corner quad and applies
// the sticker shape tests.
func contourToSticker(contour Path, filter ContourFilter) (StickerContour, bool) {
	if len(contour) < 4 {
		return StickerContour{}, false
	}

	ring := pathToRing(contour)
	area := math.Abs(planar.Area(ring))
	if area < filter.MinArea || area > filter.MaxArea {
		return StickerContour{}, false
	}

	// Simplify to a polygon; epsilon scales with sticker size so the same
	// settings work across resolutions.
	epsilon := 0.03 * math.Sqrt(area)
	simplified := SimplifyRDP(contour, epsilon)
	simplified = dropClosingPoint(simplified)
	if len(simplified) < 4 {
		return StickerContour{}, false
	}
	corners := reduceToQuad(simplified)

	if !isConvex(corners) {
		return StickerContour{}, false
	}
	if ratio := sideRatio(corners); ratio > filter.AspectLimit {
		return StickerContour{}, false
	}

	centroid, _ := planar.CentroidArea(ring)
	return StickerContour{
		Outline: contour,
		Corners: corners,
		Center:  Point{X: centroid[0], Y: centroid[1]},
		Area:    area,
	}, true
}

func pathToRing(p Path) orb.Ring {
	ring := make(orb.Ring, 0, len(p)+1)
	for _, pt := range p {
		ring = append(ring, orb.Point{pt.X, pt.Y})
	}
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return ring
}

func dropClosingPoint(p Path) Path {
	if len(p) > 1 && p[0] == p[len(p)-1] {
		return p[:len(p)-1]
	}
	return p
}

// reduceToQuad collapses a simplified polygon to its four dominant corners
// by repeatedly removing the vertex contributing the smallest triangle area,
// the same criterion RDP uses but driven down to an exact vertex count.
func reduceToQuad(poly Path) Quad {
	pts := make(Path, len(poly))
	copy(pts, poly)

	for len(pts) > 4 {
		worst := 0
		worstArea := math.MaxFloat64
		for i := range pts {
			prev := pts[(i-1+len(pts))%len(pts)]
			next := pts[(i+1)%len(pts)]
			a := triangleArea(prev, pts[i], next)
			if a < worstArea {
				worstArea = a
				worst = i
			}
		}
		pts = append(pts[:worst], pts[worst+1:]...)
	}

	return orderQuad(pts)
}

func triangleArea(a, b, c Point) float64 {
	return 0.5 * math.Abs((b.X-a.X)*(c.Y-a.Y)-(c.X-a.X)*(b.Y-a.Y))
}

// orderQuad arranges four points as top-left, top-right, bottom-right,
// bottom-left. The photograph composition keeps sticker rows roughly
// horizontal, so the extreme-sum/difference assignment is unambiguous.
func orderQuad(pts Path) Quad {
	var q Quad
	tl, tr, br, bl := 0, 0, 0, 0
	for i, p := range pts {
		if p.X+p.Y < pts[tl].X+pts[tl].Y {
			tl = i
		}
		if p.X-p.Y > pts[tr].X-pts[tr].Y {
			tr = i
		}
		if p.X+p.Y > pts[br].X+pts[br].Y {
			br = i
		}
		if p.X-p.Y < pts[bl].X-pts[bl].Y {
			bl = i
		}
	}
	q[0], q[1], q[2], q[3] = pts[tl], pts[tr], pts[br], pts[bl]
	return q
}

// isConvex checks that walking the quad turns consistently in one direction.
func isConvex(q Quad) bool {
	sign := 0
	for i := 0; i < 4; i++ {
		a, b, c := q[i], q[(i+1)%4], q[(i+2)%4]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		if cross == 0 {
			return false
		}
		s := 1
		if cross < 0 {
			s = -1
		}
		if sign == 0 {
			sign = s
		} else if s != sign {
			return false
		}
	}
	return true
}

// sideRatio returns longest side / shortest side of the quad.
func sideRatio(q Quad) float64 {
	minSide, maxSide := math.MaxFloat64, 0.0
	for i := 0; i < 4; i++ {
		d := Distance(q[i], q[(i+1)%4])
		if d < minSide {
			minSide = d
		}
		if d > maxSide {
			maxSide = d
		}
	}
	if minSide == 0 {
		return math.MaxFloat64
	}
	return maxSide / minSide
}

// traceContours walks region boundaries in a binary mask using
// Moore-Neighbor tracing with the right-hand rule. Interior pixels are never
// visited, so cost scales with boundary length rather than region area. Every
// pixel of a traced boundary is marked visited, so each region yields exactly
// one contour regardless of how many of its pixels qualify as start points.
func traceContours(mask []bool, width, height int) []Path {
	var paths []Path
	visited := make([]bool, width*height)

	idx := func(x, y int) int { return y*width + x }
	isSet := func(x, y int) bool {
		if x < 0 || x >= width || y < 0 || y >= height {
			return false
		}
		return mask[idx(x, y)]
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !isSet(x, y) || visited[idx(x, y)] {
				continue
			}

			// Initial facing points away from the first empty cardinal
			// neighbor. Interior pixels have none and never start a trace.
			// Direction encoding: 0=N, 1=E, 2=S, 3=W.
			facing := -1
			switch {
			case !isSet(x-1, y):
				facing = 3
			case !isSet(x+1, y):
				facing = 1
			case !isSet(x, y-1):
				facing = 0
			case !isSet(x, y+1):
				facing = 2
			}
			if facing < 0 {
				continue
			}

			path := traceBoundary(x, y, facing, mask, width, height)
			for _, p := range path {
				visited[idx(int(p.X), int(p.Y))] = true
			}
			if len(path) > 2 {
				paths = append(paths, path)
			}
		}
	}
	return paths
}

// traceBoundary follows the edge using Moore-Neighbor tracing with right-hand rule
// startFacing: direction we're initially FACING (0=N, 1=E, 2=S, 3=W)
func traceBoundary(startX, startY, startFacing int, mask []bool, width, height int) Path {
	seen := make(map[VisitKey]bool)
	var path Path

	curX, curY := startX, startY
	facing := startFacing

	isSet := func(x, y int) bool {
		if x < 0 || x >= width || y < 0 || y >= height {
			return false
		}
		return mask[y*width+x]
	}

	// Direction vectors: N, E, S, W
	dirs := []struct{ dx, dy int }{
		{0, -1}, // 0: North
		{1, 0},  // 1: East
		{0, 1},  // 2: South
		{-1, 0}, // 3: West
	}

	for {
		key := VisitKey{Idx: curY*width + curX, Dir: facing}

		if seen[key] {
			// Returned to the start state - close the loop
			if curX == startX && curY == startY && len(path) > 0 {
				path = append(path, Point{X: float64(curX), Y: float64(curY)})
			}
			break
		}

		seen[key] = true
		path = append(path, Point{X: float64(curX), Y: float64(curY)})

		// Right-hand rule: turn right and scan clockwise until we find a
		// set pixel.
		startScan := (facing - 1 + 4) % 4
		found := false

		for i := 0; i < 4; i++ {
			scanDir := (startScan + i) % 4
			nx, ny := curX+dirs[scanDir].dx, curY+dirs[scanDir].dy

			if isSet(nx, ny) {
				curX, curY = nx, ny
				facing = scanDir
				found = true
				break
			}
		}

		if !found {
			// Isolated pixel or dead end
			break
		}

		// Safety break for infinite loops
		if len(path) > 100000 {
			break
		}
	}

	return path
}

// SimplifyRDP reduces points using Ramer-Douglas-Peucker algorithm
func SimplifyRDP(points Path, epsilon float64) Path {
	if len(points) < 3 {
		return points
	}

	dmax := 0.0
	index := 0
	end := len(points) - 1

	for i := 1; i < end; i++ {
		d := perpendicularDistance(points[i], points[0], points[end])
		if d > dmax {
			dmax = d
			index = i
		}
	}

	if dmax > epsilon {
		recResults1 := SimplifyRDP(points[:index+1], epsilon)
		recResults2 := SimplifyRDP(points[index:], epsilon)
		return append(recResults1[:len(recResults1)-1], recResults2...)
	}
	return Path{points[0], points[end]}
}

func perpendicularDistance(pt, lineStart, lineEnd Point) float64 {
	dx := lineEnd.X - lineStart.X
	dy := lineEnd.Y - lineStart.Y

	mag := math.Hypot(dx, dy)

	if mag > 0.0 {
		dx /= mag
		dy /= mag

		pdx := pt.X - lineStart.X
		pdy := pt.Y - lineStart.Y

		return math.Abs(dy*pdx - dx*pdy)
	}
	// Line is a point; return distance to point
	return math.Hypot(pt.X-lineStart.X, pt.Y-lineStart.Y)
}
