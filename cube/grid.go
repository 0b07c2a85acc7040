package cube

import "sort"

// FaceID names one of the three photograph-visible faces in the fixed
// composition: Top above the Y seam, Front lower-left, Right lower-right.
type FaceID int

const (
	FaceTop FaceID = iota
	FaceFront
	FaceRight
	visibleFaces = 3
)

func (f FaceID) String() string {
	return [...]string{"top", "front", "right"}[f]
}

// FaceGridSize is the sticker grid edge of one face.
const FaceGridSize = 3

// stickersPerFace is the contour count each visible face must contribute.
const stickersPerFace = FaceGridSize * FaceGridSize

// FaceGridAssignment holds, for one visible face, its nine sticker contours
// in row-major reading order and the outer quadrilateral enclosing them.
type FaceGridAssignment struct {
	Face     FaceID
	Stickers [stickersPerFace]StickerContour
	Outer    Quad
}

// AssignGrids partitions 27 surviving sticker contours into the three 3x3
// face grids of the fixed composition. The three faces meet at a Y-shaped
// seam whose junction sits near the centroid of all sticker centers: Top is
// everything above it, Front and Right split the lower half at the seam's
// vertical leg.
//
// A contour count other than 27 means the cube outline was never coherently
// established and is reported as OutlineNotFound; a count that cannot be
// split 9/9/9, or a face whose stickers do not form three distinct rows, is
// GridMisalignment.
func AssignGrids(stickers []StickerContour) ([visibleFaces]FaceGridAssignment, *DetectionError) {
	var out [visibleFaces]FaceGridAssignment

	if len(stickers) != visibleFaces*stickersPerFace {
		return out, detectFailf(OutlineNotFound,
			"found %d sticker contours, need %d", len(stickers), visibleFaces*stickersPerFace)
	}

	centers := make([]Point, len(stickers))
	for i, s := range stickers {
		centers[i] = s.Center
	}
	seam := Centroid(centers)

	var groups [visibleFaces][]StickerContour
	for _, s := range stickers {
		switch {
		case s.Center.Y < seam.Y:
			groups[FaceTop] = append(groups[FaceTop], s)
		case s.Center.X < seam.X:
			groups[FaceFront] = append(groups[FaceFront], s)
		default:
			groups[FaceRight] = append(groups[FaceRight], s)
		}
	}

	for face := FaceID(0); face < visibleFaces; face++ {
		group := groups[face]
		if len(group) != stickersPerFace {
			return out, detectFailf(GridMisalignment,
				"%s face has %d stickers at the seam split, need %d", face, len(group), stickersPerFace)
		}
		assignment, derr := orderFaceGrid(face, group)
		if derr != nil {
			return out, derr
		}
		out[face] = assignment
	}
	return out, nil
}

// orderFaceGrid sorts one face's nine stickers into row-major reading order
// and derives the face's outer quad from the extreme sticker corners.
func orderFaceGrid(face FaceID, group []StickerContour) (FaceGridAssignment, *DetectionError) {
	sorted := make([]StickerContour, len(group))
	copy(sorted, group)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Center.Y < sorted[j].Center.Y })

	var a FaceGridAssignment
	a.Face = face

	// Rows are y-bands of three. The composition keeps rows visually
	// distinct; overlapping bands mean the grid points are not centered on
	// true stickers.
	for row := 0; row < FaceGridSize; row++ {
		band := sorted[row*FaceGridSize : (row+1)*FaceGridSize]
		if row+1 < FaceGridSize {
			below := sorted[(row+1)*FaceGridSize]
			if band[FaceGridSize-1].Center.Y >= below.Center.Y {
				return a, detectFailf(GridMisalignment,
					"%s face rows overlap vertically", face)
			}
		}
		rowCopy := make([]StickerContour, FaceGridSize)
		copy(rowCopy, band)
		sort.Slice(rowCopy, func(i, j int) bool { return rowCopy[i].Center.X < rowCopy[j].Center.X })
		for col := 0; col < FaceGridSize; col++ {
			a.Stickers[row*FaceGridSize+col] = rowCopy[col]
		}
	}

	a.Outer = outerQuad(a.Stickers[:])
	return a, nil
}

// outerQuad finds the quadrilateral enclosing a face from the extreme
// corner points of its nine stickers.
func outerQuad(stickers []StickerContour) Quad {
	var pts Path
	for _, s := range stickers {
		pts = append(pts, s.Corners[:]...)
	}
	return orderQuad(pts)
}
