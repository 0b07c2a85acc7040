package cube

import (
	"encoding/json"
	"fmt"
)

// Color is one of the six sticker colors of the standard scheme.
type Color uint8

const (
	White Color = iota
	Yellow
	Red
	Orange
	Blue
	Green
	colorCount = 6
)

// Letter returns the single-character label used in readings and logs.
func (c Color) Letter() string {
	switch c {
	case White:
		return "W"
	case Yellow:
		return "Y"
	case Red:
		return "R"
	case Orange:
		return "O"
	case Blue:
		return "B"
	case Green:
		return "G"
	}
	return "?"
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Yellow:
		return "yellow"
	case Red:
		return "red"
	case Orange:
		return "orange"
	case Blue:
		return "blue"
	case Green:
		return "green"
	}
	return "unknown"
}

// Face identifies one of the six cube faces. The numeric order fixes the
// sticker index layout: face f occupies indices [9*f, 9*f+9), row-major as
// seen from outside the cube (U viewed with B at the top, D viewed with F at
// the top, the four side faces viewed upright).
type Face uint8

const (
	FaceU Face = iota
	FaceR
	FaceF
	FaceD
	FaceL
	FaceB
	faceCount = 6
)

func (f Face) String() string {
	return [...]string{"U", "R", "F", "D", "L", "B"}[f]
}

// solvedColors maps each face to its center color in the canonical scheme:
// white up, red front, blue right (yellow down, orange back, green left).
var solvedColors = [faceCount]Color{
	FaceU: White,
	FaceR: Blue,
	FaceF: Red,
	FaceD: Yellow,
	FaceL: Green,
	FaceB: Orange,
}

// Cube is a full 54-sticker arrangement. It is a value type: Move application
// returns a new Cube and never mutates the receiver, so an instance is safe
// to treat as owned by whoever constructed it.
type Cube [54]Color

// Solved returns a cube with every face uniform in the canonical scheme.
func Solved() Cube {
	var c Cube
	for f := Face(0); f < faceCount; f++ {
		for i := 0; i < 9; i++ {
			c[int(f)*9+i] = solvedColors[f]
		}
	}
	return c
}

// Sticker returns the color at row r, column c of the given face.
func (c Cube) Sticker(f Face, row, col int) Color {
	return c[int(f)*9+row*3+col]
}

// FaceGrid returns the 9 stickers of a face in row-major order.
func (c Cube) FaceGrid(f Face) [9]Color {
	var g [9]Color
	copy(g[:], c[int(f)*9:int(f)*9+9])
	return g
}

// visibleCount is the number of stickers observable in a single photograph
// showing the Top, Front, and Right faces of a last-layer cube: the full top
// face plus the top row of each side face.
const visibleCount = 15

// Reading is the 15-sticker observation order used throughout: U face indices
// 0..8 row-major, then the F top row, then the R top row.
type Reading [visibleCount]Color

// VisibleStickers projects the 15 photograph-visible stickers out of a cube.
func (c Cube) VisibleStickers() Reading {
	var r Reading
	copy(r[0:9], c[int(FaceU)*9:int(FaceU)*9+9])
	copy(r[9:12], c[int(FaceF)*9:int(FaceF)*9+3])
	copy(r[12:15], c[int(FaceR)*9:int(FaceR)*9+3])
	return r
}

// String renders a reading as three dot-separated groups, e.g.
// "WWWWWWWWW.RRR.BBB" for the solved state.
func (r Reading) String() string {
	buf := make([]byte, 0, visibleCount+2)
	for i, c := range r {
		if i == 9 || i == 12 {
			buf = append(buf, '.')
		}
		buf = append(buf, c.Letter()[0])
	}
	return string(buf)
}

// ParseReading parses the string form produced by Reading.String. Dots are
// optional group separators; every other character must be one of the six
// color letters.
func ParseReading(s string) (Reading, error) {
	var r Reading
	n := 0
	for _, ch := range s {
		if ch == '.' {
			continue
		}
		c, ok := colorFromLetter(byte(ch))
		if !ok {
			return Reading{}, fmt.Errorf("invalid color letter %q in reading %q", ch, s)
		}
		if n >= visibleCount {
			return Reading{}, fmt.Errorf("reading %q has more than %d stickers", s, visibleCount)
		}
		r[n] = c
		n++
	}
	if n != visibleCount {
		return Reading{}, fmt.Errorf("reading %q has %d stickers, want %d", s, n, visibleCount)
	}
	return r, nil
}

func colorFromLetter(b byte) (Color, bool) {
	switch b {
	case 'W':
		return White, true
	case 'Y':
		return Yellow, true
	case 'R':
		return Red, true
	case 'O':
		return Orange, true
	case 'B':
		return Blue, true
	case 'G':
		return Green, true
	}
	return 0, false
}

// MarshalJSON encodes a reading as its compact string form.
func (r Reading) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes the compact string form.
func (r *Reading) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseReading(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ColorCounts tallies sticker colors across the whole cube. A physically
// valid cube has exactly 9 of each.
func (c Cube) ColorCounts() [colorCount]int {
	var counts [colorCount]int
	for _, s := range c {
		counts[s]++
	}
	return counts
}
