package cube

import (
	"fmt"
	"strings"
)

// Move is a named, immutable cube operation: a face turn, a wide turn, or a
// whole-cube rotation, with optional prime (') or double (2) modifier.
// Applying a move is a single array gather through a precomputed 54-entry
// index permutation, so repeated application during table generation carries
// no geometric recomputation cost.
type Move struct {
	name string
	perm *[54]int
}

// Name returns the move in standard notation (e.g. "R", "U'", "f2", "y").
func (m Move) Name() string { return m.name }

// ParseError reports an unrecognized move token. The algorithm database is
// validated once at load time, so this never surfaces during generation or
// resolution.
type ParseError struct {
	Token string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unrecognized move token %q", e.Token)
}

// vec is an integer 3-vector used only for permutation table construction.
// Sticker positions live on the cube surface with components in {-1,0,1};
// outward normals are unit axis vectors.
type vec struct{ x, y, z int }

// rotFunc rotates a vector 90 degrees about one axis. Each named rotation is
// the clockwise quarter turn as seen from outside the face it is named after.
type rotFunc func(vec) vec

var (
	rotU rotFunc = func(v vec) vec { return vec{-v.z, v.y, v.x} }
	rotD rotFunc = func(v vec) vec { return vec{v.z, v.y, -v.x} }
	rotR rotFunc = func(v vec) vec { return vec{v.x, v.z, -v.y} }
	rotL rotFunc = func(v vec) vec { return vec{v.x, -v.z, v.y} }
	rotF rotFunc = func(v vec) vec { return vec{v.y, -v.x, v.z} }
	rotB rotFunc = func(v vec) vec { return vec{-v.y, v.x, v.z} }
)

// stickerGeometry returns the cubie position and outward normal of sticker i.
// Rows and columns follow the face layout documented on Face.
func stickerGeometry(i int) (pos, normal vec) {
	f := Face(i / 9)
	r := (i % 9) / 3
	c := i % 3
	switch f {
	case FaceU:
		return vec{c - 1, 1, r - 1}, vec{0, 1, 0}
	case FaceR:
		return vec{1, 1 - r, 1 - c}, vec{1, 0, 0}
	case FaceF:
		return vec{c - 1, 1 - r, 1}, vec{0, 0, 1}
	case FaceD:
		return vec{c - 1, -1, 1 - r}, vec{0, -1, 0}
	case FaceL:
		return vec{-1, 1 - r, c - 1}, vec{-1, 0, 0}
	default: // FaceB
		return vec{1 - c, 1 - r, -1}, vec{0, 0, -1}
	}
}

// layerFunc selects which stickers a move carries, by cubie position.
type layerFunc func(vec) bool

// baseMoves defines the fifteen primitive moves. Prime and double variants
// are derived by permutation composition.
var baseMoves = []struct {
	name  string
	rot   rotFunc
	layer layerFunc
}{
	{"U", rotU, func(p vec) bool { return p.y == 1 }},
	{"D", rotD, func(p vec) bool { return p.y == -1 }},
	{"R", rotR, func(p vec) bool { return p.x == 1 }},
	{"L", rotL, func(p vec) bool { return p.x == -1 }},
	{"F", rotF, func(p vec) bool { return p.z == 1 }},
	{"B", rotB, func(p vec) bool { return p.z == -1 }},
	{"u", rotU, func(p vec) bool { return p.y >= 0 }},
	{"d", rotD, func(p vec) bool { return p.y <= 0 }},
	{"r", rotR, func(p vec) bool { return p.x >= 0 }},
	{"l", rotL, func(p vec) bool { return p.x <= 0 }},
	{"f", rotF, func(p vec) bool { return p.z >= 0 }},
	{"b", rotB, func(p vec) bool { return p.z <= 0 }},
	{"x", rotR, func(vec) bool { return true }},
	{"y", rotU, func(vec) bool { return true }},
	{"z", rotF, func(vec) bool { return true }},
}

// moveTable holds the gather permutation for every legal token: 15 base moves
// times the plain, prime, and double variants.
var moveTable = buildMoveTable()

func buildMoveTable() map[string]*[54]int {
	// Reverse index: (position, normal) -> sticker index.
	type geom struct{ pos, n vec }
	index := make(map[geom]int, 54)
	for i := 0; i < 54; i++ {
		p, n := stickerGeometry(i)
		index[geom{p, n}] = i
	}

	table := make(map[string]*[54]int, len(baseMoves)*3)
	for _, bm := range baseMoves {
		var perm [54]int
		for i := range perm {
			perm[i] = i
		}
		for i := 0; i < 54; i++ {
			p, n := stickerGeometry(i)
			if !bm.layer(p) {
				continue
			}
			dst, ok := index[geom{bm.rot(p), bm.rot(n)}]
			if !ok {
				// Unreachable: quarter turns map surface stickers to
				// surface stickers.
				panic(fmt.Sprintf("move %s: sticker %d rotated off the cube", bm.name, i))
			}
			perm[dst] = i
		}

		double := composePerms(&perm, &perm)
		prime := composePerms(double, &perm)
		table[bm.name] = &perm
		table[bm.name+"2"] = double
		table[bm.name+"'"] = prime
	}
	return table
}

// composePerms returns the gather permutation equivalent to applying p then q.
func composePerms(p, q *[54]int) *[54]int {
	var r [54]int
	for i := range r {
		r[i] = p[q[i]]
	}
	return &r
}

// ParseMove parses a single token in standard notation.
func ParseMove(token string) (Move, error) {
	perm, ok := moveTable[token]
	if !ok {
		return Move{}, &ParseError{Token: token}
	}
	return Move{name: token, perm: perm}, nil
}

// ParseMoves parses a whitespace-separated move sequence. It fails on the
// first unrecognized token; an empty string yields an empty sequence.
func ParseMoves(s string) ([]Move, error) {
	fields := strings.Fields(s)
	moves := make([]Move, 0, len(fields))
	for _, tok := range fields {
		m, err := ParseMove(tok)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// Apply returns the cube after one move. The receiver is not modified.
func (c Cube) Apply(m Move) Cube {
	var out Cube
	for i, src := range m.perm {
		out[i] = c[src]
	}
	return out
}

// ApplyAll applies a move sequence in strict left-to-right order.
func (c Cube) ApplyAll(moves []Move) Cube {
	for _, m := range moves {
		c = c.Apply(m)
	}
	return c
}

// FormatMoves renders a sequence back to standard notation.
func FormatMoves(moves []Move) string {
	names := make([]string, len(moves))
	for i, m := range moves {
		names[i] = m.name
	}
	return strings.Join(names, " ")
}
