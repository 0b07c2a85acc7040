package cube

import (
	"fmt"
	"sync"
)

// CaseRef names one (orientation case, permutation case, rotation) triple
// that produces a given visible-sticker projection. Rotation counts
// whole-cube y quarter turns applied after the algorithms (0..3).
type CaseRef struct {
	Orientation string `json:"orientation"`
	Permutation string `json:"permutation"`
	Rotation    int    `json:"rotation"`
}

// Degrees reports the rotation in degrees for display.
func (r CaseRef) Degrees() int { return r.Rotation * 90 }

// LastLayerState is one row of the generated state universe: a 15-sticker
// projection plus every case triple that reaches it. Distinct triples can
// project identically (the solved state most prominently, reached by every
// rotation of the double skip); those ties are grouped at generation time so
// an exact match surfaces the full group rather than silently picking one.
type LastLayerState struct {
	Reading Reading   `json:"reading"`
	Cases   []CaseRef `json:"cases"`
}

// StateTable is the complete reachable last-layer universe. It is built once,
// is immutable afterwards, and may be read concurrently without locking.
type StateTable struct {
	States []LastLayerState

	index map[Reading]int
}

// GenerateTable builds the state universe from the algorithm catalog:
// solved cube, orientation algorithm, permutation algorithm, then each of
// the four whole-cube y rotations, projected to 15 visible stickers.
//
// Iteration is over ordered slices only, so regeneration from the same
// database is byte-identical: states appear in first-reached order and case
// refs within a state in generation order.
func GenerateTable(db *AlgorithmDatabase) (*StateTable, error) {
	yTurn, err := ParseMove("y")
	if err != nil {
		return nil, err
	}

	t := &StateTable{index: make(map[Reading]int)}
	solved := Solved()

	for _, oll := range db.Orientation {
		afterOLL := solved.ApplyAll(oll.Moves)
		for _, pll := range db.Permutation {
			c := afterOLL.ApplyAll(pll.Moves)
			for rot := 0; rot < 4; rot++ {
				if rot > 0 {
					c = c.Apply(yTurn)
				}
				if counts := c.ColorCounts(); !validCounts(counts) {
					return nil, fmt.Errorf("state %s/%s rot %d: color counts %v",
						oll.Name, pll.Name, rot, counts)
				}
				t.add(c.VisibleStickers(), CaseRef{
					Orientation: oll.Name,
					Permutation: pll.Name,
					Rotation:    rot,
				})
			}
		}
	}
	return t, nil
}

func validCounts(counts [colorCount]int) bool {
	for _, n := range counts {
		if n != 9 {
			return false
		}
	}
	return true
}

func (t *StateTable) add(r Reading, ref CaseRef) {
	if i, ok := t.index[r]; ok {
		t.States[i].Cases = append(t.States[i].Cases, ref)
		return
	}
	t.index[r] = len(t.States)
	t.States = append(t.States, LastLayerState{Reading: r, Cases: []CaseRef{ref}})
}

// Len reports the number of unique projections in the table.
func (t *StateTable) Len() int { return len(t.States) }

// Find returns the state with an identical reading, if any.
func (t *StateTable) Find(r Reading) (*LastLayerState, bool) {
	if i, ok := t.index[r]; ok {
		return &t.States[i], true
	}
	return nil, false
}

// rebuildIndex restores the reading index after the table has been loaded
// from a cache file.
func (t *StateTable) rebuildIndex() {
	t.index = make(map[Reading]int, len(t.States))
	for i := range t.States {
		t.index[t.States[i].Reading] = i
	}
}

var (
	tableOnce sync.Once
	table     *StateTable
	tableErr  error
)

// LoadStateTable returns the process-wide state table, generating it on first
// use. The sync.Once guard makes concurrent first access construct the table
// exactly once; afterwards the table is shared read-only.
func LoadStateTable() (*StateTable, error) {
	tableOnce.Do(func() {
		db, err := LoadAlgorithms()
		if err != nil {
			tableErr = err
			return
		}
		table, tableErr = GenerateTable(db)
	})
	return table, tableErr
}
