package cube

import (
	"fmt"
	"sync"
)

// CaseSet identifies which last-layer sub-problem an algorithm addresses.
type CaseSet uint8

const (
	// SetOrientation covers the 57 OLL cases (plus the skip).
	SetOrientation CaseSet = iota
	// SetPermutation covers the 21 PLL cases (plus the skip).
	SetPermutation
)

func (s CaseSet) String() string {
	if s == SetOrientation {
		return "orientation"
	}
	return "permutation"
}

// Algorithm is an immutable named move sequence from the static catalog.
type Algorithm struct {
	Name     string
	Set      CaseSet
	Notation string
	Moves    []Move
}

// AlgorithmDatabase is the full last-layer catalog: every orientation case
// and every permutation case, each validated and compiled to moves exactly
// once. The first entry of each set is the skip (identity) case, so the
// solved last layer is representable in the generated state table.
type AlgorithmDatabase struct {
	Orientation []Algorithm
	Permutation []Algorithm

	byName map[string]*Algorithm
}

// rawAlg is the source form of a catalog entry.
type rawAlg struct {
	name, notation string
}

// ollCatalog lists the 57 orientation cases in standard numbering, preceded
// by the skip case. Wide turns and rotations appear exactly as the published
// algorithms use them.
var ollCatalog = []rawAlg{
	{"OLL Skip", ""},
	{"OLL 1", "R U2 R2 F R F' U2 R' F R F'"},
	{"OLL 2", "F R U R' U' F' f R U R' U' f'"},
	{"OLL 3", "f R U R' U' f' U' F R U R' U' F'"},
	{"OLL 4", "f R U R' U' f' U F R U R' U' F'"},
	{"OLL 5", "r' U2 R U R' U r"},
	{"OLL 6", "r U2 R' U' R U' r'"},
	{"OLL 7", "r U R' U R U2 r'"},
	{"OLL 8", "r' U' R U' R' U2 r"},
	{"OLL 9", "R U R' U' R' F R2 U R' U' F'"},
	{"OLL 10", "R U R' U R' F R F' R U2 R'"},
	{"OLL 11", "r U R' U R' F R F' R U2 r'"},
	{"OLL 12", "F R U R' U' F' U F R U R' U' F'"},
	{"OLL 13", "F U R U' R2 F' R U R U' R'"},
	{"OLL 14", "R' F R U R' F' R F U' F'"},
	{"OLL 15", "r' U' r R' U' R U r' U r"},
	{"OLL 16", "r U r' R U R' U' r U' r'"},
	{"OLL 17", "R U R' U R' F R F' U2 R' F R F'"},
	{"OLL 18", "r U R' U R U2 r2 U' R U' R' U2 r"},
	{"OLL 19", "r' R U R U R' U' r R2 F R F'"},
	{"OLL 20", "r' R U R U R' U' r2 R2 U R U' r'"},
	{"OLL 21", "R U2 R' U' R U R' U' R U' R'"},
	{"OLL 22", "R U2 R2 U' R2 U' R2 U2 R"},
	{"OLL 23", "R2 D' R U2 R' D R U2 R"},
	{"OLL 24", "r U R' U' r' F R F'"},
	{"OLL 25", "F' r U R' U' r' F R"},
	{"OLL 26", "R U2 R' U' R U' R'"},
	{"OLL 27", "R U R' U R U2 R'"},
	{"OLL 28", "r U R' U' r' R U R U' R'"},
	{"OLL 29", "R U R' U' R U' R' F' U' F R U R'"},
	{"OLL 30", "F R' F R2 U' R' U' R U R' F2"},
	{"OLL 31", "R' U' F U R U' R' F' R"},
	{"OLL 32", "R U B' U' R' U R B R'"},
	{"OLL 33", "R U R' U' R' F R F'"},
	{"OLL 34", "R U R2 U' R' F R U R U' F'"},
	{"OLL 35", "R U2 R2 F R F' R U2 R'"},
	{"OLL 36", "L' U' L U' L' U L U L F' L' F"},
	{"OLL 37", "F R' F' R U R U' R'"},
	{"OLL 38", "R U R' U R U' R' U' R' F R F'"},
	{"OLL 39", "L F' L' U' L U F U' L'"},
	{"OLL 40", "R' F R U R' U' F' U R"},
	{"OLL 41", "R U R' U R U2 R' F R U R' U' F'"},
	{"OLL 42", "R' U' R U' R' U2 R F R U R' U' F'"},
	{"OLL 43", "F' U' L' U L F"},
	{"OLL 44", "F U R U' R' F'"},
	{"OLL 45", "F R U R' U' F'"},
	{"OLL 46", "R' U' R' F R F' U R"},
	{"OLL 47", "R' U' R' F R F' R' F R F' U R"},
	{"OLL 48", "F R U R' U' R U R' U' F'"},
	{"OLL 49", "r U' r2 U r2 U r2 U' r"},
	{"OLL 50", "r' U r2 U' r2 U' r2 U r'"},
	{"OLL 51", "F U R U' R' U R U' R' F'"},
	{"OLL 52", "R' U' R U' R' U F' U F R"},
	{"OLL 53", "r' U' R U' R' U R U' R' U2 r"},
	{"OLL 54", "r U R' U R U' R' U R U2 r'"},
	{"OLL 55", "R U2 R2 U' R U' R' U2 F R F'"},
	{"OLL 56", "r U r' U R U' R' U R U' R' r U' r'"},
	{"OLL 57", "R U R' U' r R' U R U' r'"},
}

// pllCatalog lists the 21 permutation cases, preceded by the skip case.
var pllCatalog = []rawAlg{
	{"PLL Skip", ""},
	{"Aa", "x R' U R' D2 R U' R' D2 R2 x'"},
	{"Ab", "x R2 D2 R U R' D2 R U' R x'"},
	{"E", "x' R U' R' D R U R' D' R U R' D R U' R' D' x"},
	{"F", "R' U' F' R U R' U' R' F R2 U' R' U' R U R' U R"},
	{"Ga", "R2 U R' U R' U' R U' R2 U' D R' U R D'"},
	{"Gb", "R' U' R U D' R2 U R' U R U' R U' R2 D"},
	{"Gc", "R2 U' R U' R U R' U R2 U D' R U' R' D"},
	{"Gd", "R U R' U' D R2 U' R U' R' U R' U R2 D'"},
	{"H", "r2 R2 U r2 R2 U2 r2 R2 U r2 R2"},
	{"Ja", "R' U L' U2 R U' R' U2 R L"},
	{"Jb", "R U R' F' R U R' U' R' F R2 U' R'"},
	{"Na", "R U R' U R U R' F' R U R' U' R' F R2 U' R' U2 R U' R'"},
	{"Nb", "R' U R U' R' F' U' F R U R' F R' F' R U' R"},
	{"Ra", "R U' R' U' R U R D R' U' R D' R' U2 R'"},
	{"Rb", "R2 F R U R U' R' F' R U2 R' U2 R"},
	{"T", "R U R' U' R' F R2 U' R' U' R U R' F'"},
	{"Ua", "R U' R U R U R U' R' U' R2"},
	{"Ub", "R2 U R U R' U' R' U' R' U R'"},
	{"V", "R' U R' U' y R' F' R2 U' R' U R' F R F"},
	{"Y", "F R U' R' U' R U R' F' R U R' U' R' F R F'"},
	{"Z", "r R' U r2 R2 U r2 R2 U r R' U2 r2 R2"},
}

var (
	algDBOnce sync.Once
	algDB     *AlgorithmDatabase
	algDBErr  error
)

// LoadAlgorithms validates and compiles the static catalog. The work happens
// once per process; subsequent calls return the shared read-only database.
// A malformed notation string is a load-time error and never surfaces during
// per-request resolution.
func LoadAlgorithms() (*AlgorithmDatabase, error) {
	algDBOnce.Do(func() {
		algDB, algDBErr = compileAlgorithms(ollCatalog, pllCatalog)
	})
	return algDB, algDBErr
}

func compileAlgorithms(oll, pll []rawAlg) (*AlgorithmDatabase, error) {
	db := &AlgorithmDatabase{
		byName: make(map[string]*Algorithm, len(oll)+len(pll)),
	}

	compile := func(set CaseSet, raws []rawAlg) ([]Algorithm, error) {
		algs := make([]Algorithm, 0, len(raws))
		for _, ra := range raws {
			moves, err := ParseMoves(ra.notation)
			if err != nil {
				return nil, fmt.Errorf("algorithm %q: %w", ra.name, err)
			}
			algs = append(algs, Algorithm{
				Name:     ra.name,
				Set:      set,
				Notation: ra.notation,
				Moves:    moves,
			})
		}
		return algs, nil
	}

	var err error
	if db.Orientation, err = compile(SetOrientation, oll); err != nil {
		return nil, err
	}
	if db.Permutation, err = compile(SetPermutation, pll); err != nil {
		return nil, err
	}

	for i := range db.Orientation {
		db.byName[db.Orientation[i].Name] = &db.Orientation[i]
	}
	for i := range db.Permutation {
		db.byName[db.Permutation[i].Name] = &db.Permutation[i]
	}
	return db, nil
}

// Lookup returns the algorithm with the given case name.
func (db *AlgorithmDatabase) Lookup(name string) (*Algorithm, bool) {
	a, ok := db.byName[name]
	return a, ok
}
