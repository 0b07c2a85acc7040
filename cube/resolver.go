package cube

import "sort"

// DefaultClosestMatches is how many ranked candidates a failed resolution
// reports.
const DefaultClosestMatches = 5

// Candidate pairs a table state with its sticker-difference count against
// the observed reading.
type Candidate struct {
	State    *LastLayerState `json:"state"`
	Distance int             `json:"distance"`
}

// MatchResult is the outcome of resolving an observed reading against the
// state table. Exactly one of the two shapes applies: an exact match with
// confidence 1.0 carrying every tied case ref, or a ranked closest-match
// list with no confidence value at all. A mismatch count is not a
// probability.
type MatchResult struct {
	Exact      bool        `json:"exact"`
	Confidence float64     `json:"confidence,omitempty"`
	Matches    []Candidate `json:"matches"`
}

// HammingDistance counts sticker positions where two readings disagree.
func HammingDistance(a, b Reading) int {
	d := 0
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}

// Resolve scans the table linearly for the observed reading. A distance-0 row
// is returned alone as an exact match; the row already groups every case
// triple that projects to that reading, so tied identities are all reported.
// Otherwise the k lowest-distance candidates are returned ranked ascending,
// ties kept in table order.
//
// The scan is O(len(table) * 15); at the ~4k states the generator produces
// this is far inside an interactive budget, so no index is maintained beyond
// the exact-match map.
func (t *StateTable) Resolve(observed Reading, k int) MatchResult {
	if k <= 0 {
		k = DefaultClosestMatches
	}

	if s, ok := t.Find(observed); ok {
		return MatchResult{
			Exact:      true,
			Confidence: 1.0,
			Matches:    []Candidate{{State: s, Distance: 0}},
		}
	}

	candidates := make([]Candidate, len(t.States))
	for i := range t.States {
		candidates[i] = Candidate{
			State:    &t.States[i],
			Distance: HammingDistance(observed, t.States[i].Reading),
		}
	}
	// Stable keeps table order among equal distances, so ranking is
	// deterministic across runs.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Distance < candidates[j].Distance
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return MatchResult{Matches: candidates}
}
