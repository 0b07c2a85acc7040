package cube

import (
	"errors"
	"image"
)

// CaseMatch is one resolved case identity with its solution algorithms in
// catalog notation. The rotation tells the caller how the cube was turned
// relative to the canonical composition when the state was generated.
type CaseMatch struct {
	Orientation          string `json:"orientation"`
	Permutation          string `json:"permutation"`
	RotationDegrees      int    `json:"rotationDegrees"`
	OrientationAlgorithm string `json:"orientationAlgorithm"`
	PermutationAlgorithm string `json:"permutationAlgorithm"`
}

// ClosestMatch is one ranked candidate when no exact match exists.
type ClosestMatch struct {
	Reading  Reading   `json:"reading"`
	Cases    []CaseRef `json:"cases"`
	Distance int       `json:"distance"`
}

// RecognizeResult is the structured outcome handed to external callers (CLI,
// HTTP, MQTT). DetectedColors is populated on every path where any reading
// exists, success or not: it is the primary debugging signal when detection
// or matching goes wrong.
type RecognizeResult struct {
	Success        bool           `json:"success"`
	Cases          []CaseMatch    `json:"cases,omitempty"`
	Confidence     float64        `json:"confidence,omitempty"`
	DetectedColors *Reading       `json:"detectedColors,omitempty"`
	Warning        string         `json:"warning,omitempty"`
	ErrorReason    string         `json:"errorReason,omitempty"`
	ClosestMatches []ClosestMatch `json:"closestMatches,omitempty"`
}

// Recognizer bundles the immutable lookup structures one resolution needs.
// Both are built once and shared read-only, so a single Recognizer serves
// any number of concurrent requests.
type Recognizer struct {
	Table  *StateTable
	DB     *AlgorithmDatabase
	Filter ContourFilter
	TopK   int
}

// NewRecognizer loads (or generates) the shared algorithm database and state
// table and returns a ready recognizer with the given contour filter.
func NewRecognizer(filter ContourFilter) (*Recognizer, error) {
	db, err := LoadAlgorithms()
	if err != nil {
		return nil, err
	}
	t, err := LoadStateTable()
	if err != nil {
		return nil, err
	}
	return &Recognizer{Table: t, DB: db, Filter: filter, TopK: DefaultClosestMatches}, nil
}

// Recognize runs detect → resolve on a decoded photograph and shapes the
// outcome for external callers. Vision-stage failures abort before the
// resolver runs, except the soft ColorAmbiguous case, whose best-guess
// reading still feeds the ranking.
// A resolver miss is not an error: it comes back as success=false with
// ranked alternatives.
//
// The detection is returned alongside the result for debug rendering; it is
// nil when the pipeline failed before producing stickers.
func (rz *Recognizer) Recognize(img image.Image) (*RecognizeResult, *Detection) {
	det, derr := Detect(img, rz.Filter)
	if derr != nil {
		res := &RecognizeResult{
			Success:     false,
			ErrorReason: derr.Kind.String(),
			Warning:     derr.Detail,
		}
		if derr.Colors != nil {
			res.DetectedColors = derr.Colors
			rz.rankClosest(res, *derr.Colors)
		}
		return res, nil
	}

	reading := det.Reading
	res := &RecognizeResult{DetectedColors: &reading}
	if det.Warning != nil {
		res.Warning = det.Warning.Error()
	}

	match := rz.Table.Resolve(reading, rz.TopK)
	if match.Exact {
		res.Success = true
		res.Confidence = match.Confidence
		res.Cases = rz.caseMatches(match.Matches[0].State)
		return res, det
	}

	res.ErrorReason = "no_exact_match"
	rz.rankClosestFromMatch(res, match)
	return res, det
}

// RecognizeReading resolves an already-classified reading, bypassing the
// vision pipeline. This is what table-driven tests and the reading-only API
// endpoint use.
func (rz *Recognizer) RecognizeReading(reading Reading) *RecognizeResult {
	res := &RecognizeResult{DetectedColors: &reading}
	match := rz.Table.Resolve(reading, rz.TopK)
	if match.Exact {
		res.Success = true
		res.Confidence = match.Confidence
		res.Cases = rz.caseMatches(match.Matches[0].State)
		return res
	}
	res.ErrorReason = "no_exact_match"
	rz.rankClosestFromMatch(res, match)
	return res
}

func (rz *Recognizer) caseMatches(s *LastLayerState) []CaseMatch {
	matches := make([]CaseMatch, 0, len(s.Cases))
	for _, ref := range s.Cases {
		cm := CaseMatch{
			Orientation:     ref.Orientation,
			Permutation:     ref.Permutation,
			RotationDegrees: ref.Degrees(),
		}
		if a, ok := rz.DB.Lookup(ref.Orientation); ok {
			cm.OrientationAlgorithm = a.Notation
		}
		if a, ok := rz.DB.Lookup(ref.Permutation); ok {
			cm.PermutationAlgorithm = a.Notation
		}
		matches = append(matches, cm)
	}
	return matches
}

func (rz *Recognizer) rankClosest(res *RecognizeResult, reading Reading) {
	rz.rankClosestFromMatch(res, rz.Table.Resolve(reading, rz.TopK))
}

func (rz *Recognizer) rankClosestFromMatch(res *RecognizeResult, match MatchResult) {
	for _, c := range match.Matches {
		res.ClosestMatches = append(res.ClosestMatches, ClosestMatch{
			Reading:  c.State.Reading,
			Cases:    c.State.Cases,
			Distance: c.Distance,
		})
	}
}

// AsDetectionError unwraps a DetectionError from any error value.
func AsDetectionError(err error) (*DetectionError, bool) {
	var derr *DetectionError
	if errors.As(err, &derr) {
		return derr, true
	}
	return nil, false
}
