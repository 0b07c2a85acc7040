package cube

import "fmt"

// FailureKind tags a vision-pipeline failure so callers can branch on the
// category without string matching.
type FailureKind int

const (
	// OutlineNotFound: the sticker contour set could not be established.
	// Nothing downstream can succeed; retrying needs a different image or
	// adjusted area bounds.
	OutlineNotFound FailureKind = iota
	// GridMisalignment: contours were found but could not be partitioned
	// into three coherent 3x3 grids at the expected Y seam.
	GridMisalignment
	// SamplingDegenerate: a warp or sampling step produced an out-of-range
	// or saturated read even after widening the sample neighborhood.
	SamplingDegenerate
	// ColorAmbiguous: a color cluster sat too close to two reference
	// colors to label with confidence. This is a soft failure: the error
	// still carries the best-guess reading so closest-match ranking stays
	// useful.
	ColorAmbiguous
)

func (k FailureKind) String() string {
	switch k {
	case OutlineNotFound:
		return "outline_not_found"
	case GridMisalignment:
		return "grid_misalignment"
	case SamplingDegenerate:
		return "sampling_degenerate"
	case ColorAmbiguous:
		return "color_ambiguous"
	}
	return "unknown"
}

// DetectionError is the tagged failure variant for the vision pipeline.
// Colors carries the best-effort reading for the soft failure kinds;
// it is nil when the failing stage produced nothing usable.
type DetectionError struct {
	Kind   FailureKind
	Detail string
	Colors *Reading
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func detectFailf(kind FailureKind, format string, args ...interface{}) *DetectionError {
	return &DetectionError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
