package cube

import "testing"

func newTestRecognizer(t *testing.T) *Recognizer {
	t.Helper()
	rz, err := NewRecognizer(DefaultContourFilter())
	if err != nil {
		t.Fatalf("NewRecognizer: %v", err)
	}
	return rz
}

func TestRecognizeReadingExact(t *testing.T) {
	rz := newTestRecognizer(t)
	solved := Solved().VisibleStickers()

	res := rz.RecognizeReading(solved)
	if !res.Success {
		t.Fatalf("solved reading failed: %s", res.ErrorReason)
	}
	if res.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", res.Confidence)
	}
	if res.DetectedColors == nil || *res.DetectedColors != solved {
		t.Errorf("detected colors = %v, want %s", res.DetectedColors, solved)
	}
	if len(res.Cases) == 0 {
		t.Fatal("exact match carries no cases")
	}
	if len(res.ClosestMatches) != 0 {
		t.Error("exact match carries closest-match ranking")
	}

	found := false
	for _, cm := range res.Cases {
		if cm.Orientation == "OLL Skip" && cm.Permutation == "PLL Skip" && cm.RotationDegrees == 0 {
			found = true
			if cm.OrientationAlgorithm != "" || cm.PermutationAlgorithm != "" {
				t.Errorf("skip case carries algorithms: %q / %q",
					cm.OrientationAlgorithm, cm.PermutationAlgorithm)
			}
		}
	}
	if !found {
		t.Errorf("cases %v lack the double skip", res.Cases)
	}
}

func TestRecognizeReadingCarriesAlgorithms(t *testing.T) {
	rz := newTestRecognizer(t)
	db := rz.DB
	oll, _ := db.Lookup("OLL 27")
	pll, _ := db.Lookup("Ua")

	reading := Solved().ApplyAll(oll.Moves).ApplyAll(pll.Moves).VisibleStickers()
	res := rz.RecognizeReading(reading)
	if !res.Success {
		t.Fatalf("generated reading failed: %s", res.ErrorReason)
	}

	found := false
	for _, cm := range res.Cases {
		if cm.Orientation == "OLL 27" && cm.Permutation == "Ua" {
			found = true
			if cm.OrientationAlgorithm != oll.Notation {
				t.Errorf("orientation algorithm = %q, want %q", cm.OrientationAlgorithm, oll.Notation)
			}
			if cm.PermutationAlgorithm != pll.Notation {
				t.Errorf("permutation algorithm = %q, want %q", cm.PermutationAlgorithm, pll.Notation)
			}
		}
	}
	if !found {
		t.Errorf("cases %v lack OLL 27/Ua", res.Cases)
	}
}

func TestRecognizeReadingMiss(t *testing.T) {
	rz := newTestRecognizer(t)

	observed := Solved().VisibleStickers()
	observed[0] = Yellow

	res := rz.RecognizeReading(observed)
	if res.Success {
		t.Fatal("corrupted reading succeeded")
	}
	if res.ErrorReason != "no_exact_match" {
		t.Errorf("error reason = %q, want no_exact_match", res.ErrorReason)
	}
	if res.Confidence != 0 {
		t.Errorf("miss carries confidence %v", res.Confidence)
	}
	if len(res.ClosestMatches) != DefaultClosestMatches {
		t.Fatalf("got %d closest matches, want %d", len(res.ClosestMatches), DefaultClosestMatches)
	}
	if res.ClosestMatches[0].Distance != 1 {
		t.Errorf("best closest-match distance = %d, want 1", res.ClosestMatches[0].Distance)
	}
	if len(res.ClosestMatches[0].Cases) == 0 {
		t.Error("closest match carries no case refs")
	}
}

func TestRecognizerTopK(t *testing.T) {
	rz := newTestRecognizer(t)
	rz.TopK = 2

	observed := Solved().VisibleStickers()
	observed[0] = Yellow

	res := rz.RecognizeReading(observed)
	if len(res.ClosestMatches) != 2 {
		t.Errorf("got %d closest matches, want 2", len(res.ClosestMatches))
	}
}
