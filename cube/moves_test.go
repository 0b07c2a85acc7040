package cube

import "testing"

// applyToken is a test helper: parse a single token and apply it.
func applyToken(t *testing.T, c Cube, token string) Cube {
	t.Helper()
	m, err := ParseMove(token)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", token, err)
	}
	return c.Apply(m)
}

func TestQuarterTurnOrderFour(t *testing.T) {
	tokens := []string{"U", "D", "R", "L", "F", "B", "u", "d", "r", "l", "f", "b", "x", "y", "z"}
	solved := Solved()

	for _, tok := range tokens {
		t.Run(tok, func(t *testing.T) {
			c := solved
			for i := 0; i < 4; i++ {
				c = applyToken(t, c, tok)
				if i < 3 && c == solved {
					t.Fatalf("%s returned to solved after %d applications", tok, i+1)
				}
			}
			if c != solved {
				t.Errorf("%s applied four times is not the identity", tok)
			}
		})
	}
}

func TestPrimeUndoesPlain(t *testing.T) {
	tokens := []string{"U", "R", "F", "r", "f", "x", "y", "z"}
	solved := Solved()

	for _, tok := range tokens {
		c := applyToken(t, solved, tok)
		c = applyToken(t, c, tok+"'")
		if c != solved {
			t.Errorf("%s then %s' is not the identity", tok, tok)
		}
	}
}

func TestDoubleEqualsTwice(t *testing.T) {
	tokens := []string{"U", "R", "F", "D", "L", "B", "r", "y"}
	solved := Solved()

	for _, tok := range tokens {
		twice := applyToken(t, applyToken(t, solved, tok), tok)
		double := applyToken(t, solved, tok+"2")
		if twice != double {
			t.Errorf("%s2 differs from %s applied twice", tok, tok)
		}
	}
}

func TestTopTurnCyclesSideRows(t *testing.T) {
	c := applyToken(t, Solved(), "U")

	// Clockwise from above: front row to the left face, right row to the
	// front, and so on around.
	wantRows := map[Face]Color{
		FaceL: Red,
		FaceF: Blue,
		FaceR: Orange,
		FaceB: Green,
	}
	for face, want := range wantRows {
		for col := 0; col < 3; col++ {
			if got := c.Sticker(face, 0, col); got != want {
				t.Errorf("after U, %s(0,%d) = %s, want %s", face, col, got, want)
			}
		}
	}

	// The turned face and the untouched layers stay uniform.
	for i, got := range c.FaceGrid(FaceU) {
		if got != White {
			t.Errorf("after U, U[%d] = %s, want white", i, got)
		}
	}
	for row := 1; row < 3; row++ {
		for col := 0; col < 3; col++ {
			if got := c.Sticker(FaceF, row, col); got != Red {
				t.Errorf("after U, F(%d,%d) = %s, want red", row, col, got)
			}
		}
	}
}

func TestWholeCubeRotation(t *testing.T) {
	c := applyToken(t, Solved(), "y")

	wantFaces := map[Face]Color{
		FaceU: White,
		FaceD: Yellow,
		FaceF: Blue,
		FaceR: Orange,
		FaceB: Green,
		FaceL: Red,
	}
	for face, want := range wantFaces {
		for i, got := range c.FaceGrid(face) {
			if got != want {
				t.Errorf("after y, %s[%d] = %s, want %s", face, i, got, want)
			}
		}
	}
}

func TestSexyMoveOrderSix(t *testing.T) {
	moves, err := ParseMoves("R U R' U'")
	if err != nil {
		t.Fatalf("ParseMoves: %v", err)
	}

	solved := Solved()
	c := solved
	for i := 0; i < 6; i++ {
		c = c.ApplyAll(moves)
		if i < 5 && c == solved {
			t.Fatalf("R U R' U' returned to solved after %d repetitions", i+1)
		}
	}
	if c != solved {
		t.Error("R U R' U' repeated six times is not the identity")
	}
}

func TestParseMoveRejectsUnknownTokens(t *testing.T) {
	for _, tok := range []string{"", "M", "M'", "R3", "Rw", "U''", "q", "2R"} {
		if _, err := ParseMove(tok); err == nil {
			t.Errorf("ParseMove(%q) accepted an invalid token", tok)
		}
	}
}

func TestParseMoves(t *testing.T) {
	moves, err := ParseMoves("R U2 R' U  R U2 R'")
	if err != nil {
		t.Fatalf("ParseMoves: %v", err)
	}
	if len(moves) != 7 {
		t.Fatalf("parsed %d moves, want 7", len(moves))
	}
	if got := FormatMoves(moves); got != "R U2 R' U R U2 R'" {
		t.Errorf("FormatMoves = %q", got)
	}

	if _, err := ParseMoves("R U Q"); err == nil {
		t.Error("ParseMoves accepted an invalid token mid-sequence")
	}
	empty, err := ParseMoves("")
	if err != nil || len(empty) != 0 {
		t.Errorf("ParseMoves(\"\") = %v, %v; want empty sequence", empty, err)
	}
}

func TestApplyDoesNotMutateReceiver(t *testing.T) {
	solved := Solved()
	before := solved
	_ = applyToken(t, solved, "R")
	if solved != before {
		t.Error("Apply mutated its receiver")
	}
}

func TestMovesPreserveColorCounts(t *testing.T) {
	c := Solved()
	moves, err := ParseMoves("R U2 R' D' f2 b' x y' z2 l U' r'")
	if err != nil {
		t.Fatalf("ParseMoves: %v", err)
	}
	c = c.ApplyAll(moves)
	for color, n := range c.ColorCounts() {
		if n != 9 {
			t.Errorf("color %s count = %d after scramble, want 9", Color(color), n)
		}
	}
}
