package cube

import (
	"encoding/json"
	"testing"
)

func TestSolvedLayout(t *testing.T) {
	c := Solved()

	wantFaces := map[Face]Color{
		FaceU: White,
		FaceR: Blue,
		FaceF: Red,
		FaceD: Yellow,
		FaceL: Green,
		FaceB: Orange,
	}
	for face, want := range wantFaces {
		for i, got := range c.FaceGrid(face) {
			if got != want {
				t.Errorf("solved %s[%d] = %s, want %s", face, i, got, want)
			}
		}
	}

	for color, n := range c.ColorCounts() {
		if n != 9 {
			t.Errorf("solved color %s count = %d, want 9", Color(color), n)
		}
	}
}

func TestVisibleStickersSolved(t *testing.T) {
	got := Solved().VisibleStickers()
	if s := got.String(); s != "WWWWWWWWW.RRR.BBB" {
		t.Errorf("solved reading = %q, want WWWWWWWWW.RRR.BBB", s)
	}
}

func TestParseReading(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"dotted", "WWWWWWWWW.RRR.BBB", "WWWWWWWWW.RRR.BBB", true},
		{"undotted", "WWWWWWWWWRRRBBB", "WWWWWWWWW.RRR.BBB", true},
		{"mixed colors", "WOGWWWRBG.GRB.WOB", "WOGWWWRBG.GRB.WOB", true},
		{"bad letter", "WWWWWWWWW.RRR.BBX", "", false},
		{"too short", "WWWWWWWWW.RRR.BB", "", false},
		{"too long", "WWWWWWWWW.RRR.BBBB", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseReading(tt.input)
			if tt.ok != (err == nil) {
				t.Fatalf("ParseReading(%q) error = %v, want ok=%v", tt.input, err, tt.ok)
			}
			if tt.ok && r.String() != tt.want {
				t.Errorf("ParseReading(%q).String() = %q, want %q", tt.input, r.String(), tt.want)
			}
		})
	}
}

func TestReadingJSONRoundTrip(t *testing.T) {
	r, err := ParseReading("WOGWWWRBG.GRB.WOB")
	if err != nil {
		t.Fatalf("ParseReading: %v", err)
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"WOGWWWRBG.GRB.WOB"` {
		t.Errorf("Marshal = %s", data)
	}

	var back Reading
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != r {
		t.Errorf("round trip changed reading: %s != %s", back, r)
	}

	if err := json.Unmarshal([]byte(`"XYZ"`), &back); err == nil {
		t.Error("Unmarshal accepted an invalid reading string")
	}
}

func TestStickerIndexing(t *testing.T) {
	var c Cube
	for i := range c {
		c[i] = Color(i % colorCount)
	}
	if got, want := c.Sticker(FaceF, 1, 2), c[int(FaceF)*9+5]; got != want {
		t.Errorf("Sticker(F,1,2) = %s, want %s", got, want)
	}
}

func TestColorLetters(t *testing.T) {
	letters := map[Color]string{
		White: "W", Yellow: "Y", Red: "R", Orange: "O", Blue: "B", Green: "G",
	}
	for c, want := range letters {
		if got := c.Letter(); got != want {
			t.Errorf("%s.Letter() = %q, want %q", c, got, want)
		}
	}
}
