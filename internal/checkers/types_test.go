package checkers

import (
	"encoding/json"
	"testing"
)

func TestIndexCoordinatesBijection(t *testing.T) {
	for i := 0; i < SquareCount; i++ {
		c := IndexToCoordinates(i)
		if !c.Valid() {
			t.Fatalf("IndexToCoordinates(%d) = %v is off the board", i, c)
		}
		if got := CoordinatesToIndex(c); got != i {
			t.Errorf("CoordinatesToIndex(%v) = %d; want %d", c, got, i)
		}
	}
	if c := IndexToCoordinates(10); c != (Coordinates{Col: 2, Row: 1}) {
		t.Errorf("IndexToCoordinates(10) = %v; want (2,1)", c)
	}
}

func TestSquareColors(t *testing.T) {
	if squareColorAt(Coordinates{0, 0}) != Yellow || squareColorAt(Coordinates{1, 0}) != Green {
		t.Errorf("row 0 should start yellow then green")
	}
	if squareColorAt(Coordinates{0, 1}) != Green {
		t.Errorf("(0,1) should be green")
	}
}

func TestParseColor(t *testing.T) {
	tests := map[string]Color{"red": Red, " R ": Red, "White": White, "w": White}
	for in, want := range tests {
		got, err := ParseColor(in)
		if err != nil || got != want {
			t.Errorf("ParseColor(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseColor("black"); err == nil {
		t.Errorf("ParseColor(black) succeeded")
	}
}

func TestColorJSON(t *testing.T) {
	raw, err := json.Marshal(struct{ Turn Color }{White})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"Turn":"white"}` {
		t.Errorf("marshal = %s", raw)
	}
	var back struct{ Turn Color }
	if err := json.Unmarshal([]byte(`{"Turn":"red"}`), &back); err != nil || back.Turn != Red {
		t.Errorf("unmarshal = %v, %v", back.Turn, err)
	}
}

func TestDirections(t *testing.T) {
	if d := directions(Red, false); len(d) != 2 || d[0].Row != -1 {
		t.Errorf("red man directions = %v", d)
	}
	if d := directions(White, true); len(d) != 4 || d[0].Row != 1 || d[2].Row != -1 {
		t.Errorf("white king directions = %v", d)
	}
	if Red.PromotionRow() != 0 || White.PromotionRow() != BoardSize-1 {
		t.Errorf("promotion rows = %d, %d", Red.PromotionRow(), White.PromotionRow())
	}
}
