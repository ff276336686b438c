package checkers

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// drawn turns eight rows (row 0 first) into square tokens; a '!' marks the
// preceding piece as a king. Captured tokens are appended so each color
// totals eight.
func drawn(t *testing.T, rows ...string) []string {
	t.Helper()
	if len(rows) != BoardSize {
		t.Fatalf("drawn: need %d rows, got %d", BoardSize, len(rows))
	}
	var tokens []string
	for r, row := range rows {
		var line []string
		for _, ch := range row {
			if ch == '!' {
				line[len(line)-1] += "!"
				continue
			}
			line = append(line, string(ch))
		}
		if len(line) != BoardSize {
			t.Fatalf("drawn: row %d has %d squares", r, len(line))
		}
		tokens = append(tokens, line...)
	}
	reds, whites := 0, 0
	for _, tok := range tokens {
		switch tok[:1] {
		case "r":
			reds++
		case "w":
			whites++
		}
	}
	for ; reds < PiecesPerColor; reds++ {
		tokens = append(tokens, "r*")
	}
	for ; whites < PiecesPerColor; whites++ {
		tokens = append(tokens, "w*")
	}
	return tokens
}

func mustBoard(t *testing.T, tokens []string) *Board {
	t.Helper()
	b, err := NewBoard(tokens)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	return b
}

func at(col, row int) Coordinates { return Coordinates{Col: col, Row: row} }

var equateEmpty = cmpopts.EquateEmpty()

// Fixtures, row 0 first.
var (
	openingRows = []string{
		"-w-w-w-w",
		"w-w-w-w-",
		"--------",
		"--------",
		"--------",
		"--------",
		"-r-r-r-r",
		"r-r-r-r-",
	}
	captureRows = []string{
		"--------",
		"w-w-w-w-",
		"w--r----",
		"------w-",
		"-w------",
		"------w-",
		"---r-r-r",
		"r-r-r-r-",
	}
	singleRedCaptureRows = []string{
		"-w------",
		"w---w-w-",
		"w--r----",
		"------w-",
		"-w---w--",
		"--------",
		"---r-r-r",
		"r-r-r-r-",
	}
	singleWhiteCaptureRows = []string{
		"-w-w-w-w",
		"w-w---w-",
		"--------",
		"------r-",
		"---r----",
		"----w---",
		"-r---r-r",
		"r-r-r---",
	}
	kingCaptureRows = []string{
		"-----r!--",
		"w-w-w-w-",
		"w--r----",
		"------w-",
		"-w------",
		"------w-",
		"-----r-r",
		"r-r-r-r-",
	}
	kingMoveRows = []string{
		"-w-w-r!--",
		"w-------",
		"w--r---w",
		"------w-",
		"-w---w--",
		"--------",
		"-----r-r",
		"r-r-r-r-",
	}
)

func TestStartingTokensMatchOpeningFixture(t *testing.T) {
	if diff := cmp.Diff(drawn(t, openingRows...), StartingTokens()); diff != "" {
		t.Errorf("StartingTokens mismatch (-want +got):\n%s", diff)
	}
}

func TestNewBoard(t *testing.T) {
	b := mustBoard(t, StartingTokens())

	t.Run("partitions", func(t *testing.T) {
		if got := len(b.Pieces(Red)); got != 8 {
			t.Errorf("red pieces = %d; want 8", got)
		}
		if got := len(b.Pieces(White)); got != 8 {
			t.Errorf("white pieces = %d; want 8", got)
		}
		if got := len(b.Kings()); got != 0 {
			t.Errorf("kings = %d; want 0", got)
		}
	})

	t.Run("square colors", func(t *testing.T) {
		for i := 0; i < SquareCount; i++ {
			c := IndexToCoordinates(i)
			want := Yellow
			if (c.Col+c.Row)%2 == 1 {
				want = Green
			}
			if got := b.Square(c).Color(); got != want {
				t.Errorf("square %v color = %v; want %v", c, got, want)
			}
		}
	})

	t.Run("square and piece agree", func(t *testing.T) {
		for i := 0; i < SquareCount; i++ {
			c := IndexToCoordinates(i)
			p := b.Square(c).Piece()
			if p == nil {
				continue
			}
			got, ok := p.Coordinates()
			if !ok || got != c {
				t.Errorf("piece on %v reports %v (on board %v)", c, got, ok)
			}
		}
	})

	t.Run("kings and captured tail", func(t *testing.T) {
		kb := mustBoard(t, drawn(t, kingCaptureRows...))
		if got := len(kb.Kings()); got != 1 {
			t.Fatalf("kings = %d; want 1", got)
		}
		if !kb.PieceAt(at(5, 0)).IsKing() {
			t.Errorf("piece at (5,0) is not a king")
		}
		if got := kb.CapturedCount(Red); got != 0 {
			t.Errorf("captured reds = %d; want 0", got)
		}
	})
}

func TestNewBoardRejectsMalformed(t *testing.T) {
	opening := StartingTokens()
	with := func(i int, tok string) []string {
		out := append([]string(nil), opening...)
		out[i] = tok
		return out
	}

	tests := []struct {
		name   string
		tokens []string
	}{
		{"too few values", opening[:63]},
		{"empty token", with(0, "")},
		{"token too long", with(0, "r!!")},
		{"unknown piece", with(0, "x")},
		{"unknown marker", with(1, "w?")},
		{"captured marker on square", with(1, "w*")},
		{"unknown captured token", append(with(1, "-"), "w!")},
		{"too many reds", with(0, "r")},
		{"too few whites", with(1, "-")},
		{"captured overflow", append(append([]string(nil), opening...), "r*")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBoard(tt.tokens)
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("NewBoard err = %v; want ErrMalformed", err)
			}
		})
	}
}

func TestParse(t *testing.T) {
	b, err := Parse(strings.Join(StartingTokens(), ", "))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff(StartingTokens(), b.Serialize()); diff != "" {
		t.Errorf("Serialize mismatch (-want +got):\n%s", diff)
	}
	if _, err := Parse("  "); !errors.Is(err, ErrMalformed) {
		t.Errorf("Parse(blank) err = %v; want ErrMalformed", err)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	fixtures := map[string][]string{
		"opening":      openingRows,
		"capture":      captureRows,
		"king capture": kingCaptureRows,
		"king move":    kingMoveRows,
	}
	for name, rows := range fixtures {
		t.Run(name, func(t *testing.T) {
			tokens := drawn(t, rows...)
			b := mustBoard(t, tokens)
			if diff := cmp.Diff(tokens, b.Serialize()); diff != "" {
				t.Errorf("Serialize mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("after captures", func(t *testing.T) {
		b := mustBoard(t, drawn(t, kingCaptureRows...))
		for _, mv := range [][2]Coordinates{{at(5, 0), at(7, 2)}, {at(7, 2), at(5, 4)}} {
			if _, err := b.MovePiece(mv[0], mv[1]); err != nil {
				t.Fatalf("MovePiece %v: %v", mv, err)
			}
		}
		again, err := Parse(b.String())
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if diff := cmp.Diff(b.Serialize(), again.Serialize()); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
		tail := b.Serialize()[SquareCount:]
		if diff := cmp.Diff([]string{"w*", "w*"}, tail); diff != "" {
			t.Errorf("captured tail mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestWinner(t *testing.T) {
	tests := []struct {
		name   string
		rows   []string
		want   Color
		wantOK bool
	}{
		{
			name:   "all reds captured",
			rows:   []string{"--------", "--------", "---w----", "--------", "--------", "--------", "--------", "--------"},
			want:   White,
			wantOK: true,
		},
		{
			name:   "all whites captured",
			rows:   []string{"--------", "--------", "--------", "--------", "--------", "--r!-----", "--------", "--------"},
			want:   Red,
			wantOK: true,
		},
		{
			name: "seven whites captured",
			rows: []string{"--------", "--------", "--------", "--w-----", "--------", "---r----", "--------", "--------"},
		},
		{
			name: "opening",
			rows: openingRows,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBoard(t, drawn(t, tt.rows...))
			got, ok := b.Winner()
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("Winner() = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
