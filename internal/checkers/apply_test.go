package checkers

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMovePieceRejects(t *testing.T) {
	tests := []struct {
		name    string
		rows    []string
		from    Coordinates
		to      Coordinates
		wantErr error
	}{
		{"occupied destination", openingRows, at(0, 7), at(1, 6), ErrOccupied},
		{"outside capture range", captureRows, at(7, 6), at(4, 3), ErrBadGeometry},
		{"straight step", openingRows, at(1, 6), at(1, 5), ErrBadGeometry},
		{"one column two rows", openingRows, at(1, 6), at(2, 4), ErrBadGeometry},
		{"nothing to capture", captureRows, at(3, 6), at(5, 4), ErrNothingToCapture},
		{"own color on midpoint", captureRows, at(2, 7), at(4, 5), ErrSelfCapture},
		{"occupied landing", kingCaptureRows, at(5, 0), at(3, 2), ErrOccupied},
		{"invalid origin", captureRows, at(8, 2), at(4, 0), ErrOutOfRange},
		{"invalid destination", captureRows, at(3, 2), at(8, 0), ErrOutOfRange},
		{"empty origin", captureRows, at(4, 4), at(4, 0), ErrNoPiece},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBoard(t, drawn(t, tt.rows...))
			before := b.Serialize()
			captured, err := b.MovePiece(tt.from, tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("MovePiece(%v, %v) err = %v; want %v", tt.from, tt.to, err, tt.wantErr)
			}
			if captured {
				t.Error("captured = true on a rejected move")
			}
			var me *MoveError
			if !errors.As(err, &me) || me.From != tt.from || me.To != tt.to {
				t.Errorf("err %v does not carry the move endpoints", err)
			}
			if diff := cmp.Diff(before, b.Serialize()); diff != "" {
				t.Errorf("board changed by a rejected move (-before +after):\n%s", diff)
			}
		})
	}
}

func TestMovePieceSimple(t *testing.T) {
	b := mustBoard(t, StartingTokens())
	captured, err := b.MovePiece(at(1, 6), at(0, 5))
	if err != nil {
		t.Fatalf("MovePiece: %v", err)
	}
	if captured {
		t.Error("captured = true; want false")
	}
	if b.PieceAt(at(1, 6)) != nil {
		t.Error("origin still occupied")
	}
	p := b.PieceAt(at(0, 5))
	if p == nil || p.Color() != Red {
		t.Fatalf("destination piece = %v; want red", p)
	}
	if c, ok := p.Coordinates(); !ok || c != at(0, 5) {
		t.Errorf("piece coordinates = %v, %v; want (0,5)", c, ok)
	}
}

func TestMovePieceCapture(t *testing.T) {
	b := mustBoard(t, drawn(t, captureRows...))
	victim := b.PieceAt(at(2, 1))

	captured, err := b.MovePiece(at(3, 2), at(1, 0))
	if err != nil {
		t.Fatalf("MovePiece: %v", err)
	}
	if !captured {
		t.Fatal("captured = false; want true")
	}
	if b.PieceAt(at(2, 1)) != nil {
		t.Error("midpoint still occupied")
	}
	if !victim.IsCaptured() {
		t.Error("victim not marked captured")
	}
	if _, ok := victim.Coordinates(); ok {
		t.Error("captured piece still reports coordinates")
	}
	if got := b.CapturedCount(White); got != 1 {
		t.Errorf("captured whites = %d; want 1", got)
	}
	for _, color := range []Color{Red, White} {
		if n := len(b.Pieces(color)) + b.CapturedCount(color); n != PiecesPerColor {
			t.Errorf("%v live+captured = %d; want %d", color, n, PiecesPerColor)
		}
	}
	if !b.PieceAt(at(1, 0)).IsKing() {
		t.Error("red piece reaching row 0 was not promoted")
	}
}

func TestMovePieceKingChain(t *testing.T) {
	b := mustBoard(t, drawn(t, kingCaptureRows...))

	captured, err := b.MovePiece(at(5, 0), at(7, 2))
	if err != nil || !captured {
		t.Fatalf("first jump = %v, %v; want capture", captured, err)
	}
	next, err := b.ValidMoves(at(7, 2), true)
	if err != nil {
		t.Fatalf("ValidMoves: %v", err)
	}
	if diff := cmp.Diff([]Coordinates{at(5, 4)}, next); diff != "" {
		t.Fatalf("continuation mismatch (-want +got):\n%s", diff)
	}
	captured, err = b.MovePiece(at(7, 2), at(5, 4))
	if err != nil || !captured {
		t.Fatalf("second jump = %v, %v; want capture", captured, err)
	}
	end, _ := b.ValidMoves(at(5, 4), true)
	if len(end) != 0 {
		t.Errorf("chain continuation = %v; want none", end)
	}
	if got := b.CapturedCount(White); got != 2 {
		t.Errorf("captured whites = %d; want 2", got)
	}
	if !b.PieceAt(at(5, 4)).IsKing() {
		t.Error("king lost its status")
	}
}

func TestKingMoveIsSimple(t *testing.T) {
	b := mustBoard(t, drawn(t, kingMoveRows...))
	captured, err := b.MovePiece(at(5, 0), at(6, 1))
	if err != nil {
		t.Fatalf("MovePiece: %v", err)
	}
	if captured {
		t.Error("captured = true; want false")
	}
}

func TestPromotion(t *testing.T) {
	t.Run("white on row seven", func(t *testing.T) {
		b := mustBoard(t, drawn(t, singleWhiteCaptureRows...))
		if _, err := b.MovePiece(at(4, 5), at(6, 7)); err != nil {
			t.Fatalf("MovePiece: %v", err)
		}
		p := b.PieceAt(at(6, 7))
		if !p.IsKing() {
			t.Fatal("white piece reaching row 7 was not promoted")
		}
		if got := len(b.Kings()); got != 1 {
			t.Errorf("kings = %d; want 1", got)
		}
	})

	t.Run("idempotent for kings", func(t *testing.T) {
		b := mustBoard(t, drawn(t, kingMoveRows...))
		if _, err := b.MovePiece(at(5, 0), at(4, 1)); err != nil {
			t.Fatalf("MovePiece: %v", err)
		}
		if _, err := b.MovePiece(at(4, 1), at(5, 0)); err != nil {
			t.Fatalf("MovePiece back to row 0: %v", err)
		}
		if !b.PieceAt(at(5, 0)).IsKing() {
			t.Error("king lost its status")
		}
		if got := len(b.Kings()); got != 1 {
			t.Errorf("kings = %d; want 1", got)
		}
	})

	t.Run("simple step onto row seven", func(t *testing.T) {
		b := mustBoard(t, drawn(t,
			"--------",
			"--------",
			"--------",
			"--------",
			"--------",
			"--------",
			"---w----",
			"--------",
		))
		if _, err := b.MovePiece(at(3, 6), at(2, 7)); err != nil {
			t.Fatalf("MovePiece: %v", err)
		}
		if !b.PieceAt(at(2, 7)).IsKing() {
			t.Error("white reaching row 7 should be a king")
		}
	})
}

func TestCapturedKingLeavesKings(t *testing.T) {
	b := mustBoard(t, drawn(t,
		"--------",
		"--------",
		"--------",
		"----w!---",
		"---r----",
		"--------",
		"--------",
		"--------",
	))
	if _, err := b.MovePiece(at(3, 4), at(5, 2)); err != nil {
		t.Fatalf("MovePiece: %v", err)
	}
	if got := len(b.Kings()); got != 0 {
		t.Errorf("kings = %d; want 0 after the only king is captured", got)
	}
	if winner, ok := b.Winner(); !ok || winner != Red {
		t.Errorf("Winner() = %v, %v; want red", winner, ok)
	}
}
