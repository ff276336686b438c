package checkers

import (
	"fmt"
	"strings"
)

// Board owns the squares and every piece of one game. It is not safe for
// concurrent use; hosts serialize access per game.
type Board struct {
	squares [SquareCount]Square

	redPieces      []*Piece
	whitePieces    []*Piece
	kings          []*Piece
	capturedReds   []*Piece
	capturedWhites []*Piece

	cache moveCache
}

// moveCache holds the last ComputeAllValidMoves result, keyed by piece ID.
// It is valid only for the color it was computed for and only until the
// next simple move.
type moveCache struct {
	computed bool
	color    Color
	moves    map[int][]Coordinates
}

func (c *moveCache) reset() {
	c.computed = false
	c.moves = nil
}

// NewBoard builds a board from its token encoding: 64 square tokens in index
// order ("-", "r", "w", "r!", "w!") optionally followed by one "r*" or "w*"
// per captured piece.
func NewBoard(tokens []string) (*Board, error) {
	if len(tokens) < SquareCount {
		return nil, fmt.Errorf("%w: need at least %d values, got %d", ErrMalformed, SquareCount, len(tokens))
	}
	for i, tok := range tokens {
		if len(tok) != 1 && len(tok) != 2 {
			return nil, fmt.Errorf("%w: value %d (%q) must be of length 1 or 2", ErrMalformed, i, tok)
		}
	}

	b := &Board{}
	nextID := 0
	for i, tok := range tokens[:SquareCount] {
		at := IndexToCoordinates(i)
		b.squares[i] = Square{index: i, color: squareColorAt(at)}
		if tok == "-" {
			continue
		}
		color, king, err := parseSquareToken(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: square %d: %v", ErrMalformed, i, err)
		}
		p := newPiece(nextID, color, OnBoard{At: at}, king)
		nextID++
		b.squares[i].piece = p
		if king {
			b.kings = append(b.kings, p)
		}
		if color == Red {
			b.redPieces = append(b.redPieces, p)
		} else {
			b.whitePieces = append(b.whitePieces, p)
		}
	}

	for i, tok := range tokens[SquareCount:] {
		switch tok {
		case capturedRedToken:
			b.capturedReds = append(b.capturedReds, newPiece(nextID, Red, Captured{}, false))
		case capturedWhiteToken:
			b.capturedWhites = append(b.capturedWhites, newPiece(nextID, White, Captured{}, false))
		default:
			return nil, fmt.Errorf("%w: captured value %d (%q) is not %q or %q",
				ErrMalformed, SquareCount+i, tok, capturedRedToken, capturedWhiteToken)
		}
		nextID++
	}

	if n := len(b.redPieces) + len(b.capturedReds); n != PiecesPerColor {
		return nil, fmt.Errorf("%w: there must be %d red pieces, got %d", ErrMalformed, PiecesPerColor, n)
	}
	if n := len(b.whitePieces) + len(b.capturedWhites); n != PiecesPerColor {
		return nil, fmt.Errorf("%w: there must be %d white pieces, got %d", ErrMalformed, PiecesPerColor, n)
	}
	return b, nil
}

// Parse builds a board from the comma-joined form produced by String.
func Parse(s string) (*Board, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty encoding", ErrMalformed)
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return NewBoard(parts)
}

// StartingTokens is the opening position: white on rows 0-1, red on rows 6-7,
// both on green squares.
func StartingTokens() []string {
	tokens := make([]string, SquareCount)
	for i := range tokens {
		tokens[i] = emptyToken
		at := IndexToCoordinates(i)
		if squareColorAt(at) != Green {
			continue
		}
		switch {
		case at.Row <= 1:
			tokens[i] = whiteToken
		case at.Row >= BoardSize-2:
			tokens[i] = redToken
		}
	}
	return tokens
}

// NewStartingBoard returns a board in the opening position.
func NewStartingBoard() *Board {
	b, err := NewBoard(StartingTokens())
	if err != nil {
		panic(err)
	}
	return b
}

// Square returns the square at c, or nil when c is off the board.
func (b *Board) Square(c Coordinates) *Square {
	if !c.Valid() {
		return nil
	}
	return &b.squares[CoordinatesToIndex(c)]
}

// PieceAt returns the occupant of c, or nil.
func (b *Board) PieceAt(c Coordinates) *Piece {
	if !c.Valid() {
		return nil
	}
	return b.squares[CoordinatesToIndex(c)].piece
}

// Pieces returns the live pieces of a color in square order.
func (b *Board) Pieces(color Color) []*Piece {
	return append([]*Piece(nil), *b.live(color)...)
}

// Kings returns every live king of both colors.
func (b *Board) Kings() []*Piece {
	return append([]*Piece(nil), b.kings...)
}

// CapturedCount returns how many pieces of color have been captured.
func (b *Board) CapturedCount(color Color) int {
	return len(*b.captured(color))
}

func (b *Board) live(color Color) *[]*Piece {
	if color == Red {
		return &b.redPieces
	}
	return &b.whitePieces
}

func (b *Board) captured(color Color) *[]*Piece {
	if color == Red {
		return &b.capturedReds
	}
	return &b.capturedWhites
}

func removePiece(list []*Piece, p *Piece) []*Piece {
	for i, q := range list {
		if q == p {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
