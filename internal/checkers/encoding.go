package checkers

import (
	"fmt"
	"strings"
)

const (
	emptyToken         = "-"
	redToken           = "r"
	whiteToken         = "w"
	kingMarker         = "!"
	capturedRedToken   = "r*"
	capturedWhiteToken = "w*"
)

func parseSquareToken(tok string) (Color, bool, error) {
	var color Color
	switch tok[:1] {
	case redToken:
		color = Red
	case whiteToken:
		color = White
	default:
		return Red, false, fmt.Errorf("unknown piece %q", tok)
	}
	if len(tok) == 1 {
		return color, false, nil
	}
	if tok[1:] != kingMarker {
		return Red, false, fmt.Errorf("unknown piece %q", tok)
	}
	return color, true, nil
}

func pieceToken(p *Piece) string {
	tok := redToken
	if p.color == White {
		tok = whiteToken
	}
	if p.king {
		tok += kingMarker
	}
	return tok
}

// Serialize returns one token per square in index order followed by one
// token per captured red piece, then one per captured white piece. The
// result is accepted by NewBoard.
func (b *Board) Serialize() []string {
	out := make([]string, 0, SquareCount+len(b.capturedReds)+len(b.capturedWhites))
	for i := range b.squares {
		if p := b.squares[i].piece; p != nil {
			out = append(out, pieceToken(p))
		} else {
			out = append(out, emptyToken)
		}
	}
	for range b.capturedReds {
		out = append(out, capturedRedToken)
	}
	for range b.capturedWhites {
		out = append(out, capturedWhiteToken)
	}
	return out
}

// String is the comma-joined Serialize form stored by the session layer.
func (b *Board) String() string {
	return strings.Join(b.Serialize(), ",")
}

// Winner reports the color that captured all eight opposing pieces.
func (b *Board) Winner() (Color, bool) {
	if len(b.capturedReds) == PiecesPerColor {
		return White, true
	}
	if len(b.capturedWhites) == PiecesPerColor {
		return Red, true
	}
	return Red, false
}
