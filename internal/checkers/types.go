package checkers

import (
	"fmt"
	"strings"
)

const (
	// BoardSize is the number of columns and rows.
	BoardSize = 8
	// SquareCount is the number of squares, and the number of board tokens in an encoding.
	SquareCount = BoardSize * BoardSize
	// PiecesPerColor is fixed for the life of a game: live + captured.
	PiecesPerColor = 8
)

// Coordinates addresses a square by column and row, both in [0,7].
// Row 0 is the top row in the encoding order.
type Coordinates struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// Valid reports whether c lies on the board.
func (c Coordinates) Valid() bool {
	return c.Col >= 0 && c.Col < BoardSize && c.Row >= 0 && c.Row < BoardSize
}

func (c Coordinates) add(d Coordinates) Coordinates {
	return Coordinates{Col: c.Col + d.Col, Row: c.Row + d.Row}
}

func (c Coordinates) String() string { return fmt.Sprintf("(%d,%d)", c.Col, c.Row) }

// IndexToCoordinates maps a square index (row-major) to coordinates.
func IndexToCoordinates(i int) Coordinates {
	return Coordinates{Col: i % BoardSize, Row: i / BoardSize}
}

// CoordinatesToIndex is the inverse of IndexToCoordinates.
func CoordinatesToIndex(c Coordinates) int {
	return c.Row*BoardSize + c.Col
}

// Color identifies one of the two factions.
type Color int

const (
	Red Color = iota
	White
)

func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "white"
}

// Opponent returns the other color.
func (c Color) Opponent() Color {
	if c == Red {
		return White
	}
	return Red
}

// forward is the row delta of a non-king step for this color.
func (c Color) forward() int {
	if c == Red {
		return -1
	}
	return 1
}

// PromotionRow is the far row for this color's direction of travel.
func (c Color) PromotionRow() int {
	if c == Red {
		return 0
	}
	return BoardSize - 1
}

// ParseColor accepts "red"/"r" and "white"/"w" in any case.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "r":
		return Red, nil
	case "white", "w":
		return White, nil
	}
	return Red, fmt.Errorf("unknown color %q", s)
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// SquareColor is derived from coordinates and never changes.
type SquareColor int

const (
	Yellow SquareColor = iota
	Green
)

func (c SquareColor) String() string {
	if c == Green {
		return "green"
	}
	return "yellow"
}

func squareColorAt(c Coordinates) SquareColor {
	if (c.Col+c.Row)%2 == 1 {
		return Green
	}
	return Yellow
}

// directions returns the step deltas a piece may use, forward diagonals first.
func directions(color Color, king bool) []Coordinates {
	f := color.forward()
	dirs := []Coordinates{{Col: -1, Row: f}, {Col: 1, Row: f}}
	if king {
		dirs = append(dirs, Coordinates{Col: -1, Row: -f}, Coordinates{Col: 1, Row: -f})
	}
	return dirs
}
