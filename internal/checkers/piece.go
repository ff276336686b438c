package checkers

// Position is where a piece is: OnBoard or Captured.
type Position interface {
	isPosition()
}

// OnBoard is the position of a live piece.
type OnBoard struct {
	At Coordinates
}

// Captured is the position of a piece removed from play. It is terminal.
type Captured struct{}

func (OnBoard) isPosition()  {}
func (Captured) isPosition() {}

// Piece is a passive token. Its transitions are driven only by Board.
type Piece struct {
	id    int
	color Color
	pos   Position
	king  bool
}

func newPiece(id int, color Color, pos Position, king bool) *Piece {
	return &Piece{id: id, color: color, pos: pos, king: king}
}

// ID is stable for the life of the Board that created the piece.
func (p *Piece) ID() int { return p.id }

func (p *Piece) Color() Color { return p.color }

func (p *Piece) IsKing() bool { return p.king }

func (p *Piece) Position() Position { return p.pos }

// Coordinates returns the piece's square, or false once it has been captured.
func (p *Piece) Coordinates() (Coordinates, bool) {
	if on, ok := p.pos.(OnBoard); ok {
		return on.At, true
	}
	return Coordinates{}, false
}

func (p *Piece) IsCaptured() bool {
	_, ok := p.pos.(Captured)
	return ok
}

func (p *Piece) moveTo(c Coordinates) { p.pos = OnBoard{At: c} }

func (p *Piece) capture() { p.pos = Captured{} }

// promote never reverts.
func (p *Piece) promote() { p.king = true }

// Square is one of the 64 fixed cells of a Board.
type Square struct {
	index int
	color SquareColor
	piece *Piece
}

func (s *Square) Index() int { return s.index }

func (s *Square) Color() SquareColor { return s.color }

func (s *Square) Coordinates() Coordinates { return IndexToCoordinates(s.index) }

// Piece returns the occupant or nil.
func (s *Square) Piece() *Piece { return s.piece }
