package checkers

import "fmt"

// ValidMoves returns the legal destinations of the piece at from.
//
// With hasCaptured set the piece is continuing a capture chain: the cache is
// bypassed and only further captures are returned; an empty result ends the
// chain. Otherwise the result of ComputeAllValidMoves is served when it was
// computed for this piece's color, so a sibling's capture suppresses simple
// moves; without it, captures of this piece alone suppress its simple moves.
func (b *Board) ValidMoves(from Coordinates, hasCaptured bool) ([]Coordinates, error) {
	if !from.Valid() {
		return nil, fmt.Errorf("valid moves %v: %w", from, ErrOutOfRange)
	}
	p := b.PieceAt(from)
	if p == nil {
		return nil, fmt.Errorf("valid moves %v: %w", from, ErrNoPiece)
	}
	if !hasCaptured && b.cache.computed && b.cache.color == p.color {
		return append([]Coordinates(nil), b.cache.moves[p.id]...), nil
	}
	return b.pieceMoves(p, hasCaptured), nil
}

// ComputeAllValidMoves fills the move cache for every live piece of color and
// returns the result keyed by piece square. If any piece of the color can
// capture, no piece of the color gets a simple move.
func (b *Board) ComputeAllValidMoves(color Color) map[Coordinates][]Coordinates {
	pieces := *b.live(color)
	moves := make(map[int][]Coordinates, len(pieces))

	mustCapture := false
	for _, p := range pieces {
		caps := b.captures(p)
		if len(caps) > 0 {
			mustCapture = true
		}
		moves[p.id] = caps
	}
	if !mustCapture {
		for _, p := range pieces {
			moves[p.id] = b.simpleMoves(p)
		}
	}

	b.cache = moveCache{computed: true, color: color, moves: moves}

	out := make(map[Coordinates][]Coordinates, len(pieces))
	for _, p := range pieces {
		at, _ := p.Coordinates()
		out[at] = append([]Coordinates(nil), moves[p.id]...)
	}
	return out
}

// MustCapture reports whether any live piece of color has a capture. The
// cache is not touched.
func (b *Board) MustCapture(color Color) bool {
	for _, p := range *b.live(color) {
		if len(b.captures(p)) > 0 {
			return true
		}
	}
	return false
}

func (b *Board) pieceMoves(p *Piece, hasCaptured bool) []Coordinates {
	caps := b.captures(p)
	if len(caps) > 0 || hasCaptured {
		return caps
	}
	return b.simpleMoves(p)
}

func (b *Board) captures(p *Piece) []Coordinates {
	from, ok := p.Coordinates()
	if !ok {
		return nil
	}
	var out []Coordinates
	for _, d := range directions(p.color, p.king) {
		over := from.add(d)
		if !over.Valid() {
			continue
		}
		victim := b.PieceAt(over)
		if victim == nil || victim.color == p.color {
			continue
		}
		land := over.add(d)
		if !land.Valid() || b.PieceAt(land) != nil {
			continue
		}
		out = append(out, land)
	}
	return out
}

func (b *Board) simpleMoves(p *Piece) []Coordinates {
	from, ok := p.Coordinates()
	if !ok {
		return nil
	}
	var out []Coordinates
	for _, d := range directions(p.color, p.king) {
		to := from.add(d)
		if to.Valid() && b.PieceAt(to) == nil {
			out = append(out, to)
		}
	}
	return out
}
