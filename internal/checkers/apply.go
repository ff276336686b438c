package checkers

// MovePiece moves the piece at from to to and reports whether it captured.
//
// A one-column step is a simple move; a two-by-two diagonal jump captures the
// opposing piece on the midpoint. Geometry is checked here, legality against
// the mandatory capture rule is the caller's job via ValidMoves. All checks
// run before any mutation, so a failed call leaves the board unchanged.
//
// A simple move ends the turn and clears the move cache. A capture keeps it,
// since the same piece may have to continue the chain.
func (b *Board) MovePiece(from, to Coordinates) (bool, error) {
	if !from.Valid() || !to.Valid() {
		return false, moveErr(from, to, ErrOutOfRange)
	}
	p := b.PieceAt(from)
	if p == nil {
		return false, moveErr(from, to, ErrNoPiece)
	}

	dc, dr := from.Col-to.Col, from.Row-to.Row
	var victim *Piece
	if abs(dc) == 1 {
		if abs(dr) != 1 {
			return false, moveErr(from, to, ErrBadGeometry)
		}
		if b.PieceAt(to) != nil {
			return false, moveErr(from, to, ErrOccupied)
		}
	} else {
		if abs(dc) != 2 || abs(dr) != 2 {
			return false, moveErr(from, to, ErrBadGeometry)
		}
		mid := Coordinates{Col: from.Col - dc/2, Row: from.Row - dr/2}
		victim = b.PieceAt(mid)
		if victim == nil {
			return false, moveErr(from, to, ErrNothingToCapture)
		}
		if victim.color == p.color {
			return false, moveErr(from, to, ErrSelfCapture)
		}
		if b.PieceAt(to) != nil {
			return false, moveErr(from, to, ErrOccupied)
		}
	}

	if victim != nil {
		b.remove(victim)
	}
	b.squares[CoordinatesToIndex(from)].piece = nil
	b.squares[CoordinatesToIndex(to)].piece = p
	p.moveTo(to)
	if to.Row == p.color.PromotionRow() {
		b.promote(p)
	}

	if victim == nil {
		b.cache.reset()
	}
	return victim != nil, nil
}

// remove takes a live piece off the board into its color's captured set.
func (b *Board) remove(p *Piece) {
	at, ok := p.Coordinates()
	if !ok {
		return
	}
	b.squares[CoordinatesToIndex(at)].piece = nil
	p.capture()
	live := b.live(p.color)
	*live = removePiece(*live, p)
	if p.king {
		b.kings = removePiece(b.kings, p)
	}
	taken := b.captured(p.color)
	*taken = append(*taken, p)
}

func (b *Board) promote(p *Piece) {
	if p.king {
		return
	}
	p.promote()
	b.kings = append(b.kings, p)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
