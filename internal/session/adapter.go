package session

import (
	"errors"
	"sort"

	"github.com/park285/cheese-checkers/internal/checkers"
	"github.com/park285/cheese-checkers/pkg/checkersdto"
)

// ToDTO flattens an instance for a presentation layer. Legal moves are listed
// only while the game is running, in board order.
func ToDTO(g *Instance) (*checkersdto.SessionState, error) {
	if g == nil {
		return nil, nil
	}
	state := &checkersdto.SessionState{
		GameID:    g.ID,
		P1ID:      g.P1ID,
		P2ID:      g.P2ID,
		Status:    string(g.Status),
		Winner:    g.Winner,
		WinnerID:  g.WinnerID,
		MoveCount: len(g.History),
		UpdatedAt: g.UpdatedAt,
	}
	if g.Board == nil {
		return state, nil
	}
	b, err := boardOf(g)
	if err != nil {
		return nil, err
	}
	state.Board = b.Serialize()
	if g.Status == StatusFinished {
		return state, nil
	}
	state.Turn = g.Turn.String()
	if g.ChainFrom != nil {
		sq := toSquare(*g.ChainFrom)
		state.ChainFrom = &sq
	}
	state.LegalMoves = flattenMoves(legalMoves(g, b))
	return state, nil
}

// ToMoveResult wraps a move outcome.
func ToMoveResult(out *MoveOutcome) (*checkersdto.MoveResult, error) {
	if out == nil {
		return nil, nil
	}
	state, err := ToDTO(out.Game)
	if err != nil {
		return nil, err
	}
	return &checkersdto.MoveResult{
		State:        state,
		Captured:     out.Captured,
		MustContinue: out.MustContinue,
		Finished:     out.Game != nil && out.Game.Status == StatusFinished,
	}, nil
}

// ToDomainError maps session and board errors to codes a presenter can switch on.
func ToDomainError(err error) *checkersdto.DomainError {
	if err == nil {
		return nil
	}
	code := "internal"
	retryable := false
	switch {
	case errors.Is(err, ErrConcurrentUpdate):
		code, retryable = "concurrent_update", true
	case errors.Is(err, ErrGameNotFound):
		code = "not_found"
	case errors.Is(err, ErrNotStarted):
		code = "not_started"
	case errors.Is(err, ErrAlreadyStarted):
		code = "already_started"
	case errors.Is(err, ErrGameOver):
		code = "game_over"
	case errors.Is(err, ErrNotParticipant):
		code = "not_participant"
	case errors.Is(err, ErrNotYourTurn):
		code = "not_your_turn"
	case errors.Is(err, ErrMustContinue):
		code = "must_continue"
	case errors.Is(err, ErrIllegalMove):
		code = "illegal_move"
	case errors.Is(err, ErrInvalidArgs):
		code = "invalid_args"
	case errors.Is(err, checkers.ErrMalformed):
		code = "malformed_board"
	}
	return &checkersdto.DomainError{Code: code, Message: err.Error(), Retryable: retryable}
}

func flattenMoves(moves map[checkers.Coordinates][]checkers.Coordinates) []checkersdto.Move {
	froms := make([]checkers.Coordinates, 0, len(moves))
	for from := range moves {
		froms = append(froms, from)
	}
	sort.Slice(froms, func(i, j int) bool {
		return checkers.CoordinatesToIndex(froms[i]) < checkers.CoordinatesToIndex(froms[j])
	})
	var out []checkersdto.Move
	for _, from := range froms {
		for _, to := range moves[from] {
			out = append(out, checkersdto.Move{From: toSquare(from), To: toSquare(to)})
		}
	}
	return out
}

func toSquare(c checkers.Coordinates) checkersdto.Square {
	return checkersdto.Square{Col: c.Col, Row: c.Row}
}
