package session

import (
	"errors"
	"time"

	"github.com/park285/cheese-checkers/internal/checkers"
)

// Status is the lifecycle flag of a game instance.
type Status string

const (
	StatusGood     Status = "good"
	StatusQueued   Status = "queued"
	StatusFinished Status = "finished"
)

// ParseStatus accepts the enumerated values only.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusGood, StatusQueued, StatusFinished:
		return Status(s), nil
	}
	return "", ErrInvalidArgs
}

// Instance pairs two participants with a serialized board snapshot.
// P1 plays red and moves first; P2 plays white.
type Instance struct {
	ID   string `json:"id"`
	P1ID string `json:"p1_id"`
	P2ID string `json:"p2_id"`

	// Board is absent until the game starts or a snapshot is pushed. It is
	// stored verbatim and only validated when parsed.
	Board *string `json:"board,omitempty"`

	Status    Status                `json:"status"`
	Turn      checkers.Color        `json:"turn"`
	ChainFrom *checkers.Coordinates `json:"chain_from,omitempty"`
	History   []string              `json:"history"`

	Winner   string `json:"winner,omitempty"`
	WinnerID string `json:"winner_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SeatColor returns the color a participant plays.
func (g *Instance) SeatColor(userID string) (checkers.Color, bool) {
	switch userID {
	case g.P1ID:
		return checkers.Red, true
	case g.P2ID:
		return checkers.White, true
	}
	return checkers.Red, false
}

// PlayerID returns the participant playing color.
func (g *Instance) PlayerID(color checkers.Color) string {
	if color == checkers.Red {
		return g.P1ID
	}
	return g.P2ID
}

// MoveOutcome reports one applied move.
type MoveOutcome struct {
	Game         *Instance
	Captured     bool
	MustContinue bool
}

var (
	ErrInvalidArgs      = errors.New("invalid arguments")
	ErrGameNotFound     = errors.New("game not found")
	ErrNotStarted       = errors.New("game has no board yet")
	ErrAlreadyStarted   = errors.New("game already has a board")
	ErrGameOver         = errors.New("game is finished")
	ErrNotParticipant   = errors.New("user is not in this game")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrMustContinue     = errors.New("capture chain must continue with the same piece")
	ErrIllegalMove      = errors.New("illegal move")
	ErrConcurrentUpdate = errors.New("game was updated concurrently")
)
