package checkers

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every failing operation wraps exactly one of these.
var (
	ErrMalformed        = errors.New("malformed board encoding")
	ErrOutOfRange       = errors.New("coordinates out of range")
	ErrNoPiece          = errors.New("no piece on square")
	ErrOccupied         = errors.New("destination square is occupied")
	ErrBadGeometry      = errors.New("move is outside of move or capture range")
	ErrNothingToCapture = errors.New("no piece on square to capture")
	ErrSelfCapture      = errors.New("cannot capture own color piece")
)

// MoveError reports a rejected move with its endpoints.
type MoveError struct {
	From Coordinates
	To   Coordinates
	Err  error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move %v -> %v: %v", e.From, e.To, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }

func moveErr(from, to Coordinates, err error) error {
	return &MoveError{From: from, To: to, Err: err}
}
