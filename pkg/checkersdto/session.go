package checkersdto

import "time"

// Square is a board position as column and row, row 0 on top.
type Square struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// Move is one legal destination for the piece on From.
type Move struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// SessionState is what a presentation layer needs to draw a game.
type SessionState struct {
	GameID     string    `json:"game_id"`
	P1ID       string    `json:"p1_id"`
	P2ID       string    `json:"p2_id"`
	Status     string    `json:"status"`
	Board      []string  `json:"board,omitempty"`
	Turn       string    `json:"turn,omitempty"`
	ChainFrom  *Square   `json:"chain_from,omitempty"`
	LegalMoves []Move    `json:"legal_moves,omitempty"`
	Winner     string    `json:"winner,omitempty"`
	WinnerID   string    `json:"winner_id,omitempty"`
	MoveCount  int       `json:"move_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MoveResult summarises one applied move.
type MoveResult struct {
	State        *SessionState `json:"state"`
	Captured     bool          `json:"captured"`
	MustContinue bool          `json:"must_continue"`
	Finished     bool          `json:"finished"`
}
