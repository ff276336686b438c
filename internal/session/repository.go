package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

const schemaSQL = `CREATE TABLE IF NOT EXISTS checkers_games (
    game_id     TEXT PRIMARY KEY,
    p1_id       TEXT NOT NULL,
    p2_id       TEXT NOT NULL,
    winner      TEXT NOT NULL,
    winner_id   TEXT NOT NULL,
    final_board TEXT NOT NULL,
    moves       JSONB NOT NULL,
    transcript  TEXT NOT NULL,
    started_at  TIMESTAMPTZ NOT NULL,
    ended_at    TIMESTAMPTZ NOT NULL,
    duration_ms BIGINT NOT NULL
)`

// Repository archives finished games in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// EnsureSchema creates the archive table when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if r == nil || r.db == nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx, schemaSQL)
	return err
}

// SaveResult upserts a finished game.
func (r *Repository) SaveResult(ctx context.Context, g *Instance) error {
	if r == nil || r.db == nil || g == nil {
		return nil
	}
	board := ""
	if g.Board != nil {
		board = *g.Board
	}
	movesRaw, _ := json.Marshal(g.History)
	duration := g.UpdatedAt.Sub(g.CreatedAt).Milliseconds()
	if duration < 0 {
		duration = 0
	}

	q := `INSERT INTO checkers_games (
        game_id, p1_id, p2_id, winner, winner_id,
        final_board, moves, transcript,
        started_at, ended_at, duration_ms
      ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
      ) ON CONFLICT (game_id) DO UPDATE SET
        p1_id=EXCLUDED.p1_id,
        p2_id=EXCLUDED.p2_id,
        winner=EXCLUDED.winner,
        winner_id=EXCLUDED.winner_id,
        final_board=EXCLUDED.final_board,
        moves=EXCLUDED.moves,
        transcript=EXCLUDED.transcript,
        started_at=EXCLUDED.started_at,
        ended_at=EXCLUDED.ended_at,
        duration_ms=EXCLUDED.duration_ms`

	_, err := r.db.ExecContext(ctx, q,
		g.ID, g.P1ID, g.P2ID,
		strings.TrimSpace(g.Winner), strings.TrimSpace(g.WinnerID),
		board, string(movesRaw), buildTranscript(g),
		g.CreatedAt, g.UpdatedAt, duration,
	)
	return err
}

func resultToken(winner string) string {
	switch strings.ToLower(strings.TrimSpace(winner)) {
	case "red":
		return "1-0"
	case "white":
		return "0-1"
	default:
		return "*"
	}
}

// buildTranscript renders a tagged header and numbered move pairs, red first.
// Consecutive captures by one side stay in a single entry.
func buildTranscript(g *Instance) string {
	if g == nil {
		return ""
	}
	var b strings.Builder
	date := g.UpdatedAt
	if date.IsZero() {
		date = time.Now()
	}
	result := resultToken(g.Winner)
	b.WriteString("[Event \"Checkers\"]\n")
	b.WriteString(fmt.Sprintf("[Date \"%04d.%02d.%02d\"]\n", date.Year(), int(date.Month()), date.Day()))
	b.WriteString(fmt.Sprintf("[Red \"%s\"]\n", sanitize(g.P1ID)))
	b.WriteString(fmt.Sprintf("[White \"%s\"]\n", sanitize(g.P2ID)))
	b.WriteString(fmt.Sprintf("[Result \"%s\"]\n\n", result))

	turns := groupTurns(g.History)
	for i := 0; i < len(turns); i += 2 {
		b.WriteString(fmt.Sprintf("%d. %s", i/2+1, turns[i]))
		if i+1 < len(turns) {
			b.WriteString(" ")
			b.WriteString(turns[i+1])
		}
		b.WriteString(" ")
	}
	b.WriteString(result)
	return b.String()
}

// groupTurns joins chained captures ("a,bxc,d" then "c,dxe,f") into
// "a,bxc,dxe,f".
func groupTurns(history []string) []string {
	var turns []string
	for _, mv := range history {
		mv = strings.TrimSpace(mv)
		if n := len(turns); n > 0 && strings.Contains(mv, "x") && strings.Contains(turns[n-1], "x") {
			if from, rest, ok := strings.Cut(mv, "x"); ok && strings.HasSuffix(turns[n-1], "x"+from) {
				turns[n-1] += "x" + rest
				continue
			}
		}
		turns = append(turns, mv)
	}
	return turns
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\\", " ")
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.TrimSpace(s)
}
