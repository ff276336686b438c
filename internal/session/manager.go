package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/cheese-checkers/internal/checkers"
	"github.com/park285/cheese-checkers/internal/obslog"
)

const defaultTTL = 24 * time.Hour

// ResultSink receives finished games. *Repository implements it.
type ResultSink interface {
	SaveResult(ctx context.Context, g *Instance) error
}

// Manager keeps game instances in Redis as JSON, one key per game, plus a
// per-user index. Every mutation runs as a WATCH transaction on the game key,
// which serializes access to a game's board across processes.
type Manager struct {
	rdb  *redis.Client
	ttl  time.Duration
	sink ResultSink
}

type Option func(*Manager)

// WithTTL sets the expiry of game keys and user indexes.
func WithTTL(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.ttl = d
		}
	}
}

func NewManager(redisURL string, opts ...Option) (*Manager, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for session manager")
	}
	ropts, err := redis.ParseURL(strings.TrimSpace(redisURL))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(ropts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	m := &Manager{rdb: rdb, ttl: defaultTTL}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Manager) Close() error {
	if m == nil || m.rdb == nil {
		return nil
	}
	return m.rdb.Close()
}

// AttachRepository wires a sink for finished games.
func (m *Manager) AttachRepository(s ResultSink) {
	if m != nil {
		m.sink = s
	}
}

// Create registers a new instance for two participants. The board stays
// absent until Start or UpdateBoard.
func (m *Manager) Create(ctx context.Context, p1ID, p2ID string) (*Instance, error) {
	p1ID, p2ID = strings.TrimSpace(p1ID), strings.TrimSpace(p2ID)
	if p1ID == "" || p2ID == "" || p1ID == p2ID {
		return nil, ErrInvalidArgs
	}
	now := time.Now()
	g := &Instance{
		ID:        uuid.NewString(),
		P1ID:      p1ID,
		P2ID:      p2ID,
		Status:    StatusGood,
		Turn:      checkers.Red,
		History:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.save(ctx, g); err != nil {
		return nil, err
	}
	if err := m.indexParticipants(ctx, g.ID, g.P1ID, g.P2ID); err != nil {
		return nil, err
	}
	obslog.L().Info("checkers_game_create",
		zap.String("game_id", g.ID),
		zap.String("p1_id", g.P1ID),
		zap.String("p2_id", g.P2ID),
	)
	return g, nil
}

// Load returns the instance or ErrGameNotFound.
func (m *Manager) Load(ctx context.Context, id string) (*Instance, error) {
	g, err := m.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// ActiveByUser returns the most recently updated unfinished game of a user,
// or nil.
func (m *Manager) ActiveByUser(ctx context.Context, userID string) (*Instance, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}
	ids, err := m.rdb.SMembers(ctx, idxUserKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	var list []*Instance
	for _, id := range ids {
		g, gerr := m.get(ctx, id)
		if gerr == nil && g != nil && g.Status != StatusFinished {
			list = append(list, g)
		}
	}
	if len(list) == 0 {
		return nil, nil
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UpdatedAt.After(list[j].UpdatedAt) })
	return list[0], nil
}

// UpdateBoard stores a serialized board verbatim. It is not validated here;
// the next Move or LegalMoves parses it.
func (m *Manager) UpdateBoard(ctx context.Context, id, board string) (*Instance, error) {
	g, err := m.update(ctx, id, func(cur *Instance) error {
		b := board
		cur.Board = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	obslog.L().Debug("checkers_board_update", zap.String("game_id", g.ID), zap.Int("length", len(board)))
	return g, nil
}

// SetStatus overwrites the status flag.
func (m *Manager) SetStatus(ctx context.Context, id string, s Status) (*Instance, error) {
	if _, err := ParseStatus(string(s)); err != nil {
		return nil, err
	}
	g, err := m.update(ctx, id, func(cur *Instance) error {
		cur.Status = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	obslog.L().Info("checkers_status", zap.String("game_id", g.ID), zap.String("status", string(s)))
	return g, nil
}

// Start places the opening position; red moves first.
func (m *Manager) Start(ctx context.Context, id string) (*Instance, error) {
	g, err := m.update(ctx, id, func(cur *Instance) error {
		if cur.Board != nil {
			return ErrAlreadyStarted
		}
		if cur.Status == StatusFinished {
			return ErrGameOver
		}
		b := checkers.NewStartingBoard().String()
		cur.Board = &b
		cur.Turn = checkers.Red
		cur.ChainFrom = nil
		cur.Status = StatusGood
		return nil
	})
	if err != nil {
		return nil, err
	}
	obslog.L().Info("checkers_game_start", zap.String("game_id", g.ID))
	return g, nil
}

// LegalMoves returns the destinations open to the side to move, keyed by
// origin. During a capture chain only the chaining piece is listed.
func (m *Manager) LegalMoves(ctx context.Context, id string) (map[checkers.Coordinates][]checkers.Coordinates, error) {
	g, err := m.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.Status == StatusFinished {
		return nil, ErrGameOver
	}
	b, err := boardOf(g)
	if err != nil {
		return nil, err
	}
	return legalMoves(g, b), nil
}

// Move applies from→to for userID. Captures are mandatory across the whole
// color; after a capture the same piece keeps the turn while it can capture
// again.
func (m *Manager) Move(ctx context.Context, id, userID string, from, to checkers.Coordinates) (*MoveOutcome, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidArgs
	}
	var captured, mustContinue bool
	g, err := m.update(ctx, id, func(cur *Instance) error {
		captured, mustContinue = false, false
		if cur.Status == StatusFinished {
			return ErrGameOver
		}
		color, ok := cur.SeatColor(userID)
		if !ok {
			return ErrNotParticipant
		}
		if color != cur.Turn {
			return ErrNotYourTurn
		}
		b, err := boardOf(cur)
		if err != nil {
			return err
		}
		if cur.ChainFrom != nil && from != *cur.ChainFrom {
			return ErrMustContinue
		}
		if !slices.Contains(legalMoves(cur, b)[from], to) {
			return fmt.Errorf("%w: %v -> %v", ErrIllegalMove, from, to)
		}

		captured, err = b.MovePiece(from, to)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrIllegalMove, err)
		}
		cur.History = append(cur.History, notation(from, to, captured))
		if captured {
			next, _ := b.ValidMoves(to, true)
			mustContinue = len(next) > 0
		}
		if mustContinue {
			at := to
			cur.ChainFrom = &at
		} else {
			cur.ChainFrom = nil
			cur.Turn = cur.Turn.Opponent()
		}
		if winner, ok := b.Winner(); ok {
			cur.Status = StatusFinished
			cur.Winner = winner.String()
			cur.WinnerID = cur.PlayerID(winner)
			cur.ChainFrom = nil
			mustContinue = false
		}
		s := b.String()
		cur.Board = &s
		return nil
	})
	if err != nil {
		obslog.L().Debug("checkers_move_rejected",
			zap.String("game_id", strings.TrimSpace(id)),
			zap.String("user_id", userID),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
			zap.Error(err),
		)
		return nil, err
	}

	obslog.L().Info("checkers_move",
		zap.String("game_id", g.ID),
		zap.String("user_id", userID),
		zap.String("move", g.History[len(g.History)-1]),
		zap.Bool("must_continue", mustContinue),
		zap.String("turn", g.Turn.String()),
		zap.String("status", string(g.Status)),
	)
	if g.Status == StatusFinished {
		_ = m.persistIfFinal(ctx, g)
	}
	return &MoveOutcome{Game: g, Captured: captured, MustContinue: mustContinue}, nil
}

// Resign ends the game in the opponent's favor.
func (m *Manager) Resign(ctx context.Context, id, userID string) (*Instance, error) {
	g, err := m.update(ctx, id, func(cur *Instance) error {
		if cur.Status == StatusFinished {
			return ErrGameOver
		}
		color, ok := cur.SeatColor(strings.TrimSpace(userID))
		if !ok {
			return ErrNotParticipant
		}
		cur.Status = StatusFinished
		cur.Winner = color.Opponent().String()
		cur.WinnerID = cur.PlayerID(color.Opponent())
		cur.ChainFrom = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	obslog.L().Info("checkers_resign",
		zap.String("game_id", g.ID),
		zap.String("resigner", strings.TrimSpace(userID)),
		zap.String("winner", g.WinnerID),
	)
	_ = m.persistIfFinal(ctx, g)
	return g, nil
}

func boardOf(g *Instance) (*checkers.Board, error) {
	if g.Board == nil {
		return nil, ErrNotStarted
	}
	b, err := checkers.Parse(*g.Board)
	if err != nil {
		return nil, fmt.Errorf("load board of %s: %w", g.ID, err)
	}
	return b, nil
}

func legalMoves(g *Instance, b *checkers.Board) map[checkers.Coordinates][]checkers.Coordinates {
	if g.ChainFrom != nil {
		next, err := b.ValidMoves(*g.ChainFrom, true)
		if err != nil {
			return map[checkers.Coordinates][]checkers.Coordinates{}
		}
		return map[checkers.Coordinates][]checkers.Coordinates{*g.ChainFrom: next}
	}
	return b.ComputeAllValidMoves(g.Turn)
}

// notation writes "c,r-c,r" for steps and "c,rxc,r" for captures.
func notation(from, to checkers.Coordinates, captured bool) string {
	sep := "-"
	if captured {
		sep = "x"
	}
	return fmt.Sprintf("%d,%d%s%d,%d", from.Col, from.Row, sep, to.Col, to.Row)
}

// update runs fn on the stored instance inside a WATCH transaction and
// writes the result back.
func (m *Manager) update(ctx context.Context, id string, fn func(cur *Instance) error) (*Instance, error) {
	if m == nil || m.rdb == nil {
		return nil, fmt.Errorf("session manager not initialized")
	}
	key := gameKey(id)
	var out *Instance
	err := m.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrGameNotFound
		}
		if err != nil {
			return err
		}
		var cur Instance
		if err := json.Unmarshal(raw, &cur); err != nil {
			return err
		}
		if err := fn(&cur); err != nil {
			return err
		}
		cur.UpdatedAt = time.Now()
		newRaw, err := json.Marshal(&cur)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, newRaw, m.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		out = &cur
		return nil
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return nil, ErrConcurrentUpdate
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Manager) save(ctx context.Context, g *Instance) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return err
	}
	return m.rdb.Set(ctx, gameKey(g.ID), raw, m.ttl).Err()
}

func (m *Manager) get(ctx context.Context, id string) (*Instance, error) {
	if m == nil || m.rdb == nil {
		return nil, fmt.Errorf("session manager not initialized")
	}
	raw, err := m.rdb.Get(ctx, gameKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var g Instance
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (m *Manager) indexParticipants(ctx context.Context, id string, users ...string) error {
	for _, u := range users {
		if strings.TrimSpace(u) == "" {
			continue
		}
		key := idxUserKey(u)
		if err := m.rdb.SAdd(ctx, key, id).Err(); err != nil {
			return err
		}
		_ = m.rdb.Expire(ctx, key, m.ttl).Err()
	}
	return nil
}

// persistIfFinal hands a finished game to the sink, if one is attached.
func (m *Manager) persistIfFinal(ctx context.Context, g *Instance) error {
	if m == nil || m.sink == nil || g == nil || g.Status != StatusFinished {
		return nil
	}
	if err := m.sink.SaveResult(ctx, g); err != nil {
		obslog.L().Error("checkers_result_persist_error", zap.String("game_id", g.ID), zap.Error(err))
		return err
	}
	obslog.L().Info("checkers_result_persist", zap.String("game_id", g.ID), zap.String("winner", g.Winner))
	return nil
}

func gameKey(id string) string        { return "checkers:game:" + strings.TrimSpace(id) }
func idxUserKey(userID string) string { return "checkers:index:user:" + strings.TrimSpace(userID) }
