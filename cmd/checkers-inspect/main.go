package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	appcfg "github.com/park285/cheese-checkers/internal/config"
	"github.com/park285/cheese-checkers/internal/checkers"
	"github.com/park285/cheese-checkers/internal/msgcat"
	"github.com/park285/cheese-checkers/internal/obslog"
	"github.com/park285/cheese-checkers/internal/session"
)

func main() {
	boardFlag := flag.String("board", "", "serialized board (comma-separated tokens); \"start\" for the opening position")
	gameFlag := flag.String("game", "", "id of a stored game (needs REDIS_URL)")
	colorFlag := flag.String("color", "", "list legal moves for this color (red|white); defaults to the side to move")
	userFlag := flag.String("user", "", "participant applying -move")
	moveFlag := flag.String("move", "", "move to apply to -game, e.g. 1,6-2,5 or 6,5x4,3")
	flag.Parse()

	switch {
	case strings.TrimSpace(*boardFlag) != "":
		_ = obslog.Init(obslog.Options{Level: "info", Format: "console", Console: true})
		defer func() { _ = obslog.Sync() }()
		cat, err := msgcat.New("")
		if err != nil {
			log.Fatalf("messages: %v", err)
		}
		inspectBoard(cat, *boardFlag, *colorFlag)
	case strings.TrimSpace(*gameFlag) != "":
		inspectGame(*gameFlag, *colorFlag, *userFlag, *moveFlag)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func inspectBoard(cat *msgcat.Catalog, raw, colorName string) {
	var b *checkers.Board
	if strings.EqualFold(strings.TrimSpace(raw), "start") {
		b = checkers.NewStartingBoard()
	} else {
		parsed, err := checkers.Parse(raw)
		if err != nil {
			log.Fatalf("board: %v", err)
		}
		b = parsed
	}
	color := checkers.Red
	if colorName != "" {
		c, err := checkers.ParseColor(colorName)
		if err != nil {
			log.Fatalf("color: %v", err)
		}
		color = c
	}
	printBoard(b)
	printMoves(color, b.ComputeAllValidMoves(color))
	printWinner(cat, b)
}

func inspectGame(id, colorName, user, move string) {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.Init(obslog.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Console: cfg.Log.Console,
		ToFile:  cfg.Log.ToFile,
		File:    cfg.Log.File,
		Caller:  cfg.Log.Caller,
	}); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = obslog.Sync() }()

	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		obslog.L().Warn("checkers_messages_fallback", zap.String("dir", cfg.MessagesDir), zap.Error(err))
	}

	mgr, err := session.NewManager(cfg.RedisURL, session.WithTTL(time.Duration(cfg.SessionTTLSec)*time.Second))
	if err != nil {
		log.Fatalf("session manager init error: %v", err)
	}
	defer mgr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cfg.DatabaseURL != "" {
		repo, err := session.NewRepository(cfg.DatabaseURL)
		if err != nil {
			obslog.L().Warn("checkers_repo_unavailable", zap.Error(err))
		} else {
			defer repo.Close()
			if err := repo.EnsureSchema(ctx); err != nil {
				obslog.L().Warn("checkers_repo_schema", zap.Error(err))
			}
			mgr.AttachRepository(repo)
		}
	}

	if strings.TrimSpace(move) != "" {
		from, to, err := parseMove(move)
		if err != nil {
			log.Fatalf("move: %v", err)
		}
		out, err := mgr.Move(ctx, id, user, from, to)
		if err != nil {
			de := session.ToDomainError(err)
			data := map[string]any{"Turn": "", "ChainFrom": ""}
			if g, lerr := mgr.Load(ctx, id); lerr == nil {
				data["Turn"] = g.Turn.String()
				if g.ChainFrom != nil {
					data["ChainFrom"] = g.ChainFrom.String()
				}
			}
			log.Fatalf("move rejected [%s]: %s", de.Code, cat.Text("error."+de.Code, data, de.Message))
		}
		key := "move.applied"
		if out.Captured {
			key = "move.captured"
		}
		fmt.Println(cat.Text(key, map[string]any{"Move": move}, move))
		if out.MustContinue {
			fmt.Println(cat.Text("move.continue", map[string]any{"At": to.String()}, "capture again from "+to.String()))
		}
	}

	g, err := mgr.Load(ctx, id)
	if err != nil {
		log.Fatalf("load: %v", err)
	}
	fmt.Println(cat.Text("game.header", map[string]any{
		"ID": g.ID, "Red": g.P1ID, "White": g.P2ID, "Status": string(g.Status), "Moves": len(g.History),
	}, g.ID))
	if g.Board == nil {
		fmt.Println(cat.Text("game.no_board", nil, "no board yet"))
		return
	}
	b, err := checkers.Parse(*g.Board)
	if err != nil {
		log.Fatalf("stored board: %v", err)
	}
	printBoard(b)
	if g.Status == session.StatusFinished {
		fmt.Println(cat.Text("game.winner", map[string]any{"Winner": g.Winner + " (" + g.WinnerID + ")"}, "winner: "+g.Winner))
		return
	}
	if colorName != "" {
		c, err := checkers.ParseColor(colorName)
		if err != nil {
			log.Fatalf("color: %v", err)
		}
		printMoves(c, b.ComputeAllValidMoves(c))
		return
	}
	moves, err := mgr.LegalMoves(ctx, id)
	if err != nil {
		log.Fatalf("legal moves: %v", err)
	}
	if g.ChainFrom != nil {
		fmt.Println(cat.Text("game.chain", map[string]any{"At": g.ChainFrom.String()}, "chain from "+g.ChainFrom.String()))
	}
	printMoves(g.Turn, moves)
}

func printBoard(b *checkers.Board) {
	tokens := b.Serialize()
	fmt.Println("    0  1  2  3  4  5  6  7")
	for row := 0; row < checkers.BoardSize; row++ {
		fmt.Printf("%d ", row)
		for col := 0; col < checkers.BoardSize; col++ {
			fmt.Printf(" %-2s", tokens[row*checkers.BoardSize+col])
		}
		fmt.Println()
	}
	fmt.Printf("captured: red=%d white=%d\n", b.CapturedCount(checkers.Red), b.CapturedCount(checkers.White))
}

func printMoves(color checkers.Color, moves map[checkers.Coordinates][]checkers.Coordinates) {
	froms := make([]checkers.Coordinates, 0, len(moves))
	for from, to := range moves {
		if len(to) > 0 {
			froms = append(froms, from)
		}
	}
	sort.Slice(froms, func(i, j int) bool {
		return checkers.CoordinatesToIndex(froms[i]) < checkers.CoordinatesToIndex(froms[j])
	})
	fmt.Printf("legal moves for %s:\n", color)
	if len(froms) == 0 {
		fmt.Println("  none")
	}
	for _, from := range froms {
		fmt.Printf("  %v -> %v\n", from, moves[from])
	}
}

func printWinner(cat *msgcat.Catalog, b *checkers.Board) {
	if w, ok := b.Winner(); ok {
		fmt.Println(cat.Text("game.winner", map[string]any{"Winner": w.String()}, "winner: "+w.String()))
		return
	}
	fmt.Println("winner: none")
}

// parseMove accepts "c,r-c,r" or "c,rxc,r".
func parseMove(s string) (checkers.Coordinates, checkers.Coordinates, error) {
	s = strings.TrimSpace(s)
	sep := "-"
	if strings.Contains(s, "x") {
		sep = "x"
	}
	a, b, ok := strings.Cut(s, sep)
	if !ok {
		return checkers.Coordinates{}, checkers.Coordinates{}, fmt.Errorf("expected from%sto in %q", sep, s)
	}
	from, err := parseSquare(a)
	if err != nil {
		return checkers.Coordinates{}, checkers.Coordinates{}, err
	}
	to, err := parseSquare(b)
	if err != nil {
		return checkers.Coordinates{}, checkers.Coordinates{}, err
	}
	return from, to, nil
}

func parseSquare(s string) (checkers.Coordinates, error) {
	cs, rs, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return checkers.Coordinates{}, fmt.Errorf("square %q: expected col,row", s)
	}
	col, err := strconv.Atoi(strings.TrimSpace(cs))
	if err != nil {
		return checkers.Coordinates{}, fmt.Errorf("square %q: %w", s, err)
	}
	row, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return checkers.Coordinates{}, fmt.Errorf("square %q: %w", s, err)
	}
	c := checkers.Coordinates{Col: col, Row: row}
	if !c.Valid() {
		return checkers.Coordinates{}, fmt.Errorf("square %q: %w", s, checkers.ErrOutOfRange)
	}
	return c, nil
}
