// cell-arena runs the arena in the local terminal.
//
//	go run . [--players 1|2] [--tuning arena.yaml] [--db arena.db] [--observe 127.0.0.1:8090] [--log cell-arena.log]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"cell-arena/internal/game"
	"cell-arena/internal/observer"
	"cell-arena/internal/store"
	"cell-arena/internal/tuning"
)

func main() {
	players := flag.Int("players", 0, "Local players: 1, 2, or 0 to choose on start")
	tuningFile := flag.String("tuning", "", "Path to a YAML tuning file (defaults if empty)")
	dbPath := flag.String("db", "", "Path to the score database (default under $XDG_DATA_HOME)")
	noDB := flag.Bool("no-db", false, "Do not record scores")
	observeAddr := flag.String("observe", "", "Serve a read-only WebSocket spectator feed on this loopback address")
	logFile := flag.String("log", "", "Write the game log to this file")
	seed := flag.Int64("seed", 0, "Arena RNG seed (0 picks one from the clock)")
	flag.Parse()

	if err := run(*players, *tuningFile, *dbPath, *noDB, *observeAddr, *logFile, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(players int, tuningFile, dbPath string, noDB bool, observeAddr, logFile string, seed int64) error {
	if players < 0 || players > 2 {
		return fmt.Errorf("--players must be 0, 1 or 2, got %d", players)
	}
	t, err := tuning.Load(tuningFile)
	if err != nil {
		return fmt.Errorf("load tuning: %w", err)
	}

	// The terminal belongs to the game, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := slog.New(slog.NewTextHandler(logOut, nil))

	opts := game.Options{Players: players, Tuning: t, Logger: logger, Seed: seed}

	if !noDB {
		if dbPath == "" {
			if dbPath, err = store.DefaultPath(); err != nil {
				return fmt.Errorf("score database: %w", err)
			}
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("score database: %w", err)
		}
		defer st.Close()
		opts.Store = st
	}

	if observeAddr != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		obs := observer.NewServer(log.New(logOut, "observer ", log.LstdFlags))
		go func() {
			if err := obs.ListenAndServe(ctx, observeAddr); err != nil {
				logger.Warn("observer stopped", "addr", observeAddr, "error", err)
			}
		}()
		opts.Observer = obs
	}

	g, err := game.New(opts)
	if err != nil {
		return err
	}
	g.Run()
	return nil
}
