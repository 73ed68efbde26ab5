// Package store persists the best score and a history of finished rounds in
// a local SQLite file.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

const bestScoreKey = "best_score"

// Run is one finished round.
type Run struct {
	Mode       string
	Players    int
	Score      int
	Duration   time.Duration
	FoodEaten  int
	CellsEaten int
	VirusesHit int
	Splits     int
	Ejections  int
	EndedAt    time.Time
}

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store pragmas: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// DefaultPath is $XDG_DATA_HOME/cell-arena/arena.db, falling back to
// ~/.local/share/cell-arena/arena.db.
func DefaultPath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "arena.db"), nil
}

func dataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "cell-arena"), nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			players INTEGER NOT NULL,
			score INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			food_eaten INTEGER NOT NULL,
			cells_eaten INTEGER NOT NULL,
			viruses_hit INTEGER NOT NULL,
			splits INTEGER NOT NULL,
			ejections INTEGER NOT NULL,
			ended_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_score ON runs(score);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BestScore returns the stored best score, or 0 if none has been recorded.
func (s *Store) BestScore() (int, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, bestScoreKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read best score: %w", err)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("corrupt best score %q: %w", raw, err)
	}
	return n, nil
}

// RecordScore stores score if it beats the current best and reports
// whether it did.
func (s *Store) RecordScore(score int) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	best := 0
	var raw string
	switch err := tx.QueryRow(`SELECT value FROM meta WHERE key = ?`, bestScoreKey).Scan(&raw); {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return false, fmt.Errorf("read best score: %w", err)
	default:
		// A corrupt value is treated as no record and overwritten.
		best, _ = strconv.Atoi(raw)
	}
	if score <= best {
		return false, nil
	}
	if _, err := tx.Exec(
		`INSERT INTO meta(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		bestScoreKey, strconv.Itoa(score),
	); err != nil {
		return false, fmt.Errorf("write best score: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// RecordRun appends a finished round to the history.
func (s *Store) RecordRun(r Run) error {
	if r.EndedAt.IsZero() {
		r.EndedAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs(mode, players, score, duration_ms, food_eaten, cells_eaten, viruses_hit, splits, ejections, ended_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Mode, r.Players, r.Score, r.Duration.Milliseconds(),
		r.FoodEaten, r.CellsEaten, r.VirusesHit, r.Splits, r.Ejections,
		r.EndedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// TopRuns returns up to n runs with the highest scores.
func (s *Store) TopRuns(n int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT mode, players, score, duration_ms, food_eaten, cells_eaten, viruses_hit, splits, ejections, ended_at
		 FROM runs ORDER BY score DESC, id ASC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r     Run
			ms    int64
			ended string
		)
		if err := rows.Scan(&r.Mode, &r.Players, &r.Score, &ms, &r.FoodEaten, &r.CellsEaten,
			&r.VirusesHit, &r.Splits, &r.Ejections, &ended); err != nil {
			return nil, err
		}
		r.Duration = time.Duration(ms) * time.Millisecond
		r.EndedAt, _ = time.Parse(time.RFC3339, ended)
		out = append(out, r)
	}
	return out, rows.Err()
}
