package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const (
	busyAttempts = 5
	busyDelay    = 50 * time.Millisecond
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			variant TEXT NOT NULL,
			strategy TEXT NOT NULL,
			seed INTEGER NOT NULL,
			rounds INTEGER NOT NULL,
			score INTEGER NOT NULL,
			side INTEGER NOT NULL,
			letters TEXT NOT NULL,
			dice TEXT NOT NULL,
			words BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS runs_variant_score ON runs (variant, score DESC, created_at);
	`)
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, errors.New("sqlite store is not initialized")
	}
	return s.db, nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	dice, err := json.Marshal(run.Dice)
	if err != nil {
		return err
	}
	words, err := json.Marshal(run.Words)
	if err != nil {
		return err
	}
	return retry.Do(
		func() error {
			return s.upsert(ctx, db, run, string(dice), words)
		},
		retry.Context(ctx),
		retry.Attempts(busyAttempts),
		retry.Delay(busyDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isBusy),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Err(err).Uint("n", n).Str("id", run.ID).Msg("sqlite-busy-retrying")
		}),
	)
}

// isBusy is true for errors caused by another connection holding the
// database lock; other processes may share the same file.
func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func (s *SQLiteStore) upsert(ctx context.Context, db *sql.DB, run Run, dice string, words []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, variant, strategy, seed, rounds, score, side, letters, dice, words)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at = excluded.created_at,
			variant = excluded.variant,
			strategy = excluded.strategy,
			seed = excluded.seed,
			rounds = excluded.rounds,
			score = excluded.score,
			side = excluded.side,
			letters = excluded.letters,
			dice = excluded.dice,
			words = excluded.words
	`, run.ID, run.CreatedAt.UnixNano(), run.Variant, run.Strategy, int64(run.Seed),
		run.Rounds, run.Score, run.Side, run.Letters, dice, words)
	return err
}

const runColumns = `id, created_at, variant, strategy, seed, rounds, score, side, letters, dice, words`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		r         Run
		createdAt int64
		seed      int64
		dice      string
		words     []byte
	)
	err := row.Scan(&r.ID, &createdAt, &r.Variant, &r.Strategy, &seed, &r.Rounds,
		&r.Score, &r.Side, &r.Letters, &dice, &words)
	if err != nil {
		return Run{}, err
	}
	r.CreatedAt = time.Unix(0, createdAt).UTC()
	r.Seed = uint64(seed)
	if err := json.Unmarshal([]byte(dice), &r.Dice); err != nil {
		return Run{}, fmt.Errorf("decode dice of run %s: %w", r.ID, err)
	}
	if err := json.Unmarshal(words, &r.Words); err != nil {
		return Run{}, fmt.Errorf("decode words of run %s: %w", r.ID, err)
	}
	return r, nil
}

func (s *SQLiteStore) queryOne(ctx context.Context, query string, args ...any) (Run, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Run{}, false, err
	}
	r, err := scanRun(db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, false, nil
		}
		return Run{}, false, err
	}
	return r, true, nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (Run, bool, error) {
	return s.queryOne(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
}

func (s *SQLiteStore) BestRun(ctx context.Context, variant string) (Run, bool, error) {
	return s.queryOne(ctx, `SELECT `+runColumns+` FROM runs WHERE variant = ?
		ORDER BY score DESC, created_at ASC LIMIT 1`, variant)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs
		ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
