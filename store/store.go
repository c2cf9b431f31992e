// Package store persists optimizer runs so the best grids survive the
// process and can seed later climbs.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/domino14/boggler/grid"
	"github.com/domino14/boggler/optimizer"
)

// Run is a persisted optimizer result.
type Run struct {
	ID        string         `yaml:"id"`
	CreatedAt time.Time      `yaml:"created_at"`
	Variant   string         `yaml:"variant"`
	Strategy  string         `yaml:"strategy"`
	Seed      uint64         `yaml:"seed"`
	Rounds    int            `yaml:"rounds"`
	Score     int            `yaml:"score"`
	Side      int            `yaml:"side"`
	Letters   string         `yaml:"letters"`
	Dice      []string       `yaml:"dice"`
	Words     map[string]int `yaml:"words"`
}

// NewRun makes a Run out of a result. variant names the die table used.
func NewRun(variant string, res *optimizer.Result) Run {
	return Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Variant:   variant,
		Strategy:  res.Strategy,
		Seed:      res.Seed,
		Rounds:    res.Rounds,
		Score:     res.Score,
		Side:      res.Grid.Side(),
		Letters:   res.Grid.Letters(),
		Dice:      lo.Map(res.Grid.Dice(), func(d grid.Die, _ int) string { return d.String() }),
		Words:     res.Words,
	}
}

// Grid rebuilds the stored grid, dice included.
func (r Run) Grid() (*grid.Grid, error) {
	dice := lo.Map(r.Dice, func(s string, _ int) grid.Die { return grid.ParseDie(s) })
	g, err := grid.New(r.Side, []rune(r.Letters), dice)
	if err != nil {
		return nil, fmt.Errorf("run %v: %w", r.ID, err)
	}
	return g, nil
}

// Store defines persistence operations for runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	// BestRun returns the highest-scoring run for a variant; the earliest
	// one wins ties.
	BestRun(ctx context.Context, variant string) (Run, bool, error)
	// ListRuns returns up to limit runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

// NewStore creates an uninitialized store of the given kind.
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		if sqlitePath == "" {
			return nil, fmt.Errorf("sqlite path is required")
		}
		return NewSQLiteStore(sqlitePath), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}
