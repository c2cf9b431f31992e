// Package optimizer searches for high-scoring grids.
//
// Two strategies are available. Genetic keeps a population of grids,
// keeps the top quarter each generation and refills the rest with mutants
// of the survivors and fresh random grids. HillClimber improves a single
// grid one cell at a time and restarts from a random grid every so often.
//
// Every random draw comes from a single generator seeded from the run's
// seed and is made sequentially, outside of the (parallel) evaluation, so a
// seed reproduces the same run whatever the thread count.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/boggler/config"
	"github.com/domino14/boggler/grid"
)

// ErrInvalidParams is wrapped by constructor validation failures.
var ErrInvalidParams = errors.New("invalid optimizer parameters")

// Optimizer is implemented by both strategies.
type Optimizer interface {
	Name() string
	Optimize(ctx context.Context) (*Result, error)
}

// NewRand returns the generator used for an entire run.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// DrawSeed picks a seed for runs where none was given, so that the run can
// still be reproduced from the logged seed.
func DrawSeed() uint64 {
	return frand.Uint64n(1 << 53)
}

// SeedFromConfig returns the configured seed, or a freshly drawn one.
func SeedFromConfig(cfg *config.Config) uint64 {
	if cfg.HasSeed() {
		return cfg.GetUint64(config.ConfigSeed)
	}
	seed := DrawSeed()
	log.Info().Uint64("seed", seed).Msg("no seed given; drew one")
	return seed
}

// DiceFromConfig returns the die table named by the configuration.
func DiceFromConfig(cfg *config.Config) (*grid.Dice, error) {
	if f := cfg.GetString(config.ConfigDiceFile); f != "" {
		return grid.LoadDice(f)
	}
	return grid.VariantDice(cfg.GetString(config.ConfigVariant))
}

// FromConfig builds the optimizer the configuration asks for. start, if not
// nil, seeds the hill climber; the genetic strategy ignores it.
func FromConfig(cfg *config.Config, eval *Evaluator, dice *grid.Dice, seed uint64,
	start *grid.Grid) (Optimizer, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.GetString(config.ConfigStrategy) {
	case config.StrategyGenetic:
		return NewGenetic(eval, dice, GeneticParams{
			Generations: cfg.GetInt(config.ConfigGenerations),
			Population:  cfg.GetInt(config.ConfigPopulation),
			Seed:        seed,
		})
	case config.StrategyClimb:
		return NewHillClimber(eval, dice, ClimbParams{
			Iterations:      cfg.GetInt(config.ConfigIterations),
			RestartInterval: cfg.GetInt(config.ConfigRestartInterval),
			Attempts:        cfg.GetInt(config.ConfigRerollAttempts),
			Seed:            seed,
			Start:           start,
		})
	}
	return nil, fmt.Errorf("%w: unknown strategy", ErrInvalidParams)
}

func positive(name string, v int) error {
	if v <= 0 {
		return fmt.Errorf("%w: %v must be positive, got %d", ErrInvalidParams, name, v)
	}
	return nil
}
