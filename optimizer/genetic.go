package optimizer

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/rs/zerolog"

	"github.com/domino14/boggler/grid"
	"github.com/domino14/boggler/stats"
)

const (
	// DefaultRandomFraction is the chance that an open slot in the next
	// generation is filled with a fresh random grid instead of a mutant.
	DefaultRandomFraction = 0.3
	// SurvivorDivisor: the top 1/SurvivorDivisor of a generation survives.
	SurvivorDivisor = 4
)

type GeneticParams struct {
	Generations int
	Population  int
	Seed        uint64
	// RandomFraction defaults to DefaultRandomFraction when nil. Zero means
	// every open slot is filled with a mutant.
	RandomFraction *float64
}

// Genetic is the population strategy.
type Genetic struct {
	eval           *Evaluator
	dice           *grid.Dice
	params         GeneticParams
	randomFraction float64
}

func NewGenetic(eval *Evaluator, dice *grid.Dice, params GeneticParams) (*Genetic, error) {
	if err := positive("generations", params.Generations); err != nil {
		return nil, err
	}
	if err := positive("population", params.Population); err != nil {
		return nil, err
	}
	frac := DefaultRandomFraction
	if params.RandomFraction != nil {
		frac = *params.RandomFraction
		if frac < 0 || frac > 1 {
			return nil, fmt.Errorf("%w: random fraction must be in [0, 1], got %v",
				ErrInvalidParams, frac)
		}
	}
	return &Genetic{eval: eval, dice: dice, params: params, randomFraction: frac}, nil
}

func (ga *Genetic) Name() string {
	return "genetic"
}

func (ga *Genetic) numSurvivors() int {
	return max(1, ga.params.Population/SurvivorDivisor)
}

// Optimize runs the configured number of generations and returns the best
// grid seen. If ctx is canceled the best grid so far is returned along with
// the context's error.
func (ga *Genetic) Optimize(ctx context.Context) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	rng := NewRand(ga.params.Seed)
	startEvals := ga.eval.Evaluations()

	res := &Result{Strategy: ga.Name(), Seed: ga.params.Seed}
	defer func() {
		res.Evaluations = ga.eval.Evaluations() - startEvals
	}()

	population := make([]*grid.Grid, ga.params.Population)
	for i := range population {
		population[i] = grid.Random(rng, ga.dice)
	}

	logger.Debug().Int("generations", ga.params.Generations).
		Int("population", ga.params.Population).Uint64("seed", ga.params.Seed).
		Int("threads", ga.eval.Threads()).Msg("genetic-start")

	for gen := 0; gen < ga.params.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		scored, err := ga.eval.EvaluateAll(ctx, population)
		if err != nil {
			return res, err
		}
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Score > scored[j].Score
		})

		if res.offer(scored[0]) {
			logger.Info().Int("generation", gen).Int("score", res.Score).
				Int("words", len(res.Words)).Msg("new-best")
		}
		scores := make([]int, len(scored))
		for i := range scored {
			scores[i] = scored[i].Score
		}
		round := Round{Round: gen, Best: res.Score, Top: scored[0].Score, Summary: stats.Summarize(scores)}
		res.History = append(res.History, round)
		res.Rounds = gen + 1
		logger.Debug().Int("generation", gen).Int("top", round.Top).
			Float64("mean", round.Mean).Float64("median", round.Median).Msg("generation")

		population = ga.reproduce(rng, scored[:ga.numSurvivors()])
	}
	return res, nil
}

// reproduce builds the next generation: the survivors themselves, then
// random grids and mutants of random survivors until the population is full.
func (ga *Genetic) reproduce(rng *rand.Rand, survivors []Evaluation) []*grid.Grid {
	next := make([]*grid.Grid, 0, ga.params.Population)
	for _, s := range survivors {
		next = append(next, s.Grid)
	}
	for len(next) < ga.params.Population {
		if rng.Float64() < ga.randomFraction {
			next = append(next, grid.Random(rng, ga.dice))
			continue
		}
		parent := survivors[rng.IntN(len(survivors))].Grid
		child, _ := parent.Mutate(rng)
		next = append(next, child)
	}
	return next
}
