package optimizer

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/domino14/boggler/grid"
	"github.com/domino14/boggler/stats"
)

type ClimbParams struct {
	Iterations int
	// RestartInterval: every this many sweeps the current grid is thrown
	// away for a random one. The best-ever record is kept.
	RestartInterval int
	// Attempts is how many rerolls of a cell are tried per sweep.
	Attempts int
	Seed     uint64
	// Start optionally seeds the first sweep, e.g. with a stored result.
	Start *grid.Grid
}

// HillClimber is the single-trajectory strategy.
type HillClimber struct {
	eval   *Evaluator
	dice   *grid.Dice
	params ClimbParams
}

func NewHillClimber(eval *Evaluator, dice *grid.Dice, params ClimbParams) (*HillClimber, error) {
	if err := positive("iterations", params.Iterations); err != nil {
		return nil, err
	}
	if err := positive("restart interval", params.RestartInterval); err != nil {
		return nil, err
	}
	if err := positive("attempts", params.Attempts); err != nil {
		return nil, err
	}
	if params.Start != nil && params.Start.Side() != dice.Side() {
		return nil, fmt.Errorf("%w: start grid is %dx%d, dice are for %dx%d", ErrInvalidParams,
			params.Start.Side(), params.Start.Side(), dice.Side(), dice.Side())
	}
	return &HillClimber{eval: eval, dice: dice, params: params}, nil
}

func (hc *HillClimber) Name() string {
	return "climb"
}

// sweep tries to improve every cell of cur in row-major order. For each
// cell, up to Attempts rerolls are scored and the first one that beats the
// current score is kept. It returns the improved evaluation and the scores
// of every candidate tried.
func (hc *HillClimber) sweep(rng *rand.Rand, cur Evaluation, scores []int) (Evaluation, []int) {
	for cell := 0; cell < cur.Grid.Len(); cell++ {
		for a := 0; a < hc.params.Attempts; a++ {
			cand := hc.eval.Evaluate(cur.Grid.Reroll(rng, cell))
			scores = append(scores, cand.Score)
			if cand.Score > cur.Score {
				cur = cand
				break
			}
		}
	}
	return cur, scores
}

// Optimize runs the configured number of sweeps and returns the best grid
// seen. If ctx is canceled the best grid so far is returned along with the
// context's error.
func (hc *HillClimber) Optimize(ctx context.Context) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	rng := NewRand(hc.params.Seed)
	startEvals := hc.eval.Evaluations()

	res := &Result{Strategy: hc.Name(), Seed: hc.params.Seed}
	defer func() {
		res.Evaluations = hc.eval.Evaluations() - startEvals
	}()

	start := hc.params.Start
	if start == nil {
		start = grid.Random(rng, hc.dice)
	}
	cur := hc.eval.Evaluate(start)
	res.offer(cur)

	logger.Debug().Int("iterations", hc.params.Iterations).
		Int("restart-interval", hc.params.RestartInterval).Uint64("seed", hc.params.Seed).
		Int("start-score", cur.Score).Msg("climb-start")

	var scores []int
	for it := 0; it < hc.params.Iterations; it++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if it > 0 && it%hc.params.RestartInterval == 0 {
			cur = hc.eval.Evaluate(grid.Random(rng, hc.dice))
			logger.Debug().Int("iteration", it).Int("score", cur.Score).Msg("climb-restart")
		}
		scores = scores[:0]
		cur, scores = hc.sweep(rng, cur, scores)

		if res.offer(cur) {
			logger.Info().Int("iteration", it).Int("score", res.Score).
				Int("words", len(res.Words)).Msg("new-best")
		}
		res.History = append(res.History, Round{
			Round:   it,
			Best:    res.Score,
			Top:     cur.Score,
			Summary: stats.Summarize(scores),
		})
		res.Rounds = it + 1
	}
	return res, nil
}
