package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/boggler/config"
	"github.com/domino14/boggler/grid"
	"github.com/domino14/boggler/lexicon"
	"github.com/domino14/boggler/optimizer"
	"github.com/domino14/boggler/report"
	"github.com/domino14/boggler/store"
)

const (
	defaultHistoryRounds = 10
	defaultPlotBins      = 10
	defaultPlotWidth     = 40
)

var errNoResult = errors.New("nothing to show yet; run `optimize` or `climb` first")

func (sc *ShellController) getLexicon() (*lexicon.Lexicon, error) {
	if sc.lex != nil {
		return sc.lex, nil
	}
	if sc.wordlist == "" {
		return nil, errors.New("no word list loaded; use `load <wordfile>`")
	}
	lex, err := lexicon.Get(sc.config, sc.wordlist)
	if err != nil {
		return nil, err
	}
	sc.lex = lex
	return lex, nil
}

func (sc *ShellController) runSeed() uint64 {
	if sc.seed != nil {
		return *sc.seed
	}
	seed := optimizer.DrawSeed()
	log.Info().Uint64("seed", seed).Msg("no seed set; drew one")
	return seed
}

// intArg returns the i-th positional argument as a positive integer, or def
// if it was not given.
func intArg(cmd *shellcmd, i int, def int) (int, error) {
	if len(cmd.args) <= i {
		return def, nil
	}
	v, err := strconv.Atoi(cmd.args[i])
	if err != nil {
		return 0, fmt.Errorf("badly formatted number %q", cmd.args[i])
	}
	if v <= 0 {
		return 0, fmt.Errorf("%v must be positive", cmd.args[i])
	}
	return v, nil
}

func (sc *ShellController) evaluator(cmd *shellcmd) (*optimizer.Evaluator, error) {
	lex, err := sc.getLexicon()
	if err != nil {
		return nil, err
	}
	threads := sc.config.GetInt(config.ConfigThreads)
	if t, ok := cmd.options["threads"]; ok {
		threads, err = strconv.Atoi(t)
		if err != nil || threads <= 0 {
			return nil, fmt.Errorf("badly formatted thread count %q", t)
		}
	}
	eval := optimizer.NewEvaluator(lex, threads)
	if f := sc.config.GetFloat64(config.ConfigMemoFraction); f > 0 {
		eval.SetMemoSize(optimizer.MemoSizeForMemory(f))
	} else {
		eval.SetMemoSize(0)
	}
	return eval, nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return usage("usage")
	}
	return usageTopic(cmd.args[0])
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <wordfile>")
	}
	lex, err := lexicon.Get(sc.config, cmd.args[0])
	if err != nil {
		return nil, err
	}
	sc.lex = lex
	sc.wordlist = cmd.args[0]
	return msg(fmt.Sprintf("loaded %d words from %v", lex.NumWords(), cmd.args[0])), nil
}

func (sc *ShellController) setVariant(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return msg("variant: " + sc.variant), nil
	}
	name := cmd.args[0]
	var (
		dice *grid.Dice
		err  error
	)
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		dice, err = grid.LoadDice(name)
	} else {
		dice, err = grid.VariantDice(name)
	}
	if err != nil {
		return nil, err
	}
	sc.dice = dice
	sc.variant = name
	return msg(fmt.Sprintf("variant set to %v (%dx%d)", name, dice.Side(), dice.Side())), nil
}

func (sc *ShellController) setSeed(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		if sc.seed == nil {
			return msg("seed: none"), nil
		}
		return msg(fmt.Sprintf("seed: %d", *sc.seed)), nil
	}
	if cmd.args[0] == "none" {
		sc.seed = nil
		return msg("seed cleared; every run draws its own"), nil
	}
	s, err := strconv.ParseUint(cmd.args[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("badly formatted seed %q", cmd.args[0])
	}
	sc.seed = &s
	return msg(fmt.Sprintf("seed set to %d", s)), nil
}

func (sc *ShellController) showEvaluation(ev optimizer.Evaluation) (*Response, error) {
	var sb strings.Builder
	err := report.WriteText(&sb, &optimizer.Result{Grid: ev.Grid, Score: ev.Score, Words: ev.Words})
	if err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) random(cmd *shellcmd) (*Response, error) {
	eval, err := sc.evaluator(cmd)
	if err != nil {
		return nil, err
	}
	g := grid.Random(optimizer.NewRand(sc.runSeed()), sc.dice)
	return sc.showEvaluation(eval.Evaluate(g))
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: eval <row> <row> ...")
	}
	g, err := grid.Parse(cmd.args)
	if err != nil {
		return nil, err
	}
	eval, err := sc.evaluator(cmd)
	if err != nil {
		return nil, err
	}
	return sc.showEvaluation(eval.Evaluate(g))
}

// finish runs opt, records the result and persists it. A canceled run still
// keeps whatever it found.
func (sc *ShellController) finish(ctx context.Context, opt optimizer.Optimizer) (*Response, error) {
	res, err := opt.Optimize(ctx)
	if res == nil || res.Grid == nil {
		return nil, err
	}
	if err != nil {
		log.Warn().Err(err).Int("rounds", res.Rounds).Msg("optimizer stopped early")
	}
	sc.last = res
	sc.lastVar = sc.variant

	run := store.NewRun(sc.variant, res)
	// A canceled context must not prevent saving what was found.
	if serr := sc.store.SaveRun(context.WithoutCancel(ctx), run); serr != nil {
		log.Error().Err(serr).Msg("could not save run")
	} else {
		log.Debug().Str("id", run.ID).Msg("saved run")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%v: %d rounds, %d evaluations, seed %d\n",
		res.Strategy, res.Rounds, res.Evaluations, res.Seed)
	if werr := report.WriteText(&sb, res); werr != nil {
		return nil, werr
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) optimize(ctx context.Context, cmd *shellcmd) (*Response, error) {
	generations, err := intArg(cmd, 0, sc.config.GetInt(config.ConfigGenerations))
	if err != nil {
		return nil, err
	}
	population, err := intArg(cmd, 1, sc.config.GetInt(config.ConfigPopulation))
	if err != nil {
		return nil, err
	}
	eval, err := sc.evaluator(cmd)
	if err != nil {
		return nil, err
	}
	opt, err := optimizer.NewGenetic(eval, sc.dice, optimizer.GeneticParams{
		Generations: generations,
		Population:  population,
		Seed:        sc.runSeed(),
	})
	if err != nil {
		return nil, err
	}
	return sc.finish(ctx, opt)
}

// startGrid returns the best stored grid for the current variant, if it
// fits the current dice.
func (sc *ShellController) startGrid(ctx context.Context) *grid.Grid {
	run, ok, err := sc.store.BestRun(ctx, sc.variant)
	if err != nil {
		log.Error().Err(err).Msg("could not look up best run")
		return nil
	}
	if !ok {
		return nil
	}
	g, err := run.Grid()
	if err != nil || g.Side() != sc.dice.Side() {
		log.Debug().Str("id", run.ID).Msg("stored run does not fit the current dice")
		return nil
	}
	log.Info().Str("id", run.ID).Int("score", run.Score).Msg("climbing from stored run")
	return g
}

func (sc *ShellController) climb(ctx context.Context, cmd *shellcmd) (*Response, error) {
	iterations, err := intArg(cmd, 0, sc.config.GetInt(config.ConfigIterations))
	if err != nil {
		return nil, err
	}
	eval, err := sc.evaluator(cmd)
	if err != nil {
		return nil, err
	}
	var start *grid.Grid
	if cmd.options["from"] != "random" {
		start = sc.startGrid(ctx)
	}
	opt, err := optimizer.NewHillClimber(eval, sc.dice, optimizer.ClimbParams{
		Iterations:      iterations,
		RestartInterval: sc.config.GetInt(config.ConfigRestartInterval),
		Attempts:        sc.config.GetInt(config.ConfigRerollAttempts),
		Seed:            sc.runSeed(),
		Start:           start,
	})
	if err != nil {
		return nil, err
	}
	return sc.finish(ctx, opt)
}

// run uses the configured strategy with every parameter from the
// configuration.
func (sc *ShellController) run(ctx context.Context, cmd *shellcmd) (*Response, error) {
	eval, err := sc.evaluator(cmd)
	if err != nil {
		return nil, err
	}
	var start *grid.Grid
	if sc.config.GetString(config.ConfigStrategy) == config.StrategyClimb {
		start = sc.startGrid(ctx)
	}
	opt, err := optimizer.FromConfig(sc.config, eval, sc.dice, sc.runSeed(), start)
	if err != nil {
		return nil, err
	}
	return sc.finish(ctx, opt)
}

func (sc *ShellController) best(ctx context.Context, cmd *shellcmd) (*Response, error) {
	variant := sc.variant
	if len(cmd.args) > 0 {
		variant = cmd.args[0]
	}
	run, ok, err := sc.store.BestRun(ctx, variant)
	if err != nil {
		return nil, err
	}
	if !ok {
		return msg("no runs stored for " + variant), nil
	}
	return showRun(run)
}

func (sc *ShellController) show(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: show <run-id>")
	}
	run, ok, err := sc.store.GetRun(ctx, cmd.args[0])
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no run with id %v", cmd.args[0])
	}
	return showRun(run)
}

func showRun(run store.Run) (*Response, error) {
	g, err := run.Grid()
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "run %v (%v, seed %d, %v)\n", run.ID, run.Strategy, run.Seed,
		run.CreatedAt.Format("2006-01-02 15:04:05"))
	err = report.WriteText(&sb, &optimizer.Result{Grid: g, Score: run.Score, Words: run.Words})
	if err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) runs(ctx context.Context, cmd *shellcmd) (*Response, error) {
	limit, err := intArg(cmd, 0, defaultHistoryRounds)
	if err != nil {
		return nil, err
	}
	runs, err := sc.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return msg("no runs stored"), nil
	}
	var sb strings.Builder
	sb.WriteString("     Score Variant   Strategy Letters          ID\n")
	for i, r := range runs {
		fmt.Fprintf(&sb, "%3d: %-5d %-9s %-8s %-16s %s\n", i+1, r.Score, r.Variant, r.Strategy,
			r.Letters, r.ID)
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) history(cmd *shellcmd) (*Response, error) {
	if sc.last == nil {
		return nil, errNoResult
	}
	n, err := intArg(cmd, 0, defaultHistoryRounds)
	if err != nil {
		return nil, err
	}
	h := sc.last.History
	if len(h) > n {
		h = h[len(h)-n:]
	}
	var sb strings.Builder
	sb.WriteString("Round  Best   Top    Mean    Stdev   Median\n")
	for _, r := range h {
		fmt.Fprintf(&sb, "%-6d %-6d %-6d %-7.2f %-7.2f %-7.1f\n",
			r.Round, r.Best, r.Top, r.Mean, r.Stdev, r.Median)
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) plot(cmd *shellcmd) (*Response, error) {
	if sc.last == nil {
		return nil, errNoResult
	}
	bins, err := intArg(cmd, 0, defaultPlotBins)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	if err := report.WriteHistogram(&sb, sc.last, bins, defaultPlotWidth); err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) save(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: save <file.yaml>")
	}
	if sc.last == nil {
		return nil, errNoResult
	}
	if err := WriteResultFile(cmd.args[0], sc.lastVar, sc.last); err != nil {
		return nil, err
	}
	return msg("wrote " + cmd.args[0]), nil
}

// WriteResultFile writes res as yaml to filename.
func WriteResultFile(filename, variant string, res *optimizer.Result) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := report.WriteYAML(f, variant, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
