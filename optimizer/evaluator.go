package optimizer

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/boggler/finder"
	"github.com/domino14/boggler/grid"
	"github.com/domino14/boggler/lexicon"
	"github.com/domino14/boggler/scoring"
)

const (
	// DefaultMemoSize bounds the number of remembered evaluations.
	DefaultMemoSize = 1 << 16

	minMemoSize = 1 << 12
	maxMemoSize = 1 << 22
	// rough size of one memo entry, word map included
	memoEntryBytes = 1024
)

// Evaluation is a grid together with its score and the words it forms.
// Words must be treated as read-only; it may be shared with the memo.
type Evaluation struct {
	Grid  *grid.Grid
	Score int
	Words map[string]int
}

type memoEntry struct {
	letters string
	score   int
	words   map[string]int
}

// Evaluator scores grids against a lexicon. Since the words found depend
// only on the letters showing, evaluations are remembered by letters;
// survivors of a genetic round are never traversed twice.
type Evaluator struct {
	lex     *lexicon.Lexicon
	threads int

	memoMu   sync.Mutex
	memo     map[uint64]memoEntry
	memoSize int

	evaluations atomic.Uint64
	memoHits    atomic.Uint64
}

// NewEvaluator creates an evaluator that uses up to threads goroutines for
// batch evaluation.
func NewEvaluator(lex *lexicon.Lexicon, threads int) *Evaluator {
	if threads < 1 {
		threads = 1
	}
	return &Evaluator{
		lex:      lex,
		threads:  threads,
		memo:     make(map[uint64]memoEntry),
		memoSize: DefaultMemoSize,
	}
}

// SetMemoSize changes the memo bound; zero turns memoization off.
func (e *Evaluator) SetMemoSize(n int) {
	e.memoMu.Lock()
	defer e.memoMu.Unlock()
	e.memoSize = n
	e.memo = make(map[uint64]memoEntry)
}

// MemoSizeForMemory returns a memo bound that takes up about fraction of
// the machine's memory.
func MemoSizeForMemory(fraction float64) int {
	totalMem := memory.TotalMemory()
	desired := fraction * float64(totalMem) / memoEntryBytes
	n := min(max(int(desired), minMemoSize), maxMemoSize)
	log.Debug().Int("memo-size", n).Float64("desired-memo-size", desired).
		Uint64("total-system-memory-bytes", totalMem).Msg("evaluation-memo-size")
	return n
}

// Threads is the batch evaluation parallelism.
func (e *Evaluator) Threads() int {
	return e.threads
}

// Evaluations is the number of grids evaluated so far, memo hits included.
func (e *Evaluator) Evaluations() uint64 {
	return e.evaluations.Load()
}

// MemoHits is the number of evaluations answered from the memo.
func (e *Evaluator) MemoHits() uint64 {
	return e.memoHits.Load()
}

// Evaluate finds the words on g and scores them.
func (e *Evaluator) Evaluate(g *grid.Grid) Evaluation {
	e.evaluations.Add(1)
	letters := g.Letters()
	key := xxhash.Sum64String(letters)

	e.memoMu.Lock()
	ent, ok := e.memo[key]
	e.memoMu.Unlock()
	if ok && ent.letters == letters {
		e.memoHits.Add(1)
		return Evaluation{Grid: g, Score: ent.score, Words: ent.words}
	}

	words := finder.FindWords(g, e.lex)
	score := scoring.Score(words)

	e.memoMu.Lock()
	if e.memoSize > 0 {
		if len(e.memo) >= e.memoSize {
			e.memo = make(map[uint64]memoEntry)
		}
		e.memo[key] = memoEntry{letters: letters, score: score, words: words}
	}
	e.memoMu.Unlock()

	return Evaluation{Grid: g, Score: score, Words: words}
}

// EvaluateAll evaluates every grid, in parallel, and returns the
// evaluations in the same order as grids. Each goroutine writes only its
// own slot, so the result does not depend on scheduling.
func (e *Evaluator) EvaluateAll(ctx context.Context, grids []*grid.Grid) ([]Evaluation, error) {
	out := make([]Evaluation, len(grids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.threads)
	for i, gr := range grids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = e.Evaluate(gr)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
