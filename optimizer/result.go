package optimizer

import (
	"maps"

	"github.com/domino14/boggler/grid"
	"github.com/domino14/boggler/stats"
)

// Round summarizes one generation (genetic) or one sweep (climb).
type Round struct {
	Round int `yaml:"round"`
	// Best is the best-ever score after this round.
	Best int `yaml:"best"`
	// Top is the best score seen in this round alone.
	Top           int `yaml:"top"`
	stats.Summary `yaml:",inline"`
}

// Result is the best-ever record of an optimizer run.
type Result struct {
	Strategy    string
	Seed        uint64
	Rounds      int
	Evaluations uint64
	Grid        *grid.Grid
	Score       int
	Words       map[string]int
	History     []Round
}

// offer replaces the best-ever record if ev scores strictly higher. The
// first offer always sets it.
func (r *Result) offer(ev Evaluation) bool {
	if r.Grid != nil && ev.Score <= r.Score {
		return false
	}
	r.Grid = ev.Grid.Clone()
	r.Score = ev.Score
	r.Words = maps.Clone(ev.Words)
	if r.Words == nil {
		r.Words = map[string]int{}
	}
	return true
}
