// Package stats keeps running statistics over optimizer rounds.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic is a running mean and variance (Welford's algorithm).
type Statistic struct {
	n    int
	last float64
	min  float64
	max  float64

	oldM float64
	newM float64
	oldS float64
	newS float64
}

func (s *Statistic) Push(val float64) {
	s.last = val
	s.n++
	if s.n == 1 {
		s.oldM = val
		s.newM = val
		s.oldS = 0
		s.min = val
		s.max = val
		return
	}
	s.newM = s.oldM + (val-s.oldM)/float64(s.n)
	s.newS = s.oldS + (val-s.oldM)*(val-s.newM)
	s.oldM = s.newM
	s.oldS = s.newS
	s.min = math.Min(s.min, val)
	s.max = math.Max(s.max, val)
}

func (s *Statistic) Mean() float64 {
	if s.n > 0 {
		return s.newM
	}
	return 0.0
}

func (s *Statistic) Variance() float64 {
	if s.n <= 1 {
		return 0.0
	}
	return s.newS / float64(s.n-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

// StandardError returns the standard error of the mean.
func (s *Statistic) StandardError() float64 {
	if s.n == 0 {
		return 0.0
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}

func (s *Statistic) Last() float64 { return s.last }
func (s *Statistic) Min() float64  { return s.min }
func (s *Statistic) Max() float64  { return s.max }
func (s *Statistic) N() int        { return s.n }

// ZVal returns the two-tailed Z-value associated with a specific confidence
// interval, given as a percentage from 0 to 100.
func ZVal(confidenceInterval float64) float64 {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: 1,
	}
	area := (1 + (confidenceInterval / 100)) / 2
	return dist.Quantile(area)
}

// Summary describes the scores of one round's candidates.
type Summary struct {
	Mean   float64 `yaml:"mean"`
	Stdev  float64 `yaml:"stdev"`
	Median float64 `yaml:"median"`
	// Margin is the half-width of the 95% confidence interval of the mean.
	Margin float64 `yaml:"margin"`
}

// Summarize computes a Summary over scores. It returns the zero Summary for
// no scores.
func Summarize(scores []int) Summary {
	if len(scores) == 0 {
		return Summary{}
	}
	st := &Statistic{}
	xs := make([]float64, len(scores))
	for i, sc := range scores {
		xs[i] = float64(sc)
		st.Push(xs[i])
	}
	sort.Float64s(xs)
	return Summary{
		Mean:   st.Mean(),
		Stdev:  st.Stdev(),
		Median: stat.Quantile(0.5, stat.Empirical, xs, nil),
		Margin: ZVal(95) * st.StandardError(),
	}
}
