package grid

import (
	"math/rand/v2"
)

type MutationType int

const (
	MutationSwap MutationType = iota
	MutationReroll
	MutationSwapAndReroll
	numMutationTypes
)

func (m MutationType) String() string {
	switch m {
	case MutationSwap:
		return "swap"
	case MutationReroll:
		return "reroll"
	case MutationSwapAndReroll:
		return "swap_and_reroll"
	}
	return "unknown"
}

// pickCell draws a row and a column as two distinct values from
// [0, side-1). The last row and the last column are never picked, and
// neither is any cell on the main diagonal.
// XXX: widening the range would change every seeded result.
func pickCell(rng *rand.Rand, side int) int {
	n := side - 1
	row := rng.IntN(n)
	col := rng.IntN(n - 1)
	if col >= row {
		col++
	}
	return row*side + col
}

// Mutate returns a mutated copy of g using one of the three operators,
// chosen uniformly. g itself is left alone.
func (g *Grid) Mutate(rng *rand.Rand) (*Grid, MutationType) {
	mt := MutationType(rng.IntN(int(numMutationTypes)))
	return g.MutateWith(rng, mt), mt
}

// MutateWith applies a specific mutation operator to a copy of g.
func (g *Grid) MutateWith(rng *rand.Rand, mt MutationType) *Grid {
	c := g.Clone()
	switch mt {
	case MutationSwap:
		i1 := pickCell(rng, c.side)
		i2 := pickCell(rng, c.side)
		c.swap(i1, i2)
	case MutationReroll:
		i1 := pickCell(rng, c.side)
		c.letters[i1] = c.dice[i1].Roll(rng)
	case MutationSwapAndReroll:
		i1 := pickCell(rng, c.side)
		i2 := pickCell(rng, c.side)
		c.letters[i1] = c.dice[i1].Roll(rng)
		c.swap(i1, i2)
	}
	return c
}

func (g *Grid) swap(i1, i2 int) {
	g.letters[i1], g.letters[i2] = g.letters[i2], g.letters[i1]
	g.dice[i1], g.dice[i2] = g.dice[i2], g.dice[i1]
}

// Reroll returns a copy of g with cell i rerolled from its own die.
func (g *Grid) Reroll(rng *rand.Rand, i int) *Grid {
	return g.WithLetter(i, g.dice[i].Roll(rng))
}
