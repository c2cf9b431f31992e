package grid

import (
	"testing"

	"github.com/matryer/is"
)

func TestPickCellStaysInReducedRange(t *testing.T) {
	is := is.New(t)
	rng := newRand(7)
	for _, side := range []int{3, 4, 5} {
		seen := map[int]bool{}
		for i := 0; i < 2000; i++ {
			idx := pickCell(rng, side)
			row, col := idx/side, idx%side
			is.True(row < side-1)
			is.True(col < side-1)
			is.True(row != col)
			seen[idx] = true
		}
		// every ordered pair of distinct indices in [0, side-1) shows up
		is.Equal(len(seen), (side-1)*(side-2))
	}
}

func TestMutateLeavesParentAlone(t *testing.T) {
	is := is.New(t)
	rng := newRand(3)
	parent := Random(rng, StandardDice())
	before := parent.Clone()
	for i := 0; i < 500; i++ {
		child, _ := parent.Mutate(rng)
		checkInvariant(is, child)
		is.True(parent.Equal(before))
	}
}

func TestMutateKeepsDieInvariant(t *testing.T) {
	is := is.New(t)
	rng := newRand(11)
	g := Random(rng, BigDice())
	counts := map[MutationType]int{}
	for i := 0; i < 3000; i++ {
		var mt MutationType
		g, mt = g.Mutate(rng)
		counts[mt]++
		checkInvariant(is, g)
	}
	is.Equal(len(counts), 3)
	for _, n := range counts {
		is.True(n > 800) // roughly a third each
	}
}

func TestSwapMovesLettersAndDice(t *testing.T) {
	is := is.New(t)
	rng := newRand(5)
	g := Random(rng, StandardDice())
	for i := 0; i < 200; i++ {
		child := g.MutateWith(rng, MutationSwap)
		is.Equal(sortedDice(child.Dice()), sortedDice(g.Dice()))
		diffs := 0
		for j := 0; j < g.Len(); j++ {
			if child.Letter(j) != g.Letter(j) || child.Die(j).String() != g.Die(j).String() {
				diffs++
			}
		}
		is.True(diffs == 0 || diffs == 2)
		// the last row and column are never touched
		for j := 12; j < 16; j++ {
			is.Equal(child.Letter(j), g.Letter(j))
		}
		for j := 3; j < 16; j += 4 {
			is.Equal(child.Letter(j), g.Letter(j))
		}
	}
}

func TestRerollOnlyChangesOneCell(t *testing.T) {
	is := is.New(t)
	rng := newRand(9)
	g := Random(rng, StandardDice())
	for i := 0; i < 200; i++ {
		child := g.MutateWith(rng, MutationReroll)
		diffs := 0
		for j := 0; j < g.Len(); j++ {
			is.Equal(child.Die(j).String(), g.Die(j).String())
			if child.Letter(j) != g.Letter(j) {
				diffs++
			}
		}
		is.True(diffs <= 1)
	}
	r := g.Reroll(rng, 15)
	checkInvariant(is, r)
}

func TestMutateDeterministic(t *testing.T) {
	is := is.New(t)
	a, b := newRand(42), newRand(42)
	ga, gb := Random(a, StandardDice()), Random(b, StandardDice())
	for i := 0; i < 100; i++ {
		ga, _ = ga.Mutate(a)
		gb, _ = gb.Mutate(b)
		is.True(ga.Equal(gb))
	}
}
