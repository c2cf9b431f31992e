// Package grid models a square Boggle grid: the letters showing and the
// dice that produced them.
package grid

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"
)

// Position is a (row, column) coordinate on the grid.
type Position struct {
	Row int
	Col int
}

// Grid is a side x side matrix of letters stored in row-major order. The
// die at index i produced the letter at index i. A Grid is never modified
// after it has been handed out; operations return new grids.
type Grid struct {
	side    int
	letters []rune
	dice    []Die
}

// Random shuffles the dice and rolls each one, laying the results out row
// by row. All randomness is drawn from rng: the shuffle first, then one roll
// per die in order.
func Random(rng *rand.Rand, d *Dice) *Grid {
	dice := slices.Clone(d.dice)
	rng.Shuffle(len(dice), func(i, j int) {
		dice[i], dice[j] = dice[j], dice[i]
	})
	letters := make([]rune, len(dice))
	for i, die := range dice {
		letters[i] = die.Roll(rng)
	}
	return &Grid{side: d.side, letters: letters, dice: dice}
}

// New assembles a grid from known letters and dice, checking that every
// letter can be shown by its die.
func New(side int, letters []rune, dice []Die) (*Grid, error) {
	if _, err := NewDice(side, dice); err != nil {
		return nil, err
	}
	if len(letters) != len(dice) {
		return nil, fmt.Errorf("have %d letters for %d dice", len(letters), len(dice))
	}
	for i, l := range letters {
		if !dice[i].Has(l) {
			return nil, fmt.Errorf("letter %c at %d is not a face of die %v", l, i, dice[i])
		}
	}
	return &Grid{side: side, letters: slices.Clone(letters), dice: slices.Clone(dice)}, nil
}

// Parse builds a grid from rows of letters, e.g. ["CATX", "XXXX", ...].
// Each cell gets a one-faced die showing its letter, so the grid can be
// scored but rerolls will not change it.
func Parse(rows []string) (*Grid, error) {
	side := len(rows)
	letters := make([]rune, 0, side*side)
	for i, row := range rows {
		row = strings.ToUpper(strings.TrimSpace(row))
		if utf8.RuneCountInString(row) != side {
			return nil, fmt.Errorf("row %d (%q) must have %d letters", i, row, side)
		}
		letters = append(letters, []rune(row)...)
	}
	dice := make([]Die, len(letters))
	for i, l := range letters {
		dice[i] = Die{l}
	}
	return New(side, letters, dice)
}

// Side is the length of one side.
func (g *Grid) Side() int {
	return g.side
}

// Len is the number of cells.
func (g *Grid) Len() int {
	return len(g.letters)
}

// At returns the letter at (row, col).
func (g *Grid) At(row, col int) rune {
	return g.letters[row*g.side+col]
}

// Letter returns the letter at row-major index i.
func (g *Grid) Letter(i int) rune {
	return g.letters[i]
}

// Die returns the die assigned to row-major index i.
func (g *Grid) Die(i int) Die {
	return g.dice[i]
}

// Letters returns all letters in row-major order.
func (g *Grid) Letters() string {
	return string(g.letters)
}

// Dice returns a copy of the die assignment in row-major order.
func (g *Grid) Dice() []Die {
	return slices.Clone(g.dice)
}

// Rows returns the grid as one string per row.
func (g *Grid) Rows() []string {
	rows := make([]string, g.side)
	for r := 0; r < g.side; r++ {
		rows[r] = string(g.letters[r*g.side : (r+1)*g.side])
	}
	return rows
}

// Clone returns an independent copy.
func (g *Grid) Clone() *Grid {
	return &Grid{
		side:    g.side,
		letters: slices.Clone(g.letters),
		dice:    slices.Clone(g.dice),
	}
}

// WithLetter returns a copy of the grid with cell i showing letter.
func (g *Grid) WithLetter(i int, letter rune) *Grid {
	c := g.Clone()
	c.letters[i] = letter
	return c
}

// Equal compares letters and dice.
func (g *Grid) Equal(o *Grid) bool {
	if g.side != o.side || !slices.Equal(g.letters, o.letters) {
		return false
	}
	return slices.EqualFunc(g.dice, o.dice, func(a, b Die) bool {
		return slices.Equal(a, b)
	})
}

// String draws the grid inside a box.
func (g *Grid) String() string {
	var sb strings.Builder
	border := "+" + strings.Repeat("-", g.side*2+1) + "+\n"
	sb.WriteString(border)
	for r := 0; r < g.side; r++ {
		sb.WriteString("|")
		for c := 0; c < g.side; c++ {
			sb.WriteRune(' ')
			sb.WriteRune(g.At(r, c))
		}
		sb.WriteString(" |\n")
	}
	sb.WriteString(border)
	return sb.String()
}

// Neighbors returns the cells at Chebyshev distance 1 from (row, col) that
// lie on a side x side grid.
func Neighbors(row, col, side int) []Position {
	ns := make([]Position, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			nr, nc := row+dr, col+dc
			if (dr == 0 && dc == 0) || nr < 0 || nr >= side || nc < 0 || nc >= side {
				continue
			}
			ns = append(ns, Position{nr, nc})
		}
	}
	return ns
}

var (
	adjacencyMu    sync.Mutex
	adjacencyCache = map[int][][]int{}
)

// Adjacency returns, for every row-major index, the row-major indices of
// its neighbors. The result is shared and must not be modified.
func Adjacency(side int) [][]int {
	adjacencyMu.Lock()
	defer adjacencyMu.Unlock()
	if adj, ok := adjacencyCache[side]; ok {
		return adj
	}
	adj := make([][]int, side*side)
	for r := 0; r < side; r++ {
		for c := 0; c < side; c++ {
			for _, n := range Neighbors(r, c, side) {
				adj[r*side+c] = append(adj[r*side+c], n.Row*side+n.Col)
			}
		}
	}
	adjacencyCache[side] = adj
	return adj
}
