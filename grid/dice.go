package grid

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

var (
	ErrDicePoolSize = errors.New("die pool size does not match grid size")
	ErrInvalidSide  = errors.New("invalid grid side")
	ErrEmptyDie     = errors.New("die has no faces")
	ErrUnknownDice  = errors.New("unknown grid variant")
)

// MinSide is the smallest grid we can mutate: cells are picked as two
// distinct indices from [0, side-1).
const MinSide = 3

// MaxSide bounds grid size; traversal cost grows very quickly with it.
const MaxSide = 8

// Official Boggle dice (post 1987).
var standardDice = []string{
	"AAEEGN", "ABBJOO", "ACHOPS", "AFFKPS",
	"AOOTTW", "CIMOTU", "DEILRX", "DELRVY",
	"DISTTY", "EEGHNW", "EEINSU", "EHRTVW",
	"EIOSST", "ELRTTY", "HIMNUQ", "HLNNRZ",
}

// Big Boggle dice.
var bigDice = []string{
	"AAAFRS", "AAEEEE", "AAFIRS", "ADENNN", "AEEEEM",
	"AEEGMU", "AEGMNN", "AFIRSY", "BJKQXZ", "CCENST",
	"CEIILT", "CEILPT", "CEIPST", "DDHNOT", "DHHLOR",
	"DHLNOR", "EIIITT", "EMOTTT", "ENSSSU", "FIPRSY",
	"GORRVW", "HIPRRY", "NOOTUW", "OOOTTU", "AAEEEE",
}

// A Die is the ordered list of its faces. Faces may repeat.
type Die []rune

// ParseDie makes a die out of a string of faces.
func ParseDie(faces string) Die {
	return Die(strings.ToUpper(faces))
}

// Roll picks a face uniformly at random.
func (d Die) Roll(rng *rand.Rand) rune {
	return d[rng.IntN(len(d))]
}

// Has is true if letter is on one of the die's faces.
func (d Die) Has(letter rune) bool {
	return slices.Contains(d, letter)
}

func (d Die) String() string {
	return string(d)
}

// Dice is a validated die pool for a square grid: one die per cell.
type Dice struct {
	side int
	dice []Die
}

// NewDice checks that there are exactly side*side dice. A mismatched pool is
// rejected, never truncated or padded.
func NewDice(side int, dice []Die) (*Dice, error) {
	if side < MinSide || side > MaxSide {
		return nil, fmt.Errorf("%w: %d (must be from %d to %d)", ErrInvalidSide, side, MinSide, MaxSide)
	}
	if len(dice) != side*side {
		return nil, fmt.Errorf("%w: have %d dice, need %d for a %dx%d grid",
			ErrDicePoolSize, len(dice), side*side, side, side)
	}
	if lo.ContainsBy(dice, func(d Die) bool { return len(d) == 0 }) {
		return nil, ErrEmptyDie
	}
	return &Dice{side: side, dice: slices.Clone(dice)}, nil
}

func mustDice(side int, faces []string) *Dice {
	d, err := NewDice(side, lo.Map(faces, func(f string, _ int) Die { return ParseDie(f) }))
	if err != nil {
		panic(err)
	}
	return d
}

// StandardDice returns the 16 dice of a 4x4 grid.
func StandardDice() *Dice {
	return mustDice(4, standardDice)
}

// BigDice returns the 25 dice of a 5x5 grid.
func BigDice() *Dice {
	return mustDice(5, bigDice)
}

// VariantDice looks up a built-in die table by variant name.
func VariantDice(variant string) (*Dice, error) {
	switch variant {
	case "standard":
		return StandardDice(), nil
	case "big":
		return BigDice(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDice, variant)
}

type diceFile struct {
	Side int      `yaml:"side"`
	Dice []string `yaml:"dice"`
}

// ParseDiceYAML reads a die table of the form
//
//	side: 4
//	dice: [AAEEGN, ABBJOO, ...]
func ParseDiceYAML(data []byte) (*Dice, error) {
	df := diceFile{}
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parsing dice: %w", err)
	}
	return NewDice(df.Side, lo.Map(df.Dice, func(f string, _ int) Die { return ParseDie(f) }))
}

// LoadDice reads a die table from a yaml file.
func LoadDice(filename string) (*Dice, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseDiceYAML(data)
}

// Side is the grid side length these dice fill.
func (d *Dice) Side() int {
	return d.side
}

// Len is the number of dice.
func (d *Dice) Len() int {
	return len(d.dice)
}

// Die returns the i-th die of the pool.
func (d *Dice) Die(i int) Die {
	return d.dice[i]
}

// MarshalYAML writes the pool in the same form ParseDiceYAML reads.
func (d *Dice) MarshalYAML() (interface{}, error) {
	return diceFile{
		Side: d.side,
		Dice: lo.Map(d.dice, func(die Die, _ int) string { return die.String() }),
	}, nil
}
