// Package report renders optimizer results for people and for files.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/domino14/boggler/optimizer"
)

// WordScore is one found word and its points.
type WordScore struct {
	Word   string `yaml:"word"`
	Points int    `yaml:"points"`
}

// SortedWords orders words by points, highest first, then alphabetically.
func SortedWords(words map[string]int) []WordScore {
	ws := lo.MapToSlice(words, func(w string, p int) WordScore {
		return WordScore{Word: w, Points: p}
	})
	sort.Slice(ws, func(i, j int) bool {
		if ws[i].Points != ws[j].Points {
			return ws[i].Points > ws[j].Points
		}
		return ws[i].Word < ws[j].Word
	})
	return ws
}

// WriteText prints the score, the grid and the words found.
func WriteText(w io.Writer, res *optimizer.Result) error {
	if _, err := fmt.Fprintf(w, "Grid Score: %d\nWords Found: %d\n", res.Score, len(res.Words)); err != nil {
		return err
	}
	if res.Grid != nil {
		if _, err := fmt.Fprintf(w, "Grid:\n%s", res.Grid.String()); err != nil {
			return err
		}
	}
	if res.Score > 0 {
		if _, err := fmt.Fprintln(w, "Found Words (sorted by score):"); err != nil {
			return err
		}
		for _, ws := range SortedWords(res.Words) {
			if _, err := fmt.Fprintf(w, "  %s: %d points\n", ws.Word, ws.Points); err != nil {
				return err
			}
		}
	}
	return nil
}

type yamlResult struct {
	Strategy    string            `yaml:"strategy"`
	Variant     string            `yaml:"variant,omitempty"`
	Seed        uint64            `yaml:"seed"`
	Rounds      int               `yaml:"rounds"`
	Evaluations uint64            `yaml:"evaluations"`
	Score       int               `yaml:"score"`
	Grid        []string          `yaml:"grid,flow"`
	Dice        []string          `yaml:"dice,flow"`
	Words       []WordScore       `yaml:"words"`
	History     []optimizer.Round `yaml:"history,omitempty"`
}

// WriteYAML writes the full result, history included.
func WriteYAML(w io.Writer, variant string, res *optimizer.Result) error {
	out := yamlResult{
		Strategy:    res.Strategy,
		Variant:     variant,
		Seed:        res.Seed,
		Rounds:      res.Rounds,
		Evaluations: res.Evaluations,
		Score:       res.Score,
		Words:       SortedWords(res.Words),
		History:     res.History,
	}
	if res.Grid != nil {
		out.Grid = res.Grid.Rows()
		for _, d := range res.Grid.Dice() {
			out.Dice = append(out.Dice, d.String())
		}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

// WriteHistogram draws the distribution of the per-round top scores.
func WriteHistogram(w io.Writer, res *optimizer.Result, bins, width int) error {
	if len(res.History) == 0 {
		_, err := fmt.Fprintln(w, "no rounds to plot")
		return err
	}
	tops := lo.Map(res.History, func(r optimizer.Round, _ int) float64 {
		return float64(r.Top)
	})
	if lo.Min(tops) == lo.Max(tops) {
		_, err := fmt.Fprintf(w, "all %d rounds topped out at %v\n", len(tops), tops[0])
		return err
	}
	return histogram.Fprint(w, histogram.Hist(bins, tops), histogram.Linear(width))
}
