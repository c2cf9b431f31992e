package report

import (
	"bytes"
	"testing"

	"github.com/matryer/is"
	"gopkg.in/yaml.v3"

	"github.com/domino14/boggler/grid"
	"github.com/domino14/boggler/optimizer"
	"github.com/domino14/boggler/stats"
)

func sampleResult(is *is.I) *optimizer.Result {
	g, err := grid.Parse([]string{"CATS", "OXXX", "XXXX", "XXXX"})
	is.NoErr(err)
	return &optimizer.Result{
		Strategy: "genetic",
		Seed:     42,
		Rounds:   2,
		Grid:     g,
		Score:    4,
		Words:    map[string]int{"CAT": 1, "CATS": 1, "ACT": 1, "COAT": 1},
		History: []optimizer.Round{
			{Round: 0, Best: 3, Top: 3, Summary: stats.Summary{Mean: 1.5}},
			{Round: 1, Best: 4, Top: 4},
		},
	}
}

func TestSortedWords(t *testing.T) {
	is := is.New(t)
	ws := SortedWords(map[string]int{"CAT": 1, "COASTS": 3, "ACT": 1, "TOAST": 2})
	is.Equal(ws, []WordScore{{"COASTS", 3}, {"TOAST", 2}, {"ACT", 1}, {"CAT", 1}})
	is.Equal(len(SortedWords(nil)), 0)
}

func TestWriteText(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	is.NoErr(WriteText(&buf, sampleResult(is)))
	expected := "Grid Score: 4\nWords Found: 4\nGrid:\n" +
		"+---------+\n| C A T S |\n| O X X X |\n| X X X X |\n| X X X X |\n+---------+\n" +
		"Found Words (sorted by score):\n" +
		"  ACT: 1 points\n  CAT: 1 points\n  CATS: 1 points\n  COAT: 1 points\n"
	is.Equal(buf.String(), expected)

	buf.Reset()
	is.NoErr(WriteText(&buf, &optimizer.Result{}))
	is.Equal(buf.String(), "Grid Score: 0\nWords Found: 0\n")
}

func TestWriteYAML(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	is.NoErr(WriteYAML(&buf, "standard", sampleResult(is)))

	var back map[string]interface{}
	is.NoErr(yaml.Unmarshal(buf.Bytes(), &back))
	is.Equal(back["strategy"], "genetic")
	is.Equal(back["variant"], "standard")
	is.Equal(back["score"], 4)
	is.Equal(back["grid"], []interface{}{"CATS", "OXXX", "XXXX", "XXXX"})
	is.Equal(len(back["words"].([]interface{})), 4)
	hist := back["history"].([]interface{})
	is.Equal(len(hist), 2)
	first := hist[0].(map[string]interface{})
	is.Equal(first["best"], 3)
	is.Equal(first["mean"], 1.5)
}

func TestWriteHistogram(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	is.NoErr(WriteHistogram(&buf, &optimizer.Result{}, 5, 20))
	is.Equal(buf.String(), "no rounds to plot\n")

	buf.Reset()
	res := &optimizer.Result{History: []optimizer.Round{{Top: 4}, {Top: 4}}}
	is.NoErr(WriteHistogram(&buf, res, 5, 20))
	is.Equal(buf.String(), "all 2 rounds topped out at 4\n")

	buf.Reset()
	res = &optimizer.Result{}
	for i := 0; i < 30; i++ {
		res.History = append(res.History, optimizer.Round{Round: i, Top: i % 7})
	}
	is.NoErr(WriteHistogram(&buf, res, 5, 20))
	is.True(buf.Len() > 0)
}
