package scoring

import (
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestPoints(t *testing.T) {
	is := is.New(t)
	type tc struct {
		length int
		points int
	}
	cases := []tc{
		{0, 0}, {1, 0}, {2, 0}, {3, 1}, {4, 1}, {5, 2}, {6, 3}, {7, 5},
		{8, 11}, {9, 11}, {16, 11}, {25, 11},
	}
	for _, c := range cases {
		is.Equal(PointsForLength(c.length), c.points)
		is.Equal(Points(strings.Repeat("A", c.length)), c.points)
	}
}

func TestScore(t *testing.T) {
	is := is.New(t)
	is.Equal(Score(nil), 0)
	is.Equal(Score(map[string]int{}), 0)
	found := map[string]int{}
	for _, w := range []string{"CAT", "CATS", "COAST", "COASTS", "TOASTED", "COASTERS"} {
		found[w] = Points(w)
	}
	is.Equal(Score(found), 1+1+2+3+5+11)
}
