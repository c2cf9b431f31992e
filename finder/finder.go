// Package finder enumerates the words that can be traced on a grid.
//
// A word is traced by starting on any cell and moving to one of the up to
// eight neighboring cells, never using a cell twice in the same word. The
// search walks the lexicon trie alongside the grid so that any path whose
// letters are not a prefix of some word is abandoned immediately.
package finder

import (
	"github.com/domino14/boggler/grid"
	"github.com/domino14/boggler/lexicon"
	"github.com/domino14/boggler/scoring"
)

type search struct {
	g       *grid.Grid
	adj     [][]int
	visited []bool
	path    []rune
	found   map[string]int
}

// FindWords returns every distinct word of at least three letters that can
// be traced on g, mapped to its point value. The result depends only on g
// and lex.
func FindWords(g *grid.Grid, lex *lexicon.Lexicon) map[string]int {
	s := &search{
		g:       g,
		adj:     grid.Adjacency(g.Side()),
		visited: make([]bool, g.Len()),
		path:    make([]rune, 0, g.Len()),
		found:   make(map[string]int),
	}
	root := lex.Root()
	for i := 0; i < g.Len(); i++ {
		s.extend(i, root)
	}
	return s.found
}

// extend tries to add cell idx to the current path, having already
// followed the path's letters down to node.
func (s *search) extend(idx int, node *lexicon.Node) {
	letter := s.g.Letter(idx)
	next := node.Child(letter)
	if next == nil {
		// not a prefix of anything
		return
	}
	s.visited[idx] = true
	s.path = append(s.path, letter)

	if len(s.path) >= scoring.MinWordLength && next.Terminal() {
		word := string(s.path)
		if _, ok := s.found[word]; !ok {
			s.found[word] = scoring.PointsForLength(len(s.path))
		}
	}
	if next.NumArcs() > 0 {
		for _, n := range s.adj[idx] {
			if !s.visited[n] {
				s.extend(n, next)
			}
		}
	}

	s.path = s.path[:len(s.path)-1]
	s.visited[idx] = false
}
