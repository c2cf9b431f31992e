package lexicon

import (
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/boggler/config"
)

func TestBuildAndQuery(t *testing.T) {
	is := is.New(t)
	lex := Build([]string{"CAT", "CATS", "AT"})

	is.Equal(lex.NumWords(), 3)
	is.True(lex.IsWord("CAT"))
	is.True(lex.IsWord("CATS"))
	is.True(lex.IsWord("AT"))
	is.True(!lex.IsWord("CA"))
	is.True(!lex.IsWord("DOG"))

	is.True(lex.HasPrefix(""))
	is.True(lex.HasPrefix("C"))
	is.True(lex.HasPrefix("CA"))
	is.True(lex.HasPrefix("CATS"))
	is.True(!lex.HasPrefix("CATSS"))
	is.True(!lex.HasPrefix("X"))
}

func TestDuplicatesAreIdempotent(t *testing.T) {
	is := is.New(t)
	lex := Build([]string{"TEA", "TEA", "TEAS", "", "TEA"})
	is.Equal(lex.NumWords(), 2)
	is.Equal(lex.Root().NumArcs(), 1)
	is.True(lex.IsWord("TEA"))
}

func TestEmptyLexicon(t *testing.T) {
	is := is.New(t)
	lex := Build(nil)
	is.Equal(lex.NumWords(), 0)
	is.True(!lex.HasPrefix("A"))
	is.True(!lex.IsWord(""))
}

func TestNodeWalkMatchesHasPrefix(t *testing.T) {
	is := is.New(t)
	lex := Build([]string{"STOAT", "STATE", "SEA"})
	paths := []string{"S", "ST", "STO", "STX", "SE", "SEA", "SEAT", "Q"}
	for _, p := range paths {
		node := lex.Root()
		for _, r := range p {
			if node == nil {
				break
			}
			node = node.Child(r)
		}
		is.Equal(node != nil, lex.HasPrefix(p))
		is.Equal(node != nil && node.Terminal(), lex.IsWord(p))
	}
}

func TestReadWordList(t *testing.T) {
	is := is.New(t)
	words, err := ReadWordList(strings.NewReader("cat\n\n  Dogs \r\nemu\n   \n"))
	is.NoErr(err)
	is.Equal(words, []string{"CAT", "DOGS", "EMU"})
}

func TestGetCachesLexicon(t *testing.T) {
	is := is.New(t)
	cfg := &config.Config{}
	lex, err := Get(cfg, "testdata/small.txt")
	is.NoErr(err)
	is.True(lex.IsWord("STOAT"))
	is.True(lex.IsWord("COASTS"))

	again, err := Get(cfg, "testdata/small.txt")
	is.NoErr(err)
	is.True(lex == again)
}

func TestGetMissingFile(t *testing.T) {
	is := is.New(t)
	_, err := Get(&config.Config{}, "testdata/does-not-exist.txt")
	is.True(err != nil)
}
