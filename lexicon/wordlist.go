package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/domino14/boggler/cache"
	"github.com/domino14/boggler/config"
)

const (
	CacheKeyPrefix = "lexicon:"
)

// ReadWordList reads one word per line. Lines are trimmed and uppercased;
// blank lines are skipped.
func ReadWordList(r io.Reader) ([]string, error) {
	upper := cases.Upper(language.Und)
	words := []string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, upper.String(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// LoadWordList reads a word list file.
func LoadWordList(filename string) ([]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening word list: %w", err)
	}
	defer f.Close()
	words, err := ReadWordList(f)
	if err != nil {
		return nil, fmt.Errorf("reading word list %v: %w", filename, err)
	}
	return words, nil
}

// CacheLoadFunc is the function that loads a lexicon into the global cache.
// The key is CacheKeyPrefix followed by the path of the word list.
func CacheLoadFunc(cfg *config.Config, key string) (interface{}, error) {
	filename := strings.TrimPrefix(key, CacheKeyPrefix)
	words, err := LoadWordList(filename)
	if err != nil {
		return nil, err
	}
	lex := Build(words)
	log.Debug().Str("wordlist", filename).Int("lines", len(words)).
		Int("words", lex.NumWords()).Msg("built-lexicon")
	return lex, nil
}

// Get returns the (possibly cached) lexicon for the given word list file.
func Get(cfg *config.Config, filename string) (*Lexicon, error) {
	obj, err := cache.Load(cfg, CacheKeyPrefix+filename, CacheLoadFunc)
	if err != nil {
		return nil, err
	}
	lex, ok := obj.(*Lexicon)
	if !ok {
		return nil, fmt.Errorf("cached object for %v is not a lexicon", filename)
	}
	return lex, nil
}
