package shell

import (
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ShellCompleter completes command names, options and fixed arguments.
type ShellCompleter struct{}

func NewShellCompleter() *ShellCompleter {
	return &ShellCompleter{}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"optimize": {Options: []string{"-threads"}},
	"climb":    {Options: []string{"-threads", "-from"}},
	"run":      {Options: []string{"-threads"}},
	"random":   {Options: []string{"-threads"}},
	"eval":     {Options: []string{"-threads"}},
	"variant":  {Args: []string{"standard", "big"}},
	"best":     {Args: []string{"standard", "big"}},
	"seed":     {Args: []string{"none"}},
	"help":     {Args: []string{"optimize", "climb"}},
}

var commandNames = []string{
	"best", "climb", "eval", "exit", "help", "history", "load", "optimize",
	"plot", "random", "run", "runs", "save", "seed", "show", "variant",
}

// Do implements the readline.AutoComplete interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// unterminated quote; fall back to plain splitting
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		meta, ok := commandMetadata[fields[0]]
		if !ok {
			return nil, 0
		}
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		if strings.HasPrefix(prefix, "-") {
			completions = meta.Options
		} else {
			completions = append(append([]string{}, meta.Args...), meta.Options...)
		}
	}

	var matches [][]rune
	for _, comp := range completions {
		if strings.HasPrefix(comp, prefix) {
			matches = append(matches, []rune(comp[len(prefix):]+" "))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return string(matches[i]) < string(matches[j])
	})
	return matches, len([]rune(prefix))
}
