package shell

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/domino14/boggler/config"
	"github.com/domino14/boggler/store"
)

const testWordList = "../lexicon/testdata/small.txt"

func newTestShell(t *testing.T, args ...string) (*ShellController, *bytes.Buffer, store.Store) {
	t.Helper()
	cfg := &config.Config{}
	require.NoError(t, cfg.Load(append([]string{"--threads", "2"}, args...)))
	st := store.NewMemoryStore()
	var buf bytes.Buffer
	sc, err := NewShellController(cfg, st, &buf)
	require.NoError(t, err)
	return sc, &buf, st
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"optimize -threads 4",
			&shellcmd{"optimize", nil, map[string]string{"threads": "4"}},
			nil},
		{"optimize 10 20",
			&shellcmd{"optimize", []string{"10", "20"}, map[string]string{}},
			nil},
		{"climb 5 -from random ",
			&shellcmd{"climb", []string{"5"}, map[string]string{"from": "random"}},
			nil},
		{`load "my words.txt"`,
			&shellcmd{"load", []string{"my words.txt"}, map[string]string{}},
			nil},
		{"seed -3",
			&shellcmd{"seed", []string{"-3"}, map[string]string{}},
			nil},
		{"optimize 10 -threads",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func TestExecuteBasics(t *testing.T) {
	ctx := context.Background()
	sc, buf, _ := newTestShell(t)

	assert.True(t, sc.Execute(ctx, ""))
	assert.Equal(t, "", buf.String())

	assert.True(t, sc.Execute(ctx, "frob"))
	assert.Contains(t, buf.String(), `Error: command "frob" not found`)

	buf.Reset()
	assert.True(t, sc.Execute(ctx, "random"))
	assert.Contains(t, buf.String(), "Error: no word list loaded")

	assert.False(t, sc.Execute(ctx, "exit"))
	assert.False(t, sc.Execute(ctx, "bye"))
}

func TestHelp(t *testing.T) {
	ctx := context.Background()
	sc, buf, _ := newTestShell(t)

	sc.Execute(ctx, "help")
	assert.Contains(t, buf.String(), "optimize [generations] [population]")

	buf.Reset()
	sc.Execute(ctx, "help climb")
	assert.Contains(t, buf.String(), "-from random")

	buf.Reset()
	sc.Execute(ctx, "help nope")
	assert.Contains(t, buf.String(), "Error: there is no help text for the topic nope")
}

func TestSeedAndVariant(t *testing.T) {
	ctx := context.Background()
	sc, buf, _ := newTestShell(t, "--seed", "7")

	sc.Execute(ctx, "seed")
	assert.Equal(t, "seed: 7\n", buf.String())

	buf.Reset()
	sc.Execute(ctx, "seed none")
	sc.Execute(ctx, "seed")
	assert.Contains(t, buf.String(), "seed: none\n")

	buf.Reset()
	sc.Execute(ctx, "seed abc")
	assert.Contains(t, buf.String(), "Error: badly formatted seed")

	buf.Reset()
	sc.Execute(ctx, "variant")
	assert.Equal(t, "variant: standard\n", buf.String())

	buf.Reset()
	sc.Execute(ctx, "variant big")
	assert.Equal(t, "variant set to big (5x5)\n", buf.String())
	assert.Equal(t, 5, sc.dice.Side())

	buf.Reset()
	sc.Execute(ctx, "variant huge")
	assert.Contains(t, buf.String(), "Error:")
	assert.Equal(t, 5, sc.dice.Side())
}

func TestLoadAndEval(t *testing.T) {
	ctx := context.Background()
	sc, buf, _ := newTestShell(t)

	sc.Execute(ctx, "load "+testWordList)
	assert.Contains(t, buf.String(), "words from "+testWordList)

	buf.Reset()
	sc.Execute(ctx, "eval CATS OXXX XXXX XXXX")
	out := buf.String()
	assert.Contains(t, out, "Grid Score: 9\n")
	assert.Contains(t, out, "Words Found: 8\n")
	assert.Contains(t, out, "| C A T S |")
	assert.Contains(t, out, "  COATS: 2 points\n")

	buf.Reset()
	sc.Execute(ctx, "eval CAT OX")
	assert.Contains(t, buf.String(), "Error:")

	buf.Reset()
	sc.Execute(ctx, "load does-not-exist.txt")
	assert.Contains(t, buf.String(), "Error:")
}

func TestOptimizeClimbAndSave(t *testing.T) {
	ctx := context.Background()
	sc, buf, st := newTestShell(t, "--wordlist", testWordList, "--seed", "7")

	buf.Reset()
	sc.Execute(ctx, "history")
	assert.Contains(t, buf.String(), "Error: nothing to show yet")

	buf.Reset()
	sc.Execute(ctx, "optimize 3 8")
	assert.Contains(t, buf.String(), "genetic: 3 rounds")
	assert.Contains(t, buf.String(), "seed 7")

	res, variant := sc.Last()
	require.NotNil(t, res)
	assert.Equal(t, "standard", variant)
	assert.Len(t, res.History, 3)

	runs, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, res.Score, runs[0].Score)
	assert.Equal(t, res.Grid.Letters(), runs[0].Letters)

	buf.Reset()
	sc.Execute(ctx, "history 2")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Round"))

	buf.Reset()
	sc.Execute(ctx, "plot 4")
	assert.NotContains(t, buf.String(), "Error")
	assert.NotEmpty(t, buf.String())

	out := filepath.Join(t.TempDir(), "out.yaml")
	buf.Reset()
	sc.Execute(ctx, "save "+out)
	assert.Equal(t, "wrote "+out+"\n", buf.String())
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var saved map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &saved))
	assert.Equal(t, "genetic", saved["strategy"])
	assert.Equal(t, res.Score, saved["score"])

	buf.Reset()
	sc.Execute(ctx, "best")
	assert.Contains(t, buf.String(), "run "+runs[0].ID)

	buf.Reset()
	sc.Execute(ctx, "show "+runs[0].ID)
	assert.Contains(t, buf.String(), "run "+runs[0].ID)
	assert.Contains(t, buf.String(), fmt.Sprintf("Grid Score: %d\n", res.Score))

	buf.Reset()
	sc.Execute(ctx, "show nope")
	assert.Contains(t, buf.String(), "Error: no run with id nope")

	buf.Reset()
	sc.Execute(ctx, "climb 2")
	assert.Contains(t, buf.String(), "climb: 2 rounds")
	climbed, _ := sc.Last()
	assert.GreaterOrEqual(t, climbed.Score, res.Score)

	buf.Reset()
	sc.Execute(ctx, "runs")
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
}

func TestOptimizeIsReproducible(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newTestShell(t, "--wordlist", testWordList, "--seed", "11")
	b, _, _ := newTestShell(t, "--wordlist", testWordList, "--seed", "11")

	a.Execute(ctx, "optimize 4 6 -threads 1")
	b.Execute(ctx, "optimize 4 6 -threads 3")
	ra, _ := a.Last()
	rb, _ := b.Last()
	require.NotNil(t, ra)
	require.NotNil(t, rb)
	assert.Equal(t, ra.Score, rb.Score)
	assert.True(t, ra.Grid.Equal(rb.Grid))
	assert.Equal(t, ra.History, rb.History)
}

func TestRunUsesConfiguredStrategy(t *testing.T) {
	ctx := context.Background()
	sc, buf, _ := newTestShell(t, "--wordlist", testWordList, "--seed", "3",
		"--strategy", "climb", "--iterations", "2")

	sc.Execute(ctx, "run")
	assert.Contains(t, buf.String(), "climb: 2 rounds")
	res, _ := sc.Last()
	require.NotNil(t, res)
	assert.Equal(t, "climb", res.Strategy)
	assert.Equal(t, 2, res.Rounds)
}

func TestCanceledOptimizeKeepsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sc, _, st := newTestShell(t, "--wordlist", testWordList, "--seed", "3")

	sc.Execute(ctx, "optimize 3 4")
	res, _ := sc.Last()
	assert.Nil(t, res)
	runs, err := st.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestCanceledOptimizeIsSaved(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// cancel as soon as the first generation reports a best grid
	logger := zerolog.New(io.Discard).Hook(zerolog.HookFunc(
		func(e *zerolog.Event, level zerolog.Level, message string) {
			if message == "new-best" {
				cancel()
			}
		}))
	ctx = logger.WithContext(ctx)

	sc, buf, st := newTestShell(t, "--wordlist", testWordList, "--seed", "3")

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		sc.Execute(ctx, "optimize 100000 20")
	}()
	<-finished
	require.ErrorIs(t, ctx.Err(), context.Canceled)

	res, _ := sc.Last()
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Rounds)
	assert.Contains(t, buf.String(), "genetic: 1 rounds")

	runs, err := st.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, res.Score, runs[0].Score)
	assert.Equal(t, res.Grid.Letters(), runs[0].Letters)
	require.NoError(t, st.Close())
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	c := NewShellCompleter()

	m, n := c.Do([]rune("cl"), 2)
	is.Equal(m, [][]rune{[]rune("imb ")})
	is.Equal(n, 2)

	line := []rune("climb -f")
	m, n = c.Do(line, len(line))
	is.Equal(m, [][]rune{[]rune("rom ")})
	is.Equal(n, 2)

	line = []rune("variant ")
	m, n = c.Do(line, len(line))
	is.Equal(m, [][]rune{[]rune("big "), []rune("standard ")})
	is.Equal(n, 0)

	line = []rune("frob ")
	m, _ = c.Do(line, len(line))
	is.Equal(len(m), 0)
}
