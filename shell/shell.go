package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/boggler/config"
	"github.com/domino14/boggler/grid"
	"github.com/domino14/boggler/lexicon"
	"github.com/domino14/boggler/optimizer"
	"github.com/domino14/boggler/store"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errQuit              = errors.New("quit")
)

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	config *config.Config
	store  store.Store

	lex      *lexicon.Lexicon
	wordlist string
	dice     *grid.Dice
	variant  string
	// seed is nil when every run should draw its own.
	seed *uint64

	last    *optimizer.Result
	lastVar string
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// NewShellController creates a controller writing to out. The die table
// and seed come from cfg; the word list is loaded the first time it is
// needed.
func NewShellController(cfg *config.Config, st store.Store, out io.Writer) (*ShellController, error) {
	dice, err := optimizer.DiceFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	sc := &ShellController{
		out:      out,
		config:   cfg,
		store:    st,
		dice:     dice,
		variant:  cfg.GetString(config.ConfigVariant),
		wordlist: cfg.GetString(config.ConfigWordList),
	}
	if f := cfg.GetString(config.ConfigDiceFile); f != "" {
		sc.variant = f
	}
	if cfg.HasSeed() {
		s := cfg.GetUint64(config.ConfigSeed)
		sc.seed = &s
	}
	return sc, nil
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// Last returns the result of the most recent optimize, climb or run
// command, and the variant it ran with.
func (sc *ShellController) Last() (*optimizer.Result, string) {
	return sc.last, sc.lastVar
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		// A lone dash or a negative number is an argument.
		if strings.HasPrefix(f, "-") && len(f) > 1 {
			if _, err := strconv.Atoi(f); err != nil {
				if i == len(fields)-1 {
					return nil, errWrongOptionSyntax
				}
				options[f[1:]] = fields[i+1]
				i++
				continue
			}
		}
		args = append(args, f)
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) standardModeSwitch(ctx context.Context, line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "bye":
		return nil, errQuit
	case "help":
		return sc.help(cmd)
	case "load":
		return sc.load(cmd)
	case "variant":
		return sc.setVariant(cmd)
	case "seed":
		return sc.setSeed(cmd)
	case "random":
		return sc.random(cmd)
	case "eval":
		return sc.eval(cmd)
	case "run":
		return sc.run(ctx, cmd)
	case "optimize", "opt":
		return sc.optimize(ctx, cmd)
	case "climb":
		return sc.climb(ctx, cmd)
	case "best":
		return sc.best(ctx, cmd)
	case "runs":
		return sc.runs(ctx, cmd)
	case "show":
		return sc.show(ctx, cmd)
	case "history":
		return sc.history(cmd)
	case "plot":
		return sc.plot(cmd)
	case "save":
		return sc.save(cmd)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// Execute runs a single command line. Errors are shown, not returned; the
// return value is false once the user has asked to quit.
func (sc *ShellController) Execute(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	resp, err := sc.standardModeSwitch(ctx, line)
	if errors.Is(err, errQuit) {
		return false
	}
	if err != nil {
		sc.showError(err)
		return true
	}
	if resp != nil {
		sc.showMessage(resp.message)
	}
	return true
}

// Loop reads commands until exit, EOF, an interrupt on an empty line or
// cancellation of ctx, then sends SIGINT on sig. A command interrupted by
// cancellation finishes, and is saved, before Loop returns.
func (sc *ShellController) Loop(ctx context.Context, sig chan os.Signal) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mboggler>\033[0m ",
		HistoryFile:     "/tmp/boggler_readline.tmp",
		AutoComplete:    NewShellCompleter(),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		log.Error().Err(err).Msg("could not start readline")
		quit(ctx, sig)
		return
	}
	sc.l = l
	sc.out = l.Stderr()
	// Closing the instance unblocks a pending Readline.
	stop := context.AfterFunc(ctx, func() { l.Close() })
	defer func() {
		if stop() {
			l.Close()
		}
	}()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err != nil {
			break
		}
		if !sc.Execute(ctx, line) || ctx.Err() != nil {
			break
		}
	}
	quit(ctx, sig)
	log.Debug().Msgf("Exiting readline loop...")
}

// quit asks for shutdown unless it is already under way.
func quit(ctx context.Context, sig chan os.Signal) {
	if ctx.Err() != nil {
		return
	}
	select {
	case sig <- syscall.SIGINT:
	default:
	}
}
