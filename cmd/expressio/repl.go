package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ergochat/readline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zephyrtronium/expressio"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive expression prompt",
	Long: `Start an interactive prompt that evaluates one expression per line.

Line editing, history, and name completion (Tab) are supported. Errors are
printed and the prompt continues. Enter exit or press Ctrl-D to quit.

Example session:
  expressio> 2+3*4
  14
  expressio> hypot(3, 4)
  5
  expressio> sqrt(
  "sqrt(": 6: unexpected end of expression
  expressio> exit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(viper.GetBool("verbose"))
		defer log.Sync() //nolint:errcheck
		ev, err := newEvaluator(log)
		if err != nil {
			return err
		}
		return runRepl(ev, replConfig{
			prompt:  filepath.Base(os.Args[0]) + "> ",
			history: historyPath(),
			out:     cmd.OutOrStdout(),
			verb:    viper.GetString("fmt"),
			echo:    viper.GetBool("echo"),
		})
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

type replConfig struct {
	prompt  string
	history string
	// stdin overrides the terminal input if not nil.
	stdin io.ReadCloser
	out   io.Writer
	verb  string
	echo  bool
}

// runRepl reads and evaluates lines until EOF or exit.
func runRepl(ev *expressio.Evaluator, cfg replConfig) error {
	ensureHistoryFile(cfg.history)
	rlCfg := &readline.Config{
		Prompt:            cfg.prompt,
		HistoryFile:       cfg.history,
		HistorySearchFold: true,
		AutoComplete:      &nameCompleter{ev: ev},
		Stdout:            cfg.out,
		Stderr:            cfg.out,
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck

	p := printer{out: cfg.out, errs: cfg.out, verb: cfg.verb, echo: cfg.echo}
	for {
		line, err := rl.ReadLine()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			// EOF
			return nil
		}
		switch line = strings.TrimSpace(line); line {
		case "":
			continue
		case "exit":
			return nil
		}
		p.expr(ev, line)
	}
}

// nameCompleter completes the identifier before the cursor with the names
// bound in an evaluator.
type nameCompleter struct {
	ev *expressio.Evaluator
}

func (c *nameCompleter) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 {
		r := line[start-1]
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}
	var r [][]rune
	for _, name := range c.ev.Names() {
		if strings.HasPrefix(name, prefix) && name != prefix {
			r = append(r, []rune(name[len(prefix):]))
		}
	}
	return r, len(line[start:pos])
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".expressio_history")
}

// ensureHistoryFile creates the history file if needed and makes it private.
func ensureHistoryFile(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o600)
	if err != nil {
		return
	}
	f.Close()
	os.Chmod(path, 0o600) //nolint:errcheck
}
