package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/zephyrtronium/expressio"
	"github.com/zephyrtronium/expressio/mathlib"
)

var (
	cfgFile string
	givens  []string
)

var rootCmd = &cobra.Command{
	Use:   "expressio [expr...]",
	Short: "Evaluate arithmetic expressions",
	Long: `Evaluate arithmetic expressions over real numbers.

Each argument is evaluated as one expression. With no arguments, each line of
the --in file (or standard input) is an expression. Results are printed with
the --fmt verb; failures are printed to standard error.

Expressions use + - * / ^ with the usual precedence, parentheses, and calls to
the functions abs acos acosh asin asinh atan atan2 atanh cbrt ceil cos cosh
exp floor hypot log log10 log2 max min mod pow round sin sinh sqrt tan tanh
trunc. The constants pi, e, phi, and inf are predefined, and --given adds more.

Examples:
  expressio '2+3*4'
  expressio --given r=2 'pi*r^2'
  echo 'hypot(3, 4)' | expressio
  expressio repl`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(viper.GetBool("verbose"))
		defer log.Sync() //nolint:errcheck
		ev, err := newEvaluator(log)
		if err != nil {
			return err
		}
		p := printer{
			out:  cmd.OutOrStdout(),
			errs: cmd.ErrOrStderr(),
			verb: viper.GetString("fmt"),
			echo: viper.GetBool("echo"),
		}
		failed := p.args(ev, args)
		if len(args) == 0 {
			f, err := openInput(viper.GetString("in"), cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer f.Close()
			failed, err = p.lines(ev, f)
			if err != nil {
				return err
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of the expressions failed", failed)
		}
		return nil
	},
}

// Execute runs the root command. It is called once by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.expressio.yaml)")
	pf.StringArrayVar(&givens, "given", nil, "name=expr constant definition (any number of times)")
	pf.String("fmt", "%g", "result formatting verb")
	pf.Bool("precise", false, "compute exp, log, sqrt, and pow in extended precision")
	pf.Bool("strict", false, "report division by zero and undefined powers as errors")
	pf.Int("max-depth", expressio.DefaultMaxDepth, "maximum nesting depth of expressions")
	pf.Bool("echo", false, "print the parse tree of each expression")
	pf.BoolP("verbose", "v", false, "log debug messages")
	rootCmd.Flags().String("in", "", `input file when no expressions are given (default stdin, or "-")`)

	for _, name := range []string{"fmt", "precise", "strict", "max-depth", "echo", "verbose"} {
		if err := viper.BindPFlag(name, pf.Lookup(name)); err != nil {
			panic(err)
		}
	}
	if err := viper.BindPFlag("in", rootCmd.Flags().Lookup("in")); err != nil {
		panic(err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".expressio")
	}
	viper.SetEnvPrefix("expressio")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	var nf viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	case errors.As(err, &nf):
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newEvaluator creates an evaluator with the math library and the constants
// from the config file and --given flags.
func newEvaluator(log *zap.Logger) (*expressio.Evaluator, error) {
	opts := []expressio.Option{
		expressio.WithLogger(log),
		expressio.MaxDepth(viper.GetInt("max-depth")),
	}
	if viper.GetBool("strict") {
		opts = append(opts, expressio.StrictOperators())
	}
	ev := expressio.NewEvaluator(opts...)
	var mopts []mathlib.Option
	if viper.GetBool("precise") {
		mopts = append(mopts, mathlib.Precise())
	}
	mathlib.Register(ev, mopts...)

	consts := viper.GetStringMapString("constants")
	names := make([]string, 0, len(consts))
	for name := range consts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := define(ev, name, consts[name]); err != nil {
			return nil, fmt.Errorf("config constants: %w", err)
		}
	}
	for _, g := range givens {
		name, src, err := parseGiven(g)
		if err != nil {
			return nil, err
		}
		if err := define(ev, name, src); err != nil {
			return nil, err
		}
	}
	return ev, nil
}

// parseGiven splits a name=expr definition.
func parseGiven(s string) (name, src string, err error) {
	name, src, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", fmt.Errorf(`definitions must be "name=expr", not %q`, s)
	}
	name, src = strings.TrimSpace(name), strings.TrimSpace(src)
	if !expressio.ValidName(name) {
		return "", "", fmt.Errorf("invalid constant name %q", name)
	}
	return name, src, nil
}

// define evaluates src and binds the result to name.
func define(ev *expressio.Evaluator, name, src string) error {
	if !expressio.ValidName(name) {
		return fmt.Errorf("invalid constant name %q", name)
	}
	r, err := ev.Evaluate(src)
	if err != nil {
		return fmt.Errorf("setting %s: %w", name, err)
	}
	ev.AddConstant(name, r)
	return nil
}

func openInput(name string, stdin io.Reader) (io.ReadCloser, error) {
	if name == "" || name == "-" {
		return io.NopCloser(stdin), nil
	}
	return os.Open(name)
}

// printer evaluates expressions and writes their results.
type printer struct {
	out, errs io.Writer
	verb      string
	echo      bool
}

// args evaluates each argument as one expression, even if it spans lines. The
// result is the number of expressions that failed.
func (p *printer) args(ev *expressio.Evaluator, args []string) int {
	failed := 0
	for _, src := range args {
		if !p.expr(ev, src) {
			failed++
		}
	}
	return failed
}

// lines evaluates each non-blank line of in. The result is the number of
// expressions that failed.
func (p *printer) lines(ev *expressio.Evaluator, in io.Reader) (int, error) {
	failed := 0
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		src := strings.TrimSpace(sc.Text())
		if src == "" {
			continue
		}
		if !p.expr(ev, src) {
			failed++
		}
	}
	return failed, sc.Err()
}

// expr evaluates one expression and reports whether it succeeded.
func (p *printer) expr(ev *expressio.Evaluator, src string) bool {
	a, err := ev.ParseString(src)
	if err != nil {
		fmt.Fprintln(p.errs, err)
		return false
	}
	if p.echo {
		fmt.Fprintf(p.out, "%v : ", a)
	}
	r, err := ev.Eval(a)
	if err != nil {
		if p.echo {
			fmt.Fprintln(p.out)
		}
		fmt.Fprintln(p.errs, err)
		return false
	}
	fmt.Fprintf(p.out, p.verb+"\n", r)
	return true
}
