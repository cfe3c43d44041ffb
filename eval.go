package expressio

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// Evaluator owns a symbol table of constants and functions and evaluates
// expressions against it. The zero value is an evaluator with no symbols,
// ready to use.
//
// Evaluating does not modify the Evaluator, so any number of goroutines may
// evaluate concurrently. Registration is not synchronized: callers that
// register while other goroutines evaluate must guard the Evaluator
// themselves, e.g. with a sync.RWMutex held for writing around registration
// and for reading around evaluation.
type Evaluator struct {
	syms   Symbols
	depth  int
	strict bool
	log    *zap.Logger
}

// NewEvaluator creates a new evaluator and applies options to it.
func NewEvaluator(opts ...Option) *Evaluator {
	var ev Evaluator
	ev.apply(opts)
	return &ev
}

// Clone creates a copy of an evaluator with its own symbol table and applies
// options to it. Functions are shared between the two.
func (ev *Evaluator) Clone(opts ...Option) *Evaluator {
	n := Evaluator{
		syms:   ev.syms.clone(),
		depth:  ev.depth,
		strict: ev.strict,
		log:    ev.log,
	}
	n.apply(opts)
	return &n
}

func (ev *Evaluator) logger() *zap.Logger {
	if ev.log == nil {
		return zap.NewNop()
	}
	return ev.log
}

func (ev *Evaluator) maxDepth() int {
	if ev.depth <= 0 {
		return DefaultMaxDepth
	}
	return ev.depth
}

// AddConstant binds name to a constant value, replacing any constant or
// function previously bound to it. Panics if name is not an identifier.
func (ev *Evaluator) AddConstant(name string, val float64) {
	mustName(name)
	ev.syms.SetConst(name, val)
	ev.logger().Debug("registered constant", zap.String("name", name), zap.Float64("value", val))
}

// AddFunction binds name to a Go function, replacing any constant or function
// previously bound to it. The function's arity is the number of its
// parameters. Panics if name is not an identifier or fn is nil.
//
// Signatures outside Callable do not compile; use Register for functions
// whose signature is only known at run time.
func AddFunction[F Callable](ev *Evaluator, name string, fn F) {
	mustName(name)
	ev.Define(name, adapt(fn))
}

// Define binds name to a Func, replacing any constant or function previously
// bound to it. Panics if name is not an identifier or fn is nil.
func (ev *Evaluator) Define(name string, fn Func) {
	mustName(name)
	ev.syms.SetFunc(name, fn)
	ev.logger().Debug("registered function", zap.String("name", name), zap.Int("arity", fn.Arity()))
}

// Register binds name to an arbitrary Go function, checking its signature with
// FuncOf. If the signature has a parameter or result that isn't a number, or
// name is not an identifier, the result is a *RegistrationError and the symbol
// table is unchanged.
func (ev *Evaluator) Register(name string, fn any) error {
	if !ValidName(name) {
		return &RegistrationError{Name: name, Reason: "name is not an identifier"}
	}
	f, err := FuncOf(fn)
	if err != nil {
		var re *RegistrationError
		if errors.As(err, &re) {
			re.Name = name
		}
		ev.logger().Debug("rejected function", zap.String("name", name), zap.Error(err))
		return err
	}
	ev.Define(name, f)
	return nil
}

// Remove deletes the binding for name. The result is whether there was one.
func (ev *Evaluator) Remove(name string) bool {
	return ev.syms.Remove(name)
}

// Lookup returns the value of a constant. If name is unbound or bound to a
// function, the result is 0, false.
func (ev *Evaluator) Lookup(name string) (float64, bool) {
	return ev.syms.Const(name)
}

// Function returns the function bound to name, if any.
func (ev *Evaluator) Function(name string) (Func, bool) {
	return ev.syms.Function(name)
}

// Names returns the names of all constants and functions, sorted.
func (ev *Evaluator) Names() []string {
	return ev.syms.Names()
}

// ValidName reports whether name can be bound in a symbol table, i.e. whether
// it is a letter or underscore followed by letters, digits, and underscores.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

func mustName(name string) {
	if !ValidName(name) {
		panic("expressio: invalid name " + strconv.Quote(name))
	}
}

// Eval evaluates a parsed expression using the evaluator's current symbols.
// Any error is returned as an *Error.
func (ev *Evaluator) Eval(e *Expr) (float64, error) {
	m := machine{ev: ev, stack: make([]float64, 0, 8)}
	if err := e.n.eval(&m); err != nil {
		return 0, ev.fail(e.src, err)
	}
	if len(m.stack) != 1 {
		panic("expressio: inconsistent stack: " + strconv.Itoa(len(m.stack)) + " items (bad AST?)")
	}
	return m.stack[0], nil
}

// Evaluate parses and evaluates an expression. Any error, whether from
// scanning, parsing, or evaluating, is returned as an *Error.
func (ev *Evaluator) Evaluate(src string) (float64, error) {
	e, err := ev.parse(strings.NewReader(src))
	if err != nil {
		return 0, ev.fail(src, err)
	}
	e.src = src
	return ev.Eval(e)
}

func (ev *Evaluator) fail(src string, err error) error {
	ev.logger().Debug("evaluation failed", zap.String("src", abbrev(src)), zap.Error(err))
	return &Error{Src: src, Err: err}
}

// machine holds the value stack for one evaluation.
type machine struct {
	ev    *Evaluator
	stack []float64
}

func (m *machine) push(v float64) {
	m.stack = append(m.stack, v)
}

// pop removes the top from the stack and returns it.
func (m *machine) pop() float64 {
	r := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (m *machine) top() *float64 {
	return &m.stack[len(m.stack)-1]
}

// eval pushes the node's value to the machine's stack.
func (n *node) eval(m *machine) error {
	switch n.kind {
	case nodeNum:
		m.push(n.val)
	case nodeName:
		b, ok := m.ev.syms.lookup(n.name)
		if !ok {
			return &UnknownNameError{Col: n.col, Name: n.name}
		}
		if b.fn == nil {
			m.push(b.val)
			return nil
		}
		if b.fn.Arity() != 0 {
			return &ArityError{Col: n.col, Func: n.name, Want: b.fn.Arity(), Got: 0}
		}
		r, err := call(n.name, b.fn, nil)
		if err != nil {
			return err
		}
		m.push(r)
	case nodeCall:
		b, ok := m.ev.syms.lookup(n.name)
		if !ok || b.fn == nil {
			return &UnknownNameError{Col: n.col, Name: n.name, Call: true, Const: ok}
		}
		fn := b.fn
		if fn.Arity() != n.nargs {
			return &ArityError{Col: n.col, Func: n.name, Want: fn.Arity(), Got: n.nargs}
		}
		k := len(m.stack)
		for l := n.right; l != nil; l = l.right {
			if err := l.left.eval(m); err != nil {
				return err
			}
		}
		r, err := call(n.name, fn, m.stack[k:len(m.stack):len(m.stack)])
		if err != nil {
			return err
		}
		m.stack = m.stack[:k]
		m.push(r)
	case nodeArg:
		panic("expressio: eval on nodeArg")
	case nodeNeg:
		if err := n.left.eval(m); err != nil {
			return err
		}
		v := m.top()
		*v = -*v
	case nodeNop:
		if err := n.left.eval(m); err != nil {
			return err
		}
	case nodeAdd:
		l, r, err := n.operands(m)
		if err != nil {
			return err
		}
		*l += r
	case nodeSub:
		l, r, err := n.operands(m)
		if err != nil {
			return err
		}
		*l -= r
	case nodeMul:
		l, r, err := n.operands(m)
		if err != nil {
			return err
		}
		*l *= r
	case nodeDiv:
		l, r, err := n.operands(m)
		if err != nil {
			return err
		}
		if m.ev.strict {
			if r == 0 {
				return &DomainError{X: r, Arg: 2, Func: "/"}
			}
			// inf/inf
			if math.IsInf(*l, 0) && math.IsInf(r, 0) {
				return &DomainError{X: r, Arg: 2, Func: "/"}
			}
		}
		*l /= r
	case nodePow:
		l, r, err := n.operands(m)
		if err != nil {
			return err
		}
		v := math.Pow(*l, r)
		if m.ev.strict {
			switch {
			case *l == 0 && r < 0:
				return &DomainError{X: r, Arg: 2, Func: "^"}
			case math.IsNaN(v) && !math.IsNaN(*l) && !math.IsNaN(r):
				return &DomainError{X: *l, Arg: 1, Func: "^"}
			}
		}
		*l = v
	default:
		panic("expressio: invalid AST node " + n.kind.String())
	}
	return nil
}

// operands evaluates both sides of a binary operator, leaving the left on the
// stack to receive the result.
func (n *node) operands(m *machine) (*float64, float64, error) {
	if err := n.left.eval(m); err != nil {
		return nil, 0, err
	}
	if err := n.right.eval(m); err != nil {
		return nil, 0, err
	}
	r := m.pop()
	return m.top(), r, nil
}

// call invokes a function. Errors and panics are converted to *DomainError
// unless they are already an *ArityError.
func call(name string, fn Func, args []float64) (r float64, err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		e, ok := p.(error)
		if !ok {
			e = fmt.Errorf("panic: %v", p)
		}
		r, err = 0, funcError(name, e)
	}()
	r, err = fn.Call(args)
	if err != nil {
		return 0, funcError(name, err)
	}
	return r, nil
}

func funcError(name string, err error) error {
	var ae *ArityError
	if errors.As(err, &ae) {
		e := *ae
		if e.Func == "" {
			e.Func = name
		}
		return &e
	}
	var de *DomainError
	if errors.As(err, &de) {
		e := *de
		if e.Func == "" {
			e.Func = name
		}
		return &e
	}
	return &DomainError{X: math.NaN(), Func: name, Err: err}
}

// UnknownNameError is an error from a lookup for a name that is missing from
// the symbol table during evaluation, or a call to a name that is bound to a
// constant. It implements InputError.
type UnknownNameError struct {
	// Col is the position of the name in the expression.
	Col int
	// Name is the name that was missing.
	Name string
	// Call is whether the name was used as a function call.
	Call bool
	// Const is set when a call names a constant rather than a function.
	Const bool
}

func (err *UnknownNameError) Error() string {
	what := "undefined constant: "
	switch {
	case err.Const:
		what = "cannot call constant "
	case err.Call:
		what = "undefined function: "
	}
	return errpos(err.Col, what+strconv.Quote(err.Name))
}

func (err *UnknownNameError) Pos() int {
	return err.Col
}

// Error is the error type returned by Parse, Eval, and Evaluate. The
// underlying error is one of *LexError, *SyntaxError, *ArityError,
// *UnknownNameError, or *DomainError; use errors.As to get it.
type Error struct {
	// Src is the expression being evaluated, if it is known.
	Src string
	// Err is the underlying error.
	Err error
}

func (err *Error) Error() string {
	if err.Src == "" {
		return err.Err.Error()
	}
	return strconv.Quote(abbrev(err.Src)) + ": " + err.Err.Error()
}

// maxQuoted is the number of runes of source text that error messages and
// logs include.
const maxQuoted = 64

// abbrev shortens src to maxQuoted runes, marking the cut with an ellipsis.
func abbrev(src string) string {
	n := 0
	for i := range src {
		if n == maxQuoted {
			return src[:i] + "..."
		}
		n++
	}
	return src
}

func (err *Error) Unwrap() error {
	return err.Err
}
