package expressio

import "go.uber.org/zap"

// Option is an option used when creating an Evaluator.
type Option interface {
	evalOption()
}

type (
	constopt struct {
		name string
		val  float64
	}
	constsopt map[string]float64
	funcopt   struct {
		name string
		fn   Func
	}
	depthopt  int
	strictopt bool
	logopt    struct {
		log *zap.Logger
	}
)

func (constopt) evalOption()  {}
func (constsopt) evalOption() {}
func (funcopt) evalOption()   {}
func (depthopt) evalOption()  {}
func (strictopt) evalOption() {}
func (logopt) evalOption()    {}

// WithConstant adds a constant to the evaluator.
func WithConstant(name string, val float64) Option {
	return constopt{name, val}
}

// WithConstants adds any number of constants to the evaluator.
func WithConstants(vals map[string]float64) Option {
	return constsopt(vals)
}

// WithFunc adds a function to the evaluator. Use FuncOf or one of the arity
// constructors such as Monadic to obtain fn.
func WithFunc(name string, fn Func) Option {
	return funcopt{name, fn}
}

// DefaultMaxDepth is the nesting depth limit used when MaxDepth is not given.
const DefaultMaxDepth = 1024

// MaxDepth limits how deeply expressions may nest. Parentheses, signs,
// arguments, and chains of exponentiation each add nesting. Exceeding the
// limit is a *SyntaxError. A non-positive depth selects DefaultMaxDepth.
func MaxDepth(depth int) Option {
	return depthopt(depth)
}

// StrictOperators makes division by zero, and any division or
// exponentiation that produces NaN from operands that aren't NaN, fail with a
// *DomainError. Without it, operators follow IEEE 754: 1/0 is +Inf, 0/0 is
// NaN, 0^-1 is +Inf, and (-8)^(1/3) is NaN.
func StrictOperators() Option {
	return strictopt(true)
}

// WithLogger sets a logger for the evaluator. Registrations and failed
// evaluations are logged at debug level. By default nothing is logged.
func WithLogger(log *zap.Logger) Option {
	return logopt{log}
}

func (ev *Evaluator) apply(opts []Option) {
	// First, check for a logger so that registrations from the other options
	// are logged. Loop backward so we apply the last one.
	for i := len(opts) - 1; i >= 0; i-- {
		if l, ok := opts[i].(logopt); ok {
			ev.log = l.log
			break
		}
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case constopt:
			ev.AddConstant(opt.name, opt.val)
		case constsopt:
			for k, v := range opt {
				ev.AddConstant(k, v)
			}
		case funcopt:
			ev.Define(opt.name, opt.fn)
		case depthopt:
			ev.depth = int(opt)
		case strictopt:
			ev.strict = bool(opt)
		case logopt:
			// Already done. Do nothing.
		default:
			panic("expressio: unknown option type")
		}
	}
}
