package expressio

import (
	"reflect"
	"strconv"
)

// Func is a function from reals to reals with a fixed number of arguments.
// Arity decides how the parser treats a name bound to the function: a call
// must supply exactly Arity arguments, and a bare name is a call with no
// arguments, which is only valid when Arity is 0.
type Func interface {
	// Arity returns the number of arguments the function takes. It must
	// return the same value every time it is called.
	Arity() int

	// Call evaluates the function. Evaluators pass exactly Arity arguments;
	// if len(args) is anything else, Call returns an *ArityError without
	// calling the underlying function. Call may modify the elements of args.
	Call(args []float64) (float64, error)
}

// Callable is the set of Go function types that AddFunction accepts: all
// parameters are float64, and the result is float64 or (float64, error).
// Named function types with one of these underlying types are included. Any
// other signature is rejected by the compiler.
type Callable interface {
	~func() float64 |
		~func(float64) float64 |
		~func(float64, float64) float64 |
		~func(float64, float64, float64) float64 |
		~func(float64, float64, float64, float64) float64 |
		~func() (float64, error) |
		~func(float64) (float64, error) |
		~func(float64, float64) (float64, error) |
		~func(float64, float64, float64) (float64, error) |
		~func(float64, float64, float64, float64) (float64, error)
}

// adapt converts a Callable to a Func.
func adapt[F Callable](fn F) Func {
	if reflect.ValueOf(fn).IsNil() {
		panic("expressio: nil function")
	}
	if f := exact(fn); f != nil {
		return f
	}
	// Named function types land here.
	f, err := FuncOf(fn)
	if err != nil {
		panic("expressio: " + err.Error())
	}
	return f
}

// exact converts functions of exactly the Callable types. The result is nil
// if fn has any other type.
func exact(fn any) Func {
	switch f := fn.(type) {
	case func() float64:
		return Niladic(f)
	case func(float64) float64:
		return Monadic(f)
	case func(float64, float64) float64:
		return Dyadic(f)
	case func(float64, float64, float64) float64:
		return Triadic(f)
	case func(float64, float64, float64, float64) float64:
		return Tetradic(f)
	case func() (float64, error):
		return niladic(f)
	case func(float64) (float64, error):
		return monadic(f)
	case func(float64, float64) (float64, error):
		return dyadic(f)
	case func(float64, float64, float64) (float64, error):
		return triadic(f)
	case func(float64, float64, float64, float64) (float64, error):
		return tetradic(f)
	}
	return nil
}

type niladic func() (float64, error)

func (niladic) Arity() int { return 0 }

func (f niladic) Call(args []float64) (float64, error) {
	if len(args) != 0 {
		return 0, &ArityError{Want: 0, Got: len(args)}
	}
	return f()
}

// Niladic wraps a function of zero variables, generally one which computes a
// constant or reads external state, into a Func.
func Niladic(f func() float64) Func {
	return niladic(func() (float64, error) { return f(), nil })
}

// NiladicErr is like Niladic for functions that can fail.
func NiladicErr(f func() (float64, error)) Func {
	return niladic(f)
}

type monadic func(float64) (float64, error)

func (monadic) Arity() int { return 1 }

func (f monadic) Call(args []float64) (float64, error) {
	if len(args) != 1 {
		return 0, &ArityError{Want: 1, Got: len(args)}
	}
	return f(args[0])
}

// Monadic wraps a function of one variable into a Func.
func Monadic(f func(x float64) float64) Func {
	return monadic(func(x float64) (float64, error) { return f(x), nil })
}

// MonadicErr wraps a function of one variable that can fail into a Func. If f
// is called on an argument outside its domain, it should return a
// *DomainError.
func MonadicErr(f func(x float64) (float64, error)) Func {
	return monadic(f)
}

type dyadic func(x, y float64) (float64, error)

func (dyadic) Arity() int { return 2 }

func (f dyadic) Call(args []float64) (float64, error) {
	if len(args) != 2 {
		return 0, &ArityError{Want: 2, Got: len(args)}
	}
	return f(args[0], args[1])
}

// Dyadic wraps a function of two variables into a Func.
func Dyadic(f func(x, y float64) float64) Func {
	return dyadic(func(x, y float64) (float64, error) { return f(x, y), nil })
}

// DyadicErr is like Dyadic for functions that can fail.
func DyadicErr(f func(x, y float64) (float64, error)) Func {
	return dyadic(f)
}

type triadic func(x, y, z float64) (float64, error)

func (triadic) Arity() int { return 3 }

func (f triadic) Call(args []float64) (float64, error) {
	if len(args) != 3 {
		return 0, &ArityError{Want: 3, Got: len(args)}
	}
	return f(args[0], args[1], args[2])
}

// Triadic wraps a function of three variables into a Func.
func Triadic(f func(x, y, z float64) float64) Func {
	return triadic(func(x, y, z float64) (float64, error) { return f(x, y, z), nil })
}

// TriadicErr is like Triadic for functions that can fail.
func TriadicErr(f func(x, y, z float64) (float64, error)) Func {
	return triadic(f)
}

type tetradic func(w, x, y, z float64) (float64, error)

func (tetradic) Arity() int { return 4 }

func (f tetradic) Call(args []float64) (float64, error) {
	if len(args) != 4 {
		return 0, &ArityError{Want: 4, Got: len(args)}
	}
	return f(args[0], args[1], args[2], args[3])
}

// Tetradic wraps a function of four variables into a Func.
func Tetradic(f func(w, x, y, z float64) float64) Func {
	return tetradic(func(w, x, y, z float64) (float64, error) { return f(w, x, y, z), nil })
}

// TetradicErr is like Tetradic for functions that can fail.
func TetradicErr(f func(w, x, y, z float64) (float64, error)) Func {
	return tetradic(f)
}

// DomainError is an error returned when a function is called on arguments
// outside its domain, or when a function fails for any other reason. The
// evaluator fills in Func when the function leaves it empty.
type DomainError struct {
	// X is the out-of-domain argument.
	X float64
	// Arg is the 1-based index of the argument, or 0 if unknown.
	Arg int
	// Func is a name identifying the function or operator.
	Func string
	// Err is the underlying error, if the function reported one.
	Err error
}

func (err *DomainError) Error() string {
	if err.Err != nil {
		if err.Func == "" {
			return err.Err.Error()
		}
		return err.Func + ": " + err.Err.Error()
	}
	r := strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

func (err *DomainError) Unwrap() error {
	return err.Err
}
