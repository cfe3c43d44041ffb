package expressio

import (
	"reflect"
	"strconv"
)

// MaxArity is the largest number of parameters FuncOf accepts.
const MaxArity = 8

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// FuncOf converts an arbitrary Go function to a Func by inspecting its
// signature. Every parameter must have kind float64 (so named float types are
// allowed), there may be at most MaxArity of them, and the results must be a
// float64 kind alone or followed by an error. Free functions, method values,
// and closures are all accepted; method expressions are not, because the
// receiver is a parameter. If fn is already a Func, it is returned unchanged.
//
// Signatures that don't fit are reported as a *RegistrationError.
func FuncOf(fn any) (Func, error) {
	if f, ok := fn.(Func); ok {
		return f, nil
	}
	if f := exact(fn); f != nil {
		if reflect.ValueOf(fn).IsNil() {
			return nil, &RegistrationError{Type: reflect.TypeOf(fn), Reason: "nil function"}
		}
		return f, nil
	}
	v := reflect.ValueOf(fn)
	if !v.IsValid() {
		return nil, &RegistrationError{Reason: "nil function"}
	}
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, &RegistrationError{Type: t, Reason: "not a function"}
	}
	if v.IsNil() {
		return nil, &RegistrationError{Type: t, Reason: "nil function"}
	}
	if t.IsVariadic() {
		return nil, &RegistrationError{Type: t, Reason: "variadic functions have no fixed arity"}
	}
	if t.NumIn() > MaxArity {
		return nil, &RegistrationError{Type: t, Reason: "more than " + strconv.Itoa(MaxArity) + " parameters"}
	}
	for i := 0; i < t.NumIn(); i++ {
		if t.In(i).Kind() != reflect.Float64 {
			return nil, &RegistrationError{Type: t, Reason: "parameter " + strconv.Itoa(i+1) + " has non-numeric type " + t.In(i).String()}
		}
	}
	switch t.NumOut() {
	case 2:
		if t.Out(1) != errorType {
			return nil, &RegistrationError{Type: t, Reason: "second result must be error, not " + t.Out(1).String()}
		}
		fallthrough
	case 1:
		if t.Out(0).Kind() != reflect.Float64 {
			return nil, &RegistrationError{Type: t, Reason: "result has non-numeric type " + t.Out(0).String()}
		}
	default:
		return nil, &RegistrationError{Type: t, Reason: "must return a number, optionally with an error"}
	}
	return &reflected{fn: v, typ: t}, nil
}

// reflected calls a function through package reflect.
type reflected struct {
	fn  reflect.Value
	typ reflect.Type
}

func (f *reflected) Arity() int {
	return f.typ.NumIn()
}

func (f *reflected) Call(args []float64) (float64, error) {
	if len(args) != f.typ.NumIn() {
		return 0, &ArityError{Want: f.typ.NumIn(), Got: len(args)}
	}
	in := make([]reflect.Value, len(args))
	for i, x := range args {
		in[i] = reflect.ValueOf(x).Convert(f.typ.In(i))
	}
	out := f.fn.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		return out[0].Float(), out[1].Interface().(error)
	}
	return out[0].Float(), nil
}

// RegistrationError is an error indicating a Go value that cannot be
// registered as a function.
type RegistrationError struct {
	// Name is the name under which the function was offered, if any.
	Name string
	// Type is the type of the rejected value. It is nil for a nil interface.
	Type reflect.Type
	// Reason describes what is wrong with the value.
	Reason string
}

func (err *RegistrationError) Error() string {
	r := "cannot register "
	if err.Name != "" {
		r += strconv.Quote(err.Name) + " "
	}
	if err.Type != nil {
		r += "of type " + err.Type.String() + " "
	}
	return r + "as a function: " + err.Reason
}
