// Package mathlib provides the usual elementary functions and constants for
// expressio evaluators.
package mathlib

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"

	"github.com/zephyrtronium/expressio"
)

// Option is an option for Register.
type Option interface {
	mathOption()
}

type precopt uint

func (precopt) mathOption() {}

// DefaultPrec is the working precision in bits that Precise uses.
const DefaultPrec = 128

// Precise computes exp, log, log10, log2, sqrt, and pow in arbitrary
// precision and rounds the results to float64, so they are correctly rounded
// in all but pathological cases. It is much slower than the default.
func Precise() Option {
	return precopt(DefaultPrec)
}

// Precision is like Precise with a chosen working precision in bits. A
// precision of 0 selects the package math implementations.
func Precision(bits uint) Option {
	return precopt(bits)
}

// Constants returns the named constants Register adds.
func Constants() map[string]float64 {
	return map[string]float64{
		"pi":  math.Pi,
		"e":   math.E,
		"phi": math.Phi,
		"inf": math.Inf(1),
	}
}

// Functions returns the functions Register adds. Functions that produce NaN
// from arguments which aren't NaN report a *expressio.DomainError instead.
func Functions(opts ...Option) map[string]expressio.Func {
	var prec uint
	for _, opt := range opts {
		switch opt := opt.(type) {
		case precopt:
			prec = uint(opt)
		default:
			panic("mathlib: unknown option type")
		}
	}
	m := map[string]expressio.Func{
		"abs":   unary(math.Abs),
		"acos":  unary(math.Acos),
		"acosh": unary(math.Acosh),
		"asin":  unary(math.Asin),
		"asinh": unary(math.Asinh),
		"atan":  unary(math.Atan),
		"atanh": unary(math.Atanh),
		"cbrt":  unary(math.Cbrt),
		"ceil":  unary(math.Ceil),
		"cos":   unary(math.Cos),
		"cosh":  unary(math.Cosh),
		"exp":   unary(math.Exp),
		"floor": unary(math.Floor),
		"log":   unary(math.Log),
		"log10": unary(math.Log10),
		"log2":  unary(math.Log2),
		"round": unary(math.Round),
		"sin":   unary(math.Sin),
		"sinh":  unary(math.Sinh),
		"sqrt":  unary(math.Sqrt),
		"tan":   unary(math.Tan),
		"tanh":  unary(math.Tanh),
		"trunc": unary(math.Trunc),

		"atan2": binary(math.Atan2),
		"hypot": binary(math.Hypot),
		"max":   binary(math.Max),
		"min":   binary(math.Min),
		"mod":   binary(math.Mod),
		"pow":   binary(math.Pow),
	}
	if prec != 0 {
		p := precise(prec)
		m["exp"] = unary(p.exp)
		m["log"] = unary(p.log)
		m["log10"] = unary(p.logb(10, math.Log10))
		m["log2"] = unary(p.logb(2, math.Log2))
		m["sqrt"] = unary(p.sqrt)
		m["pow"] = binary(p.pow)
	}
	return m
}

// Register adds the constants and functions of the library to ev, replacing
// any existing bindings of the same names.
func Register(ev *expressio.Evaluator, opts ...Option) {
	for name, val := range Constants() {
		ev.AddConstant(name, val)
	}
	for name, fn := range Functions(opts...) {
		ev.Define(name, fn)
	}
}

func unary(f func(float64) float64) expressio.Func {
	return expressio.MonadicErr(func(x float64) (float64, error) {
		r := f(x)
		if math.IsNaN(r) && !math.IsNaN(x) {
			return r, &expressio.DomainError{X: x, Arg: 1}
		}
		return r, nil
	})
}

func binary(f func(x, y float64) float64) expressio.Func {
	return expressio.DyadicErr(func(x, y float64) (float64, error) {
		r := f(x, y)
		if math.IsNaN(r) && !math.IsNaN(x) && !math.IsNaN(y) {
			// Blame y when it is the zero or infinity that makes the
			// result undefined, e.g. mod(1, 0).
			if !math.IsInf(x, 0) && (y == 0 || math.IsInf(y, 0)) {
				return r, &expressio.DomainError{X: y, Arg: 2}
			}
			return r, &expressio.DomainError{X: x, Arg: 1}
		}
		return r, nil
	})
}

// precise evaluates functions using bigfloat at a fixed precision. Arguments
// for which the result is not a finite nonzero number use package math.
type precise uint

// maxExp bounds the exponents that precise functions compute exactly. Beyond
// it, float64 results overflow or underflow anyway.
const maxExp = 1100

func (p precise) float(x float64) *big.Float {
	return new(big.Float).SetPrec(uint(p)).SetFloat64(x)
}

func (p precise) exp(x float64) float64 {
	if x == 0 || math.IsNaN(x) || math.Abs(x) > maxExp {
		return math.Exp(x)
	}
	r, _ := bigfloat.Exp(p.float(0), p.float(x)).Float64()
	return r
}

func (p precise) log(x float64) float64 {
	if !(x > 0) || x == 1 || math.IsInf(x, 1) {
		return math.Log(x)
	}
	r, _ := bigfloat.Log(p.float(0), p.float(x)).Float64()
	return r
}

func (p precise) logb(base float64, fallback func(float64) float64) func(float64) float64 {
	return func(x float64) float64 {
		if !(x > 0) || x == 1 || math.IsInf(x, 1) {
			return fallback(x)
		}
		n := bigfloat.Log(p.float(0), p.float(x))
		d := bigfloat.Log(p.float(0), p.float(base))
		r, _ := n.Quo(n, d).Float64()
		return r
	}
}

func (p precise) sqrt(x float64) float64 {
	if !(x > 0) || math.IsInf(x, 1) {
		return math.Sqrt(x)
	}
	r, _ := p.float(0).Sqrt(p.float(x)).Float64()
	return r
}

func (p precise) pow(x, y float64) float64 {
	if !(x > 0) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) || x == 1 || y == 0 {
		return math.Pow(x, y)
	}
	if math.Abs(y*math.Log(x)) > maxExp {
		return math.Pow(x, y)
	}
	r, _ := bigfloat.Pow(p.float(0), p.float(x), p.float(y)).Float64()
	return r
}
