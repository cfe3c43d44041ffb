package mathlib_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/expressio"
	"github.com/zephyrtronium/expressio/mathlib"
)

func TestRegister(t *testing.T) {
	ev := expressio.NewEvaluator()
	mathlib.Register(ev)
	names := ev.Names()
	for name := range mathlib.Constants() {
		assert.Contains(t, names, name)
	}
	for name, fn := range mathlib.Functions() {
		assert.Contains(t, names, name)
		got, ok := ev.Function(name)
		require.True(t, ok, name)
		assert.Equal(t, fn.Arity(), got.Arity(), name)
	}
	assert.Len(t, names, len(mathlib.Constants())+len(mathlib.Functions()))
}

func TestFunctions(t *testing.T) {
	cases := []struct {
		src string
		r   float64
	}{
		{"abs(-2)", 2},
		{"sqrt(16)", 4},
		{"cbrt(-27)", -3},
		{"exp(0)", 1},
		{"log(e)", 1},
		{"log10(1000)", 3},
		{"log2(1024)", 10},
		{"log(0)", math.Inf(-1)},
		{"floor(-1.5)", -2},
		{"ceil(-1.5)", -1},
		{"round(2.5)", 3},
		{"trunc(-2.7)", -2},
		{"cos(0)", 1},
		{"sin(0)", 0},
		{"atan2(0, 1)", 0},
		{"hypot(3, 4)", 5},
		{"max(1, 2)", 2},
		{"min(1, 2)", 1},
		{"mod(7, 3)", 1},
		{"pow(2, 10)", 1024},
		{"pow(2, 0.5)^2", 2.0000000000000004},
		{"inf", math.Inf(1)},
		{"-inf", math.Inf(-1)},
		{"tanh(inf)", 1},
		{"2 * pi", 2 * math.Pi},
		{"phi", math.Phi},
	}
	ev := expressio.NewEvaluator()
	mathlib.Register(ev)
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			r, err := ev.Evaluate(c.src)
			require.NoError(t, err)
			if math.IsInf(c.r, 0) {
				assert.Equal(t, c.r, r)
			} else {
				assert.InDelta(t, c.r, r, 1e-12)
			}
		})
	}
}

func TestDomain(t *testing.T) {
	cases := []struct {
		src string
		fn  string
		x   float64
		arg int
	}{
		{"sqrt(-1)", "sqrt", -1, 1},
		{"log(-1)", "log", -1, 1},
		{"log2(-8)", "log2", -8, 1},
		{"acos(2)", "acos", 2, 1},
		{"asin(-2)", "asin", -2, 1},
		{"acosh(0)", "acosh", 0, 1},
		{"sin(inf)", "sin", math.Inf(1), 1},
		{"pow(-8, 1/3)", "pow", -8, 1},
		{"mod(1, 0)", "mod", 0, 2},
		{"mod(inf, 2)", "mod", math.Inf(1), 1},
	}
	for _, opts := range [][]mathlib.Option{nil, {mathlib.Precise()}} {
		ev := expressio.NewEvaluator()
		mathlib.Register(ev, opts...)
		for _, c := range cases {
			_, err := ev.Evaluate(c.src)
			var de *expressio.DomainError
			require.ErrorAs(t, err, &de, "evaluating %q", c.src)
			assert.Equal(t, c.fn, de.Func, "evaluating %q", c.src)
			assert.Equal(t, c.x, de.X, "evaluating %q", c.src)
			assert.Equal(t, c.arg, de.Arg, "evaluating %q", c.src)
		}
		// NaN in, NaN out is not a domain error.
		ev.AddConstant("nan", math.NaN())
		r, err := ev.Evaluate("sqrt(nan)")
		require.NoError(t, err)
		assert.True(t, math.IsNaN(r))
	}
}

func TestArity(t *testing.T) {
	ev := expressio.NewEvaluator()
	mathlib.Register(ev)
	for _, src := range []string{"sqrt(1, 2)", "hypot(1)", "sin", "pow(1, 2, 3)"} {
		_, err := ev.Evaluate(src)
		assert.ErrorAs(t, err, new(*expressio.ArityError), "evaluating %q", src)
	}
}

func TestPrecise(t *testing.T) {
	fast := expressio.NewEvaluator()
	mathlib.Register(fast)
	slow := expressio.NewEvaluator()
	mathlib.Register(slow, mathlib.Precise())
	exprs := []string{
		"exp(1)",
		"exp(-3.25)",
		"exp(700)",
		"log(2)",
		"log(10^300)",
		"log(1)",
		"log10(2)",
		"log2(3)",
		"sqrt(2)",
		"sqrt(10^-300)",
		"pow(3, 0.5)",
		"pow(1.5, 100)",
		"pow(10, -20)",
	}
	for _, src := range exprs {
		t.Run(src, func(t *testing.T) {
			want, err := fast.Evaluate(src)
			require.NoError(t, err)
			got, err := slow.Evaluate(src)
			require.NoError(t, err)
			if want == 0 {
				assert.Equal(t, want, got)
				return
			}
			assert.InEpsilon(t, want, got, 1e-15)
		})
	}

	// Results outside float64 range fall back to package math.
	for _, src := range []string{"exp(10^6)", "exp(0 - 10^6)", "pow(10, 400)", "log(0)", "log(inf)", "sqrt(0)", "pow(0, 2)"} {
		want, err := fast.Evaluate(src)
		require.NoError(t, err)
		got, err := slow.Evaluate(src)
		require.NoError(t, err, src)
		assert.Equal(t, want, got, src)
	}
}

func TestPrecisionZero(t *testing.T) {
	ev := expressio.NewEvaluator()
	mathlib.Register(ev, mathlib.Precision(0))
	r, err := ev.Evaluate("sqrt(2)")
	require.NoError(t, err)
	assert.Equal(t, math.Sqrt2, r)
}
