package expressio_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zephyrtronium/expressio"
)

func TestSymbols(t *testing.T) {
	var s expressio.Symbols
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Names())
	assert.False(t, s.Remove("x"))

	s.SetConst("x", 1)
	s.SetFunc("f", expressio.Monadic(math.Abs))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"f", "x"}, s.Names())

	v, ok := s.Const("x")
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
	_, ok = s.Function("x")
	assert.False(t, ok)
	_, ok = s.Const("f")
	assert.False(t, ok)
	fn, ok := s.Function("f")
	assert.True(t, ok)
	assert.Equal(t, 1, fn.Arity())

	// One namespace: each set replaces the other kind.
	s.SetFunc("x", expressio.Niladic(func() float64 { return 2 }))
	_, ok = s.Const("x")
	assert.False(t, ok)
	s.SetConst("f", 3)
	_, ok = s.Function("f")
	assert.False(t, ok)
	assert.Equal(t, 2, s.Len())

	assert.True(t, s.Remove("x"))
	assert.Equal(t, []string{"f"}, s.Names())
	assert.Panics(t, func() { s.SetFunc("g", nil) })
}
