// Package expressio implements an embeddable calculator for float64
// arithmetic expressions over named constants and Go functions.
//
// Expressions use the usual infix operators + - * / and ^, where "a^b" is
// exponentiation. ^ binds most tightly and is right-associative, so "2^3^2" is
// 512. Signs apply to the operand directly after them, so "-2^2" is 4 and
// "2^-1" is 0.5. Names refer to constants or to functions registered with an
// Evaluator; a function is called as "f(x, y)", and a function of no
// arguments may be used either as "f()" or just "f".
//
// Any Go function whose parameters and result are float64 can be registered,
// including method values and closures. AddFunction checks the signature at
// compile time, and the number of parameters becomes the arity that calls in
// expressions must match:
//
//	ev := expressio.NewEvaluator(expressio.WithConstant("pi", math.Pi))
//	expressio.AddFunction(ev, "hypot", math.Hypot)
//	r, err := ev.Evaluate("hypot(3, 4) * pi")
//
// Expressions can also be parsed once and evaluated many times with Parse and
// Eval, picking up constants changed in between.
package expressio
