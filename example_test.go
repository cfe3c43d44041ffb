package expressio_test

import (
	"errors"
	"fmt"
	"math"

	"github.com/zephyrtronium/expressio"
)

func Example() {
	ev := expressio.NewEvaluator(expressio.WithConstant("pi", math.Pi))
	fmt.Println(ev.Evaluate("2+3*4"))
	fmt.Println(ev.Evaluate("2^3^2"))
	fmt.Println(ev.Evaluate("(2+3)*4"))
	fmt.Println(ev.Evaluate("pi*2"))
	// Output:
	// 14 <nil>
	// 512 <nil>
	// 20 <nil>
	// 6.283185307179586 <nil>
}

func ExampleEvaluator_Eval() {
	ev := expressio.NewEvaluator()
	area, err := ev.ParseString("w * h / 2")
	if err != nil {
		panic(err)
	}
	fmt.Println(area.Names())
	for _, w := range []float64{1, 2, 3} {
		ev.AddConstant("w", w)
		ev.AddConstant("h", 4)
		r, _ := ev.Eval(area)
		fmt.Println(r)
	}
	// Output:
	// [h w]
	// 2
	// 4
	// 6
}

func ExampleUnknownNameError() {
	ev := expressio.NewEvaluator()
	_, err := ev.Evaluate("1 + unknown_name")
	var u *expressio.UnknownNameError
	if errors.As(err, &u) {
		fmt.Println(u.Name, u.Pos())
	}
	fmt.Println(err)
	// Output:
	// unknown_name 5
	// "1 + unknown_name": 5: undefined constant: "unknown_name"
}

func ExampleStrictOperators() {
	ieee := expressio.NewEvaluator()
	strict := ieee.Clone(expressio.StrictOperators())
	fmt.Println(ieee.Evaluate("1/0"))
	fmt.Println(strict.Evaluate("1/0"))
	// Output:
	// +Inf <nil>
	// 0 "1/0": 0 outside domain of / (argument 2)
}
