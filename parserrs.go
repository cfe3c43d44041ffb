package expressio

import "strconv"

// SyntaxError is an error indicating a malformed sequence of tokens, such as
// a missing operand, an unclosed parenthesis, or tokens after the end of an
// expression. It implements InputError.
type SyntaxError struct {
	// Col is the position of the offending token.
	Col int
	// Token is the text of the offending token. It is empty at the end of
	// input.
	Token string
	// Msg describes the problem.
	Msg string
}

func (err *SyntaxError) Error() string {
	if err.Token == "" {
		return errpos(err.Col, err.Msg)
	}
	return errpos(err.Col, err.Msg+" "+strconv.Quote(err.Token))
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// ArityError is an error indicating a function call with the wrong number of
// arguments. It implements InputError.
type ArityError struct {
	// Col is the position of the function name in the call expression, or 0
	// if the error was not produced from parsed input.
	Col int
	// Func is the function name that was called.
	Func string
	// Want is the arity of the function.
	Want int
	// Got is the number of arguments the call supplied.
	Got int
}

func (err *ArityError) Error() string {
	name := err.Func
	if name == "" {
		name = "function"
	}
	msg := "cannot call " + name + " with " + plural(err.Got, "argument") + " (want " + strconv.Itoa(err.Want) + ")"
	if err.Col <= 0 {
		return msg
	}
	return errpos(err.Col, msg)
}

func (err *ArityError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*ArityError)(nil)
	_ InputError = (*LexError)(nil)
	_ InputError = (*UnknownNameError)(nil)
)

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a complete expression.
func itShouldNotHaveEndedThisWay(tok lexToken) error {
	switch tok.kind {
	case tokenClose:
		return &SyntaxError{Col: tok.pos, Token: tok.text, Msg: "close parenthesis with no open parenthesis"}
	case tokenComma:
		return &SyntaxError{Col: tok.pos, Token: tok.text, Msg: "separator outside function call"}
	case tokenNum, tokenIdent, tokenOpen, tokenOp:
		return &SyntaxError{Col: tok.pos, Token: tok.text, Msg: "unexpected token after expression"}
	default:
		panic("expressio: it really should not have ended this way: " + tok.String())
	}
}

// missingOperand returns an error for a token found where an operand should
// begin.
func missingOperand(tok lexToken) error {
	switch tok.kind {
	case tokenEOF:
		return &SyntaxError{Col: tok.pos, Msg: "unexpected end of expression"}
	case tokenClose:
		return &SyntaxError{Col: tok.pos, Token: tok.text, Msg: "missing expression before"}
	case tokenComma:
		return &SyntaxError{Col: tok.pos, Token: tok.text, Msg: "missing expression before"}
	default:
		panic("expressio: not a terminating token: " + tok.String())
	}
}
