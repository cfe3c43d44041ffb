package expressio

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

// Expr   = Term { ('+' | '-') Term }
// Term   = Power { ('*' | '×' | '/' | '÷') Power }
// Power  = Unary [ '^' Power ]
// Unary  = ('+' | '-') Unary | Primary
// Primary = num | name | name '(' [ Expr { ',' Expr } ] ')' | '(' Expr ')'

// Expr is a parsed expression that can be evaluated by an Evaluator any
// number of times.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the sorted list of identifiers used in the expression.
	names []string
	// src is the source text, if it is known.
	src string
}

// parsectx holds general data for parsing.
type parsectx struct {
	// syms is the symbol table consulted for the arity of functions.
	syms *Symbols
	// names is the set of identifiers that have been seen this parse.
	names map[string]bool
	// depth is the current nesting depth, and max is its limit.
	depth, max int
}

// enter increases the nesting depth, failing if that exceeds the limit.
func (p *parsectx) enter(tok lexToken) error {
	p.depth++
	if p.depth > p.max {
		return &SyntaxError{Col: tok.pos, Token: tok.text, Msg: "expression nested too deeply at"}
	}
	return nil
}

func (p *parsectx) leave() {
	p.depth--
}

// Parse parses an expression so it can be evaluated later, possibly many
// times. Calls to functions currently in the symbol table are checked for
// the right number of arguments. Names are not otherwise resolved until
// evaluation, so constants may be added between Parse and Eval.
//
// Any error is returned as an *Error.
func (ev *Evaluator) Parse(src io.RuneScanner) (*Expr, error) {
	e, err := ev.parse(src)
	if err != nil {
		return nil, ev.fail("", err)
	}
	return e, nil
}

// ParseString is a shortcut to parse an expression from a string.
func (ev *Evaluator) ParseString(src string) (*Expr, error) {
	e, err := ev.parse(strings.NewReader(src))
	if err != nil {
		return nil, ev.fail(src, err)
	}
	e.src = src
	return e, nil
}

func (ev *Evaluator) parse(src io.RuneScanner) (*Expr, error) {
	scan := lex(src)
	p := parsectx{
		syms:  &ev.syms,
		names: make(map[string]bool),
		max:   ev.maxDepth(),
	}
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokenEOF {
		return nil, &SyntaxError{Col: tok.pos, Msg: "empty expression"}
	}
	scan.push(tok)
	n, err := parseterm(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	if tok := scan.must(); tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok)
	}
	ex := Expr{
		n:     n,
		names: make([]string, 0, len(p.names)),
	}
	for k := range p.names {
		ex.names = append(ex.names, k)
	}
	sortstrs(ex.names)
	return &ex, nil
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// parseterm parses a subexpression containing binary operators that bind more
// tightly than until. If there is no error, then parseterm pushes the last
// token it scans, including EOF.
//
// Each binary node adds a level of nesting that is held until parseterm
// returns, so the depth limit bounds the height of the tree.
func parseterm(scan *lexer, p *parsectx, until operator) (*node, error) {
	n, err := parselhs(scan, p)
	if err != nil {
		return nil, err
	}
	held := 0
	defer func() {
		for ; held > 0; held-- {
			p.leave()
		}
	}()
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenOp:
			prec := binop(tok.text)
			if prec.op == nodeNone {
				panic("expressio: no binary operator for " + tok.String())
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			held++
			if err := p.enter(tok); err != nil {
				return nil, err
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			n = &node{kind: prec.op, col: tok.pos, left: n, right: rhs}
		case tokenNum, tokenIdent, tokenOpen, tokenClose, tokenComma, tokenEOF:
			// End of this subexpression. There is no implicit
			// multiplication, so the caller decides whether the token is
			// legal here.
			scan.push(tok)
			return n, nil
		default:
			panic("expressio: unknown token: " + tok.String())
		}
	}
}

// parselhs parses a unary expression: a primary preceded by any number of
// signs.
func parselhs(scan *lexer, p *parsectx) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if err := p.enter(tok); err != nil {
		return nil, err
	}
	defer p.leave()
	switch tok.kind {
	case tokenNum:
		v, err := strconv.ParseFloat(tok.text, 64)
		// Digit strings too long for float64 parse as infinity.
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, &LexError{Text: tok.text, Kind: "number", Col: tok.pos}
		}
		return &node{kind: nodeNum, name: tok.text, val: v, col: tok.pos}, nil
	case tokenIdent:
		return parseident(scan, p, tok)
	case tokenOp:
		op := unop(tok.text)
		if op == nodeNone {
			return nil, &SyntaxError{Col: tok.pos, Token: tok.text, Msg: "missing operand before binary operator"}
		}
		rhs, err := parselhs(scan, p)
		if err != nil {
			return nil, err
		}
		return &node{kind: op, col: tok.pos, left: rhs}, nil
	case tokenOpen:
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		end := scan.must()
		if end.kind != tokenClose {
			return nil, unclosed(end)
		}
		return rhs, nil
	case tokenClose, tokenComma, tokenEOF:
		return nil, missingOperand(tok)
	default:
		panic("expressio: unknown token: " + tok.String())
	}
}

// parseident parses a primary that begins with an identifier: a reference
// to a constant, a use of a niladic function, or a call.
func parseident(scan *lexer, p *parsectx, id lexToken) (*node, error) {
	p.names[id.text] = true
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenOpen {
		scan.push(tok)
		if fn, ok := p.syms.Function(id.text); ok && fn.Arity() != 0 {
			return nil, &ArityError{Col: id.pos, Func: id.text, Want: fn.Arity(), Got: 0}
		}
		return &node{kind: nodeName, name: id.text, col: id.pos}, nil
	}
	args, nargs, err := parsearglist(scan, p)
	if err != nil {
		return nil, err
	}
	// Names that aren't functions yet are resolved during evaluation.
	if fn, ok := p.syms.Function(id.text); ok && fn.Arity() != nargs {
		return nil, &ArityError{Col: id.pos, Func: id.text, Want: fn.Arity(), Got: nargs}
	}
	return &node{kind: nodeCall, name: id.text, nargs: nargs, col: id.pos, right: args}, nil
}

// parsearglist parses a parenthesized list of zero or more arguments following
// the open parenthesis. It consumes the close parenthesis.
func parsearglist(scan *lexer, p *parsectx) (*node, int, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, 0, err
	}
	if tok.kind == tokenClose {
		// Niladic call.
		return nil, 0, nil
	}
	scan.push(tok)
	var n node
	l := &n
	len := 0
	for {
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, 0, err
		}
		len++
		l.right = &node{kind: nodeArg, col: rhs.col, left: rhs}
		l = l.right
		end := scan.must()
		switch end.kind {
		case tokenClose:
			return n.right, len, nil
		case tokenComma:
			// Next argument.
		default:
			return nil, 0, unclosed(end)
		}
	}
}

// unclosed returns an error for a token found where a close parenthesis is
// required.
func unclosed(tok lexToken) error {
	if tok.kind == tokenEOF {
		return &SyntaxError{Col: tok.pos, Msg: "open parenthesis with no close parenthesis"}
	}
	return &SyntaxError{Col: tok.pos, Token: tok.text, Msg: "expected ) but found"}
}

// Names returns the identifiers used in the expression, sorted.
func (e *Expr) Names() []string {
	return append(([]string)(nil), e.names...)
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	var b strings.Builder
	e.n.fmt(&b, false, true)
	return b.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*", "×":
		return operator{5, false, nodeMul}
	case "/", "÷":
		return operator{5, false, nodeDiv}
	case "^":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets the node kind of a unary operator. Unary operators bind more
// tightly than any binary operator, so they need no precedence. If there is
// no such unary operator, the result is nodeNone.
func unop(text string) nodeKind {
	switch text {
	case "+":
		return nodeNop
	case "-":
		return nodeNeg
	default:
		return nodeNone
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
