package expressio

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

func TestLex(t *testing.T) {
	cases := []struct {
		src    string
		tokens []lexToken
		errs   int
	}{
		// spaces
		{"", nil, 0},
		{" \t \r\n ", nil, 0},
		// numbers
		{"0", []lexToken{{text: "0", kind: tokenNum, pos: 1}}, 0},
		{"9876543210", []lexToken{{text: "9876543210", kind: tokenNum, pos: 1}}, 0},
		{"1 0", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "0", kind: tokenNum, pos: 3}}, 0},
		{"1.0", []lexToken{{text: "1.0", kind: tokenNum, pos: 1}}, 0},
		{"-1", []lexToken{{text: "-", kind: tokenOp, pos: 1}, {text: "1", kind: tokenNum, pos: 2}}, 0},
		{".1", []lexToken{{text: ".1", kind: tokenNum, pos: 1}}, 0},
		{"1.", []lexToken{{text: "1.", kind: tokenNum, pos: 1}}, 0},
		{".", nil, 1},
		{"1.1.1", []lexToken{{text: "1", kind: tokenNum, pos: 5}}, 1},
		{"1+0", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "+", kind: tokenOp, pos: 2}, {text: "0", kind: tokenNum, pos: 3}}, 0},
		{"1*0", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "*", kind: tokenOp, pos: 2}, {text: "0", kind: tokenNum, pos: 3}}, 0},
		{"2x", []lexToken{{text: "2", kind: tokenNum, pos: 1}, {text: "x", kind: tokenIdent, pos: 2}}, 0},
		{"1e5", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "e5", kind: tokenIdent, pos: 2}}, 0},
		// identifiers
		{"e", []lexToken{{text: "e", kind: tokenIdent, pos: 1}}, 0},
		{"e1", []lexToken{{text: "e1", kind: tokenIdent, pos: 1}}, 0},
		{"π", []lexToken{{text: "π", kind: tokenIdent, pos: 1}}, 0},
		{"eπ", []lexToken{{text: "eπ", kind: tokenIdent, pos: 1}}, 0},
		{"_1234_", []lexToken{{text: "_1234_", kind: tokenIdent, pos: 1}}, 0},
		{"unknown_name", []lexToken{{text: "unknown_name", kind: tokenIdent, pos: 1}}, 0},
		{"e(", []lexToken{{text: "e", kind: tokenIdent, pos: 1}, {text: "(", kind: tokenOpen, pos: 2}}, 0},
		// operators
		{"+", []lexToken{{text: "+", kind: tokenOp, pos: 1}}, 0},
		{"++", []lexToken{{text: "+", kind: tokenOp, pos: 1}, {text: "+", kind: tokenOp, pos: 2}}, 0},
		{"a--b", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {text: "-", kind: tokenOp, pos: 2}, {text: "-", kind: tokenOp, pos: 3}, {text: "b", kind: tokenIdent, pos: 4}}, 0},
		{"1×2÷3", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "×", kind: tokenOp, pos: 2}, {text: "2", kind: tokenNum, pos: 3}, {text: "÷", kind: tokenOp, pos: 4}, {text: "3", kind: tokenNum, pos: 5}}, 0},
		{"2^3", []lexToken{{text: "2", kind: tokenNum, pos: 1}, {text: "^", kind: tokenOp, pos: 2}, {text: "3", kind: tokenNum, pos: 3}}, 0},
		// brackets and separators
		{"()", []lexToken{{text: "(", kind: tokenOpen, pos: 1}, {text: ")", kind: tokenClose, pos: 2}}, 0},
		{"f(a, b)", []lexToken{
			{text: "f", kind: tokenIdent, pos: 1},
			{text: "(", kind: tokenOpen, pos: 2},
			{text: "a", kind: tokenIdent, pos: 3},
			{text: ",", kind: tokenComma, pos: 4},
			{text: "b", kind: tokenIdent, pos: 6},
			{text: ")", kind: tokenClose, pos: 7},
		}, 0},
		// erroneous symbols
		{"$", nil, 1},
		{"[]", nil, 2},
		{"a$", []lexToken{{text: "a", kind: tokenIdent, pos: 1}}, 1},
		{"$a", []lexToken{{text: "a", kind: tokenIdent, pos: 2}}, 1},
		{"0$", []lexToken{{text: "0", kind: tokenNum, pos: 1}}, 1},
		{"$0", []lexToken{{text: "0", kind: tokenNum, pos: 2}}, 1},
		{"$$", nil, 2},
		{"1 = 2", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "2", kind: tokenNum, pos: 5}}, 1},
	}

	for _, c := range cases {
		scan := lex(strings.NewReader(c.src))
		var got []lexToken
		errs := 0
		for {
			tok, err := scan.next()
			if err == io.EOF {
				t.Fatalf("scanning %q: no EOF token", c.src)
			}
			if err != nil {
				if !errors.As(err, new(*LexError)) {
					t.Errorf("scanning %q: error %#v is not a *LexError", c.src, err)
				}
				errs++
				continue
			}
			if tok.kind == tokenEOF {
				break
			}
			got = append(got, tok)
		}
		if !reflect.DeepEqual(got, c.tokens) {
			t.Errorf("scanning %q:\n\twant %v\n\tgot  %v", c.src, c.tokens, got)
		}
		if errs != c.errs {
			t.Errorf("scanning %q: want %d errors, got %d", c.src, c.errs, errs)
		}
		if _, err := scan.next(); err != io.EOF {
			t.Errorf("scanning %q: no io.EOF after EOF token", c.src)
		}
	}
}

func TestLexEOFPos(t *testing.T) {
	cases := []struct {
		src string
		pos int
	}{
		{"", 1},
		{"1", 2},
		{"1 ", 3},
		{"πr", 3},
	}
	for _, c := range cases {
		scan := lex(strings.NewReader(c.src))
		var tok lexToken
		for tok.kind != tokenEOF {
			var err error
			tok, err = scan.next()
			if err != nil {
				t.Fatalf("scanning %q: %v", c.src, err)
			}
		}
		if tok.pos != c.pos {
			t.Errorf("scanning %q: want EOF at %d, got %d", c.src, c.pos, tok.pos)
		}
	}
}

func TestLexError(t *testing.T) {
	cases := []struct {
		src  string
		want LexError
	}{
		{"$", LexError{Text: "$", Kind: "", Col: 1}},
		{"ab @", LexError{Text: "@", Kind: "", Col: 4}},
		{"1.2.", LexError{Text: "1.2.", Kind: "number", Col: 4}},
		{".", LexError{Text: ".", Kind: "number", Col: 1}},
	}
	for _, c := range cases {
		scan := lex(strings.NewReader(c.src))
		var err error
		for err == nil {
			var tok lexToken
			tok, err = scan.next()
			if tok.kind == tokenEOF {
				t.Fatalf("scanning %q: no error", c.src)
			}
		}
		var le *LexError
		if !errors.As(err, &le) {
			t.Fatalf("scanning %q: error %#v is not a *LexError", c.src, err)
		}
		if *le != c.want {
			t.Errorf("scanning %q: want %+v, got %+v", c.src, c.want, *le)
		}
		if le.Pos() != c.want.Col {
			t.Errorf("scanning %q: Pos gives %d, want %d", c.src, le.Pos(), c.want.Col)
		}
	}
}

func TestPushMust(t *testing.T) {
	scan := lex(strings.NewReader("1"))
	tok, err := scan.next()
	if err != nil {
		t.Fatal(err)
	}
	scan.push(tok)
	if got := scan.must(); got != tok {
		t.Errorf("must gave %v after pushing %v", got, tok)
	}
	defer func() {
		if recover() == nil {
			t.Error("must without a pushed token didn't panic")
		}
	}()
	scan.must()
}
