package symbolic

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// ============================================================
// Parser
// ============================================================

// ParseError reports malformed expression text. Pos is a byte offset into
// Input.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d in %q: %s", e.Pos, e.Input, e.Msg)
}

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNum
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// Parse converts text into an expression in the single variable named
// variable. Numbers, + - * / ^ **, unary signs, parentheses, the constants
// pi and e and the functions listed by FuncNames are accepted. Juxtaposition
// is not multiplication: "2x" is an error.
func Parse(text, variable string) (Expr, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &parser{input: text, toks: toks, variable: variable}
	if p.peek().kind == tokEOF {
		return nil, p.errorf(0, "empty expression")
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t.pos, "unexpected %q", t.text)
	}
	return e, nil
}

// MustParse is Parse for literals known to be valid. It panics on error.
func MustParse(text, variable string) Expr {
	e, err := Parse(text, variable)
	if err != nil {
		panic(err)
	}
	return e
}

func lex(text string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(text) {
		c := rune(text[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case isDigit(text[i]) || (c == '.' && i+1 < len(text) && isDigit(text[i+1])):
			start := i
			for i < len(text) && (isDigit(text[i]) || text[i] == '.') {
				i++
			}
			if i < len(text) && (text[i] == 'e' || text[i] == 'E') {
				j := i + 1
				if j < len(text) && (text[j] == '+' || text[j] == '-') {
					j++
				}
				if j < len(text) && isDigit(text[j]) {
					i = j
					for i < len(text) && isDigit(text[i]) {
						i++
					}
				}
			}
			toks = append(toks, token{kind: tokNum, text: text[start:i], pos: start})
		case c == '_' || unicode.IsLetter(c):
			start := i
			for i < len(text) && (text[i] == '_' || isDigit(text[i]) || unicode.IsLetter(rune(text[i]))) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: text[start:i], pos: start})
		case c == '*' && i+1 < len(text) && text[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "^", pos: i})
			i += 2
		case strings.ContainsRune("+-*/^", c):
			toks = append(toks, token{kind: tokOp, text: string(c), pos: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: i})
			i++
		default:
			return nil, &ParseError{Input: text, Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(text)}), nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

type parser struct {
	input    string
	toks     []token
	pos      int
	variable string
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(pos int, format string, args ...any) error {
	return &ParseError{Input: p.input, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) isOp(ops ...string) bool {
	t := p.peek()
	if t.kind != tokOp {
		return false
	}
	for _, op := range ops {
		if t.text == op {
			return true
		}
	}
	return false
}

// expr := term (("+" | "-") term)*
func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	terms := []Expr{left}
	for p.isOp("+", "-") {
		op := p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if op.text == "-" {
			right = Neg(right)
		}
		terms = append(terms, right)
	}
	if len(terms) == 1 {
		return left, nil
	}
	return AddOf(terms...), nil
}

// term := unary (("*" | "/") unary)*
func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		if p.isOp("*", "/") {
			op := p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			if op.text == "/" {
				right = PowOf(right, N(-1))
			}
			left = MulOf(left, right)
			continue
		}
		if t := p.peek(); t.kind == tokNum || t.kind == tokIdent || t.kind == tokLParen {
			return nil, p.errorf(t.pos, "missing operator before %q", t.text)
		}
		return left, nil
	}
}

// unary := ("-" | "+") unary | power
func (p *parser) parseUnary() (Expr, error) {
	if p.isOp("-", "+") {
		op := p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op.text == "-" {
			return Neg(operand), nil
		}
		return operand, nil
	}
	return p.parsePower()
}

// power := primary ("^" unary)?
// The exponent is parsed as a unary so that 2^-x and x^y^z (right
// associative) both work.
func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.isOp("^") {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		r, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, p.errorf(t.pos, "malformed number %q", t.text)
		}
		return &Num{val: r}, nil
	case tokIdent:
		return p.parseIdent(t)
	case tokLParen:
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, p.errorf(closing.pos, "expected ')' to close '(' at offset %d", t.pos)
		}
		return e, nil
	case tokEOF:
		return nil, p.errorf(t.pos, "unexpected end of expression")
	}
	return nil, p.errorf(t.pos, "unexpected %q", t.text)
}

func (p *parser) parseIdent(t token) (Expr, error) {
	if build, ok := builders[t.text]; ok {
		open := p.next()
		if open.kind != tokLParen {
			return nil, p.errorf(open.pos, "function %s needs an argument in parentheses", t.text)
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		switch closing := p.next(); closing.kind {
		case tokRParen:
		case tokComma:
			return nil, p.errorf(closing.pos, "function %s takes one argument", t.text)
		default:
			return nil, p.errorf(closing.pos, "expected ')' to close %s(", t.text)
		}
		return build(arg), nil
	}
	switch t.text {
	case p.variable:
		return S(t.text), nil
	case "pi":
		return Pi(), nil
	case "e":
		return E(), nil
	}
	return nil, p.errorf(t.pos, "unknown identifier %q (the variable is %q)", t.text, p.variable)
}
