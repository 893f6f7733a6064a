package expr

import (
	"fmt"
	"strconv"
)

// SyntaxError reports where parsing failed and why.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// Parse parses a single expression. Trailing input after the expression is
// an error. A bare comma-separated list parses as a [Tuple].
func Parse(src string) (Node, error) {
	p := &parser{lx: newLexer(src)}
	p.next()
	n, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.unexpected()
	}
	return n, nil
}

type parser struct {
	lx  *lexer
	tok token
}

func (p *parser) next() { p.tok = p.lx.next() }

func (p *parser) expect(kind tokenKind) (token, error) {
	if p.tok.kind != kind {
		return token{}, p.errf("expected %s, got %s", kind, p.tok.describe())
	}
	t := p.tok
	p.next()
	return t, nil
}

func (p *parser) errf(format string, args ...any) error {
	return &SyntaxError{Line: p.tok.line, Col: p.tok.col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) unexpected() error {
	if p.tok.kind == tokIllegal {
		if p.tok.msg != "" {
			return p.errf("%s", p.tok.msg)
		}
		return p.errf("unexpected character %q", p.tok.lex)
	}
	return p.errf("unexpected %s", p.tok.describe())
}

// parseExprList parses one expression, or a comma-separated list into a
// Tuple. Used at the top level and inside parentheses; a single
// parenthesized expression without a comma is a group, not a tuple.
func (p *parser) parseExprList() (Node, error) {
	first, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokComma {
		return first, nil
	}
	elems := []Node{first}
	for p.tok.kind == tokComma {
		p.next()
		if p.tok.kind == tokEOF || p.tok.kind == tokRParen {
			break // trailing comma
		}
		n, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, n)
	}
	return &Tuple{Elems: elems}, nil
}

func (p *parser) parseOr() (Node, error) {
	n, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokOr {
		return n, nil
	}
	xs := []Node{n}
	for p.tok.kind == tokOr {
		p.next()
		x, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		xs = append(xs, x)
	}
	return &Bool{Op: OpOr, Xs: xs}, nil
}

func (p *parser) parseAnd() (Node, error) {
	n, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokAnd {
		return n, nil
	}
	xs := []Node{n}
	for p.tok.kind == tokAnd {
		p.next()
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		xs = append(xs, x)
	}
	return &Bool{Op: OpAnd, Xs: xs}, nil
}

func (p *parser) parseNot() (Node, error) {
	if p.tok.kind == tokNot {
		p.next()
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: OpNot, X: x}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Node, error) {
	left, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	var (
		ops    []CmpOp
		rights []Node
	)
	for {
		op, ok, err := p.cmpOp()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		r, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		rights = append(rights, r)
	}
	if len(ops) == 0 {
		return left, nil
	}
	return &Compare{Left: left, Ops: ops, Rights: rights}, nil
}

// cmpOp consumes a comparison operator if one is next. The two-token forms
// "is not" and "not in" are folded into single operators here.
func (p *parser) cmpOp() (CmpOp, bool, error) {
	single := map[tokenKind]CmpOp{
		tokEq: OpEq, tokNe: OpNe,
		tokLt: OpLt, tokLe: OpLe,
		tokGt: OpGt, tokGe: OpGe,
		tokIn: OpIn,
	}
	if op, ok := single[p.tok.kind]; ok {
		p.next()
		return op, true, nil
	}
	switch p.tok.kind {
	case tokIs:
		p.next()
		if p.tok.kind == tokNot {
			p.next()
			return OpIsNot, true, nil
		}
		return OpIs, true, nil
	case tokNot:
		p.next()
		if _, err := p.expect(tokIn); err != nil {
			return 0, false, err
		}
		return OpNotIn, true, nil
	}
	return 0, false, nil
}

func (p *parser) parseBitOr() (Node, error) {
	return p.parseBinaryChain(p.parseBitXor, map[tokenKind]BinaryOp{tokPipe: OpBitOr})
}

func (p *parser) parseBitXor() (Node, error) {
	return p.parseBinaryChain(p.parseBitAnd, map[tokenKind]BinaryOp{tokCaret: OpBitXor})
}

func (p *parser) parseBitAnd() (Node, error) {
	return p.parseBinaryChain(p.parseShift, map[tokenKind]BinaryOp{tokAmp: OpBitAnd})
}

func (p *parser) parseShift() (Node, error) {
	return p.parseBinaryChain(p.parseAdditive, map[tokenKind]BinaryOp{
		tokShl: OpShl,
		tokShr: OpShr,
	})
}

func (p *parser) parseAdditive() (Node, error) {
	return p.parseBinaryChain(p.parseTerm, map[tokenKind]BinaryOp{
		tokPlus:  OpAdd,
		tokMinus: OpSub,
	})
}

func (p *parser) parseTerm() (Node, error) {
	return p.parseBinaryChain(p.parseFactor, map[tokenKind]BinaryOp{
		tokStar:     OpMul,
		tokSlash:    OpDiv,
		tokFloorDiv: OpFloorDiv,
		tokPercent:  OpMod,
		tokAt:       OpMatMul,
	})
}

// parseBinaryChain parses a left-associative run of binary operators at one
// precedence level, with sub parsing the operands.
func (p *parser) parseBinaryChain(sub func() (Node, error), ops map[tokenKind]BinaryOp) (Node, error) {
	left, err := sub()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.tok.kind]
		if !ok {
			return left, nil
		}
		p.next()
		right, err := sub()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseFactor() (Node, error) {
	var op UnaryOp
	switch p.tok.kind {
	case tokPlus:
		op = OpPos
	case tokMinus:
		op = OpNeg
	case tokTilde:
		op = OpInvert
	default:
		return p.parsePower()
	}
	p.next()
	x, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return &Unary{Op: op, X: x}, nil
}

// parsePower parses ** right-associatively. The exponent is a factor so a
// signed exponent like 2**-3 parses, and -x**2 binds as -(x**2).
func (p *parser) parsePower() (Node, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokDoubleStar {
		return base, nil
	}
	p.next()
	exp, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: OpPow, Left: base, Right: exp}, nil
}

func (p *parser) parsePostfix() (Node, error) {
	n, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch p.tok.kind {
		case tokLParen:
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			if name, ok := n.(*Name); ok {
				n = &Call{Func: name, Args: args}
			} else {
				n = &Bad{Kind: "call"}
			}
		case tokDot:
			p.next()
			if _, err := p.expect(tokIdent); err != nil {
				return nil, err
			}
			n = &Bad{Kind: "attribute"}
		case tokLBrack:
			if err := p.skipBalanced(tokLBrack, tokRBrack); err != nil {
				return nil, err
			}
			n = &Bad{Kind: "subscript"}
		default:
			return n, nil
		}
	}
}

// parseArgs parses a parenthesized, comma-separated argument list,
// consuming both parentheses. A trailing comma is allowed.
func (p *parser) parseArgs() ([]Node, error) {
	p.next() // (
	var args []Node
	if p.tok.kind == tokRParen {
		p.next()
		return args, nil
	}
	for {
		a, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.tok.kind != tokComma {
			break
		}
		p.next()
		if p.tok.kind == tokRParen {
			break
		}
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parseAtom() (Node, error) {
	switch p.tok.kind {
	case tokInt:
		v, err := strconv.ParseInt(p.tok.lex, 10, 64)
		if err != nil {
			return nil, p.errf("integer literal %q out of range", p.tok.lex)
		}
		p.next()
		return &Constant{Value: v}, nil

	case tokFloat:
		v, err := strconv.ParseFloat(p.tok.lex, 64)
		if err != nil {
			return nil, p.errf("malformed number literal %q", p.tok.lex)
		}
		p.next()
		return &Constant{Value: v}, nil

	case tokString:
		s := p.tok.lex
		p.next()
		return &Constant{Value: s}, nil

	case tokIdent:
		id := p.tok.lex
		p.next()
		return &Name{Ident: id}, nil

	case tokLParen:
		p.next()
		if p.tok.kind == tokRParen {
			p.next()
			return &Tuple{}, nil
		}
		n, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return n, nil

	case tokLBrace:
		return p.parseBraces()

	case tokLBrack:
		// list display; recognized but not modeled
		if err := p.skipBalanced(tokLBrack, tokRBrack); err != nil {
			return nil, err
		}
		return &Bad{Kind: "list"}, nil

	default:
		return nil, p.unexpected()
	}
}

// parseBraces parses a set display into a Set node. Dict displays,
// including the empty {}, share the brace syntax and are not modeled;
// they come back as Bad nodes.
func (p *parser) parseBraces() (Node, error) {
	p.next() // {
	if p.tok.kind == tokRBrace {
		p.next()
		return &Bad{Kind: "dict"}, nil
	}
	first, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokColon {
		if err := p.skipBalanced(tokLBrace, tokRBrace); err != nil {
			return nil, err
		}
		return &Bad{Kind: "dict"}, nil
	}
	elems := []Node{first}
	for p.tok.kind == tokComma {
		p.next()
		if p.tok.kind == tokRBrace {
			break
		}
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return &Set{Elems: elems}, nil
}

// skipBalanced consumes tokens until the nesting of open/close pairs
// returns to zero, starting from a depth implied by the current token.
// It is used for constructs that parse but do not build tree nodes.
func (p *parser) skipBalanced(open, close tokenKind) error {
	depth := 0
	if p.tok.kind == open {
		depth = 1
		p.next()
	} else {
		depth = 1 // already inside
	}
	for depth > 0 {
		switch p.tok.kind {
		case open:
			depth++
		case close:
			depth--
		case tokEOF:
			return p.errf("expected %s, got end of input", close)
		case tokIllegal:
			return p.unexpected()
		}
		p.next()
	}
	return nil
}
