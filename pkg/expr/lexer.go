package expr

import (
	"strconv"
	"unicode"
)

type lexer struct {
	src  []rune
	i    int
	ch   rune
	line int
	col  int
}

func newLexer(src string) *lexer {
	l := &lexer{src: []rune(src), line: 1}
	l.read()
	return l
}

func (l *lexer) read() {
	if l.i >= len(l.src) {
		l.ch = 0
		l.col++
		return
	}
	l.ch = l.src[l.i]
	l.i++
	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

func (l *lexer) peek() rune {
	if l.i >= len(l.src) {
		return 0
	}
	return l.src[l.i]
}

// next returns the following token. The lexer never fails; unrecognized
// input comes back as a tokIllegal token for the parser to report.
func (l *lexer) next() token {
	for unicode.IsSpace(l.ch) {
		l.read()
	}

	tok := token{line: l.line, col: l.col}

	two := func(kind tokenKind, lex string) token {
		tok.kind, tok.lex = kind, lex
		l.read()
		l.read()
		return tok
	}
	one := func(kind tokenKind) token {
		tok.kind, tok.lex = kind, string(l.ch)
		l.read()
		return tok
	}

	switch ch := l.ch; {
	case ch == 0:
		tok.kind = tokEOF
		return tok
	case isIdentStart(ch):
		return l.lexIdent(tok)
	case unicode.IsDigit(ch):
		return l.lexNumber(tok)
	case ch == '.' && unicode.IsDigit(l.peek()):
		return l.lexNumber(tok)
	case ch == '\'' || ch == '"':
		return l.lexString(tok, ch)
	case ch == '*':
		if l.peek() == '*' {
			return two(tokDoubleStar, "**")
		}
		return one(tokStar)
	case ch == '/':
		if l.peek() == '/' {
			return two(tokFloorDiv, "//")
		}
		return one(tokSlash)
	case ch == '<':
		switch l.peek() {
		case '<':
			return two(tokShl, "<<")
		case '=':
			return two(tokLe, "<=")
		}
		return one(tokLt)
	case ch == '>':
		switch l.peek() {
		case '>':
			return two(tokShr, ">>")
		case '=':
			return two(tokGe, ">=")
		}
		return one(tokGt)
	case ch == '=' && l.peek() == '=':
		return two(tokEq, "==")
	case ch == '!' && l.peek() == '=':
		return two(tokNe, "!=")
	case ch == '+':
		return one(tokPlus)
	case ch == '-':
		return one(tokMinus)
	case ch == '%':
		return one(tokPercent)
	case ch == '@':
		return one(tokAt)
	case ch == '|':
		return one(tokPipe)
	case ch == '^':
		return one(tokCaret)
	case ch == '&':
		return one(tokAmp)
	case ch == '~':
		return one(tokTilde)
	case ch == '(':
		return one(tokLParen)
	case ch == ')':
		return one(tokRParen)
	case ch == '{':
		return one(tokLBrace)
	case ch == '}':
		return one(tokRBrace)
	case ch == '[':
		return one(tokLBrack)
	case ch == ']':
		return one(tokRBrack)
	case ch == ',':
		return one(tokComma)
	case ch == ':':
		return one(tokColon)
	case ch == '.':
		return one(tokDot)
	default:
		return one(tokIllegal)
	}
}

func (l *lexer) lexIdent(tok token) token {
	ident := []rune{l.ch}
	l.read()
	for isIdentStart(l.ch) || unicode.IsDigit(l.ch) {
		ident = append(ident, l.ch)
		l.read()
	}
	tok.lex = string(ident)
	if kind, ok := keywords[tok.lex]; ok {
		tok.kind = kind
	} else {
		tok.kind = tokIdent
	}
	return tok
}

// lexNumber scans an integer or float literal: digits with an optional
// fractional part and an optional decimal exponent. A bare trailing dot
// (as in "1.") is part of the float.
func (l *lexer) lexNumber(tok token) token {
	num := []rune{}
	isFloat := false

	digits := func() {
		for unicode.IsDigit(l.ch) {
			num = append(num, l.ch)
			l.read()
		}
	}

	digits()
	if l.ch == '.' {
		isFloat = true
		num = append(num, l.ch)
		l.read()
		digits()
	}
	if l.ch == 'e' || l.ch == 'E' {
		isFloat = true
		num = append(num, l.ch)
		l.read()
		if l.ch == '+' || l.ch == '-' {
			num = append(num, l.ch)
			l.read()
		}
		if !unicode.IsDigit(l.ch) {
			tok.kind, tok.lex = tokIllegal, string(num)
			tok.msg = "malformed number literal " + strconv.Quote(tok.lex)
			return tok
		}
		digits()
	}

	tok.lex = string(num)
	if isFloat {
		tok.kind = tokFloat
	} else {
		tok.kind = tokInt
	}
	return tok
}

func (l *lexer) lexString(tok token, quote rune) token {
	var s []rune
	l.read()
	for l.ch != quote {
		if l.ch == 0 || l.ch == '\n' {
			tok.kind, tok.lex = tokIllegal, string(s)
			tok.msg = "unterminated string literal"
			return tok
		}
		if l.ch == '\\' {
			l.read()
			switch l.ch {
			case 'n':
				s = append(s, '\n')
			case 't':
				s = append(s, '\t')
			case '\\', '\'', '"':
				s = append(s, l.ch)
			default:
				s = append(s, '\\', l.ch)
			}
			l.read()
			continue
		}
		s = append(s, l.ch)
		l.read()
	}
	l.read()
	tok.kind, tok.lex = tokString, string(s)
	return tok
}

func isIdentStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}
