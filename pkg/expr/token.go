package expr

import "fmt"

type tokenKind int

const (
	// Special
	tokEOF tokenKind = iota
	tokIllegal

	// Literals and identifiers
	tokIdent
	tokInt
	tokFloat
	tokString

	// Keywords
	tokAnd
	tokOr
	tokNot
	tokIs
	tokIn

	// Operators
	tokPlus       // +
	tokMinus      // -
	tokStar       // *
	tokDoubleStar // **
	tokSlash      // /
	tokFloorDiv   // //
	tokPercent    // %
	tokAt         // @
	tokShl        // <<
	tokShr        // >>
	tokPipe       // |
	tokCaret      // ^
	tokAmp        // &
	tokTilde      // ~

	// Comparisons
	tokEq // ==
	tokNe // !=
	tokLt // <
	tokLe // <=
	tokGt // >
	tokGe // >=

	// Delimiters
	tokLParen // (
	tokRParen // )
	tokLBrace // {
	tokRBrace // }
	tokLBrack // [
	tokRBrack // ]
	tokComma  // ,
	tokColon  // :
	tokDot    // .
)

var tokenNames = map[tokenKind]string{
	tokEOF:        "end of input",
	tokIllegal:    "illegal token",
	tokIdent:      "identifier",
	tokInt:        "integer",
	tokFloat:      "float",
	tokString:     "string",
	tokAnd:        "'and'",
	tokOr:         "'or'",
	tokNot:        "'not'",
	tokIs:         "'is'",
	tokIn:         "'in'",
	tokPlus:       "'+'",
	tokMinus:      "'-'",
	tokStar:       "'*'",
	tokDoubleStar: "'**'",
	tokSlash:      "'/'",
	tokFloorDiv:   "'//'",
	tokPercent:    "'%'",
	tokAt:         "'@'",
	tokShl:        "'<<'",
	tokShr:        "'>>'",
	tokPipe:       "'|'",
	tokCaret:      "'^'",
	tokAmp:        "'&'",
	tokTilde:      "'~'",
	tokEq:         "'=='",
	tokNe:         "'!='",
	tokLt:         "'<'",
	tokLe:         "'<='",
	tokGt:         "'>'",
	tokGe:         "'>='",
	tokLParen:     "'('",
	tokRParen:     "')'",
	tokLBrace:     "'{'",
	tokRBrace:     "'}'",
	tokLBrack:     "'['",
	tokRBrack:     "']'",
	tokComma:      "','",
	tokColon:      "':'",
	tokDot:        "'.'",
}

func (k tokenKind) String() string {
	if s, ok := tokenNames[k]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(k))
}

var keywords = map[string]tokenKind{
	"and": tokAnd,
	"or":  tokOr,
	"not": tokNot,
	"is":  tokIs,
	"in":  tokIn,
}

type token struct {
	kind tokenKind
	lex  string
	msg  string // set on tokIllegal when the lexeme alone is not descriptive
	line int
	col  int
}

func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokIdent, tokInt, tokFloat, tokIllegal:
		return fmt.Sprintf("%q", t.lex)
	default:
		return t.kind.String()
	}
}
