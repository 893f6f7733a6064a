package expr

import "fmt"

// Node is the interface implemented by all expression tree nodes.
// The set of implementations is closed; see the package documentation.
type Node interface{ isNode() }

// Constant is a literal value. Value holds one of string, int, int64 or
// float64; renderers map any other dynamic type to a placeholder naming
// the type, so constructing a Constant with an exotic value degrades the
// output rather than breaking it.
type Constant struct {
	Value any
}

func (*Constant) isNode() {}

// Name is an identifier reference. Renderers give the part before the first
// underscore symbol treatment (alpha_0 becomes a subscripted alpha).
type Name struct {
	Ident string
}

func (*Name) isNode() {}

// Call is a function application. The callee is always a plain identifier;
// calling anything else is not representable and parses into a [Bad] node.
type Call struct {
	Func *Name
	Args []Node
}

func (*Call) isNode() {}

// Unary is a prefix operator application.
type Unary struct {
	Op UnaryOp
	X  Node
}

func (*Unary) isNode() {}

// Binary is an infix operator application.
type Binary struct {
	Op    BinaryOp
	Left  Node
	Right Node
}

func (*Binary) isNode() {}

// Bool is a chain of operands joined by a single boolean operator.
// Xs holds at least two operands; a and b and c is one Bool node.
type Bool struct {
	Op BoolOp
	Xs []Node
}

func (*Bool) isNode() {}

// Compare is a comparison chain: Left, then pairwise operator and operand.
// len(Ops) == len(Rights) and both are at least 1; a < b <= c has
// Left=a, Ops=[Lt, Le], Rights=[b, c].
type Compare struct {
	Left   Node
	Ops    []CmpOp
	Rights []Node
}

func (*Compare) isNode() {}

// Set is a set display like {a, b, c}.
type Set struct {
	Elems []Node
}

func (*Set) isNode() {}

// Tuple is a tuple display, parenthesized or bare: (a, b) or a, b.
type Tuple struct {
	Elems []Node
}

func (*Tuple) isNode() {}

// Bad marks source syntax the tree does not model: attribute access,
// subscripts, list and dict displays, calls of non-identifiers. Kind names
// the construct and surfaces in rendered output as a ?kind? placeholder.
type Bad struct {
	Kind string
}

func (*Bad) isNode() {}

// UnaryOp identifies a prefix operator.
type UnaryOp int

const (
	OpPos    UnaryOp = iota // +x
	OpNeg                   // -x
	OpNot                   // not x
	OpInvert                // ~x
)

var unaryNames = [...]string{"Pos", "Neg", "Not", "Invert"}

func (op UnaryOp) String() string {
	if op < 0 || int(op) >= len(unaryNames) {
		return fmt.Sprintf("UnaryOp(%d)", int(op))
	}
	return unaryNames[op]
}

// BinaryOp identifies an infix operator.
type BinaryOp int

const (
	OpAdd      BinaryOp = iota // +
	OpSub                      // -
	OpMul                      // *
	OpDiv                      // /
	OpFloorDiv                 // //
	OpMod                      // %
	OpPow                      // **
	OpShl                      // <<
	OpShr                      // >>
	OpBitOr                    // |
	OpBitXor                   // ^
	OpBitAnd                   // &
	OpMatMul                   // @
)

var binaryNames = [...]string{
	"Add", "Sub", "Mul", "Div", "FloorDiv", "Mod", "Pow",
	"Shl", "Shr", "BitOr", "BitXor", "BitAnd", "MatMul",
}

func (op BinaryOp) String() string {
	if op < 0 || int(op) >= len(binaryNames) {
		return fmt.Sprintf("BinaryOp(%d)", int(op))
	}
	return binaryNames[op]
}

// BoolOp identifies a boolean chain operator.
type BoolOp int

const (
	OpAnd BoolOp = iota // and
	OpOr                // or
)

var boolNames = [...]string{"And", "Or"}

func (op BoolOp) String() string {
	if op < 0 || int(op) >= len(boolNames) {
		return fmt.Sprintf("BoolOp(%d)", int(op))
	}
	return boolNames[op]
}

// CmpOp identifies a comparison operator.
type CmpOp int

const (
	OpEq    CmpOp = iota // ==
	OpNe                 // !=
	OpLt                 // <
	OpLe                 // <=
	OpGt                 // >
	OpGe                 // >=
	OpIs                 // is
	OpIsNot              // is not
	OpIn                 // in
	OpNotIn              // not in
)

var cmpNames = [...]string{
	"Eq", "Ne", "Lt", "Le", "Gt", "Ge", "Is", "IsNot", "In", "NotIn",
}

func (op CmpOp) String() string {
	if op < 0 || int(op) >= len(cmpNames) {
		return fmt.Sprintf("CmpOp(%d)", int(op))
	}
	return cmpNames[op]
}
