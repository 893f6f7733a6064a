package latex

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/exprtex/exprtex/pkg/expr"
)

// Render converts an expression tree to LaTeX markup.
//
// Render is total: it never fails and never panics on any tree, including
// degenerate ones built by hand. Nodes, operators and constant kinds it
// does not recognize render as inline placeholders (?kind? for nodes and
// constants, ??op?? for operators), keeping the rest of the formula intact.
func Render(n expr.Node) string {
	switch n := n.(type) {
	case *expr.Constant:
		return renderConstant(n)
	case *expr.Name:
		return renderName(n)
	case *expr.Call:
		return renderCall(n)
	case *expr.Unary:
		return renderUnary(n)
	case *expr.Binary:
		return renderBinary(n)
	case *expr.Bool:
		return renderBool(n)
	case *expr.Compare:
		return renderCompare(n)
	case *expr.Set:
		return renderSet(n)
	case *expr.Tuple:
		return renderTuple(n)
	case *expr.Bad:
		return "?" + n.Kind + "?"
	case nil:
		return "?nil?"
	default:
		return fmt.Sprintf("?%T?", n)
	}
}

func renderConstant(n *expr.Constant) string {
	switch v := n.Value.(type) {
	case string:
		return `\text{` + v + `}`
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatFloat(v)
	default:
		return fmt.Sprintf("?%T?", n.Value)
	}
}

// formatFloat renders f the way a person would write it: plain decimal
// within a reasonable magnitude range, scientific notation outside it, and
// a trailing .0 on integral values so floats stay visibly floats.
func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func renderName(n *expr.Name) string {
	head, sub, hasSub := strings.Cut(n.Ident, "_")
	sym, ok := symbols[head]
	if !ok {
		return n.Ident
	}
	if hasSub {
		return sym + "_{" + sub + "}"
	}
	return sym
}

func renderCall(n *expr.Call) string {
	if n.Func == nil {
		return "?call?"
	}
	if len(n.Args) > 0 {
		switch n.Func.Ident {
		case "integral", "sum", "product":
			return renderIterated(n)
		case "d":
			return renderDerivative(n)
		case "abs", "floor", "ceil":
			return renderFenced(n)
		case "root", "sqrt", "cbrt":
			return renderRoot(n)
		}
	}
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = Render(a)
	}
	return n.Func.Ident + "(" + strings.Join(args, " , ") + ")"
}

// renderIterated emits the large-operator forms: integral, sum, product.
// The argument order is body, lower bound, upper bound, trailing variable;
// bounds beyond the body are optional and extra arguments are ignored.
func renderIterated(n *expr.Call) string {
	var b strings.Builder
	switch n.Func.Ident {
	case "integral":
		b.WriteString(`\int`)
	case "sum":
		b.WriteString(`\sum`)
	case "product":
		b.WriteString(`\prod`)
	}
	if len(n.Args) > 2 {
		b.WriteString("^{" + strings.TrimSpace(Render(n.Args[2])) + "}")
	}
	if len(n.Args) > 1 {
		b.WriteString("_{" + strings.TrimSpace(Render(n.Args[1])) + "}")
	}
	b.WriteString("{")
	b.WriteString(Render(n.Args[0]))
	if len(n.Args) > 3 {
		b.WriteString(`\;{}` + strings.TrimSpace(Render(n.Args[3])))
	}
	b.WriteString("}")
	return b.String()
}

// renderDerivative primes its argument. Calls are rewritten to a fresh call
// with a primed name so the input tree is never mutated; names and
// constants take the prime directly after their rendered form; anything
// else is parenthesized first.
func renderDerivative(n *expr.Call) string {
	switch arg := n.Args[0].(type) {
	case *expr.Call:
		if arg.Func != nil {
			primed := &expr.Call{
				Func: &expr.Name{Ident: arg.Func.Ident + "'"},
				Args: arg.Args,
			}
			return Render(primed)
		}
	case *expr.Name:
		return Render(arg) + "'"
	case *expr.Constant:
		return Render(arg) + "'"
	}
	return `\left({}` + Render(n.Args[0]) + `\right){}'`
}

var fences = map[string][2]string{
	"abs":   {`\left|{}`, `\right|{}`},
	"floor": {`\lfloor{}`, `\rfloor{}`},
	"ceil":  {`\lceil{}`, `\rceil{}`},
}

func renderFenced(n *expr.Call) string {
	f := fences[n.Func.Ident]
	return f[0] + Render(n.Args[0]) + f[1]
}

// renderRoot puts the last argument under a radical. The index is the
// first argument for root, a literal 3 for cbrt, and empty for sqrt.
func renderRoot(n *expr.Call) string {
	var index string
	switch n.Func.Ident {
	case "root":
		index = Render(n.Args[0])
	case "cbrt":
		index = "3"
	}
	return `\sqrt[` + index + `]{` + Render(n.Args[len(n.Args)-1]) + `}`
}

func renderUnary(n *expr.Unary) string {
	switch n.Op {
	case expr.OpPos:
		return "+" + Render(n.X)
	case expr.OpNeg:
		return "-" + Render(n.X)
	case expr.OpNot:
		return `\neg{}` + Render(n.X)
	case expr.OpInvert:
		// the overline covers the raw identifier, without substitution
		if name, ok := n.X.(*expr.Name); ok {
			return `\overline{` + name.Ident + `}`
		}
		return "?Invert?"
	default:
		return "??" + n.Op.String() + "??"
	}
}

var binaryInfix = map[expr.BinaryOp]string{
	expr.OpAdd:    " + ",
	expr.OpSub:    " - ",
	expr.OpMul:    `\cdot{}`,
	expr.OpMod:    `\text{ mod }`,
	expr.OpShl:    `\lll{}`,
	expr.OpShr:    `\ggg{}`,
	expr.OpBitOr:  `\lor{}`,
	expr.OpBitXor: `\oplus{}`,
	expr.OpBitAnd: `\land{}`,
	expr.OpMatMul: ` \cdot{}`,
}

func renderBinary(n *expr.Binary) string {
	switch n.Op {
	case expr.OpDiv, expr.OpFloorDiv:
		return `\dfrac{` + Render(n.Left) + `}{` + Render(n.Right) + `}`
	case expr.OpPow:
		return Render(n.Left) + "^{" + Render(n.Right) + "}"
	}
	infix, ok := binaryInfix[n.Op]
	if !ok {
		return "??" + n.Op.String() + "??"
	}
	return Render(n.Left) + infix + Render(n.Right)
}

func renderBool(n *expr.Bool) string {
	infix := `\land{}`
	if n.Op == expr.OpOr {
		infix = `\lor{}`
	}
	parts := make([]string, len(n.Xs))
	for i, x := range n.Xs {
		parts[i] = Render(x)
	}
	return strings.Join(parts, infix)
}

var cmpSymbols = map[expr.CmpOp]string{
	expr.OpEq:    "=",
	expr.OpIs:    "=",
	expr.OpNe:    `\neq{}`,
	expr.OpIsNot: `\neq{}`,
	expr.OpLt:    "<",
	expr.OpLe:    `\leqslant{}`,
	expr.OpGt:    ">",
	expr.OpGe:    `\geqslant{}`,
	expr.OpIn:    `\in{}`,
	expr.OpNotIn: `\notin{}`,
}

func renderCompare(n *expr.Compare) string {
	var b strings.Builder
	b.WriteString(Render(n.Left))
	for i, op := range n.Ops {
		if i >= len(n.Rights) {
			break
		}
		sym, ok := cmpSymbols[op]
		if !ok {
			sym = "??" + op.String() + "??"
		}
		b.WriteString(sym)
		b.WriteString(Render(n.Rights[i]))
	}
	return b.String()
}

func renderSet(n *expr.Set) string {
	elems := make([]string, len(n.Elems))
	for i, e := range n.Elems {
		elems[i] = Render(e)
	}
	return `\left\{` + strings.Join(elems, ",") + `\right\}`
}

func renderTuple(n *expr.Tuple) string {
	elems := make([]string, len(n.Elems))
	for i, e := range n.Elems {
		elems[i] = Render(e)
	}
	return strings.Join(elems, `,\;{}`)
}
