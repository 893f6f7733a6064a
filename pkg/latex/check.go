package latex

import (
	"fmt"

	"github.com/exprtex/exprtex/pkg/expr"
)

// specialForms are the call targets with dedicated notation. Each needs at
// least one argument to have a body to typeset.
var specialForms = map[string]bool{
	"integral": true,
	"sum":      true,
	"product":  true,
	"d":        true,
	"abs":      true,
	"floor":    true,
	"ceil":     true,
	"root":     true,
	"sqrt":     true,
	"cbrt":     true,
}

// Check reports the first malformed special-form call in the tree, walking
// depth first. [Render] tolerates these trees by falling back to plain call
// syntax; Check is for callers that want to reject them with a reason
// before typesetting.
func Check(n expr.Node) error {
	switch n := n.(type) {
	case *expr.Call:
		if n.Func != nil && specialForms[n.Func.Ident] && len(n.Args) == 0 {
			return fmt.Errorf("%s() requires at least one argument", n.Func.Ident)
		}
		for _, a := range n.Args {
			if err := Check(a); err != nil {
				return err
			}
		}
	case *expr.Unary:
		return Check(n.X)
	case *expr.Binary:
		if err := Check(n.Left); err != nil {
			return err
		}
		return Check(n.Right)
	case *expr.Bool:
		for _, x := range n.Xs {
			if err := Check(x); err != nil {
				return err
			}
		}
	case *expr.Compare:
		if err := Check(n.Left); err != nil {
			return err
		}
		for _, r := range n.Rights {
			if err := Check(r); err != nil {
				return err
			}
		}
	case *expr.Set:
		for _, e := range n.Elems {
			if err := Check(e); err != nil {
				return err
			}
		}
	case *expr.Tuple:
		for _, e := range n.Elems {
			if err := Check(e); err != nil {
				return err
			}
		}
	}
	return nil
}
