package expr

// Walk calls fn for n and every expression beneath it, parents before
// children. The function head of a call counts as part of the call itself,
// not as a separate child.
func Walk(n Node, fn func(Node)) {
	if n == nil {
		return
	}
	fn(n)
	switch n := n.(type) {
	case *Call:
		for _, a := range n.Args {
			Walk(a, fn)
		}
	case *Unary:
		Walk(n.X, fn)
	case *Binary:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Bool:
		for _, x := range n.Xs {
			Walk(x, fn)
		}
	case *Compare:
		Walk(n.Left, fn)
		for _, r := range n.Rights {
			Walk(r, fn)
		}
	case *Set:
		for _, e := range n.Elems {
			Walk(e, fn)
		}
	case *Tuple:
		for _, e := range n.Elems {
			Walk(e, fn)
		}
	}
}

// Count returns the number of nodes in the tree.
func Count(n Node) int {
	count := 0
	Walk(n, func(Node) { count++ })
	return count
}
