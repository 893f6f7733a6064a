package expr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

type jsonNode struct {
	Node   string      `json:"node"`
	Value  any         `json:"value,omitempty"`
	Ident  string      `json:"ident,omitempty"`
	Func   string      `json:"func,omitempty"`
	Op     string      `json:"op,omitempty"`
	Ops    []string    `json:"ops,omitempty"`
	X      *jsonNode   `json:"x,omitempty"`
	Left   *jsonNode   `json:"left,omitempty"`
	Right  *jsonNode   `json:"right,omitempty"`
	Xs     []*jsonNode `json:"xs,omitempty"`
	Rights []*jsonNode `json:"rights,omitempty"`
	Args   []*jsonNode `json:"args,omitempty"`
	Elems  []*jsonNode `json:"elems,omitempty"`
	Kind   string      `json:"kind,omitempty"`
}

// WriteJSON encodes an expression tree as JSON and writes it to w.
// Each node is an object with a "node" discriminator plus the fields of
// that variant; operators appear by name ("Add", "Lt", ...).
func WriteJSON(n Node, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toJSON(n)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// EncodeJSON returns the JSON encoding of an expression tree.
// This is a convenience wrapper around [WriteJSON] for byte-oriented output.
func EncodeJSON(n Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(n, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toJSON(n Node) *jsonNode {
	switch n := n.(type) {
	case *Constant:
		return &jsonNode{Node: "constant", Value: n.Value}
	case *Name:
		return &jsonNode{Node: "name", Ident: n.Ident}
	case *Call:
		out := &jsonNode{Node: "call"}
		if n.Func != nil {
			out.Func = n.Func.Ident
		}
		out.Args = toJSONList(n.Args)
		return out
	case *Unary:
		return &jsonNode{Node: "unary", Op: n.Op.String(), X: toJSON(n.X)}
	case *Binary:
		return &jsonNode{Node: "binary", Op: n.Op.String(), Left: toJSON(n.Left), Right: toJSON(n.Right)}
	case *Bool:
		return &jsonNode{Node: "bool", Op: n.Op.String(), Xs: toJSONList(n.Xs)}
	case *Compare:
		ops := make([]string, len(n.Ops))
		for i, op := range n.Ops {
			ops[i] = op.String()
		}
		return &jsonNode{Node: "compare", Left: toJSON(n.Left), Ops: ops, Rights: toJSONList(n.Rights)}
	case *Set:
		return &jsonNode{Node: "set", Elems: toJSONList(n.Elems)}
	case *Tuple:
		return &jsonNode{Node: "tuple", Elems: toJSONList(n.Elems)}
	case *Bad:
		return &jsonNode{Node: "bad", Kind: n.Kind}
	case nil:
		return nil
	default:
		return &jsonNode{Node: fmt.Sprintf("%T", n)}
	}
}

func toJSONList(ns []Node) []*jsonNode {
	if len(ns) == 0 {
		return nil
	}
	out := make([]*jsonNode, len(ns))
	for i, n := range ns {
		out[i] = toJSON(n)
	}
	return out
}
