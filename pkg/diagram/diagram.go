// Package diagram renders expression trees as node-link diagrams.
//
// [ToDOT] converts a tree to Graphviz DOT format; [RenderSVG] and
// [RenderPNG] produce images from it. Placeholder nodes (unsupported
// syntax) are drawn with dashed grey outlines to set them apart from
// renderable nodes.
package diagram

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/exprtex/exprtex/pkg/expr"
)

// Options configures tree diagram rendering.
type Options struct {
	// Detailed includes dynamic types on constants and arities on calls.
	// When false, labels carry just the value, name or operator.
	Detailed bool
}

// ToDOT converts an expression tree to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
func ToDOT(n expr.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph expression {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	w := &dotWriter{buf: &buf, detailed: opts.Detailed}
	w.walk(n)

	buf.WriteString("}\n")
	return buf.String()
}

type dotWriter struct {
	buf      *bytes.Buffer
	next     int
	detailed bool
}

// walk emits the node and its subtree, returning the node's DOT ID.
func (w *dotWriter) walk(n expr.Node) string {
	id := fmt.Sprintf("n%d", w.next)
	w.next++

	label, children, bad := describe(n, w.detailed)
	attrs := fmt.Sprintf("label=%q", label)
	if bad {
		attrs += `, style="rounded,filled,dashed", fillcolor=lightgrey`
	}
	fmt.Fprintf(w.buf, "  %s [%s];\n", id, attrs)

	for _, c := range children {
		cid := w.walk(c)
		fmt.Fprintf(w.buf, "  %s -> %s;\n", id, cid)
	}
	return id
}

func describe(n expr.Node, detailed bool) (label string, children []expr.Node, bad bool) {
	switch n := n.(type) {
	case *expr.Constant:
		if detailed {
			return fmt.Sprintf("%T %v", n.Value, n.Value), nil, false
		}
		return fmt.Sprintf("%v", n.Value), nil, false
	case *expr.Name:
		return n.Ident, nil, false
	case *expr.Call:
		name := "?"
		if n.Func != nil {
			name = n.Func.Ident
		}
		if detailed {
			return fmt.Sprintf("%s(%d args)", name, len(n.Args)), n.Args, false
		}
		return name + "()", n.Args, false
	case *expr.Unary:
		return n.Op.String(), []expr.Node{n.X}, false
	case *expr.Binary:
		return n.Op.String(), []expr.Node{n.Left, n.Right}, false
	case *expr.Bool:
		return n.Op.String(), n.Xs, false
	case *expr.Compare:
		ops := make([]string, len(n.Ops))
		for i, op := range n.Ops {
			ops[i] = op.String()
		}
		children = append([]expr.Node{n.Left}, n.Rights...)
		return strings.Join(ops, " "), children, false
	case *expr.Set:
		return "set", n.Elems, false
	case *expr.Tuple:
		return "tuple", n.Elems, false
	case *expr.Bad:
		return "?" + n.Kind + "?", nil, true
	case nil:
		return "nil", nil, true
	default:
		return fmt.Sprintf("%T", n), nil, true
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
