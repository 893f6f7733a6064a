// Package expr defines the expression tree that exprtex renders and the
// parser that builds it from plain text.
//
// # Overview
//
// An expression is a closed tree of [Node] values: constants, names, calls,
// unary and binary operators, boolean chains, comparison chains, set and
// tuple displays. The interface is sealed; the variants defined here are the
// only ones, which lets consumers switch over node types exhaustively.
//
// Trees come from two places. [Parse] turns source text like
//
//	integral(x**2, 0, T, x) / (alpha_0 + 1)
//
// into a tree, reporting a [*SyntaxError] with line and column on malformed
// input. Library callers may also construct trees directly; every field is
// exported and nodes have no hidden state.
//
// # Unsupported syntax
//
// The grammar accepts a few constructs the tree deliberately does not model:
// attribute access, subscripts, list and dict displays. These parse into a
// [Bad] node carrying the construct kind, so a single unsupported fragment
// degrades to a placeholder in the rendered output instead of failing the
// whole expression. This mirrors how unknown constant kinds are handled
// downstream.
//
// # Grammar
//
// Operator precedence follows conventional arithmetic, loosest first:
//
//	or < and < not < comparisons < | < ^ < & < << >> < + - < * @ / // % < unary + - ~ < **
//
// Comparisons chain (a < b <= c is one [Compare] node), boolean operators
// flatten (a or b or c is one [Bool] node), and ** is right-associative and
// binds tighter than a leading sign, so -x**2 negates the power.
//
// The grammar is fixed. There is no mechanism for registering new operators
// or precedence levels at runtime.
package expr
