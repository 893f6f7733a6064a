// Package latex converts expression trees to LaTeX markup and assembles
// complete compilable documents from the resulting fragments.
//
// # Overview
//
// [Render] is the core transducer: a pure function from an [expr.Node] tree
// to LaTeX source. It never fails. Anything it cannot express renders as an
// inline ?name? placeholder, so one unsupported construct degrades a single
// spot in the formula instead of aborting the conversion. [Check] exists for
// callers that want hard errors up front; it reports special-form calls
// whose argument lists are too short to mean anything.
//
// # Identifiers
//
// Identifiers whose leading part names a special symbol are replaced with
// the LaTeX command for that symbol: greek letters (both cases where LaTeX
// defines them), the hebrew letters used in set theory, and infinity.
// The part after the first underscore becomes a subscript:
//
//	alpha_0   ->  \alpha{}_{0}
//	x_1       ->  x_1 (no substitution, rendered verbatim)
//
// [Symbol] and [Symbols] expose the table for lookup and listing.
//
// # Special forms
//
// A handful of call targets get dedicated notation instead of function
// syntax: integral, sum and product render as large operators with bounds;
// d renders as a derivative prime; abs, floor and ceil render as paired
// delimiters; root, sqrt and cbrt render as radicals. Every other call
// renders as name(arg , arg , ...). A special form called with no
// arguments falls back to plain call syntax, which [Check] reports.
//
// # Documents
//
// [Wrap] encloses a rendered fragment in display math delimiters, and
// [Document] stacks wrapped fragments into a standalone-class document
// ready for pdflatex. The standalone convert option is included when the
// document targets PNG output, which requires a TeX distribution with
// shell escape enabled; see the engine package.
package latex
