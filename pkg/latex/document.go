package latex

import (
	"fmt"
	"strings"
)

// DefaultBorder is the standalone-class border applied when no border is
// configured.
const DefaultBorder = "0.25cm"

// basePackages are loaded by every document; the renderer's output depends
// on both (dfrac, leqslant, beth and friends).
var basePackages = []string{"amsmath", "amssymb"}

// DocumentOptions configures document assembly.
type DocumentOptions struct {
	// Border is the whitespace margin around the cropped formula, in any
	// TeX dimension ("0.25cm"). Empty means DefaultBorder.
	Border string

	// Packages are extra \usepackage names loaded after the base set.
	Packages []string

	// ConvertPNG includes the standalone convert option so the engine's
	// shell escape produces a PNG next to the PDF.
	ConvertPNG bool
}

// Wrap encloses rendered markup in display math delimiters, making it a
// fragment ready for [Document].
func Wrap(markup string) string {
	return "$$" + markup + "$$"
}

// Document assembles wrapped fragments into a standalone-class document,
// one fragment per line. The result compiles with pdflatex; with
// ConvertPNG set it additionally yields a PNG when the engine runs with
// shell escape enabled.
func Document(fragments []string, opts DocumentOptions) string {
	border := opts.Border
	if border == "" {
		border = DefaultBorder
	}

	var b strings.Builder
	if opts.ConvertPNG {
		fmt.Fprintf(&b, "\\documentclass[preview, varwidth, border=%s, convert={outext=.png}]{standalone}\n", border)
	} else {
		fmt.Fprintf(&b, "\\documentclass[preview, varwidth, border=%s]{standalone}\n", border)
	}
	for _, pkg := range basePackages {
		fmt.Fprintf(&b, "\\usepackage{%s}\n", pkg)
	}
	for _, pkg := range opts.Packages {
		fmt.Fprintf(&b, "\\usepackage{%s}\n", pkg)
	}
	b.WriteString("\\begin{document}\n")
	for _, f := range fragments {
		b.WriteString(f)
		b.WriteByte('\n')
	}
	b.WriteString("\n\\end{document}\n")
	return b.String()
}
