package latex

import (
	"maps"
	"slices"
)

// symbols maps identifier heads to LaTeX symbol commands. Uppercase greek
// variants appear only where LaTeX defines a distinct command; epsilon maps
// to the variant form commonly used in running mathematics.
var symbols = map[string]string{
	// Greek
	"alpha":   `\alpha{}`,
	"beta":    `\beta{}`,
	"gamma":   `\gamma{}`,
	"Gamma":   `\Gamma{}`,
	"delta":   `\delta{}`,
	"Delta":   `\Delta{}`,
	"epsilon": `\varepsilon{}`,
	"zeta":    `\zeta{}`,
	"eta":     `\eta{}`,
	"theta":   `\theta{}`,
	"Theta":   `\Theta{}`,
	"iota":    `\iota{}`,
	"kappa":   `\kappa{}`,
	"lambda":  `\lambda{}`,
	"Lambda":  `\Lambda{}`,
	"mu":      `\mu{}`,
	"nu":      `\nu{}`,
	"xi":      `\xi{}`,
	"Xi":      `\Xi{}`,
	"pi":      `\pi{}`,
	"Pi":      `\Pi{}`,
	"rho":     `\rho{}`,
	"sigma":   `\sigma{}`,
	"Sigma":   `\Sigma{}`,
	"tau":     `\tau{}`,
	"upsilon": `\upsilon{}`,
	"Upsilon": `\Upsilon{}`,
	"phi":     `\phi{}`,
	"Phi":     `\Phi{}`,
	"chi":     `\chi{}`,
	"psi":     `\psi{}`,
	"Psi":     `\Psi{}`,
	"omega":   `\omega{}`,
	"Omega":   `\Omega{}`,

	// Hebrew
	"aleph":  `\aleph{}`,
	"beth":   `\beth{}`,
	"gimel":  `\gimel{}`,
	"daleth": `\daleth{}`,

	"infinity": `\infty{}`,
}

// Symbol returns the LaTeX command for a special identifier and whether the
// identifier is in the symbol table.
func Symbol(name string) (string, bool) {
	s, ok := symbols[name]
	return s, ok
}

// Symbols returns the names of all special identifiers in sorted order.
func Symbols() []string {
	return slices.Sorted(maps.Keys(symbols))
}
