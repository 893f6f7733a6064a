package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateExpressionSource validates raw expression text before parsing.
// It rejects input that could not be a legitimate expression regardless
// of syntax.
//
// The validation rules are intentionally conservative:
//   - No empty input
//   - No control characters except tab, carriage return and newline
//   - No null bytes
//   - Maximum length of 10000 characters
//
// Syntactic validation is done separately by the expression parser.
func ValidateExpressionSource(src string) error {
	if strings.TrimSpace(src) == "" {
		return New(ErrCodeInvalidExpression, "expression cannot be empty")
	}

	if len(src) > 10000 {
		return New(ErrCodeInvalidExpression, "expression too long (max 10000 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range src {
		if r == '\t' || r == '\r' || r == '\n' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidExpression, "expression contains invalid control characters")
		}
	}

	return nil
}

// texPackageRegex matches valid LaTeX package names (letters, digits, hyphens).
var texPackageRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)

// ValidateTeXPackage validates a LaTeX package name before it is written
// into a \usepackage directive. Documents are compiled with shell escape
// enabled, so anything that reaches the TeX source must be tightly
// constrained.
func ValidateTeXPackage(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidPackage, "package name too long (max 64 characters)")
	}

	if !texPackageRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid package name: %q", name)
	}

	return nil
}

// borderRegex matches a TeX dimension: a decimal number followed by a unit.
var borderRegex = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?(pt|bp|mm|cm|in|em|ex)$`)

// ValidateBorder validates a document border dimension. The value is
// interpolated into the documentclass options, so only plain dimensions
// like "0.25cm" or "8pt" are accepted.
func ValidateBorder(border string) error {
	if border == "" {
		return New(ErrCodeInvalidBorder, "border cannot be empty")
	}

	if !borderRegex.MatchString(border) {
		return New(ErrCodeInvalidBorder, "invalid border dimension: %q (expected e.g. 0.25cm)", border)
	}

	return nil
}

// digestRegex matches a lowercase hex SHA-256 digest.
var digestRegex = regexp.MustCompile(`^[0-9a-f]{64}$`)

// ValidateDigest validates a formula digest as used in archive lookups
// and API routes.
func ValidateDigest(digest string) error {
	if digest == "" {
		return New(ErrCodeInvalidDigest, "digest cannot be empty")
	}

	if !digestRegex.MatchString(digest) {
		return New(ErrCodeInvalidDigest, "invalid digest: %q (expected 64 hex characters)", digest)
	}

	return nil
}

// ValidateFormat validates an output format name against the supported set.
func ValidateFormat(format string, supported ...string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}

	for _, s := range supported {
		if format == s {
			return nil
		}
	}

	return New(ErrCodeInvalidFormat, "unsupported format: %q (supported: %s)", format, strings.Join(supported, ", "))
}
