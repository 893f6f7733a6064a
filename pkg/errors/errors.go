// Package errors defines the structured errors shared by the CLI and the
// HTTP API.
//
// Every failure that crosses a package boundary carries a [Code], so the
// two frontends can map the same condition to an exit message or an HTTP
// status without matching on message text. Codes group by prefix:
//
//   - INVALID_*: rejected input (expressions, formats, configuration)
//   - *_NOT_FOUND: missing resources
//   - ENGINE_MISSING, COMPILE_FAILED, NO_ARTIFACT, TIMEOUT: TeX engine failures
//   - ARCHIVE_ERROR: formula storage failures
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// Construct with [New] or [Wrap] and test with [Is]:
//
//	err := errors.New(errors.ErrCodeInvalidExpression, "cannot parse %q", src)
//	if errors.Is(err, errors.ErrCodeInvalidExpression) {
//	    // reject the input
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code identifies a failure condition independent of its message text.
type Code string

const (
	// ErrCodeInvalidExpression marks source text the parser or checker rejected.
	ErrCodeInvalidExpression Code = "INVALID_EXPRESSION"
	// ErrCodeInvalidFormat marks an output format other than png or pdf.
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	// ErrCodeInvalidConfig marks an unreadable or unparseable config file.
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	// ErrCodeInvalidPackage marks a LaTeX package name with unsafe characters.
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"
	// ErrCodeInvalidBorder marks a border value that is not a TeX dimension.
	ErrCodeInvalidBorder Code = "INVALID_BORDER"
	// ErrCodeInvalidDigest marks a digest that is not 64 hex characters.
	ErrCodeInvalidDigest Code = "INVALID_DIGEST"
	// ErrCodeInvalidInput marks malformed request bodies and missing arguments.
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// ErrCodeNotFound marks a missing resource of no particular kind.
	ErrCodeNotFound Code = "NOT_FOUND"
	// ErrCodeFormulaNotFound marks a digest with no archived formula.
	ErrCodeFormulaNotFound Code = "FORMULA_NOT_FOUND"
	// ErrCodeSessionNotFound marks a live session name with no stored state.
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// ErrCodeEngineMissing marks a TeX engine binary absent from PATH.
	ErrCodeEngineMissing Code = "ENGINE_MISSING"
	// ErrCodeCompileFailed marks an engine run that produced no usable output.
	ErrCodeCompileFailed Code = "COMPILE_FAILED"
	// ErrCodeNoArtifact marks a compile that finished without the requested file.
	ErrCodeNoArtifact Code = "NO_ARTIFACT"
	// ErrCodeTimeout marks a compile cancelled by its deadline.
	ErrCodeTimeout Code = "TIMEOUT"

	// ErrCodeArchive marks a formula storage failure.
	ErrCodeArchive Code = "ARCHIVE_ERROR"

	// ErrCodeInternal marks a failure with no better classification.
	ErrCodeInternal Code = "INTERNAL_ERROR"
	// ErrCodeUnsupported marks a requested feature this build cannot perform.
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error carries a code, a message for people, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

// Unwrap exposes the cause to the standard errors package.
func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error from a code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error recording cause, which stays reachable through
// errors.Is and errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// find returns the outermost *Error in err's chain.
func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain carries code.
func Is(err error, code Code) bool {
	e, ok := find(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost coded error in err's chain,
// or "" when the chain has none.
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost coded error without its
// code prefix, or err.Error() for plain errors.
func UserMessage(err error) string {
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}
