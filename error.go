package vimre

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidPattern matches every *CompileError with errors.Is.
var ErrInvalidPattern = errors.New("vimre: invalid pattern")

// CompileError reports a pattern that could not be compiled. Err is a
// *syntax.Error for a malformed pattern and an *nfa.ResourceError when the
// program would be too large.
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return "vimre: compiling " + strconv.Quote(e.Pattern) + ": " +
		strings.TrimPrefix(e.Err.Error(), "vimre: ")
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalidPattern.
func (e *CompileError) Is(target error) bool {
	return target == ErrInvalidPattern
}
