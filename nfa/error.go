// Package nfa compiles Vim-dialect postfix token streams into a Thompson
// NFA and runs it with a PikeVM-style simulator.
//
// Compile builds the automaton in two passes over a syntax.Postfix: the
// first counts states so the arena is allocated once, the second links
// them. The analyzer then derives the search hints (anchoring, first rune,
// literal text) and decides for every look-around whether it is tried
// before or after what follows it.
//
// PikeVM.Exec walks a line-oriented Input one character at a time with two
// thread lists. Captures, back-references, look-around, atomic groups and
// the \z( external groups are handled in the same loop; look-around
// recurses into a nested run.
package nfa

import (
	"errors"
	"fmt"
)

// Common NFA errors
var (
	// ErrResource is wrapped by every ResourceError.
	ErrResource = errors.New("resource limit exceeded")

	// ErrInternal is wrapped by every InternalError.
	ErrInternal = errors.New("internal NFA error")
)

// Limits reported by ResourceError.
const (
	LimitThreads = "threads"
	LimitListID  = "list id"
	LimitStates  = "states"
)

// ErrEmptyPostfix is returned by Compile for a postfix without tokens.
var ErrEmptyPostfix = &CompileError{Message: "empty postfix"}

// CompileError reports a postfix stream the builder cannot use.
type CompileError struct {
	Pattern string
	Message string
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("NFA compilation failed for pattern %q: %s", e.Pattern, e.Message)
	}
	return "NFA compilation failed: " + e.Message
}

// ResourceError reports that a match ran out of a bounded resource.
type ResourceError struct {
	Limit string
	Value int
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	return fmt.Sprintf("NFA %s limit exceeded (%d)", e.Limit, e.Value)
}

// Unwrap returns ErrResource.
func (e *ResourceError) Unwrap() error {
	return ErrResource
}

// InternalError reports a broken invariant in the builder or the
// simulator. It is raised with panic and never returned.
type InternalError struct {
	Message string
	StateID StateID
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("NFA internal error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("NFA internal error: %s", e.Message)
}

// Unwrap returns ErrInternal.
func (e *InternalError) Unwrap() error {
	return ErrInternal
}

func internalf(id StateID, format string, args ...any) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, args...), StateID: id}
}
