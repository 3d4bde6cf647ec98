package syntax

import "fmt"

// ErrorKind classifies a parse failure.
type ErrorKind uint8

// Parse error kinds.
const (
	ErrTooManyGroups ErrorKind = iota + 1
	ErrTooManyExtGroups
	ErrUnmatchedOpen
	ErrUnmatchedClose
	ErrMisplacedOperator
	ErrMisplacedMulti
	ErrNestedMulti
	ErrBadRepeat
	ErrBadLookaround
	ErrEmptyOptional
	ErrUnterminatedOptional
	ErrBadOptionalItem
	ErrBadNumericChar
	ErrBadPercent
	ErrExternalNotAllowed
	ErrBadExternal
	ErrNoPreviousSubstitute
	ErrBadRange
	ErrUnterminatedCollection
	ErrNestTooDeep
	ErrBadMark
	ErrBadClass
	ErrUnexpectedEnd
	ErrBadBackref
)

var errorText = map[ErrorKind]string{
	ErrTooManyGroups:          `too many \(`,
	ErrTooManyExtGroups:       `too many \z(`,
	ErrUnmatchedOpen:          `unmatched \(`,
	ErrUnmatchedClose:         `unmatched \)`,
	ErrMisplacedOperator:      `misplaced \| or \&`,
	ErrMisplacedMulti:         "multi without an atom",
	ErrNestedMulti:            "multi follows a multi",
	ErrBadRepeat:              `bad \{...} repeat`,
	ErrBadLookaround:          `unknown \@ operator`,
	ErrEmptyOptional:          `empty \%[]`,
	ErrUnterminatedOptional:   `missing ] after \%[`,
	ErrBadOptionalItem:        `invalid item in \%[]`,
	ErrBadNumericChar:         `invalid character after \%[dxouU]`,
	ErrBadPercent:             `unknown \% operator`,
	ErrExternalNotAllowed:     `\z( or \z1 not allowed here`,
	ErrBadExternal:            `unknown \z operator`,
	ErrNoPreviousSubstitute:   "no previous substitute string for ~",
	ErrBadRange:               "reverse range in character class",
	ErrUnterminatedCollection: "missing ] after [",
	ErrNestTooDeep:            "nesting too deep",
	ErrBadMark:                "invalid mark name",
	ErrBadClass:               `invalid character after \_`,
	ErrUnexpectedEnd:          "pattern ends prematurely",
	ErrBadBackref:             "illegal back reference",
}

func (k ErrorKind) String() string {
	if s, ok := errorText[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Error is a compile error with the byte offset where parsing stopped.
type Error struct {
	Kind    ErrorKind
	Offset  int
	Pattern string
}

func (e *Error) Error() string {
	return fmt.Sprintf("vimre: %s at offset %d in %q", e.Kind, e.Offset, e.Pattern)
}

// Is matches another *Error of the same kind, so callers can test with
// errors.Is(err, &syntax.Error{Kind: syntax.ErrBadRange}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
