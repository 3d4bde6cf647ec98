package nfa

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "compile with pattern",
			err:  &CompileError{Pattern: `a\(`, Message: "stack underflow"},
			want: `NFA compilation failed for pattern "a\\(": stack underflow`,
		},
		{
			name: "compile without pattern",
			err:  ErrEmptyPostfix,
			want: "NFA compilation failed: empty postfix",
		},
		{
			name: "resource",
			err:  &ResourceError{Limit: LimitThreads, Value: 10},
			want: "NFA threads limit exceeded (10)",
		},
		{
			name: "internal at state",
			err:  internalf(3, "bad %s", "edge"),
			want: "NFA internal error at state 3: bad edge",
		},
		{
			name: "internal",
			err:  internalf(InvalidState, "broken"),
			want: "NFA internal error: broken",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.err.Error(), tt.want)
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	assert.Assert(t, errors.Is(&ResourceError{Limit: LimitStates}, ErrResource))
	assert.Assert(t, !errors.Is(&ResourceError{}, ErrInternal))
	assert.Assert(t, errors.Is(internalf(0, "x"), ErrInternal))

	var ce *CompileError
	assert.Assert(t, errors.As(error(ErrEmptyPostfix), &ce))
	assert.Equal(t, ce.Message, "empty postfix")
}
