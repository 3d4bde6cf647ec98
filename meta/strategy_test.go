package meta

import (
	"testing"

	"gotest.tools/v3/assert"
)

// TestSelectStrategy verifies strategy selection for representative patterns.
func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		modify  func(*Config)
		want    Strategy
		prefix  bool // prefilter answers start columns
	}{
		{name: "plain string", pattern: "hello", want: UseMatchText},
		{name: "single rune", pattern: "x", want: UseMatchText},
		{name: "alternation of literals", pattern: `foo\|bar`, want: UsePrefix, prefix: true},
		{name: "group then literal", pattern: `\(foo\|bar\)baz`, want: UsePrefix, prefix: true},
		{name: "anchored literal", pattern: `^foo`, want: UsePrefix, prefix: true},
		{name: "start of match moved", pattern: `foo\zsbar`, want: UsePrefix, prefix: true},
		{name: "inner literal", pattern: `a.*bcd`, want: UseInner},
		{name: "literal behind a class", pattern: `\w\+ERROR\d`, want: UseInner},
		{name: "back-reference", pattern: `\(abc\)\1`, want: UseInner},
		{name: "no literal", pattern: `\d\+`, want: UseNFA},
		{name: "optional only", pattern: `x*`, want: UseNFA},
		{
			name: "ignore case folds", pattern: `foo\|bar`, want: UseInner,
			modify: func(c *Config) { c.CaseMode = CaseInsensitive },
		},
		{
			name: "prefilter disabled", pattern: `foo\|bar`, want: UseNFA,
			modify: func(c *Config) { c.EnablePrefilter = false },
		},
		{
			name: "multi-line newline", pattern: `foo\nbar`, want: UseNFA,
			modify: func(c *Config) { c.MultiLine = true },
		},
		{
			name: "multi-line without newline", pattern: `foo\|bar`, want: UsePrefix, prefix: true,
			modify: func(c *Config) { c.MultiLine = true },
		},
		{name: "ignore combining", pattern: `\Zfoo`, want: UseNFA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			if tt.modify != nil {
				tt.modify(&config)
			}
			engine, err := Compile(tt.pattern, config)
			assert.NilError(t, err)
			assert.Equal(t, engine.Strategy(), tt.want)

			pf := engine.Prefilter()
			switch tt.want {
			case UseNFA, UseMatchText:
				assert.Assert(t, pf == nil, "unexpected prefilter %v", pf)
			default:
				assert.Assert(t, pf != nil)
				assert.Equal(t, pf.IsPrefix(), tt.prefix)
			}
		})
	}
}

// TestStrategyString tests the String method of Strategy.
func TestStrategyString(t *testing.T) {
	tests := []struct {
		s    Strategy
		want string
	}{
		{UseNFA, "UseNFA"},
		{UseMatchText, "UseMatchText"},
		{UsePrefix, "UsePrefix"},
		{UseInner, "UseInner"},
		{Strategy(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Strategy(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
