package meta

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/coregx/vimre/charclass"
	"github.com/coregx/vimre/syntax"
)

// TestDefaultConfigValues verifies DefaultConfig returns expected field values.
func TestDefaultConfigValues(t *testing.T) {
	c := DefaultConfig()

	if c.CaseMode != CaseSensitive {
		t.Errorf("CaseMode = %d, want CaseSensitive", c.CaseMode)
	}
	if c.Dialect != DialectMagic {
		t.Errorf("Dialect = %d, want DialectMagic", c.Dialect)
	}
	if c.MultiLine {
		t.Error("MultiLine should be false by default")
	}
	if !c.EnablePrefilter {
		t.Error("EnablePrefilter should be true by default")
	}
	if c.MaxLookDepth != 64 {
		t.Errorf("MaxLookDepth = %d, want 64", c.MaxLookDepth)
	}
	if c.MaxThreads != 1<<20 {
		t.Errorf("MaxThreads = %d, want %d", c.MaxThreads, 1<<20)
	}
	if c.TabStop != 8 {
		t.Errorf("TabStop = %d, want 8", c.TabStop)
	}
	if c.MaxLiterals != 64 {
		t.Errorf("MaxLiterals = %d, want 64", c.MaxLiterals)
	}
	if c.LastSubstitute != nil {
		t.Error("LastSubstitute should be nil by default")
	}
}

// TestDefaultConfigPassesValidation verifies DefaultConfig always validates.
func TestDefaultConfigPassesValidation(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

// TestConfigValidateRanges tests the boundaries of every numeric field.
func TestConfigValidateRanges(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string // empty means valid
	}{
		{"look depth zero", func(c *Config) { c.MaxLookDepth = 0 }, "MaxLookDepth"},
		{"look depth minimum", func(c *Config) { c.MaxLookDepth = 1 }, ""},
		{"look depth maximum", func(c *Config) { c.MaxLookDepth = 10_000 }, ""},
		{"look depth above maximum", func(c *Config) { c.MaxLookDepth = 10_001 }, "MaxLookDepth"},
		{"threads below minimum", func(c *Config) { c.MaxThreads = 15 }, "MaxThreads"},
		{"threads minimum", func(c *Config) { c.MaxThreads = 16 }, ""},
		{"threads above maximum", func(c *Config) { c.MaxThreads = 1<<28 + 1 }, "MaxThreads"},
		{"nest zero", func(c *Config) { c.MaxNest = 0 }, "MaxNest"},
		{"nest maximum", func(c *Config) { c.MaxNest = 100_000 }, ""},
		{"tab stop zero", func(c *Config) { c.TabStop = 0 }, "TabStop"},
		{"tab stop maximum", func(c *Config) { c.TabStop = 100 }, ""},
		{"tab stop above maximum", func(c *Config) { c.TabStop = 101 }, "TabStop"},
		{"literals zero", func(c *Config) { c.MaxLiterals = 0 }, "MaxLiterals"},
		{"literals zero without prefilter", func(c *Config) {
			c.MaxLiterals = 0
			c.EnablePrefilter = false
		}, ""},
		{"literals above maximum", func(c *Config) { c.MaxLiterals = 1_001 }, "MaxLiterals"},
		{"unknown case mode", func(c *Config) { c.CaseMode = CaseSmart + 1 }, "CaseMode"},
		{"unknown dialect", func(c *Config) { c.Dialect = DialectVeryNoMagic + 1 }, "Dialect"},
		{"unknown external mode", func(c *Config) { c.External = syntax.ExternalAllowUse + 1 }, "External"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(&c)
			err := c.Validate()

			if tt.wantField == "" {
				assert.NilError(t, err)
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error type = %T, want *ConfigError", err)
			}
			assert.Equal(t, cfgErr.Field, tt.wantField)
		})
	}
}

// TestConfigValidateOptionStrings tests that malformed 'iskeyword' style
// strings are reported and unwrap to the option error.
func TestConfigValidateOptionStrings(t *testing.T) {
	c := DefaultConfig()
	c.IsKeyword = "@,48-57,"
	err := c.Validate()
	assert.ErrorContains(t, err, "invalid config")

	var optErr *charclass.OptionError
	assert.Assert(t, errors.As(err, &optErr))
	assert.Equal(t, optErr.Option, "iskeyword")

	c.IsKeyword = "@,48-57,_,-"
	assert.NilError(t, c.Validate())
}

// TestConfigErrorMessage tests the ConfigError format.
func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Field: "TabStop", Message: "must be between 1 and 100"}
	assert.Equal(t, err.Error(), "vimre: invalid config: TabStop: must be between 1 and 100")
	assert.Assert(t, err.Unwrap() == nil)
}

// TestConfigIgnoreCase tests case mode resolution, including smart case.
func TestConfigIgnoreCase(t *testing.T) {
	tests := []struct {
		mode    CaseMode
		pattern string
		want    bool
	}{
		{CaseSensitive, "foo", false},
		{CaseInsensitive, "Foo", true},
		{CaseSmart, "foo", true},
		{CaseSmart, "Foo", false},
		{CaseSmart, `\Sfoo`, true},
		{CaseSmart, `foo\_Sbar`, true},
	}

	for _, tt := range tests {
		c := DefaultConfig()
		c.CaseMode = tt.mode
		if got := c.ignoreCase(tt.pattern); got != tt.want {
			t.Errorf("mode %d, ignoreCase(%q) = %v, want %v", tt.mode, tt.pattern, got, tt.want)
		}
	}
}

// TestConfigFlags tests that the dialect selects the starting magic level.
func TestConfigFlags(t *testing.T) {
	tests := []struct {
		dialect Dialect
		want    syntax.Magic
	}{
		{DialectMagic, syntax.MagicOn},
		{DialectVeryMagic, syntax.MagicAll},
		{DialectNoMagic, syntax.MagicOff},
		{DialectVeryNoMagic, syntax.MagicNone},
	}
	for _, tt := range tests {
		c := DefaultConfig()
		c.Dialect = tt.dialect
		c.MultiLine = true
		f := c.flags()
		assert.Equal(t, f.Magic, tt.want)
		assert.Assert(t, f.MultiLine)
		assert.Equal(t, f.MaxNest, syntax.DefaultMaxNest)
	}
}
