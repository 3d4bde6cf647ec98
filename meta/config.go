// Package meta compiles a pattern into an engine and drives line searches.
//
// The engine coordinates three pieces:
//   - Parser and NFA compiler: pattern to immutable Program
//   - Prefilter: literal-based rejection of lines that cannot match
//   - PikeVM: the simulator that finds and verifies matches
//
// Strategy selection is based on:
//   - Program hints (a plain-string pattern uses the match text fast path)
//   - Literal quality (exact start literals or required inner literals)
//   - Multi-line use (patterns that span lines skip line prefilters)
//
// Match contexts are pooled, so one Engine serves concurrent searches.
package meta

import (
	"log/slog"

	"github.com/coregx/vimre/charclass"
	"github.com/coregx/vimre/nfa"
	"github.com/coregx/vimre/syntax"
)

// CaseMode selects case sensitivity for patterns without \c or \C.
type CaseMode uint8

const (
	// CaseSensitive matches case exactly.
	CaseSensitive CaseMode = iota
	// CaseInsensitive ignores case.
	CaseInsensitive
	// CaseSmart ignores case unless the pattern has an upper-case letter.
	CaseSmart
)

// Dialect is the starting magic level of a pattern. A pattern can still
// switch with \v \m \M \V.
type Dialect uint8

const (
	// DialectMagic is the default: ^ $ . [ ~ * are special.
	DialectMagic Dialect = iota
	// DialectVeryMagic makes every ASCII punctuation character special.
	DialectVeryMagic
	// DialectNoMagic leaves only ^ and $ special.
	DialectNoMagic
	// DialectVeryNoMagic leaves only the backslash special.
	DialectVeryNoMagic
)

func (d Dialect) magic() syntax.Magic {
	switch d {
	case DialectVeryMagic:
		return syntax.MagicAll
	case DialectNoMagic:
		return syntax.MagicOff
	case DialectVeryNoMagic:
		return syntax.MagicNone
	}
	return syntax.MagicOn
}

// Config controls compilation and matching.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.CaseMode = meta.CaseSmart
//	config.MultiLine = true
//	engine, err := meta.Compile(`\<foo\_s\+bar`, config)
type Config struct {
	CaseMode CaseMode
	Dialect  Dialect

	// MultiLine selects buffer matching: \n is a line break and a match
	// may span lines. Otherwise each line is a single string.
	// Default: false
	MultiLine bool

	// StrictBrackets rejects a [ without a matching ] instead of taking
	// it literally.
	StrictBrackets bool

	// External allows \z( groups (Define) or \z1..\z9 references (Use).
	External syntax.ExternalMode

	// MaxLookDepth bounds look-around and atomic group nesting during a
	// match. Deeper assertions fail and the result is marked degraded.
	// Default: 64
	MaxLookDepth int

	// MaxThreads bounds the size of a thread list.
	// Default: 1 << 20
	MaxThreads int

	// MaxNest bounds group nesting in the pattern.
	// Default: 1000
	MaxNest int

	// TabStop is the tab width used by \%23v.
	// Default: 8
	TabStop int

	// Option strings for \i \k \f \p and word boundaries. Empty selects
	// the default value.
	IsKeyword string
	IsIdent   string
	IsFname   string
	IsPrint   string

	// LastSubstitute is the text ~ stands for. nil makes ~ an error.
	LastSubstitute *string

	// EnablePrefilter enables literal-based line rejection.
	// Default: true
	EnablePrefilter bool

	// MaxLiterals limits the literal alternatives kept for a prefilter.
	// Default: 64
	MaxLiterals int

	// Logger receives debug records about strategy choice. nil is silent.
	Logger *slog.Logger
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		CaseMode:        CaseSensitive,
		Dialect:         DialectMagic,
		MaxLookDepth:    nfa.DefaultMaxLookDepth,
		MaxThreads:      nfa.DefaultMaxThreads,
		MaxNest:         syntax.DefaultMaxNest,
		TabStop:         8,
		EnablePrefilter: true,
		MaxLiterals:     64,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
//
// Valid ranges:
//   - MaxLookDepth: 1 to 10,000
//   - MaxThreads: 16 to 1 << 28
//   - MaxNest: 1 to 100,000
//   - TabStop: 1 to 100
//   - MaxLiterals: 1 to 1,000 (only checked with EnablePrefilter)
//   - option strings must parse
func (c Config) Validate() error {
	if c.CaseMode > CaseSmart {
		return &ConfigError{Field: "CaseMode", Message: "unknown case mode"}
	}
	if c.Dialect > DialectVeryNoMagic {
		return &ConfigError{Field: "Dialect", Message: "unknown dialect"}
	}
	if c.External > syntax.ExternalAllowUse {
		return &ConfigError{Field: "External", Message: "unknown external mode"}
	}
	if c.MaxLookDepth < 1 || c.MaxLookDepth > 10_000 {
		return &ConfigError{Field: "MaxLookDepth", Message: "must be between 1 and 10,000"}
	}
	if c.MaxThreads < 16 || c.MaxThreads > 1<<28 {
		return &ConfigError{Field: "MaxThreads", Message: "must be between 16 and 268,435,456"}
	}
	if c.MaxNest < 1 || c.MaxNest > 100_000 {
		return &ConfigError{Field: "MaxNest", Message: "must be between 1 and 100,000"}
	}
	if c.TabStop < 1 || c.TabStop > 100 {
		return &ConfigError{Field: "TabStop", Message: "must be between 1 and 100"}
	}
	if c.EnablePrefilter && (c.MaxLiterals < 1 || c.MaxLiterals > 1_000) {
		return &ConfigError{Field: "MaxLiterals", Message: "must be between 1 and 1,000"}
	}
	if _, err := c.tables(); err != nil {
		return &ConfigError{Field: "Is*", Message: err.Error(), Err: err}
	}
	return nil
}

// tables builds the option tables, sharing the defaults when no option is
// set.
func (c Config) tables() (*charclass.Tables, error) {
	if c.IsKeyword == "" && c.IsIdent == "" && c.IsFname == "" && c.IsPrint == "" {
		return charclass.DefaultTables(), nil
	}
	return charclass.NewTables(c.IsKeyword, c.IsIdent, c.IsFname, c.IsPrint)
}

func (c Config) flags() syntax.Flags {
	return syntax.Flags{
		Magic:          c.Dialect.magic(),
		MultiLine:      c.MultiLine,
		StrictBrackets: c.StrictBrackets,
		External:       c.External,
		LastSubstitute: c.LastSubstitute,
		MaxNest:        c.MaxNest,
	}
}

// ignoreCase resolves the case mode for pattern. \c and \C in the pattern
// still take precedence at match time.
func (c Config) ignoreCase(pattern string) bool {
	switch c.CaseMode {
	case CaseInsensitive:
		return true
	case CaseSmart:
		return !syntax.HasUppercase(pattern, c.Dialect.magic())
	}
	return false
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "vimre: invalid config: " + e.Field + ": " + e.Message
}

// Unwrap returns the underlying option parse error, if any.
func (e *ConfigError) Unwrap() error {
	return e.Err
}
