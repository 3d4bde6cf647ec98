package syntax

// Magic is the magic level that decides which characters are special
// without a backslash.
type Magic uint8

// Magic levels in increasing order. The zero value means MagicOn.
const (
	MagicNone Magic = iota + 1 // \V: only \ is special
	MagicOff                   // \M: ^ and $ are special
	MagicOn                    // \m: also . [ ~ *
	MagicAll                   // \v: all punctuation is special
)

// ExternalMode controls whether \z( and \z1..\z9 are accepted.
type ExternalMode uint8

const (
	ExternalOff ExternalMode = iota
	// ExternalAllowDefine accepts \z( groups; their text is exported
	// with the match.
	ExternalAllowDefine
	// ExternalAllowUse accepts \z1..\z9 references to text exported by an
	// earlier match.
	ExternalAllowUse
)

// DefaultMaxNest bounds group nesting when Flags.MaxNest is zero.
const DefaultMaxNest = 1000

// MaxGroups is the number of capture slots, group 0 included. The same
// bound applies to \z( groups.
const MaxGroups = 10

// Flags are the parse-time options.
type Flags struct {
	// Magic is the starting magic level.
	Magic Magic

	// MultiLine selects buffer matching, where \n is a line break.
	// Otherwise the text is a single string and \n is a newline
	// character.
	MultiLine bool

	// StrictBrackets rejects a [ without a matching ].
	StrictBrackets bool

	External ExternalMode

	// LastSubstitute is the text ~ stands for. nil makes ~ an error.
	LastSubstitute *string

	// MaxNest bounds group nesting; zero means DefaultMaxNest.
	MaxNest int
}
