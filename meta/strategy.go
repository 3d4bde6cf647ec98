package meta

import (
	"github.com/coregx/vimre/literal"
	"github.com/coregx/vimre/nfa"
	"github.com/coregx/vimre/prefilter"
	"github.com/coregx/vimre/syntax"
)

// Strategy represents the execution strategy for a compiled pattern.
//
// Every strategy ends in the PikeVM; they differ in how lines and start
// columns are chosen before it runs:
//   - UseNFA: run the PikeVM on every line
//   - UseMatchText: the pattern is a plain string, verified without threads
//   - UsePrefix: a literal prefilter picks the columns where a match may start
//   - UseInner: a literal prefilter rejects lines without a required literal
//
// Strategy selection is automatic based on pattern analysis.
type Strategy int

const (
	// UseNFA uses only the PikeVM.
	// Selected for:
	//   - Patterns without usable literals (\d\+, .*, back-references)
	//   - Multi-line patterns whose match can continue on another line
	//   - When EnablePrefilter is false in config
	UseNFA Strategy = iota

	// UseMatchText uses the literal fast path of the PikeVM.
	// Selected for:
	//   - Patterns that are a plain string without composing marks
	//   - The first rune is found by scanning, the rest compared directly
	UseMatchText

	// UsePrefix uses a prefilter whose candidates are match starts.
	// Selected for:
	//   - Patterns with a finite set of exact leading strings (foo\|bar)
	//   - Case-sensitive matching only
	UsePrefix

	// UseInner uses a prefilter that only rejects whole lines.
	// Selected for:
	//   - Patterns with a literal required somewhere in every match
	//     (\w\+ERROR\d)
	//   - Ignore-case patterns, where folding hides the column
	UseInner
)

// String returns a human-readable representation of the Strategy.
func (s Strategy) String() string {
	switch s {
	case UseNFA:
		return "UseNFA"
	case UseMatchText:
		return "UseMatchText"
	case UsePrefix:
		return "UsePrefix"
	case UseInner:
		return "UseInner"
	default:
		return "Unknown"
	}
}

// spansLines reports whether a match of the program may involve text on
// another line than the one it starts on. Line prefilters only look at
// one line, so they cannot be used then.
func spansLines(p *syntax.Postfix) bool {
	if !p.MultiLine {
		return false
	}
	return p.HasNewline || p.HasLookbehind
}

// SelectStrategy picks the strategy and builds the prefilter it needs.
// The prefilter is nil for UseNFA and UseMatchText.
//
// Algorithm:
//  1. A plain-string program takes the match text fast path
//  2. Prefilters disabled, a match may span lines, or \Z: UseNFA
//  3. Exact leading literals (case-sensitive): UsePrefix
//  4. Required literals, or any literal under ignore-case: UseInner
//  5. Otherwise UseNFA
func SelectStrategy(prog *nfa.Program, p *syntax.Postfix, config Config, ignoreCase bool) (Strategy, prefilter.Prefilter) {
	if _, ok := prog.MatchText(); ok && !prog.IgnoreCombining() {
		return UseMatchText, nil
	}
	if !config.EnablePrefilter || spansLines(p) || prog.IgnoreCombining() {
		return UseNFA, nil
	}

	e := literal.New(literal.ExtractorConfig{MaxLiterals: config.MaxLiterals})
	exact := e.ExtractExact(p)
	inner := e.ExtractInner(p)
	pf := prefilter.NewBuilder(exact, inner, ignoreCase).Build()
	switch {
	case pf == nil:
		return UseNFA, nil
	case pf.IsPrefix():
		return UsePrefix, pf
	}
	return UseInner, pf
}
