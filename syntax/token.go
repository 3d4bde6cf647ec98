// Package syntax parses Vim-dialect regular expressions into a postfix
// token stream.
//
// The parser understands the four magic levels (\v, \m, \M, \V), the
// classic grouping and multi operators, look-around, the \% family of
// atoms and the \z external-match items. Its output, a Postfix, is consumed
// by the nfa package which builds the automaton in two passes.
package syntax

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coregx/vimre/charclass"
)

// Op is the operation of a postfix token.
type Op uint8

// Postfix operations. Operands push a fragment, operators pop one or two
// and push the combination.
const (
	OpChar       Op = iota + 1 // literal rune
	OpClass                    // backslash class, Token.Class
	OpCollection               // [..], Token.Set indexes Postfix.Sets
	OpComposing                // base plus composing marks, Token.N indexes Postfix.Clusters
	OpAny                      // .
	OpNewline                  // \n as line break

	OpConcat
	OpOr
	OpStar
	OpStarLazy
	OpQuest
	OpQuestLazy
	OpEmpty
	OpOptChars // \%[..], Token.N items

	OpGroup         // \(..\), Token.N is the group number, 0 for the whole match
	OpExtGroup      // \z(..\), Token.N in 1..9
	OpNoCapture     // \%(..\)
	OpBackref       // \1..\9
	OpExtRef        // \z1..\z9
	OpLookahead     // \@=
	OpNegLookahead  // \@!
	OpLookbehind    // \@<=, Token.N byte limit, 0 for none
	OpNegLookbehind // \@<!
	OpAtomic        // \@>

	OpBOL          // ^ \_^
	OpEOL          // $ \_$
	OpBOW          // \<
	OpEOW          // \>
	OpBOF          // \%^
	OpEOF          // \%$
	OpCursor       // \%#
	OpVisual       // \%V
	OpMatchStart   // \zs
	OpMatchEnd     // \ze
	OpAnyComposing // \%C

	OpLine       // \%23l
	OpColumn     // \%23c
	OpVirtColumn // \%23v
	OpMark       // \%'m, Token.Rune is the mark name
)

var opNames = map[Op]string{
	OpChar: "CHAR", OpClass: "CLASS", OpCollection: "COLL", OpComposing: "COMPOSING",
	OpAny: "ANY", OpNewline: "NEWL", OpConcat: "CONCAT", OpOr: "OR",
	OpStar: "STAR", OpStarLazy: "STAR_LAZY", OpQuest: "QUEST", OpQuestLazy: "QUEST_LAZY",
	OpEmpty: "EMPTY", OpOptChars: "OPT_CHARS", OpGroup: "GROUP", OpExtGroup: "ZGROUP",
	OpNoCapture: "NOPEN", OpBackref: "BACKREF", OpExtRef: "ZREF",
	OpLookahead: "LOOKAHEAD", OpNegLookahead: "NEG_LOOKAHEAD",
	OpLookbehind: "LOOKBEHIND", OpNegLookbehind: "NEG_LOOKBEHIND", OpAtomic: "ATOMIC",
	OpBOL: "BOL", OpEOL: "EOL", OpBOW: "BOW", OpEOW: "EOW", OpBOF: "BOF", OpEOF: "EOF",
	OpCursor: "CURSOR", OpVisual: "VISUAL", OpMatchStart: "ZSTART", OpMatchEnd: "ZEND",
	OpAnyComposing: "ANY_COMPOSING", OpLine: "LNUM", OpColumn: "COL",
	OpVirtColumn: "VCOL", OpMark: "MARK",
}

func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return "Op(" + strconv.Itoa(int(op)) + ")"
}

// Cmp is the comparison of a position test.
type Cmp uint8

const (
	CmpEqual   Cmp = iota // \%23l
	CmpGreater            // \%>23l
	CmpLess               // \%<23l
)

func (c Cmp) String() string {
	switch c {
	case CmpGreater:
		return ">"
	case CmpLess:
		return "<"
	}
	return ""
}

// Token is one element of the postfix stream. Only the fields relevant to
// Op are set.
type Token struct {
	Op    Op
	Rune  rune
	N     int
	Cmp   Cmp
	Class charclass.Kind
	Set   int
}

// String renders the token the way the tests and debug logs show postfix
// streams: literals quoted, operators by name, numbers appended.
func (t Token) String() string {
	switch t.Op {
	case OpChar:
		return strconv.QuoteRune(t.Rune)
	case OpClass:
		return t.Class.String()
	case OpCollection:
		return fmt.Sprintf("COLL%d", t.Set)
	case OpComposing, OpOptChars, OpGroup, OpExtGroup, OpBackref, OpExtRef:
		return t.Op.String() + strconv.Itoa(t.N)
	case OpLookbehind, OpNegLookbehind:
		if t.N > 0 {
			return t.Op.String() + strconv.Itoa(t.N)
		}
	case OpLine, OpColumn, OpVirtColumn:
		return t.Op.String() + t.Cmp.String() + strconv.Itoa(t.N)
	case OpMark:
		return t.Op.String() + t.Cmp.String() + string(t.Rune)
	}
	return t.Op.String()
}

// ExternalUse records how a pattern relates to external matches.
type ExternalUse uint8

const (
	ExternalNone   ExternalUse = iota
	ExternalDefine                    // pattern contains \z(
	ExternalRefer                     // pattern contains \z1..\z9
)

// Postfix is the parser output: the token stream, its side tables and the
// facts gathered while parsing.
type Postfix struct {
	Pattern  string
	Tokens   []Token
	Sets     []*charclass.Set
	Clusters [][]rune

	// Groups counts capture groups including group 0. ExtGroups counts
	// \z( groups plus the unused slot 0, so it is 1 when there are none.
	Groups    int
	ExtGroups int

	HasBackref    bool
	HasZend       bool
	HasNewline    bool
	HasLookbehind bool
	External      ExternalUse

	// MultiLine is copied from Flags: \n is a line break rather than a
	// newline character.
	MultiLine bool

	// Inline flags: \c, \C and \Z.
	IgnoreCase      bool
	NoIgnoreCase    bool
	IgnoreCombining bool
}

// String joins the tokens with spaces.
func (p *Postfix) String() string {
	parts := make([]string, len(p.Tokens))
	for i, t := range p.Tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}
