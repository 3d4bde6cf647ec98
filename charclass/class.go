// Package charclass holds the static character classification data shared by
// the parser and the simulator: the backslash classes (\d, \k, \i, ...),
// POSIX bracket classes, collections, case folding, equivalence classes,
// composing-mark clusters and the word classes used by \< and \>.
//
// Classes that depend on user options (\i, \k, \f, \p) consult a Tables
// value built from option strings in the 'iskeyword' format.
package charclass

// Kind identifies a backslash character class such as \d or \k.
type Kind uint8

// Backslash classes. Each upper-case letter is the negation of the
// lower-case one, except \I \K \F \P which exclude digits instead.
const (
	None             Kind = iota
	Ident                 // \i
	IdentNoDigit          // \I
	Keyword               // \k
	KeywordNoDigit        // \K
	Fname                 // \f
	FnameNoDigit          // \F
	Printable             // \p
	PrintableNoDigit      // \P
	White                 // \s
	NonWhite              // \S
	Digit                 // \d
	NonDigit              // \D
	Hex                   // \x
	NonHex                // \X
	Octal                 // \o
	NonOctal              // \O
	Word                  // \w
	NonWord               // \W
	Head                  // \h
	NonHead               // \H
	Alpha                 // \a
	NonAlpha              // \A
	Lower                 // \l
	NonLower              // \L
	Upper                 // \u
	NonUpper              // \U
)

var kindLetters = [...]byte{
	None: 0, Ident: 'i', IdentNoDigit: 'I', Keyword: 'k', KeywordNoDigit: 'K',
	Fname: 'f', FnameNoDigit: 'F', Printable: 'p', PrintableNoDigit: 'P',
	White: 's', NonWhite: 'S', Digit: 'd', NonDigit: 'D', Hex: 'x', NonHex: 'X',
	Octal: 'o', NonOctal: 'O', Word: 'w', NonWord: 'W', Head: 'h', NonHead: 'H',
	Alpha: 'a', NonAlpha: 'A', Lower: 'l', NonLower: 'L', Upper: 'u', NonUpper: 'U',
}

// KindFromLetter returns the class for the letter following a backslash
// ("d" for \d). ok is false for letters that are not classes.
func KindFromLetter(c rune) (k Kind, ok bool) {
	for i, l := range kindLetters {
		if i != int(None) && rune(l) == c {
			return Kind(i), true
		}
	}
	return None, false
}

// String returns the pattern spelling of the class, e.g. `\d`.
func (k Kind) String() string {
	if int(k) >= len(kindLetters) || k == None {
		return "\\?"
	}
	return "\\" + string(kindLetters[k])
}

// ASCII property bits, the same split the classic engine keeps in its
// 256-entry class table.
const (
	riDigit = 1 << iota
	riHex
	riOctal
	riWord
	riHead
	riAlpha
	riLower
	riUpper
	riWhite
)

var asciiTab = func() (tab [128]uint16) {
	for c := 0; c < 128; c++ {
		switch {
		case c >= '0' && c <= '7':
			tab[c] = riDigit | riHex | riOctal | riWord
		case c == '8' || c == '9':
			tab[c] = riDigit | riHex | riWord
		case c >= 'a' && c <= 'f':
			tab[c] = riHex | riWord | riHead | riAlpha | riLower
		case c >= 'g' && c <= 'z':
			tab[c] = riWord | riHead | riAlpha | riLower
		case c >= 'A' && c <= 'F':
			tab[c] = riHex | riWord | riHead | riAlpha | riUpper
		case c >= 'G' && c <= 'Z':
			tab[c] = riWord | riHead | riAlpha | riUpper
		case c == '_':
			tab[c] = riWord | riHead
		}
	}
	tab[' '] |= riWhite
	tab['\t'] |= riWhite
	return tab
}()

func ascii(r rune, bit uint16) bool {
	return r >= 0 && r < 128 && asciiTab[r]&bit != 0
}

// IsDigit reports whether r is an ASCII decimal digit.
func IsDigit(r rune) bool { return ascii(r, riDigit) }

// IsWhite reports whether r is a space or a tab.
func IsWhite(r rune) bool { return ascii(r, riWhite) }

// IsHex reports whether r is an ASCII hex digit.
func IsHex(r rune) bool { return ascii(r, riHex) }

// Matches reports whether r belongs to class k. t supplies the option
// tables for \i, \k, \f and \p; nil means DefaultTables.
func (k Kind) Matches(r rune, t *Tables) bool {
	if t == nil {
		t = DefaultTables()
	}
	switch k {
	case Ident:
		return t.IsIdent(r)
	case IdentNoDigit:
		return !IsDigit(r) && t.IsIdent(r)
	case Keyword:
		return t.IsKeyword(r)
	case KeywordNoDigit:
		return !IsDigit(r) && t.IsKeyword(r)
	case Fname:
		return t.IsFname(r)
	case FnameNoDigit:
		return !IsDigit(r) && t.IsFname(r)
	case Printable:
		return t.IsPrint(r)
	case PrintableNoDigit:
		return !IsDigit(r) && t.IsPrint(r)
	case White:
		return ascii(r, riWhite)
	case NonWhite:
		return !ascii(r, riWhite)
	case Digit:
		return ascii(r, riDigit)
	case NonDigit:
		return !ascii(r, riDigit)
	case Hex:
		return ascii(r, riHex)
	case NonHex:
		return !ascii(r, riHex)
	case Octal:
		return ascii(r, riOctal)
	case NonOctal:
		return !ascii(r, riOctal)
	case Word:
		return ascii(r, riWord)
	case NonWord:
		return !ascii(r, riWord)
	case Head:
		return ascii(r, riHead)
	case NonHead:
		return !ascii(r, riHead)
	case Alpha:
		return ascii(r, riAlpha)
	case NonAlpha:
		return !ascii(r, riAlpha)
	case Lower:
		return ascii(r, riLower)
	case NonLower:
		return !ascii(r, riLower)
	case Upper:
		return ascii(r, riUpper)
	case NonUpper:
		return !ascii(r, riUpper)
	}
	return false
}

// ASCIIOnly reports whether every rune the class accepts is below 128.
// Used to bound the width of look-behind.
func (k Kind) ASCIIOnly() bool {
	switch k {
	case White, Digit, Hex, Octal:
		return true
	}
	return false
}
