package charclass

// Posix identifies a bracket expression class such as [:alpha:].
type Posix uint8

// POSIX and editor-specific bracket classes.
const (
	PosixAlnum Posix = iota + 1
	PosixAlpha
	PosixBlank
	PosixCntrl
	PosixDigit
	PosixGraph
	PosixLower
	PosixPrint
	PosixPunct
	PosixSpace
	PosixUpper
	PosixXdigit
	PosixTab
	PosixReturn
	PosixBackspace
	PosixEscape
)

var posixNames = map[string]Posix{
	"alnum": PosixAlnum, "alpha": PosixAlpha, "blank": PosixBlank,
	"cntrl": PosixCntrl, "digit": PosixDigit, "graph": PosixGraph,
	"lower": PosixLower, "print": PosixPrint, "punct": PosixPunct,
	"space": PosixSpace, "upper": PosixUpper, "xdigit": PosixXdigit,
	"tab": PosixTab, "return": PosixReturn, "backspace": PosixBackspace,
	"escape": PosixEscape,
}

// LookupPosix returns the class whose name is s, as written between
// "[:" and ":]".
func LookupPosix(s string) (Posix, bool) {
	p, ok := posixNames[s]
	return p, ok
}

func (p Posix) String() string {
	for name, v := range posixNames {
		if v == p {
			return "[:" + name + ":]"
		}
	}
	return "[:?:]"
}

// Matches reports whether r is in the class. Most classes are ASCII only;
// lower, upper and print follow Unicode and the print table.
func (p Posix) Matches(r rune, t *Tables) bool {
	switch p {
	case PosixAlnum:
		return ascii(r, riAlpha|riDigit)
	case PosixAlpha:
		return ascii(r, riAlpha)
	case PosixBlank:
		return r == ' ' || r == '\t'
	case PosixCntrl:
		return (r >= 1 && r < 0x20) || r == 0x7f
	case PosixDigit:
		return ascii(r, riDigit)
	case PosixGraph:
		return r > 0x20 && r < 0x7f
	case PosixLower:
		return IsLower(r) && r != 0xaa && r != 0xba
	case PosixPrint:
		if t == nil {
			t = DefaultTables()
		}
		return t.IsPrint(r)
	case PosixPunct:
		return r > 0x20 && r < 0x7f && !ascii(r, riAlpha|riDigit)
	case PosixSpace:
		return (r >= 9 && r <= 13) || r == ' '
	case PosixUpper:
		return IsUpper(r)
	case PosixXdigit:
		return ascii(r, riHex)
	case PosixTab:
		return r == '\t'
	case PosixReturn:
		return r == '\r'
	case PosixBackspace:
		return r == '\b'
	case PosixEscape:
		return r == 0x1b
	}
	return false
}
