package syntax

import "github.com/coregx/vimre/charclass"

// HasUppercase reports whether pattern contains an upper-case letter that
// is not part of an item, for 'smartcase'. "\S", "\_X" and "\%V" do not
// count, and under \v neither do "%X" and "_X". Magic changes inside the
// pattern are followed.
func HasUppercase(pattern string, m Magic) bool {
	if m == 0 {
		m = MagicOn
	}
	rs := []rune(pattern)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '\\' && i+1 < len(rs):
			switch rs[i+1] {
			case '_', '%':
				i += 2
				continue
			case 'v':
				m = MagicAll
			case 'm':
				m = MagicOn
			case 'M':
				m = MagicOff
			case 'V':
				m = MagicNone
			}
			i++
		case m == MagicAll && (r == '%' || r == '_'):
			i++
		case charclass.IsUpper(r):
			return true
		}
	}
	return false
}
