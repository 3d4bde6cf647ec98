package charclass

import "testing"

func TestKindMatches(t *testing.T) {
	tests := []struct {
		kind Kind
		in   rune
		want bool
	}{
		{Digit, '7', true},
		{Digit, 'a', false},
		{NonDigit, 'a', true},
		{Hex, 'F', true},
		{Hex, 'g', false},
		{Octal, '8', false},
		{Octal, '7', true},
		{Word, '_', true},
		{Word, 'é', false},
		{NonWord, '-', true},
		{Head, '9', false},
		{Head, '_', true},
		{Alpha, 'Z', true},
		{Lower, 'q', true},
		{Lower, 'Q', false},
		{Upper, 'Q', true},
		{NonUpper, 'q', true},
		{White, '\t', true},
		{White, '\n', false},
		{NonWhite, 'x', true},
		{Keyword, 'é', true},
		{Keyword, '-', false},
		{KeywordNoDigit, '5', false},
		{Keyword, '5', true},
		{Ident, 'Ā', false},
		{Ident, '_', true},
		{IdentNoDigit, '1', false},
		{Fname, '/', true},
		{Fname, ':', false},
		{Fname, 'Ā', true},
		{FnameNoDigit, '0', false},
		{Printable, 0x01, false},
		{Printable, 'x', true},
		{Printable, 0x200b, false},
		{PrintableNoDigit, '3', false},
	}
	for _, tt := range tests {
		if got := tt.kind.Matches(tt.in, nil); got != tt.want {
			t.Errorf("%v.Matches(%q) = %v, want %v", tt.kind, tt.in, got, tt.want)
		}
	}
}

func TestKindFromLetter(t *testing.T) {
	for _, c := range "iIkKfFpPsSdDxXoOwWhHaAlLuU" {
		k, ok := KindFromLetter(c)
		if !ok {
			t.Fatalf("KindFromLetter(%q) not found", c)
		}
		if got := k.String(); got != "\\"+string(c) {
			t.Errorf("String() = %q, want \\%c", got, c)
		}
	}
	if _, ok := KindFromLetter('z'); ok {
		t.Error("KindFromLetter('z') should fail")
	}
}

func TestPosix(t *testing.T) {
	tests := []struct {
		name string
		in   rune
		want bool
	}{
		{"alnum", 'a', true},
		{"alnum", 'é', false},
		{"alpha", '1', false},
		{"blank", '\t', true},
		{"cntrl", 0x7f, true},
		{"digit", '0', true},
		{"graph", ' ', false},
		{"lower", 'é', true},
		{"lower", 0xaa, false},
		{"upper", 'É', true},
		{"punct", '!', true},
		{"punct", 'a', false},
		{"space", '\v', true},
		{"xdigit", 'e', true},
		{"tab", '\t', true},
		{"return", '\r', true},
		{"backspace", '\b', true},
		{"escape", 0x1b, true},
		{"print", 'x', true},
	}
	for _, tt := range tests {
		p, ok := LookupPosix(tt.name)
		if !ok {
			t.Fatalf("LookupPosix(%q) failed", tt.name)
		}
		if got := p.Matches(tt.in, nil); got != tt.want {
			t.Errorf("[:%s:] on %q = %v, want %v", tt.name, tt.in, got, tt.want)
		}
	}
	if _, ok := LookupPosix("foo"); ok {
		t.Error("LookupPosix(foo) should fail")
	}
}
