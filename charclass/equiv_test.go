package charclass

import (
	"slices"
	"testing"
)

func TestEquivalents(t *testing.T) {
	tests := []struct {
		in      rune
		want    []rune
		notWant []rune
	}{
		{'e', []rune{'e', 'é', 'è', 'ê', 'ë', 'ē'}, []rune{'E', 'É', 'a'}},
		{'é', []rune{'e', 'é', 'è'}, []rune{'a'}},
		{'A', []rune{'A', 'À', 'Á', 'Å'}, []rune{'a'}},
		{'n', []rune{'n', 'ñ'}, nil},
		{'o', []rune{'o', 'ø', 'ǿ', 'ö'}, []rune{'O', 'Ø'}},
		{'ø', []rune{'o', 'ø', 'ǿ'}, nil},
		{'d', []rune{'d', 'đ', 'ď'}, []rune{'Đ'}},
		{'Ł', []rune{'L', 'Ł'}, []rune{'ł'}},
	}
	for _, tt := range tests {
		got := Equivalents(tt.in)
		for _, r := range tt.want {
			if !slices.Contains(got, r) {
				t.Errorf("Equivalents(%q) missing %q", tt.in, r)
			}
		}
		for _, r := range tt.notWant {
			if slices.Contains(got, r) {
				t.Errorf("Equivalents(%q) contains %q", tt.in, r)
			}
		}
	}
}

func TestEquivalentsSingleton(t *testing.T) {
	for _, r := range []rune{'#', '中', 'ß', 'Ω'} {
		got := Equivalents(r)
		if len(got) != 1 || got[0] != r {
			t.Errorf("Equivalents(%q) = %q, want only itself", r, got)
		}
	}
}

func TestEquivalentsSymmetric(t *testing.T) {
	for _, class := range equivClasses {
		for _, r := range class {
			if got := Equivalents(r); !slices.Equal(got, class) {
				t.Errorf("Equivalents(%q) = %q, want class of %q", r, got, class[0])
			}
		}
	}
}
