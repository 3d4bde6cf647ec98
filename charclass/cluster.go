package charclass

import (
	"unicode"
	"unicode/utf8"
)

// MaxComposing is the most composing marks kept with one base character.
// Further marks start a new cluster.
const MaxComposing = 6

// IsComposing reports whether r is a combining mark that attaches to the
// preceding character.
func IsComposing(r rune) bool {
	if r < 0x300 {
		return false
	}
	return unicode.In(r, unicode.Mn, unicode.Me, unicode.Mc)
}

// DecodeCluster decodes the character at the start of s: a base code
// point followed by up to MaxComposing composing marks. size is the byte
// length of the whole cluster and is 0 only for an empty s. A composing
// mark at the start of s is its own base.
func DecodeCluster(s string) (base rune, size int) {
	if s == "" {
		return 0, 0
	}
	base, size = utf8.DecodeRuneInString(s)
	for marks := 0; marks < MaxComposing && size < len(s); marks++ {
		r, n := utf8.DecodeRuneInString(s[size:])
		if !IsComposing(r) {
			break
		}
		size += n
	}
	return base, size
}

// ClusterMarks returns the composing marks of the cluster at the start of
// s, without the base.
func ClusterMarks(s string) []rune {
	_, size := DecodeCluster(s)
	if size == 0 {
		return nil
	}
	_, bn := utf8.DecodeRuneInString(s)
	var marks []rune
	for _, r := range s[bn:size] {
		marks = append(marks, r)
	}
	return marks
}

// ClusterHead returns the start of the cluster containing byte offset i.
func ClusterHead(s string, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(s) {
		return len(s)
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	for i > 0 {
		r, _ := utf8.DecodeRuneInString(s[i:])
		if !IsComposing(r) {
			break
		}
		p := i - 1
		for p > 0 && !utf8.RuneStart(s[p]) {
			p--
		}
		i = p
	}
	return i
}

// PrevCluster returns the cluster that ends at byte offset i.
func PrevCluster(s string, i int) (base rune, start int) {
	if i <= 0 {
		return 0, 0
	}
	start = ClusterHead(s, i-1)
	base, _ = utf8.DecodeRuneInString(s[start:])
	return base, start
}
