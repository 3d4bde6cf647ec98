package prefilter

import (
	"bytes"
	"encoding/binary"
	"math/bits"

	"golang.org/x/sys/cpu"
)

// vectorIndexByte is set when bytes.IndexByte runs on vector units. On
// other CPUs the SWAR loop below is used.
var vectorIndexByte = cpu.X86.HasAVX2 || cpu.X86.HasSSE42 || cpu.ARM64.HasASIMD

// memchr returns the index of the first needle in haystack, or -1.
func memchr(haystack []byte, needle byte) int {
	if vectorIndexByte {
		return bytes.IndexByte(haystack, needle)
	}
	return memchrSWAR(haystack, needle)
}

// memchrSWAR searches eight bytes at a time in a uint64.
func memchrSWAR(haystack []byte, needle byte) int {
	const lo8 = 0x0101010101010101
	const hi8 = 0x8080808080808080

	n := len(haystack)
	mask := uint64(needle) * lo8
	i := 0
	for ; i+8 <= n; i += 8 {
		// A byte equal to needle becomes zero; the subtraction borrows
		// into its high bit.
		x := binary.LittleEndian.Uint64(haystack[i:]) ^ mask
		if z := (x - lo8) & ^x & hi8; z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
	}
	for ; i < n; i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}

// memmem returns the index of the first needle in haystack, or -1. It
// scans for the rarest byte of the needle and verifies around it.
func memmem(haystack, needle []byte, rare int) int {
	switch {
	case len(needle) == 0:
		return 0
	case len(needle) > len(haystack):
		return -1
	case len(needle) == 1:
		return memchr(haystack, needle[0])
	}
	rb := needle[rare]
	for from := rare; from < len(haystack); {
		i := memchr(haystack[from:], rb)
		if i < 0 {
			return -1
		}
		at := from + i - rare
		if at+len(needle) > len(haystack) {
			return -1
		}
		if bytes.Equal(haystack[at:at+len(needle)], needle) {
			return at
		}
		from += i + 1
	}
	return -1
}

// rareByte returns the index of the byte of needle that is least common in
// text and source code.
func rareByte(needle []byte) int {
	best := 0
	for i := 1; i < len(needle); i++ {
		if byteRank[needle[i]] < byteRank[needle[best]] {
			best = i
		}
	}
	return best
}

// byteRank orders bytes by how common they are in English text and source
// code. Lower is rarer.
var byteRank = [256]byte{
	// 0x00-0x1F: control characters
	0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 0, 0, 1, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	// 0x20-0x3F: space, punctuation, digits
	255, 60, 140, 50, 40, 35, 30, 160, 130, 130, 80, 55, 200, 140, 210, 100,
	180, 190, 170, 150, 140, 140, 130, 120, 120, 120, 150, 100, 70, 160, 70, 50,
	// 0x40-0x5F: upper case
	25, 120, 80, 90, 85, 130, 75, 70, 80, 115, 30, 35, 90, 85, 100, 105,
	80, 15, 100, 110, 115, 70, 45, 55, 20, 50, 10, 90, 60, 90, 20, 110,
	// 0x60-0x7F: lower case
	30, 225, 140, 170, 165, 245, 135, 130, 150, 200, 25, 65, 175, 155, 195, 205,
	145, 15, 195, 200, 215, 150, 75, 95, 45, 120, 20, 85, 40, 85, 15, 0,
	// 0x80-0xFF: UTF-8 lead and continuation bytes
	5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
}
