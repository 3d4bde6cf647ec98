package charclass

import "sort"

// Word classes returned by WordClass. Values of 2 and up are word
// characters; scripts above 255 get their own class so that a change of
// script is a word boundary.
const (
	ClassBlank       = 0
	ClassPunctuation = 1
	ClassWord        = 2
	ClassEmoji       = 3
)

type classInterval struct {
	lo, hi rune
	class  int
}

// Sorted, non-overlapping. Code points not listed are ClassWord.
var classTable = []classInterval{
	{0x037e, 0x037e, 1}, {0x0387, 0x0387, 1}, {0x055a, 0x055f, 1},
	{0x0589, 0x0589, 1}, {0x05be, 0x05be, 1}, {0x05c0, 0x05c0, 1},
	{0x05c3, 0x05c3, 1}, {0x05f3, 0x05f4, 1}, {0x060c, 0x060c, 1},
	{0x061b, 0x061b, 1}, {0x061f, 0x061f, 1}, {0x066a, 0x066d, 1},
	{0x06d4, 0x06d4, 1}, {0x0700, 0x070d, 1}, {0x0964, 0x0965, 1},
	{0x0970, 0x0970, 1}, {0x0df4, 0x0df4, 1}, {0x0e4f, 0x0e4f, 1},
	{0x0e5a, 0x0e5b, 1}, {0x0f04, 0x0f12, 1}, {0x0f3a, 0x0f3d, 1},
	{0x0f85, 0x0f85, 1}, {0x104a, 0x104f, 1}, {0x10fb, 0x10fb, 1},
	{0x1361, 0x1368, 1}, {0x166d, 0x166e, 1}, {0x1680, 0x1680, 0},
	{0x169b, 0x169c, 1}, {0x16eb, 0x16ed, 1}, {0x1735, 0x1736, 1},
	{0x17d4, 0x17dc, 1}, {0x1800, 0x180a, 1}, {0x2000, 0x200b, 0},
	{0x200c, 0x2027, 1}, {0x2028, 0x2029, 0}, {0x202a, 0x202e, 1},
	{0x202f, 0x202f, 0}, {0x2030, 0x205e, 1}, {0x205f, 0x205f, 0},
	{0x2060, 0x206f, 1}, {0x2070, 0x207f, 0x2070}, {0x2080, 0x2094, 0x2080},
	{0x20a0, 0x27ff, 1}, {0x2800, 0x28ff, 0x2800}, {0x2900, 0x2998, 1},
	{0x29d8, 0x29db, 1}, {0x29fc, 0x29fd, 1}, {0x2e00, 0x2e7f, 1},
	{0x3000, 0x3000, 0}, {0x3001, 0x3020, 1}, {0x3030, 0x3030, 1},
	{0x303d, 0x303d, 1}, {0x3040, 0x309f, 0x3040}, {0x30a0, 0x30ff, 0x30a0},
	{0x3300, 0x9fff, 0x4e00}, {0xac00, 0xd7a3, 0xac00}, {0xf900, 0xfaff, 0x4e00},
	{0xfd3e, 0xfd3f, 1}, {0xfe30, 0xfe6b, 1}, {0xff00, 0xff0f, 1},
	{0xff1a, 0xff20, 1}, {0xff3b, 0xff40, 1}, {0xff5b, 0xff65, 1},
	{0x1d000, 0x1d24f, 1}, {0x1d400, 0x1d7ff, 1}, {0x1f000, 0x1f2ff, 1},
	{0x1f300, 0x1f64f, ClassEmoji}, {0x1f680, 0x1f6ff, ClassEmoji},
	{0x1f900, 0x1f9ff, ClassEmoji}, {0x1fa70, 0x1faff, ClassEmoji},
	{0x20000, 0x2a6df, 0x4e00}, {0x2a700, 0x2b73f, 0x4e00},
	{0x2b740, 0x2b81f, 0x4e00}, {0x2f800, 0x2fa1f, 0x4e00},
}

// WordClass classifies r for word boundaries: 0 for blanks, 1 for
// punctuation, 2 or more for word characters. Below 256 the keyword table
// decides between 1 and 2.
func WordClass(r rune, t *Tables) int {
	if r < 0x100 {
		if r <= 0 || r == ' ' || r == '\t' || r == 0xa0 {
			return ClassBlank
		}
		if t == nil {
			t = DefaultTables()
		}
		if t.keyword[r] {
			return ClassWord
		}
		return ClassPunctuation
	}
	i := sort.Search(len(classTable), func(i int) bool { return classTable[i].hi >= r })
	if i < len(classTable) && classTable[i].lo <= r {
		return classTable[i].class
	}
	return ClassWord
}
