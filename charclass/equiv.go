package charclass

import "sync"

// equivClasses lists the letters that "[[=x=]]" treats as one. The first
// entry of each class is its base letter.
var equivClasses = [][]rune{
	{'A', 0xc0, 0xc1, 0xc2, 0xc3, 0xc4, 0xc5, 0x100, 0x102, 0x104, 0x1cd,
		0x1de, 0x1e0, 0x1fa, 0x202, 0x226, 0x23a, 0x1e00, 0x1ea0, 0x1ea2,
		0x1ea4, 0x1ea6, 0x1ea8, 0x1eaa, 0x1eac, 0x1eae, 0x1eb0, 0x1eb2,
		0x1eb4, 0x1eb6},
	{'B', 0x181, 0x243, 0x1e02, 0x1e04, 0x1e06},
	{'C', 0xc7, 0x106, 0x108, 0x10a, 0x10c, 0x187, 0x23b, 0x1e08, 0xa792},
	{'D', 0x10e, 0x110, 0x18a, 0x1e0a, 0x1e0c, 0x1e0e, 0x1e10, 0x1e12},
	{'E', 0xc8, 0xc9, 0xca, 0xcb, 0x112, 0x114, 0x116, 0x118, 0x11a,
		0x204, 0x206, 0x228, 0x246, 0x1e14, 0x1e16, 0x1e18, 0x1e1a, 0x1e1c,
		0x1eb8, 0x1eba, 0x1ebc, 0x1ebe, 0x1ec0, 0x1ec2, 0x1ec4, 0x1ec6},
	{'F', 0x191, 0x1e1e, 0xa798},
	{'G', 0x11c, 0x11e, 0x120, 0x122, 0x193, 0x1e4, 0x1e6, 0x1f4, 0x1e20,
		0xa7a0},
	{'H', 0x124, 0x126, 0x21e, 0x1e22, 0x1e24, 0x1e26, 0x1e28, 0x1e2a,
		0x2c67},
	{'I', 0xcc, 0xcd, 0xce, 0xcf, 0x128, 0x12a, 0x12c, 0x12e, 0x130,
		0x197, 0x1cf, 0x208, 0x20a, 0x1e2c, 0x1e2e, 0x1ec8, 0x1eca},
	{'J', 0x134, 0x248},
	{'K', 0x136, 0x198, 0x1e8, 0x1e30, 0x1e32, 0x1e34, 0x2c69, 0xa740},
	{'L', 0x139, 0x13b, 0x13d, 0x13f, 0x141, 0x23d, 0x1e36, 0x1e38,
		0x1e3a, 0x1e3c, 0x2c60},
	{'M', 0x1e3e, 0x1e40, 0x1e42},
	{'N', 0xd1, 0x143, 0x145, 0x147, 0x1f8, 0x1e44, 0x1e46, 0x1e48,
		0x1e4a, 0xa7a4},
	{'O', 0xd2, 0xd3, 0xd4, 0xd5, 0xd6, 0xd8, 0x14c, 0x14e, 0x150, 0x19f,
		0x1a0, 0x1d1, 0x1ea, 0x1ec, 0x1fe, 0x20c, 0x20e, 0x22a, 0x22c, 0x22e,
		0x230, 0x1e4c, 0x1e4e, 0x1e50, 0x1e52, 0x1ecc, 0x1ece, 0x1ed0,
		0x1ed2, 0x1ed4, 0x1ed6, 0x1ed8, 0x1eda, 0x1edc, 0x1ede, 0x1ee0, 0x1ee2},
	{'P', 0x1a4, 0x1e54, 0x1e56, 0x2c63},
	{'Q', 0x24a},
	{'R', 0x154, 0x156, 0x210, 0x212, 0x158, 0x24c, 0x1e58, 0x1e5a,
		0x1e5c, 0x1e5e, 0x2c64, 0xa7a6},
	{'S', 0x15a, 0x15c, 0x15e, 0x160, 0x218, 0x1e60, 0x1e62, 0x1e64,
		0x1e66, 0x1e68, 0x2c7e, 0xa7a8},
	{'T', 0x162, 0x164, 0x166, 0x1ac, 0x23e, 0x1ae, 0x21a, 0x1e6a, 0x1e6c,
		0x1e6e, 0x1e70},
	{'U', 0xd9, 0xda, 0xdb, 0xdc, 0x168, 0x16a, 0x16c, 0x16e, 0x170,
		0x172, 0x1af, 0x1d3, 0x1d5, 0x1d7, 0x1d9, 0x1db, 0x214, 0x216, 0x244,
		0x1e72, 0x1e74, 0x1e76, 0x1e78, 0x1e7a, 0x1ee4, 0x1ee6, 0x1ee8,
		0x1eea, 0x1eec, 0x1eee, 0x1ef0},
	{'V', 0x1b2, 0x1e7c, 0x1e7e},
	{'W', 0x174, 0x1e80, 0x1e82, 0x1e84, 0x1e86, 0x1e88},
	{'X', 0x1e8a, 0x1e8c},
	{'Y', 0xdd, 0x176, 0x178, 0x1b3, 0x232, 0x24e, 0x1e8e, 0x1ef2, 0x1ef4,
		0x1ef6, 0x1ef8},
	{'Z', 0x179, 0x17b, 0x17d, 0x1b5, 0x1e90, 0x1e92, 0x1e94, 0x2c6b},
	{'a', 0xe0, 0xe1, 0xe2, 0xe3, 0xe4, 0xe5, 0x101, 0x103, 0x105, 0x1ce,
		0x1df, 0x1e1, 0x1fb, 0x201, 0x203, 0x227, 0x1d8f, 0x1e01, 0x1e9a,
		0x1ea1, 0x1ea3, 0x1ea5, 0x1ea7, 0x1ea9, 0x1eab, 0x1ead, 0x1eaf,
		0x1eb1, 0x1eb3, 0x1eb5, 0x1eb7, 0x2c65},
	{'b', 0x180, 0x253, 0x1d6c, 0x1d80, 0x1e03, 0x1e05, 0x1e07},
	{'c', 0xe7, 0x107, 0x109, 0x10b, 0x10d, 0x188, 0x23c, 0x1e09, 0xa793,
		0xa794},
	{'d', 0x10f, 0x111, 0x257, 0x1d6d, 0x1d81, 0x1d91, 0x1e0b, 0x1e0d,
		0x1e0f, 0x1e11, 0x1e13},
	{'e', 0xe8, 0xe9, 0xea, 0xeb, 0x113, 0x115, 0x117, 0x119, 0x11b,
		0x205, 0x207, 0x229, 0x247, 0x1d92, 0x1e15, 0x1e17, 0x1e19, 0x1e1b,
		0x1e1d, 0x1eb9, 0x1ebb, 0x1ebd, 0x1ebf, 0x1ec1, 0x1ec3, 0x1ec5, 0x1ec7},
	{'f', 0x192, 0x1d6e, 0x1d82, 0x1e1f, 0xa799},
	{'g', 0x11d, 0x11f, 0x121, 0x123, 0x1e5, 0x1e7, 0x1f5, 0x260, 0x1d83,
		0x1e21, 0xa7a1},
	{'h', 0x125, 0x127, 0x21f, 0x1e23, 0x1e25, 0x1e27, 0x1e29, 0x1e2b,
		0x1e96, 0x2c68, 0xa795},
	{'i', 0xec, 0xed, 0xee, 0xef, 0x129, 0x12b, 0x12d, 0x12f, 0x1d0,
		0x209, 0x20b, 0x268, 0x1d96, 0x1e2d, 0x1e2f, 0x1ec9, 0x1ecb},
	{'j', 0x135, 0x1f0, 0x249},
	{'k', 0x137, 0x199, 0x1e9, 0x1d84, 0x1e31, 0x1e33, 0x1e35, 0x2c6a,
		0xa741},
	{'l', 0x13a, 0x13c, 0x13e, 0x140, 0x142, 0x19a, 0x1e37, 0x1e39,
		0x1e3b, 0x1e3d, 0x2c61},
	{'m', 0x1d6f, 0x1e3f, 0x1e41, 0x1e43},
	{'n', 0xf1, 0x144, 0x146, 0x148, 0x149, 0x1f9, 0x1d70, 0x1d87, 0x1e45,
		0x1e47, 0x1e49, 0x1e4b, 0xa7a5},
	{'o', 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf8, 0x14d, 0x14f, 0x151, 0x1a1,
		0x1d2, 0x1eb, 0x1ed, 0x1ff, 0x20d, 0x20f, 0x22b, 0x22d, 0x22f, 0x231,
		0x275, 0x1e4d, 0x1e4f, 0x1e51, 0x1e53, 0x1ecd, 0x1ecf, 0x1ed1,
		0x1ed3, 0x1ed5, 0x1ed7, 0x1ed9, 0x1edb, 0x1edd, 0x1edf, 0x1ee1, 0x1ee3},
	{'p', 0x1a5, 0x1d71, 0x1d7d, 0x1d88, 0x1e55, 0x1e57},
	{'q', 0x24b, 0x2a0},
	{'r', 0x155, 0x157, 0x159, 0x211, 0x213, 0x24d, 0x1d72, 0x1d73,
		0x1d89, 0x1e59, 0x27d, 0x1e5b, 0x1e5d, 0x1e5f, 0xa7a7},
	{'s', 0x15b, 0x15d, 0x15f, 0x161, 0x23f, 0x219, 0x1d74, 0x1d8a,
		0x1e61, 0x1e63, 0x1e65, 0x1e67, 0x1e69, 0xa7a9},
	{'t', 0x163, 0x165, 0x167, 0x1ab, 0x21b, 0x1ad, 0x288, 0x1d75, 0x1e6b,
		0x1e6d, 0x1e6f, 0x1e71, 0x1e97, 0x2c66},
	{'u', 0xf9, 0xfa, 0xfb, 0xfc, 0x169, 0x16b, 0x16d, 0x16f, 0x171,
		0x173, 0x1d6, 0x1d8, 0x1da, 0x1dc, 0x215, 0x217, 0x1b0, 0x1d4, 0x289,
		0x1d7e, 0x1d99, 0x1e73, 0x1e75, 0x1e77, 0x1e79, 0x1e7b, 0x1ee5,
		0x1ee7, 0x1ee9, 0x1eeb, 0x1eed, 0x1eef, 0x1ef1},
	{'v', 0x28b, 0x1d8c, 0x1e7d, 0x1e7f},
	{'w', 0x175, 0x1e81, 0x1e83, 0x1e85, 0x1e87, 0x1e89, 0x1e98},
	{'x', 0x1e8b, 0x1e8d},
	{'y', 0xfd, 0xff, 0x177, 0x1b4, 0x233, 0x24f, 0x1e8f, 0x1e99, 0x1ef3,
		0x1ef5, 0x1ef7, 0x1ef9},
	{'z', 0x17a, 0x17c, 0x17e, 0x1b6, 0x1d76, 0x1d8e, 0x1e91, 0x1e93,
		0x1e95, 0x2c6c},
}

var (
	equivOnce sync.Once
	equivMap  map[rune][]rune
)

func buildEquiv() {
	equivMap = make(map[rune][]rune)
	for _, class := range equivClasses {
		for _, r := range class {
			equivMap[r] = class
		}
	}
}

// Equivalents returns every rune in the equivalence class of r
// ("[[=e=]]"). A rune outside the table yields just itself.
func Equivalents(r rune) []rune {
	equivOnce.Do(buildEquiv)
	if class, ok := equivMap[r]; ok {
		return class
	}
	return []rune{r}
}
