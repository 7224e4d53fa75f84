package ppu

// systemPalette is the 2C02's fixed 64-entry RGB palette, indexed by the
// 6-bit value read back from palette RAM.
var systemPalette = [64]uint32{
	0x666666, 0x002A88, 0x1412A7, 0x3B00A4, 0x5C007E, 0x6E0040, 0x6C0600, 0x561D00,
	0x333500, 0x0B4800, 0x005200, 0x004F08, 0x00404D, 0x000000, 0x000000, 0x000000,
	0xADADAD, 0x155FD9, 0x4240FF, 0x7527FE, 0xA01ACC, 0xB71E7B, 0xB53120, 0x994E00,
	0x6B6D00, 0x388700, 0x0C9300, 0x008F32, 0x007C8D, 0x000000, 0x000000, 0x000000,
	0xFFFEFF, 0x64B0FF, 0x9290FF, 0xC676FF, 0xF36AFF, 0xFE6ECC, 0xFE8170, 0xEA9E22,
	0xBCBE00, 0x88D800, 0x5CE430, 0x45E082, 0x48CDDE, 0x4F4F4F, 0x000000, 0x000000,
	0xFFFEFF, 0xC0DFFF, 0xD3D2FF, 0xE8C8FF, 0xFBC2FF, 0xFEC4EA, 0xFECCC5, 0xF7D8A5,
	0xE4E594, 0xCFF29B, 0xBEFBB3, 0xB8F8D8, 0xB8F8F8, 0x000000, 0x000000, 0x000000,
}

// applyEmphasis darkens the non-emphasized channels when PPUMASK's
// emphasis bits are set, approximating the 2C02's color-emphasis circuit.
func applyEmphasis(rgb uint32, mask uint8) uint32 {
	if mask&(maskEmphasizeR|maskEmphasizeG|maskEmphasizeB) == 0 {
		return rgb
	}
	r := uint8(rgb >> 16)
	g := uint8(rgb >> 8)
	b := uint8(rgb)

	const dim = 0.75
	if mask&maskEmphasizeR == 0 {
		r = uint8(float64(r) * dim)
	}
	if mask&maskEmphasizeG == 0 {
		g = uint8(float64(g) * dim)
	}
	if mask&maskEmphasizeB == 0 {
		b = uint8(float64(b) * dim)
	}
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}
