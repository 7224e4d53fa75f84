package vram

import "testing"

type fakePattern struct {
	chr [0x2000]uint8
}

func (f *fakePattern) ReadCHR(addr uint16) uint8        { return f.chr[addr] }
func (f *fakePattern) WriteCHR(addr uint16, value uint8) { f.chr[addr] = value }

func TestPatternTablePassthrough(t *testing.T) {
	pat := &fakePattern{}
	v := New(pat, Horizontal)
	v.Write(0x0010, 0x42)
	if got := v.Read(0x0010); got != 0x42 {
		t.Fatalf("Read($0010) = %#02x, want 0x42", got)
	}
	if pat.chr[0x0010] != 0x42 {
		t.Fatalf("pattern source not written through")
	}
}

func TestHorizontalMirroring(t *testing.T) {
	v := New(&fakePattern{}, Horizontal)
	v.Write(0x2000, 0xAA)
	if got := v.Read(0x2400); got != 0xAA {
		t.Fatalf("Read($2400) = %#02x, want 0xAA (mirrors $2000 under Horizontal)", got)
	}
	v.Write(0x2800, 0xBB)
	if got := v.Read(0x2C00); got != 0xBB {
		t.Fatalf("Read($2C00) = %#02x, want 0xBB (mirrors $2800 under Horizontal)", got)
	}
	if got := v.Read(0x2000); got != 0xAA {
		t.Fatalf("$2000 and $2800 must be independent nametables under Horizontal mirroring, got %#02x", got)
	}
}

func TestVerticalMirroring(t *testing.T) {
	v := New(&fakePattern{}, Vertical)
	v.Write(0x2000, 0x11)
	if got := v.Read(0x2800); got != 0x11 {
		t.Fatalf("Read($2800) = %#02x, want 0x11 (mirrors $2000 under Vertical)", got)
	}
	v.Write(0x2400, 0x22)
	if got := v.Read(0x2C00); got != 0x22 {
		t.Fatalf("Read($2C00) = %#02x, want 0x22 (mirrors $2400 under Vertical)", got)
	}
}

func TestNametableMirrorRegionAliasesPrimary(t *testing.T) {
	v := New(&fakePattern{}, Vertical)
	v.Write(0x2005, 0x77)
	if got := v.Read(0x3005); got != 0x77 {
		t.Fatalf("Read($3005) = %#02x, want 0x77 ($3000-$3EFF mirrors $2000-$2EFF)", got)
	}
}

func TestPaletteBackgroundMirrorAliases(t *testing.T) {
	v := New(&fakePattern{}, Horizontal)
	v.Write(0x3F00, 0x0F)
	if got := v.Read(0x3F10); got != 0x0F {
		t.Fatalf("Read($3F10) = %#02x, want 0x0F (aliases $3F00)", got)
	}
	v.Write(0x3F14, 0x05)
	if got := v.Read(0x3F04); got != 0x05 {
		t.Fatalf("Read($3F04) = %#02x, want 0x05 (aliases $3F14)", got)
	}
}

func TestPalettePowersUpBlackOnBackgroundEntries(t *testing.T) {
	v := New(&fakePattern{}, Horizontal)
	for _, addr := range []uint16{0x3F00, 0x3F04, 0x3F08, 0x3F0C} {
		if got := v.Read(addr); got != 0x0F {
			t.Fatalf("Read(%#04x) = %#02x, want 0x0F at power-up", addr, got)
		}
	}
}
