package cartridge

import (
	"bytes"
	"testing"

	"github.com/nesgo/nesgo/internal/vram"
)

func buildINES(mapperID uint8, mirrorBit uint8, prgBanks, chrBanks int) []byte {
	var buf bytes.Buffer
	buf.WriteString("NES\x1A")
	buf.WriteByte(uint8(prgBanks))
	buf.WriteByte(uint8(chrBanks))
	buf.WriteByte((mapperID << 4) | mirrorBit)
	buf.WriteByte(mapperID & 0xF0)
	buf.Write(make([]byte, 8)) // PRGRAMSize, TVSystem1/2, padding

	prg := make([]byte, prgBanks*16384)
	for i := range prg {
		prg[i] = uint8(i)
	}
	buf.Write(prg)

	if chrBanks > 0 {
		buf.Write(make([]byte, chrBanks*8192))
	}
	return buf.Bytes()
}

func TestLoadINESRejectsBadMagic(t *testing.T) {
	bad := bytes.Repeat([]byte{0}, 32)
	if _, err := LoadINESReader(bytes.NewReader(bad)); err != ErrBadMagic {
		t.Fatalf("err = %v, want ErrBadMagic", err)
	}
}

func TestLoadINESRejectsUnsupportedMapper(t *testing.T) {
	data := buildINES(99, 0, 1, 1)
	if _, err := LoadINESReader(bytes.NewReader(data)); err != ErrUnsupportedMapper {
		t.Fatalf("err = %v, want ErrUnsupportedMapper", err)
	}
}

func TestNROM16KBMirrorsAcrossBothHalves(t *testing.T) {
	data := buildINES(0, 0, 1, 1)
	cart, err := LoadINESReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadINESReader: %v", err)
	}
	if got := cart.ReadPRG(0x8000); got != cart.ReadPRG(0xC000) {
		t.Fatalf("16KB PRG should mirror: $8000=%#02x $C000=%#02x", got, cart.ReadPRG(0xC000))
	}
}

func TestNROMSRAMReadWrite(t *testing.T) {
	data := buildINES(0, 0, 1, 1)
	cart, _ := LoadINESReader(bytes.NewReader(data))
	cart.WritePRG(0x6000, 0x42)
	if got := cart.ReadPRG(0x6000); got != 0x42 {
		t.Fatalf("SRAM read = %#02x, want 0x42", got)
	}
}

func TestMirroringFromHeader(t *testing.T) {
	data := buildINES(0, 1, 1, 1) // vertical bit set
	cart, _ := LoadINESReader(bytes.NewReader(data))
	if cart.Mirroring() != vram.Vertical {
		t.Fatalf("Mirroring() = %v, want Vertical", cart.Mirroring())
	}
}

func TestUNROMBankSwitch(t *testing.T) {
	data := buildINES(2, 0, 4, 0)
	cart, err := LoadINESReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadINESReader: %v", err)
	}
	// Fixed window always reads the last (4th) bank.
	last := cart.ReadPRG(0xC000)
	if last != 0x00 {
		t.Fatalf("fixed bank first byte = %#02x, want 0x00 (bank-relative pattern)", last)
	}

	cart.WritePRG(0x8000, 2) // select bank 2
	switchable := cart.ReadPRG(0x8000)
	if switchable != 0x00 {
		t.Fatalf("switchable bank first byte = %#02x, want 0x00", switchable)
	}
	// Byte 1 of bank 2 should differ from byte 1 of bank 0. buildINES gives
	// every bank the same bank-relative pattern, so mark bank 2 first.
	cart2, _ := LoadINESReader(bytes.NewReader(data))
	cart2.prgROM[2*0x4000+1] = 0xEE
	bank0Byte1 := cart2.ReadPRG(0x8001)
	cart2.WritePRG(0x8000, 2)
	bank2Byte1 := cart2.ReadPRG(0x8001)
	if bank0Byte1 == bank2Byte1 {
		t.Fatalf("expected bank switch to change PRG window contents")
	}
}

func TestCHRRAMFallbackWhenNoChrBanks(t *testing.T) {
	data := buildINES(0, 0, 1, 0)
	cart, err := LoadINESReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadINESReader: %v", err)
	}
	cart.WriteCHR(0x0000, 0x99)
	if got := cart.ReadCHR(0x0000); got != 0x99 {
		t.Fatalf("CHR RAM write/read = %#02x, want 0x99", got)
	}
}
