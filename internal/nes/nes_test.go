package nes

import (
	"bytes"
	"testing"

	"github.com/nesgo/nesgo/internal/cartridge"
	"github.com/nesgo/nesgo/internal/joypad"
)

// loopingCartridge builds a minimal 32KB NROM image whose reset vector
// points at an infinite JMP loop, enough to let the PPU free-run to a
// completed frame without the CPU ever needing to do real work.
func loopingCartridge(t *testing.T) *cartridge.Cartridge {
	t.Helper()
	prg := make([]byte, 0x8000)
	prg[0] = 0x4C // JMP $8000
	prg[1] = 0x00
	prg[2] = 0x80
	prg[0x7FFC] = 0x00 // reset vector -> $8000
	prg[0x7FFD] = 0x80

	var buf bytes.Buffer
	buf.WriteString("NES\x1A")
	buf.WriteByte(2) // 32KB PRG
	buf.WriteByte(1) // 8KB CHR
	buf.WriteByte(0)
	buf.WriteByte(0)
	buf.Write(make([]byte, 8))
	buf.Write(prg)
	buf.Write(make([]byte, 8192))

	cart, err := cartridge.LoadINESReader(&buf)
	if err != nil {
		t.Fatalf("LoadINESReader: %v", err)
	}
	return cart
}

func TestRunFrameReturnsFullFrameBuffer(t *testing.T) {
	system := New()
	system.LoadCartridge(loopingCartridge(t))

	frame := system.RunFrame(joypad.Set(), joypad.Set())
	if len(frame) != 256*240 {
		t.Fatalf("frame length = %d, want %d", len(frame), 256*240)
	}
	if system.FrameCount() != 1 {
		t.Fatalf("FrameCount() = %d, want 1", system.FrameCount())
	}
}

func TestRunFrameAdvancesFrameCountEachCall(t *testing.T) {
	system := New()
	system.LoadCartridge(loopingCartridge(t))

	system.RunFrame(joypad.Set(), joypad.Set())
	system.RunFrame(joypad.Set(), joypad.Set())
	if system.FrameCount() != 2 {
		t.Fatalf("FrameCount() = %d, want 2 after two RunFrame calls", system.FrameCount())
	}
}

func TestResetReloadsCPUFromResetVector(t *testing.T) {
	system := New()
	system.LoadCartridge(loopingCartridge(t))
	if system.CPU.PC != 0x8000 {
		t.Fatalf("PC after LoadCartridge = %#04x, want 0x8000", system.CPU.PC)
	}
}

func TestButtonStateReachesControllerPorts(t *testing.T) {
	system := New()
	system.LoadCartridge(loopingCartridge(t))

	system.Bus.Joy.Controller1.SetButtons(joypad.Set(joypad.A))
	system.Bus.Joy.Write(0x4016, 1)
	system.Bus.Joy.Write(0x4016, 0)
	if got := system.Bus.Joy.Read(0x4016) & 1; got != 1 {
		t.Fatalf("controller1 first bit = %d, want 1 (A pressed)", got)
	}
}
