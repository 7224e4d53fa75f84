// Package bus implements the NES interconnect: the CPU-visible memory map,
// the open-bus latch shared by every access, and OAM DMA.
package bus

import (
	"github.com/nesgo/nesgo/internal/apu"
	"github.com/nesgo/nesgo/internal/cartridge"
	"github.com/nesgo/nesgo/internal/joypad"
	"github.com/nesgo/nesgo/internal/ppu"
	"github.com/nesgo/nesgo/internal/vram"
)

// Bus wires CPU-visible memory (2KB WRAM mirrored, PPU/APU/joypad
// registers, cartridge PRG) together behind a single Read/Write surface,
// satisfying cpu.Bus.
type Bus struct {
	ram  [0x800]uint8
	PPU  *ppu.PPU
	APU  *apu.APU
	Cart *cartridge.Cartridge
	Joy  joypad.Ports
	vram *vram.VRAM

	openBus uint8

	dmaCyclesRemaining uint16
	dmaInProgress      bool
	dmaOddCycle        bool
}

// New creates a Bus with its PPU/APU already constructed and the PPU wired
// to the bus's PPU address space; call InsertCartridge before running any
// CPU instructions.
func New() *Bus {
	b := &Bus{
		PPU: ppu.New(),
		APU: apu.New(),
	}
	b.PPU.SetBus(ppuBus{b})
	return b
}

// InsertCartridge attaches a cartridge, wiring its CHR space into the PPU's
// VRAM and its nametable mirroring mode.
func (b *Bus) InsertCartridge(cart *cartridge.Cartridge) {
	b.Cart = cart
	b.PPU.SetBus(ppuBus{b})
	b.vram = vram.New(cart, cart.Mirroring())
}

// Reset clears WRAM and the open-bus latch. CPU/PPU/APU reset themselves;
// the orchestrator (internal/nes) is responsible for sequencing those
// calls alongside this one.
func (b *Bus) Reset() {
	for i := range b.ram {
		b.ram[i] = 0
	}
	b.openBus = 0
	b.dmaCyclesRemaining = 0
	b.dmaInProgress = false
	b.Joy.Reset()
}

// Read services a CPU read of the full 16-bit address space.
func (b *Bus) Read(addr uint16) uint8 {
	var value uint8
	switch {
	case addr < 0x2000:
		value = b.ram[addr&0x07FF]
	case addr < 0x4000:
		value = b.PPU.ReadRegister(0x2000 + (addr & 0x0007))
	case addr == 0x4015:
		// Only the frame-IRQ bit is real; the rest is whatever was last
		// driven on the bus.
		value = (b.openBus &^ 0x40) | (b.APU.ReadStatus() & 0x40)
	case addr == 0x4016 || addr == 0x4017:
		// Only bit 0 is real; bits 1-7 are open-bus.
		value = (b.openBus &^ 0x01) | (b.Joy.Read(addr) & 0x01)
	case addr < 0x4020:
		value = b.openBus
	case addr < 0x6000:
		value = b.openBus
	default:
		if b.Cart != nil {
			value = b.Cart.ReadPRG(addr)
		} else {
			value = b.openBus
		}
	}
	b.openBus = value
	return value
}

// Write services a CPU write of the full 16-bit address space.
func (b *Bus) Write(addr uint16, value uint8) {
	b.openBus = value
	switch {
	case addr < 0x2000:
		b.ram[addr&0x07FF] = value
	case addr < 0x4000:
		b.PPU.WriteRegister(0x2000+(addr&0x0007), value)
	case addr == 0x4014:
		b.startOAMDMA(value)
	case addr == 0x4016:
		b.Joy.Write(addr, value)
	case addr >= 0x4000 && addr <= 0x4017:
		b.APU.WriteRegister(addr, value)
	case addr < 0x6000:
		// Expansion area and APU test registers: unmapped, writes ignored.
	default:
		if b.Cart != nil {
			b.Cart.WritePRG(addr, value)
		}
	}
}

// startOAMDMA copies 256 bytes starting at page*$100 into OAM and arms the
// CPU stall the DMA hook adds to the cycle count of the Step that executed
// the $4014 store.
func (b *Bus) startOAMDMA(page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		b.PPU.WriteOAM(uint8(i), b.Read(base+uint16(i)))
	}
	cycles := uint16(513)
	if b.dmaOddCycle {
		cycles = 514
	}
	b.dmaCyclesRemaining += cycles
}

// TakeDMAStall returns and clears any OAM-DMA stall cycles accumulated
// since the last call. Installed into cpu.CPU via SetDMAHook.
func (b *Bus) TakeDMAStall() uint16 {
	cycles := b.dmaCyclesRemaining
	b.dmaCyclesRemaining = 0
	return cycles
}

// NoteCPUCycles tracks CPU cycle parity so OAM DMA's 513/514-cycle stall
// matches real hardware (514 when DMA starts on an odd CPU cycle).
func (b *Bus) NoteCPUCycles(cycles uint16) {
	if cycles%2 != 0 {
		b.dmaOddCycle = !b.dmaOddCycle
	}
}

// ppuBus adapts Bus to ppu.Bus by routing $0000-$3FFF through the
// cartridge-backed VRAM rather than the CPU memory map above.
type ppuBus struct{ b *Bus }

func (p ppuBus) Read(addr uint16) uint8 {
	if p.b.vram == nil {
		return 0
	}
	return p.b.vram.Read(addr)
}

func (p ppuBus) Write(addr uint16, value uint8) {
	if p.b.vram == nil {
		return
	}
	p.b.vram.Write(addr, value)
}
