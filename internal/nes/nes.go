// Package nes orchestrates the CPU, PPU and bus into a single
// frame-at-a-time emulator: cooperative, single-threaded, no concurrency
// primitives.
package nes

import (
	"github.com/nesgo/nesgo/internal/bus"
	"github.com/nesgo/nesgo/internal/cartridge"
	"github.com/nesgo/nesgo/internal/cpu"
	"github.com/nesgo/nesgo/internal/joypad"
)

// System wires one CPU, PPU and Bus together and drives them a frame at a
// time.
type System struct {
	CPU *cpu.CPU
	Bus *bus.Bus

	nmiPending  bool
	framesDrawn uint64
	frameReady  bool
}

// New creates an unloaded System; call LoadCartridge before RunFrame.
func New() *System {
	s := &System{
		CPU: cpu.New(),
		Bus: bus.New(),
	}
	s.Bus.PPU.SetNMICallback(s.requestNMI)
	s.Bus.PPU.SetFrameCallback(s.markFrameReady)
	s.CPU.SetDMAHook(s.Bus.TakeDMAStall)
	return s
}

// LoadCartridge inserts a parsed cartridge and resets the system so the
// CPU starts executing from the reset vector.
func (s *System) LoadCartridge(cart *cartridge.Cartridge) {
	s.Bus.InsertCartridge(cart)
	s.Reset()
}

// Reset resets every component, leaving the CPU PC loaded from $FFFC.
func (s *System) Reset() {
	s.Bus.Reset()
	s.Bus.PPU.Reset()
	s.Bus.APU.Reset()
	s.CPU.Reset(s.Bus)
	s.nmiPending = false
	s.frameReady = false
	s.framesDrawn = 0
}

func (s *System) requestNMI() { s.nmiPending = true }
func (s *System) markFrameReady() {
	s.framesDrawn++
	s.frameReady = true
}

// RunFrame advances the system until one PPU frame completes, applying the
// given button state to both controller ports before stepping, and returns
// the completed 256x240 RGB frame buffer.
func (s *System) RunFrame(p1, p2 joypad.ButtonState) []uint32 {
	s.Bus.Joy.Controller1.SetButtons(p1)
	s.Bus.Joy.Controller2.SetButtons(p2)

	s.frameReady = false
	for !s.frameReady {
		s.stepInstruction()
	}

	fb := s.Bus.PPU.FrameBuffer()
	return fb[:]
}

// stepInstruction executes one CPU instruction and advances the PPU by
// exactly 3 dots per CPU cycle consumed, delivering any pending NMI
// between instructions (never mid-instruction) as real hardware does.
func (s *System) stepInstruction() {
	if s.nmiPending {
		s.CPU.NMI(s.Bus)
		s.nmiPending = false
	}

	cycles := s.CPU.Step(s.Bus)
	s.Bus.NoteCPUCycles(cycles)

	for i := uint16(0); i < cycles*3; i++ {
		s.Bus.PPU.Step()
	}
	for i := uint16(0); i < cycles; i++ {
		s.Bus.APU.Step()
	}
}

// FrameCount returns the number of frames completed since the last Reset.
func (s *System) FrameCount() uint64 { return s.framesDrawn }
