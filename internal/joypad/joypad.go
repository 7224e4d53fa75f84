// Package joypad implements the NES standard controller's strobe-latched
// serial shift register protocol.
package joypad

// Button identifies one of the eight buttons on a standard controller.
type Button uint8

const (
	A Button = 1 << iota
	B
	Select
	Start
	Up
	Down
	Left
	Right
)

// ButtonState is the set of currently-pressed buttons on one controller,
// bit-packed in serial read order (A first, Right last).
type ButtonState uint8

// Set returns a ButtonState with exactly the given buttons pressed.
func Set(pressed ...Button) ButtonState {
	var s ButtonState
	for _, b := range pressed {
		s |= ButtonState(b)
	}
	return s
}

// Controller is one NES controller port: an 8-bit shift register loaded
// from the live button state whenever strobe is high, and shifted out one
// bit per read once strobe goes low.
type Controller struct {
	buttons ButtonState
	shift   uint8
	strobe  bool
}

// SetButtons updates the live button state. While strobe is high this is
// reflected immediately on the next Read; the shift register holds the
// state captured by the last Write that set strobe high.
func (c *Controller) SetButtons(s ButtonState) { c.buttons = s }

// Write handles a write to $4016 (the shared strobe register). Bit 0
// selects strobe on/off; latching happens on write per spec (not on the
// strobe-high-to-low transition boundary).
func (c *Controller) Write(value uint8) {
	c.strobe = value&1 != 0
	if c.strobe {
		c.shift = uint8(c.buttons)
	}
}

// Read serially shifts out one button state per call: A, B, Select, Start,
// Up, Down, Left, Right, then an unbroken stream of 1s. While strobe is
// held high, every read returns the A button's live state without
// advancing the shift register.
func (c *Controller) Read() uint8 {
	if c.strobe {
		return uint8(c.buttons) & 1
	}
	bit := c.shift & 1
	c.shift = (c.shift >> 1) | 0x80
	return bit
}

// Reset clears all controller state.
func (c *Controller) Reset() {
	c.buttons = 0
	c.shift = 0
	c.strobe = false
}

// Ports bundles the two standard controller ports the bus exposes at
// $4016/$4017.
type Ports struct {
	Controller1 Controller
	Controller2 Controller
}

// Reset clears both ports.
func (p *Ports) Reset() {
	p.Controller1.Reset()
	p.Controller2.Reset()
}

// Read services a CPU read of $4016 or $4017, returning only the single
// live data bit in bit 0. Bits 1-7 are open-bus on real hardware: the bus
// is responsible for blending this bit into its open-bus latch before
// handing a full byte back to the CPU.
func (p *Ports) Read(addr uint16) uint8 {
	switch addr {
	case 0x4016:
		return p.Controller1.Read() & 1
	case 0x4017:
		return p.Controller2.Read() & 1
	default:
		return 0
	}
}

// Write services a CPU write to $4016; the strobe line is shared by both
// controller ports.
func (p *Ports) Write(addr uint16, value uint8) {
	if addr == 0x4016 {
		p.Controller1.Write(value)
		p.Controller2.Write(value)
	}
}
