// Package cpu implements the MOS 6502 core used by the NES.
package cpu

// AddressingMode names one of the 13 ways a 6502 operand can be fetched.
type AddressingMode int

const (
	Implicit AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX // (zp,X)
	IndirectY // (zp),Y
)

const (
	stackBase = 0x0100

	flagCarry    = 0x01
	flagZero     = 0x02
	flagIRQOff   = 0x04
	flagDecimal  = 0x08
	flagBreak    = 0x10
	flagUnused   = 0x20
	flagOverflow = 0x40
	flagNegative = 0x80

	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE
)

// Bus is the memory interface the CPU borrows for the duration of one Step,
// Reset, NMI or IRQ call. It is never a field of the CPU: the CPU and its
// bus would otherwise alias each other's mutable state.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// Instruction is a decoded (operation, addressing-mode) pair together with
// its baseline cycle cost. Exec performs the operation against the already
// resolved address; Implicit/Accumulator-mode instructions ignore addr.
type Instruction struct {
	Name   string
	Mode   AddressingMode
	Cycles uint8
	Exec   func(c *CPU, b Bus, addr uint16)
}

// CPU holds 6502 register state. A Bus is supplied per call, never stored.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16

	C, Z, I, D, B, V, N bool

	// branchExtra accumulates the taken/page-cross penalty a branch
	// instruction's Exec adds during the current Step call.
	branchExtra uint16

	// dmaPending is consulted after every Step to surface the bus's
	// OAM-DMA stall cycles into the cycle count Step returns; it must
	// clear its own pending state once read.
	dmaPending func() uint16
}

// SetDMAHook installs the callback Step consults after executing an
// instruction to add any OAM-DMA stall cycles the bus is holding.
func (c *CPU) SetDMAHook(hook func() uint16) {
	c.dmaPending = hook
}

// New creates a CPU with PC left at zero; call Reset before stepping.
func New() *CPU {
	return &CPU{SP: 0xFD, I: true}
}

// Reset loads PC from the reset vector at $FFFC and re-establishes the
// post-reset register state (SP=$FD, InterruptDisable set, everything
// else implementation-defined and here left clear).
func (c *CPU) Reset(b Bus) {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.C, c.Z, c.D, c.B, c.V, c.N = false, false, false, false, false, false
	c.I = true
	lo := uint16(b.Read(resetVector))
	hi := uint16(b.Read(resetVector + 1))
	c.PC = (hi << 8) | lo
}

// Step fetches and executes one instruction, returning the number of CPU
// cycles it consumed, including any branch-taken/page-cross penalty and
// any OAM-DMA stall the bus reports back through the DMA hook.
func (c *CPU) Step(b Bus) uint16 {
	opcode := b.Read(c.PC)
	c.PC++

	inst := &opcodeTable[opcode]
	if inst.Exec == nil {
		panic(illegalOpcode{opcode})
	}

	addr, extra := c.resolveAddress(b, inst.Mode)
	switch inst.Name {
	case "STA", "ASL", "LSR", "ROL", "ROR", "INC", "DEC":
		// Stores and read-modify-write ops always spend the indexing
		// cycle; it is already part of their table cost.
		extra = 0
	}
	c.branchExtra = 0
	inst.Exec(c, b, addr)

	total := uint16(inst.Cycles) + extra + c.branchExtra
	if c.dmaPending != nil {
		total += c.dmaPending()
	}
	return total
}

type illegalOpcode struct{ opcode uint8 }

func (e illegalOpcode) Error() string {
	return "cpu: unimplemented opcode " + hexByte(e.opcode)
}

func hexByte(v uint8) string {
	const digits = "0123456789ABCDEF"
	return "$" + string([]byte{digits[v>>4], digits[v&0xF]})
}

// resolveAddress computes the effective address for the given mode and
// advances PC past the operand bytes. The returned extra cycle is the
// page-cross penalty for modes that incur one; branch penalties are added
// by the branch helpers themselves since they depend on whether the branch
// was actually taken.
func (c *CPU) resolveAddress(b Bus, mode AddressingMode) (uint16, uint16) {
	switch mode {
	case Implicit, Accumulator:
		return 0, 0

	case Immediate:
		addr := c.PC
		c.PC++
		return addr, 0

	case ZeroPage:
		addr := uint16(b.Read(c.PC))
		c.PC++
		return addr, 0

	case ZeroPageX:
		base := b.Read(c.PC)
		c.PC++
		return uint16(base + c.X), 0

	case ZeroPageY:
		base := b.Read(c.PC)
		c.PC++
		return uint16(base + c.Y), 0

	case Relative:
		offset := int8(b.Read(c.PC))
		c.PC++
		target := uint16(int32(c.PC) + int32(offset))
		return target, 0

	case Absolute:
		lo := uint16(b.Read(c.PC))
		hi := uint16(b.Read(c.PC + 1))
		c.PC += 2
		return (hi << 8) | lo, 0

	case AbsoluteX:
		lo := uint16(b.Read(c.PC))
		hi := uint16(b.Read(c.PC + 1))
		c.PC += 2
		base := (hi << 8) | lo
		addr := base + uint16(c.X)
		return addr, pageCrossPenalty(base, addr)

	case AbsoluteY:
		lo := uint16(b.Read(c.PC))
		hi := uint16(b.Read(c.PC + 1))
		c.PC += 2
		base := (hi << 8) | lo
		addr := base + uint16(c.Y)
		return addr, pageCrossPenalty(base, addr)

	case Indirect:
		lo := uint16(b.Read(c.PC))
		hi := uint16(b.Read(c.PC + 1))
		c.PC += 2
		ptr := (hi << 8) | lo
		return readIndirectBug(b, ptr), 0

	case IndirectX:
		zp := b.Read(c.PC)
		c.PC++
		ptr := zp + c.X
		lo := uint16(b.Read(uint16(ptr)))
		hi := uint16(b.Read(uint16(ptr + 1)))
		return (hi << 8) | lo, 0

	case IndirectY:
		zp := b.Read(c.PC)
		c.PC++
		lo := uint16(b.Read(uint16(zp)))
		hi := uint16(b.Read(uint16(zp + 1)))
		base := (hi << 8) | lo
		addr := base + uint16(c.Y)
		return addr, pageCrossPenalty(base, addr)

	default:
		return 0, 0
	}
}

// readIndirectBug reproduces JMP ($xxFF)'s page-wrap bug: if the pointer's
// low byte is $FF, the high byte is fetched from the start of the same page
// instead of the next one.
func readIndirectBug(b Bus, ptr uint16) uint16 {
	lo := uint16(b.Read(ptr))
	var hiAddr uint16
	if ptr&0x00FF == 0x00FF {
		hiAddr = ptr & 0xFF00
	} else {
		hiAddr = ptr + 1
	}
	hi := uint16(b.Read(hiAddr))
	return (hi << 8) | lo
}

func pageCrossPenalty(base, addr uint16) uint16 {
	if base&0xFF00 != addr&0xFF00 {
		return 1
	}
	return 0
}

func (c *CPU) setZN(v uint8) {
	c.Z = v == 0
	c.N = v&flagNegative != 0
}

func (c *CPU) push(b Bus, v uint8) {
	b.Write(stackBase+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop(b Bus) uint8 {
	c.SP++
	return b.Read(stackBase + uint16(c.SP))
}

// pushDouble stores the high byte first, so a matching popDouble recovers
// it little-endian.
func (c *CPU) pushDouble(b Bus, v uint16) {
	c.push(b, uint8(v>>8))
	c.push(b, uint8(v))
}

func (c *CPU) popDouble(b Bus) uint16 {
	lo := uint16(c.pop(b))
	hi := uint16(c.pop(b))
	return (hi << 8) | lo
}

// Status packs the processor flags into P.
func (c *CPU) Status() uint8 {
	var p uint8
	if c.C {
		p |= flagCarry
	}
	if c.Z {
		p |= flagZero
	}
	if c.I {
		p |= flagIRQOff
	}
	if c.D {
		p |= flagDecimal
	}
	if c.B {
		p |= flagBreak
	}
	p |= flagUnused
	if c.V {
		p |= flagOverflow
	}
	if c.N {
		p |= flagNegative
	}
	return p
}

// SetStatus unpacks P into the processor flags.
func (c *CPU) SetStatus(p uint8) {
	c.C = p&flagCarry != 0
	c.Z = p&flagZero != 0
	c.I = p&flagIRQOff != 0
	c.D = p&flagDecimal != 0
	c.B = p&flagBreak != 0
	c.V = p&flagOverflow != 0
	c.N = p&flagNegative != 0
}

// NMI pushes PC and P (with Break clear, Unused set) and jumps via $FFFA.
func (c *CPU) NMI(b Bus) {
	c.pushDouble(b, c.PC)
	c.push(b, (c.Status()&^uint8(flagBreak))|flagUnused)
	c.I = true
	lo := uint16(b.Read(nmiVector))
	hi := uint16(b.Read(nmiVector + 1))
	c.PC = (hi << 8) | lo
}

// IRQ pushes PC and P (with Break clear, Unused set) and jumps via $FFFE.
// Callers must check the I flag before invoking this; IRQ itself always
// services the request. BRK does not call IRQ: opBRK pushes P with Break
// set and jumps via the same vector itself.
func (c *CPU) IRQ(b Bus) {
	c.pushDouble(b, c.PC)
	c.push(b, (c.Status()&^uint8(flagBreak))|flagUnused)
	c.I = true
	lo := uint16(b.Read(irqVector))
	hi := uint16(b.Read(irqVector + 1))
	c.PC = (hi << 8) | lo
}
