package cpu

// opcodeTable is the static 256-entry dispatch table. Unofficial opcodes
// (LAX, SAX, DCP, ISB, SLO, RLA, SRE, RRA, and the unofficial NOPs/SBC) are
// left as zero-value entries, which Step turns into a panic naming the
// offending opcode.
var opcodeTable [256]Instruction

func init() {
	set := func(op uint8, name string, mode AddressingMode, cycles uint8, exec func(c *CPU, b Bus, addr uint16)) {
		opcodeTable[op] = Instruction{Name: name, Mode: mode, Cycles: cycles, Exec: exec}
	}

	// Load/store
	set(0xA9, "LDA", Immediate, 2, opLDA)
	set(0xA5, "LDA", ZeroPage, 3, opLDA)
	set(0xB5, "LDA", ZeroPageX, 4, opLDA)
	set(0xAD, "LDA", Absolute, 4, opLDA)
	set(0xBD, "LDA", AbsoluteX, 4, opLDA)
	set(0xB9, "LDA", AbsoluteY, 4, opLDA)
	set(0xA1, "LDA", IndirectX, 6, opLDA)
	set(0xB1, "LDA", IndirectY, 5, opLDA)

	set(0xA2, "LDX", Immediate, 2, opLDX)
	set(0xA6, "LDX", ZeroPage, 3, opLDX)
	set(0xB6, "LDX", ZeroPageY, 4, opLDX)
	set(0xAE, "LDX", Absolute, 4, opLDX)
	set(0xBE, "LDX", AbsoluteY, 4, opLDX)

	set(0xA0, "LDY", Immediate, 2, opLDY)
	set(0xA4, "LDY", ZeroPage, 3, opLDY)
	set(0xB4, "LDY", ZeroPageX, 4, opLDY)
	set(0xAC, "LDY", Absolute, 4, opLDY)
	set(0xBC, "LDY", AbsoluteX, 4, opLDY)

	set(0x85, "STA", ZeroPage, 3, opSTA)
	set(0x95, "STA", ZeroPageX, 4, opSTA)
	set(0x8D, "STA", Absolute, 4, opSTA)
	set(0x9D, "STA", AbsoluteX, 5, opSTA)
	set(0x99, "STA", AbsoluteY, 5, opSTA)
	set(0x81, "STA", IndirectX, 6, opSTA)
	set(0x91, "STA", IndirectY, 6, opSTA)

	set(0x86, "STX", ZeroPage, 3, opSTX)
	set(0x96, "STX", ZeroPageY, 4, opSTX)
	set(0x8E, "STX", Absolute, 4, opSTX)

	set(0x84, "STY", ZeroPage, 3, opSTY)
	set(0x94, "STY", ZeroPageX, 4, opSTY)
	set(0x8C, "STY", Absolute, 4, opSTY)

	// Register transfers
	set(0xAA, "TAX", Implicit, 2, opTAX)
	set(0xA8, "TAY", Implicit, 2, opTAY)
	set(0xBA, "TSX", Implicit, 2, opTSX)
	set(0x8A, "TXA", Implicit, 2, opTXA)
	set(0x9A, "TXS", Implicit, 2, opTXS)
	set(0x98, "TYA", Implicit, 2, opTYA)

	// Stack
	set(0x48, "PHA", Implicit, 3, opPHA)
	set(0x08, "PHP", Implicit, 3, opPHP)
	set(0x68, "PLA", Implicit, 4, opPLA)
	set(0x28, "PLP", Implicit, 4, opPLP)

	// Logical
	set(0x29, "AND", Immediate, 2, opAND)
	set(0x25, "AND", ZeroPage, 3, opAND)
	set(0x35, "AND", ZeroPageX, 4, opAND)
	set(0x2D, "AND", Absolute, 4, opAND)
	set(0x3D, "AND", AbsoluteX, 4, opAND)
	set(0x39, "AND", AbsoluteY, 4, opAND)
	set(0x21, "AND", IndirectX, 6, opAND)
	set(0x31, "AND", IndirectY, 5, opAND)

	set(0x49, "EOR", Immediate, 2, opEOR)
	set(0x45, "EOR", ZeroPage, 3, opEOR)
	set(0x55, "EOR", ZeroPageX, 4, opEOR)
	set(0x4D, "EOR", Absolute, 4, opEOR)
	set(0x5D, "EOR", AbsoluteX, 4, opEOR)
	set(0x59, "EOR", AbsoluteY, 4, opEOR)
	set(0x41, "EOR", IndirectX, 6, opEOR)
	set(0x51, "EOR", IndirectY, 5, opEOR)

	set(0x09, "ORA", Immediate, 2, opORA)
	set(0x05, "ORA", ZeroPage, 3, opORA)
	set(0x15, "ORA", ZeroPageX, 4, opORA)
	set(0x0D, "ORA", Absolute, 4, opORA)
	set(0x1D, "ORA", AbsoluteX, 4, opORA)
	set(0x19, "ORA", AbsoluteY, 4, opORA)
	set(0x01, "ORA", IndirectX, 6, opORA)
	set(0x11, "ORA", IndirectY, 5, opORA)

	set(0x24, "BIT", ZeroPage, 3, opBIT)
	set(0x2C, "BIT", Absolute, 4, opBIT)

	// Arithmetic
	set(0x69, "ADC", Immediate, 2, opADC)
	set(0x65, "ADC", ZeroPage, 3, opADC)
	set(0x75, "ADC", ZeroPageX, 4, opADC)
	set(0x6D, "ADC", Absolute, 4, opADC)
	set(0x7D, "ADC", AbsoluteX, 4, opADC)
	set(0x79, "ADC", AbsoluteY, 4, opADC)
	set(0x61, "ADC", IndirectX, 6, opADC)
	set(0x71, "ADC", IndirectY, 5, opADC)

	set(0xE9, "SBC", Immediate, 2, opSBC)
	set(0xE5, "SBC", ZeroPage, 3, opSBC)
	set(0xF5, "SBC", ZeroPageX, 4, opSBC)
	set(0xED, "SBC", Absolute, 4, opSBC)
	set(0xFD, "SBC", AbsoluteX, 4, opSBC)
	set(0xF9, "SBC", AbsoluteY, 4, opSBC)
	set(0xE1, "SBC", IndirectX, 6, opSBC)
	set(0xF1, "SBC", IndirectY, 5, opSBC)

	set(0xC9, "CMP", Immediate, 2, opCMP)
	set(0xC5, "CMP", ZeroPage, 3, opCMP)
	set(0xD5, "CMP", ZeroPageX, 4, opCMP)
	set(0xCD, "CMP", Absolute, 4, opCMP)
	set(0xDD, "CMP", AbsoluteX, 4, opCMP)
	set(0xD9, "CMP", AbsoluteY, 4, opCMP)
	set(0xC1, "CMP", IndirectX, 6, opCMP)
	set(0xD1, "CMP", IndirectY, 5, opCMP)

	set(0xE0, "CPX", Immediate, 2, opCPX)
	set(0xE4, "CPX", ZeroPage, 3, opCPX)
	set(0xEC, "CPX", Absolute, 4, opCPX)

	set(0xC0, "CPY", Immediate, 2, opCPY)
	set(0xC4, "CPY", ZeroPage, 3, opCPY)
	set(0xCC, "CPY", Absolute, 4, opCPY)

	// Increments/decrements
	set(0xE6, "INC", ZeroPage, 5, opINC)
	set(0xF6, "INC", ZeroPageX, 6, opINC)
	set(0xEE, "INC", Absolute, 6, opINC)
	set(0xFE, "INC", AbsoluteX, 7, opINC)

	set(0xC6, "DEC", ZeroPage, 5, opDEC)
	set(0xD6, "DEC", ZeroPageX, 6, opDEC)
	set(0xCE, "DEC", Absolute, 6, opDEC)
	set(0xDE, "DEC", AbsoluteX, 7, opDEC)

	set(0xE8, "INX", Implicit, 2, opINX)
	set(0xC8, "INY", Implicit, 2, opINY)
	set(0xCA, "DEX", Implicit, 2, opDEX)
	set(0x88, "DEY", Implicit, 2, opDEY)

	// Shifts
	set(0x0A, "ASL", Accumulator, 2, opASLAcc)
	set(0x06, "ASL", ZeroPage, 5, opASLMem)
	set(0x16, "ASL", ZeroPageX, 6, opASLMem)
	set(0x0E, "ASL", Absolute, 6, opASLMem)
	set(0x1E, "ASL", AbsoluteX, 7, opASLMem)

	set(0x4A, "LSR", Accumulator, 2, opLSRAcc)
	set(0x46, "LSR", ZeroPage, 5, opLSRMem)
	set(0x56, "LSR", ZeroPageX, 6, opLSRMem)
	set(0x4E, "LSR", Absolute, 6, opLSRMem)
	set(0x5E, "LSR", AbsoluteX, 7, opLSRMem)

	set(0x2A, "ROL", Accumulator, 2, opROLAcc)
	set(0x26, "ROL", ZeroPage, 5, opROLMem)
	set(0x36, "ROL", ZeroPageX, 6, opROLMem)
	set(0x2E, "ROL", Absolute, 6, opROLMem)
	set(0x3E, "ROL", AbsoluteX, 7, opROLMem)

	set(0x6A, "ROR", Accumulator, 2, opRORAcc)
	set(0x66, "ROR", ZeroPage, 5, opRORMem)
	set(0x76, "ROR", ZeroPageX, 6, opRORMem)
	set(0x6E, "ROR", Absolute, 6, opRORMem)
	set(0x7E, "ROR", AbsoluteX, 7, opRORMem)

	// Jumps/calls
	set(0x4C, "JMP", Absolute, 3, opJMP)
	set(0x6C, "JMP", Indirect, 5, opJMP)
	set(0x20, "JSR", Absolute, 6, opJSR)
	set(0x60, "RTS", Implicit, 6, opRTS)

	// Branches (base cycle cost 2; +1 taken, +1 more if the branch
	// crosses a page, added by the branch helper itself)
	set(0x90, "BCC", Relative, 2, opBCC)
	set(0xB0, "BCS", Relative, 2, opBCS)
	set(0xF0, "BEQ", Relative, 2, opBEQ)
	set(0x30, "BMI", Relative, 2, opBMI)
	set(0xD0, "BNE", Relative, 2, opBNE)
	set(0x10, "BPL", Relative, 2, opBPL)
	set(0x50, "BVC", Relative, 2, opBVC)
	set(0x70, "BVS", Relative, 2, opBVS)

	// Status flag changes
	set(0x18, "CLC", Implicit, 2, opCLC)
	set(0xD8, "CLD", Implicit, 2, opCLD)
	set(0x58, "CLI", Implicit, 2, opCLI)
	set(0xB8, "CLV", Implicit, 2, opCLV)
	set(0x38, "SEC", Implicit, 2, opSEC)
	set(0xF8, "SED", Implicit, 2, opSED)
	set(0x78, "SEI", Implicit, 2, opSEI)

	// System
	set(0x00, "BRK", Implicit, 7, opBRK)
	set(0xEA, "NOP", Implicit, 2, opNOP)
	set(0x40, "RTI", Implicit, 6, opRTI)

	validateOpcodeTable()
}

// officialOpcodeCount is the number of legal (documented) 6502 opcodes.
const officialOpcodeCount = 151

// validateOpcodeTable fails fast at package init if the table construction
// above drifted from the official opcode count, rather than leaving a gap
// to be discovered as a panic when some ROM happens to execute it.
func validateOpcodeTable() {
	populated := 0
	for _, inst := range opcodeTable {
		if inst.Exec != nil {
			populated++
		}
	}
	if populated != officialOpcodeCount {
		panic("cpu: opcode table has " + itoa(populated) + " entries, want " + itoa(officialOpcodeCount))
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [4]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
