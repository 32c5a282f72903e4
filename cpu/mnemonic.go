package cpu

import (
	"fmt"
	"strings"
)

// nopIrrelevantMask covers every field a NOP must leave zero: the alu
// and register controls (bits 1-15) and the bus controls (bits 16-17).
// Only NA, MAC and MCHFLG may be set.
const nopIrrelevantMask = 0b00_00000_11_111_1111_11_11_1111_0

// Mnemonic renders the instruction as a human-readable one-liner, eg
// "R0 = R0 + 6" or "(R1) = R2; ZO 0011Z". Pass the address the
// instruction is stored at to suppress the jump suffix for plain
// fall-throughs and to detect self-loops; pass a negative address if the
// position in the program is unknown.
func (i Instruction) Mnemonic(address int) string {
	var out strings.Builder

	if i.word&nopIrrelevantMask == 0 && !i.isInterruptBranch() {
		out.WriteString("NOP")
	} else {
		out.WriteString(i.outputPrefix())
		out.WriteString(i.expression())
		switch i.AluFunction() {
		case 0b1101:
			out.WriteString("; SETC")
		case 0b1110:
			out.WriteString("; HLDC")
		case 0b1111:
			out.WriteString("; INVC")
		}
	}

	if i.ShouldStoreFlags() {
		out.WriteString("; CHFL")
	}
	out.WriteString(i.branchSuffix(address))

	return out.String()
}

// isInterruptBranch reports whether the instruction takes part in the
// interrupt protocol (branch on the volatile or stored latch). Such
// instructions are never collapsed to a NOP.
func (i Instruction) isInterruptBranch() bool {
	full := i.FullAddressControl()
	return full == 0b010 || full == 0b111
}

// operandA renders the a input: a register, or a bus cell addressed by
// that register.
func (i Instruction) operandA() string {
	if i.IsAluInputABus() {
		return fmt.Sprintf("(R%d)", i.RegisterAddressA())
	}
	return fmt.Sprintf("R%d", i.RegisterAddressA())
}

// operandB renders the b input: a register, or the sign-extended
// constant in hex.
func (i Instruction) operandB() string {
	if i.IsAluInputBConst() {
		return fmt.Sprintf("%X", i.ConstantInput())
	}
	return fmt.Sprintf("R%d", i.RegisterAddressB())
}

// expression renders the alu operation on both operands. When a and b
// are syntactically identical some operations have nicer spellings
// (adding a number to itself is a left shift, a NOR b is an inversion).
func (i Instruction) expression() string {
	a := i.operandA()
	b := i.operandB()
	same := a == b

	switch i.AluFunction() {
	case 0b0000:
		return a
	case 0b0001:
		return b
	case 0b0010:
		if same {
			return "¬" + a
		}
		return a + " NOR " + b
	case 0b0100:
		if same {
			return a + " << 1"
		}
		return a + " + " + b
	case 0b0101:
		if same {
			return "(" + a + " << 1) + 1"
		}
		return a + " + " + b + " + 1"
	case 0b0110:
		if same {
			return "(" + a + " << 1) + C"
		}
		return a + " + " + b + " + C"
	case 0b0111:
		if same {
			return "(" + a + " << 1) + ¬C"
		}
		return a + " + " + b + " + ¬C"
	case 0b1000:
		return a + " >> 1"
	case 0b1001:
		return "RR " + a
	case 0b1010:
		return "RRC " + a
	case 0b1011:
		return "ASR " + a
	default:
		// 0011 and the carry functions 1100-1111 output zero
		return "0"
	}
}

// outputPrefix renders where the alu result goes: a bus cell, a
// register, both, or nowhere (pure flag test).
func (i Instruction) outputPrefix() string {
	busWrite := i.IsBusEnabled() && i.IsBusWritable()
	destination := i.RegisterAddressA()
	if i.ShouldWriteRegisterB() {
		destination = i.RegisterAddressB()
	}

	switch {
	case busWrite && i.ShouldWriteRegister():
		return fmt.Sprintf("(R%d) = R%d = ", i.RegisterAddressA(), destination)
	case busWrite:
		return fmt.Sprintf("(R%d) = ", i.RegisterAddressA())
	case i.ShouldWriteRegister():
		return fmt.Sprintf("R%d = ", destination)
	default:
		return "TEST "
	}
}

// branchSuffix renders how the next instruction address is formed. The
// suffix is omitted entirely for a plain fall-through to the natural
// successor of address.
func (i Instruction) branchSuffix(address int) string {
	na := i.NextInstructionAddress()
	base := na >> 1

	switch i.FullAddressControl() {
	case 0b000, 0b001:
		if address >= 0 && na == uint8((address+1)%32) {
			return ""
		}
		if address >= 0 && na == uint8(address) {
			return "; LOOP"
		}
		return fmt.Sprintf("; JMP %05b", na)
	case 0b010:
		return fmt.Sprintf("; INTA %04bI", base)
	case 0b011:
		return fmt.Sprintf("; CF %04bC", base)
	case 0b100:
		return fmt.Sprintf("; CO %04bC", base)
	case 0b101:
		return fmt.Sprintf("; ZO %04bZ", base)
	case 0b110:
		return fmt.Sprintf("; NO %04bN", base)
	default:
		return fmt.Sprintf("; INTB %04bI", base)
	}
}
