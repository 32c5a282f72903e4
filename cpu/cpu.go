package cpu

import (
	"github.com/klemens/2i-emulator/alu"
	"github.com/klemens/2i-emulator/mem"
)

// Cpu of the 2i.
//
// Represents the 8 bit cpu of the 2i with 8 registers that are 8 bit
// wide, the flag register and the two interrupt latches. The cpu has no
// memory of its own; instructions reach memory through the bus passed to
// ExecuteInstruction.
type Cpu struct {
	registers    [8]uint8
	flagRegister alu.Flags

	// The volatile latch is a single-step edge: it selects the branch
	// of the next executed instruction with MAC=01/NA even and is
	// cleared after every instruction, consumed or not. The stored
	// latch is a level: it is held until an instruction with MAC=11
	// and an odd NA executes.
	volatileInterrupt bool
	storedInterrupt   bool
}

// A GuardError reports an instruction that routes the bus into the alu
// while the bus cannot deliver a value.
type GuardError string

func (e GuardError) Error() string {
	return "cpu error: " + string(e)
}

// NewCpu creates a cpu with all registers, flags and latches zeroed.
func NewCpu() *Cpu {
	return &Cpu{}
}

// ExecuteInstruction runs one datapath cycle of inst against bus.
//
// The stages run in a fixed order: read the a input (register or bus),
// read the b input (register or sign-extended constant), calculate,
// write the result back to a register and/or the bus, store the flags if
// requested, select the next instruction address and finally update the
// interrupt latches. Returns the next instruction address (0-31) and the
// flags this cycle produced.
func (c *Cpu) ExecuteInstruction(inst Instruction, bus mem.Bus) (uint8, alu.Flags, error) {
	var a, b uint8

	// Determine alu input a (bus or register)
	if inst.IsAluInputABus() {
		if !inst.IsBusEnabled() {
			return 0, alu.Flags{}, GuardError("cannot read from disabled bus")
		}
		if inst.IsBusWritable() {
			return 0, alu.Flags{}, GuardError("cannot read from bus while it is in write mode")
		}
		value, err := bus.Read(c.registers[inst.RegisterAddressA()])
		if err != nil {
			return 0, alu.Flags{}, err
		}
		a = value
	} else {
		a = c.registers[inst.RegisterAddressA()]
	}

	// Determine alu input b (sign-extended constant or register)
	if inst.IsAluInputBConst() {
		b = inst.ConstantInput()
	} else {
		b = c.registers[inst.RegisterAddressB()]
	}

	result, flags := alu.Calculate(inst.AluFunction(), a, b, c.flagRegister.Carry())

	// Write result to the registers. The a address is reused here, so
	// writing must happen after the a input was read.
	if inst.ShouldWriteRegister() {
		if inst.ShouldWriteRegisterB() {
			c.registers[inst.RegisterAddressB()] = result
		} else {
			c.registers[inst.RegisterAddressA()] = result
		}
	}

	// Write result to the bus
	if inst.IsBusEnabled() && inst.IsBusWritable() {
		if err := bus.Write(c.registers[inst.RegisterAddressA()], result); err != nil {
			return 0, alu.Flags{}, err
		}
	}

	// Branching on the stored carry uses the value from before this
	// cycle, even when the flag register is updated below.
	storedCarry := c.flagRegister.Carry()

	if inst.ShouldStoreFlags() {
		c.flagRegister = flags
	}

	next := c.nextInstructionAddress(inst, flags, storedCarry)

	c.volatileInterrupt = false
	if inst.AddressControl() == 0b11 && inst.NextInstructionAddress()&1 == 1 {
		c.storedInterrupt = false
	}

	return next, flags, nil
}

// nextInstructionAddress selects the next instruction address from NA,
// the address control and the branch sources:
//
//	full | lowest bit of the next address
//	000  | NA (unchanged)
//	001  | NA (unchanged)
//	010  | volatile interrupt latch
//	011  | stored carry (flag register)
//	100  | carry of this cycle
//	101  | zero of this cycle
//	110  | negative of this cycle
//	111  | stored interrupt latch
func (c *Cpu) nextInstructionAddress(inst Instruction, flags alu.Flags, storedCarry bool) uint8 {
	na := inst.NextInstructionAddress()
	base := na & 0b11110

	switch inst.FullAddressControl() {
	case 0b000, 0b001:
		return na
	case 0b010:
		return base | bit(c.volatileInterrupt)
	case 0b011:
		return base | bit(storedCarry)
	case 0b100:
		return base | bit(flags.Carry())
	case 0b101:
		return base | bit(flags.Zero())
	case 0b110:
		return base | bit(flags.Negative())
	case 0b111:
		return base | bit(c.storedInterrupt)
	default:
		panic("Invalid address control")
	}
}

func bit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// TriggerVolatileInterrupt raises the edge interrupt (INTA). It stays
// set for exactly one executed instruction.
func (c *Cpu) TriggerVolatileInterrupt() {
	c.volatileInterrupt = true
}

// TriggerStoredInterrupt raises the level interrupt (INTB). It stays set
// until an instruction with MAC=11 and an odd NA executes.
func (c *Cpu) TriggerStoredInterrupt() {
	c.storedInterrupt = true
}

// VolatileInterrupt reports the state of the volatile latch.
func (c *Cpu) VolatileInterrupt() bool {
	return c.volatileInterrupt
}

// StoredInterrupt reports the state of the stored latch.
func (c *Cpu) StoredInterrupt() bool {
	return c.storedInterrupt
}

// Registers exposes the register file for the inspection ui.
func (c *Cpu) Registers() *[8]uint8 {
	return &c.registers
}

// FlagRegister returns the stored flags.
func (c *Cpu) FlagRegister() alu.Flags {
	return c.flagRegister
}
