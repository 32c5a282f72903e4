// Package emu wires the parts of the 2i into a runnable machine and
// provides the interactive terminal ui on top of it.

package emu

import (
	"github.com/klemens/2i-emulator/alu"
	"github.com/klemens/2i-emulator/cpu"
	"github.com/klemens/2i-emulator/mem"
)

// A Machine is one emulator session: the cpu, the ram with the io
// registers mounted at 0xFC-0xFF and the instruction pointer. The io
// registers are shared with the surrounding ui, which sets the input
// ports and reads the output ports.
type Machine struct {
	cpu *cpu.Cpu
	ram *mem.Ram
	io  *mem.IoRegisters

	instructionPointer uint8
}

// NewMachine creates a machine around the given io registers.
func NewMachine(io *mem.IoRegisters) *Machine {
	m := &Machine{io: io}
	m.Reset()
	return m
}

// Step executes the instruction at the instruction pointer against the
// machine's ram and advances the pointer. Returns the flags of the
// executed cycle. On an error the instruction pointer is unchanged.
func (m *Machine) Step(program *cpu.Program) (alu.Flags, error) {
	inst := program[m.instructionPointer]
	next, flags, err := m.cpu.ExecuteInstruction(inst, m.ram)
	if err != nil {
		return alu.Flags{}, err
	}
	m.instructionPointer = next
	return flags, nil
}

// Reset discards the cpu and ram but keeps the io registers, matching
// what the hardware does on a program change.
func (m *Machine) Reset() {
	m.cpu = cpu.NewCpu()
	m.ram = mem.NewRam()
	m.ram.AddOverlay(0xFC, 0xFF, m.io)
	m.instructionPointer = 0
}

// Cpu exposes the cpu for inspection and interrupt triggers.
func (m *Machine) Cpu() *cpu.Cpu {
	return m.cpu
}

// Ram exposes the ram for inspection.
func (m *Machine) Ram() *mem.Ram {
	return m.ram
}

// Io returns the io registers shared with the ui.
func (m *Machine) Io() *mem.IoRegisters {
	return m.io
}

// InstructionPointer returns the address of the next instruction.
func (m *Machine) InstructionPointer() uint8 {
	return m.instructionPointer
}
