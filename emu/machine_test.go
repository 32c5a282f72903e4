package emu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/klemens/2i-emulator/cpu"
	"github.com/klemens/2i-emulator/mem"
	"github.com/klemens/2i-emulator/parse"
)

// multiplicationSource multiplies the input registers FC and FD and
// writes the result to the output register FE.
const multiplicationSource = `
# in: R0 = FC
       00,00001 00 000|1100 01 01,1100 0
#     R0 = (R0)
       00,00010 01 000|0000 01 10,0001 0
#     R1 = FD
       00,00011 00 001|1101 01 01,1100 0
#     R1 = (R1)
       00,00100 01 001|0000 01 10,0001 0
#     R2 = 0
       00,00101 00 010|0000 01 00,0011 0
# tst: TEST R0, branch on zero
       10,00111 00 000|0000 00 00,0001 0
#     R0 = R0 + FF, JP add
       00,01000 00 000|1111 01 01,0100 0
#     R1 = FE, JP out
       00,01001 00 001|1110 01 01,1100 0
# add: R2 = R2 + R1, JP tst
       00,00101 00 010|0001 01 00,0100 0
# out: (R1) = R2, JP in
       00,00000 11 001|0010 00 00,1100 0
`

func loadProgram(t *testing.T, source string) *cpu.Program {
	t.Helper()
	program, err := parse.ReadProgram(strings.NewReader(source))
	assert.NoError(t, err)
	return &program
}

func TestMachineMultiplication(t *testing.T) {
	program := loadProgram(t, multiplicationSource)

	mult := func(a, b uint8, steps int) uint8 {
		io := mem.NewIoRegisters()
		io.Input()[0] = a
		io.Input()[1] = b
		machine := NewMachine(io)

		for i := 0; i < steps; i++ {
			_, err := machine.Step(program)
			assert.NoError(t, err)
		}

		return io.Output()[0]
	}

	assert.Equal(t, uint8(0), mult(0, 0, 8))
	assert.Equal(t, uint8(1), mult(1, 1, 11))
	assert.Equal(t, uint8(21), mult(3, 7, 17))
	assert.Equal(t, uint8(242), mult(22, 11, 74))
	assert.Equal(t, uint8(8), mult(22, 12, 74))
	assert.Equal(t, uint8(196), mult(142, 142, 434))
}

func TestMachineStepAdvancesPointer(t *testing.T) {
	program := loadProgram(t, multiplicationSource)
	machine := NewMachine(mem.NewIoRegisters())

	assert.Equal(t, uint8(0), machine.InstructionPointer())
	flags, err := machine.Step(program)
	assert.NoError(t, err)
	assert.Equal(t, uint8(1), machine.InstructionPointer())

	// R0 = FC, a negative constant
	assert.Equal(t, uint8(0xFC), machine.Cpu().Registers()[0])
	assert.True(t, flags.Negative())
}

func TestMachineStepError(t *testing.T) {
	// reading the bus while it is disabled must not advance the machine
	source := "00,00001 00 000|0000 00 10,0001 0\n"
	program := loadProgram(t, source)
	machine := NewMachine(mem.NewIoRegisters())

	_, err := machine.Step(program)
	assert.Error(t, err)
	assert.Equal(t, uint8(0), machine.InstructionPointer())
}

func TestMachineRamAndIoRouting(t *testing.T) {
	// write 3 into the plain ram at 0x00 and to the output at 0xFE
	source := `
# R1 = 3
       00,00001 00 001|0011 01 01,1100 0
# (R0) = R1  (R0 is 0, plain ram)
       00,00010 11 000|0001 00 00,1100 0
# R0 = FE
       00,00011 00 000|1110 01 01,1100 0
# (R0) = R1
       00,00000 11 000|0001 00 00,1100 0
`
	program := loadProgram(t, source)
	io := mem.NewIoRegisters()
	machine := NewMachine(io)

	for i := 0; i < 4; i++ {
		_, err := machine.Step(program)
		assert.NoError(t, err)
	}

	assert.Equal(t, uint8(3), machine.Ram().Inspect()[0])
	assert.Equal(t, uint8(3), io.Output()[0])
}

func TestMachineReset(t *testing.T) {
	program := loadProgram(t, multiplicationSource)
	io := mem.NewIoRegisters()
	io.Input()[0] = 2
	io.Input()[1] = 3
	machine := NewMachine(io)

	for i := 0; i < 5; i++ {
		_, err := machine.Step(program)
		assert.NoError(t, err)
	}
	assert.NotEqual(t, uint8(0), machine.Cpu().Registers()[0])

	machine.Reset()

	// cpu and ram are fresh, the io registers survive
	assert.Equal(t, uint8(0), machine.InstructionPointer())
	assert.Equal(t, [8]uint8{}, *machine.Cpu().Registers())
	assert.Equal(t, uint8(2), io.Input()[0])
	assert.Same(t, io, machine.Io())

	// the io overlay is wired up again after the reset
	value, err := machine.Ram().Read(0xFC)
	assert.NoError(t, err)
	assert.Equal(t, uint8(2), value)
}
