package mem

// IoRegisters is the io port block of the 2i: four read-only input
// registers at 0xFC-0xFF and two write-only output registers at
// 0xFE-0xFF. Reading 0xFE or 0xFF through the bus yields the *input*
// register at that address, never the output register.
type IoRegisters struct {
	input  [4]uint8
	output [2]uint8
}

// NewIoRegisters creates io registers with all ports zeroed.
func NewIoRegisters() *IoRegisters {
	return &IoRegisters{}
}

// Read returns the input register at address (0xFC-0xFF).
func (io *IoRegisters) Read(address uint8) (uint8, error) {
	if address >= 0xFC {
		return io.input[address-0xFC], nil
	}
	return 0, &BusError{Address: address, Msg: "only supports reading from input registers"}
}

// Write stores value in the output register at address (0xFE-0xFF).
func (io *IoRegisters) Write(address uint8, value uint8) error {
	if address >= 0xFE {
		io.output[address-0xFE] = value
		return nil
	}
	if address >= 0xFC {
		return &BusError{Address: address, Msg: "cannot write to input register"}
	}
	return &BusError{Address: address, Msg: "only supports writing to output registers"}
}

// Input exposes the input registers so the ui can set them.
func (io *IoRegisters) Input() *[4]uint8 {
	return &io.input
}

// Output exposes the output registers so the ui can display them.
func (io *IoRegisters) Output() *[2]uint8 {
	return &io.output
}
