// Package mem implements the 8 bit bus of the Minirechner 2i.
//
// A Bus connects the cpu to the 'hardware' components of the machine. It
// has an 8 bit address space of 256 cells that are 8 bit wide. The main
// memory is a Ram, which can delegate address ranges to other buses
// (usually the io registers at 0xFC-0xFF).

package mem

import "fmt"

// Bus is the interface the cpu reads and writes through. Addresses are
// full 8 bit values and never wrap.
type Bus interface {
	Read(address uint8) (uint8, error)
	Write(address uint8, value uint8) error
}

// A BusError reports an access the addressed bus cannot serve, eg a
// write to a read-only input register.
type BusError struct {
	Address uint8
	Msg     string
}

func (e *BusError) Error() string {
	return fmt.Sprintf("bus error at address %02X: %s", e.Address, e.Msg)
}
