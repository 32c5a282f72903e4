package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRamReadWrite(t *testing.T) {
	ram := NewRam()

	v, err := ram.Read(0)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), v)

	assert.NoError(t, ram.Write(0x42, 23))
	v, err = ram.Read(0x42)
	assert.NoError(t, err)
	assert.Equal(t, uint8(23), v)

	// full address range, no wrapping
	assert.NoError(t, ram.Write(0xFF, 1))
	v, err = ram.Read(0xFF)
	assert.NoError(t, err)
	assert.Equal(t, uint8(1), v)
	v, err = ram.Read(0x00)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), v)
}

func TestRamOverlay(t *testing.T) {
	base := NewRam()
	overlay := NewRam()
	overlay.AddOverlay(2, 3, base)

	// writes inside the overlay range land in base
	assert.NoError(t, base.Write(2, 44))
	v, err := base.Read(2)
	assert.NoError(t, err)
	assert.Equal(t, uint8(44), v)
	v, err = overlay.Read(2)
	assert.NoError(t, err)
	assert.Equal(t, uint8(44), v)

	assert.NoError(t, overlay.Write(3, 99))
	v, err = base.Read(3)
	assert.NoError(t, err)
	assert.Equal(t, uint8(99), v)

	// outside the range the two rams are independent
	assert.NoError(t, base.Write(0, 42))
	v, err = base.Read(0)
	assert.NoError(t, err)
	assert.Equal(t, uint8(42), v)
	v, err = overlay.Read(0)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), v)
}

func TestRamOverlayOrder(t *testing.T) {
	// the first overlay added wins where ranges intersect
	first := NewIoRegisters()
	second := NewIoRegisters()
	first.Input()[0] = 11
	second.Input()[0] = 22

	ram := NewRam()
	ram.AddOverlay(0xFC, 0xFF, first)
	ram.AddOverlay(0xFC, 0xFD, second)

	v, err := ram.Read(0xFC)
	assert.NoError(t, err)
	assert.Equal(t, uint8(11), v)
}

func TestIoRegisters(t *testing.T) {
	io := NewIoRegisters()
	io.Input()[0] = 0xAB
	io.Input()[3] = 0xCD

	v, err := io.Read(0xFC)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xAB), v)
	v, err = io.Read(0xFF)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xCD), v)

	// reads below the io range fail
	_, err = io.Read(0xFB)
	var busErr *BusError
	assert.ErrorAs(t, err, &busErr)

	// output registers are write-only: reading 0xFE/0xFF yields the
	// input registers, not the previously written outputs
	assert.NoError(t, io.Write(0xFE, 7))
	assert.NoError(t, io.Write(0xFF, 8))
	assert.Equal(t, [2]uint8{7, 8}, *io.Output())
	v, err = io.Read(0xFE)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), v)

	// input registers cannot be written
	assert.Error(t, io.Write(0xFC, 1))
	assert.Error(t, io.Write(0xFD, 1))
	assert.Error(t, io.Write(0x10, 1))
	assert.Equal(t, [4]uint8{0xAB, 0, 0, 0xCD}, *io.Input())
}

func TestRamInspectBypassesOverlays(t *testing.T) {
	io := NewIoRegisters()
	io.Input()[0] = 9

	ram := NewRam()
	ram.AddOverlay(0xFC, 0xFF, io)

	ram.Inspect()[0xFC] = 5
	v, err := ram.Read(0xFC)
	assert.NoError(t, err)
	assert.Equal(t, uint8(9), v, "bus reads keep going through the overlay")
	assert.Equal(t, uint8(5), ram.Inspect()[0xFC])
}
