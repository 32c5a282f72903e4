package mem

// An overlay delegates the inclusive address range [first:last] to
// another bus. Overlays are checked in insertion order; the first one
// whose range contains the address wins.
type overlay struct {
	first uint8
	last  uint8
	bus   Bus
}

// Ram is the main memory of the 2i: 256 cells backed by a plain array,
// plus an ordered list of overlays. The Ram does not own the overlay
// buses; the surrounding session usually shares them with its ui.
type Ram struct {
	cells    [256]uint8
	overlays []overlay
}

// NewRam creates a zeroed Ram without any overlays.
func NewRam() *Ram {
	return &Ram{}
}

// AddOverlay mounts bus over the inclusive range [first:last]. Later
// overlays only apply where no earlier one matches.
func (r *Ram) AddOverlay(first, last uint8, bus Bus) {
	r.overlays = append(r.overlays, overlay{first: first, last: last, bus: bus})
}

// Read returns the cell at address, delegating to the first matching
// overlay.
func (r *Ram) Read(address uint8) (uint8, error) {
	for _, o := range r.overlays {
		if address >= o.first && address <= o.last {
			return o.bus.Read(address)
		}
	}
	return r.cells[address], nil
}

// Write stores value at address, delegating to the first matching
// overlay.
func (r *Ram) Write(address uint8, value uint8) error {
	for _, o := range r.overlays {
		if address >= o.first && address <= o.last {
			return o.bus.Write(address, value)
		}
	}
	r.cells[address] = value
	return nil
}

// Inspect exposes the backing store, bypassing all overlays. Used by the
// ui to display and patch the ram directly.
func (r *Ram) Inspect() *[256]uint8 {
	return &r.cells
}
