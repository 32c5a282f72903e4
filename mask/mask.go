// Package mask provides operations to extract ranges of bits from a
// microcode word.
//
// All bit positions are 0-indexed from the least significant bit, and
// ranges must be inclusive. This matches the numbering used in the
// microinstruction field tables (bit 0 = MCHFLG).

package mask

// A bitIndex provides a little documentation value when indexing into a
// word. The microcode word is 25 bits wide (positions 0-24), but the
// helpers accept any position of the uint32, 0-31.
type bitIndex = uint

func checkBitRange(start bitIndex, end bitIndex) {
	if start > end {
		panic("Invalid range provided -- start must <= end.")
	}
	if end > 31 {
		panic("Invalid bit index provided -- must fall in the range [0,31].")
	}
}

// IsSet reports whether the bit at pos is 1.
func IsSet(w uint32, pos bitIndex) bool {
	checkBitRange(pos, pos)
	return w&(1<<pos) != 0
}

// Range extracts the inclusive range of bits [start:end] from w, shifted
// down so the bit at start becomes bit 0 of the result.
func Range(w uint32, start bitIndex, end bitIndex) uint32 {
	checkBitRange(start, end)
	// 0b1101_1000, 3, 4
	//      ^^ --> 0b11
	return (w >> start) & ((1 << (end - start + 1)) - 1)
}

// Bit returns the bit at pos as 0 or 1.
func Bit(w uint32, pos bitIndex) uint32 {
	return Range(w, pos, pos)
}
