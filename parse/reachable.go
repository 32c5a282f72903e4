package parse

import (
	"io"

	"github.com/klemens/2i-emulator/cpu"
)

// An Entry pairs a reachable instruction with its address.
type Entry struct {
	Address     uint8
	Instruction cpu.Instruction
}

// slot states of the reachability fixed point. Every slot moves from
// empty to visited or present at most once, so the loop terminates.
type slotState int

const (
	slotEmpty slotState = iota
	slotVisited
	slotPresent
)

// ReadReachableProgram parses a microprogram and returns only the
// instructions reachable from address 0, in ascending address order.
// Reachable but empty slots yield the zero instruction.
func ReadReachableProgram(r io.Reader) ([]Entry, error) {
	program, used, err := readSlots(r)
	if err != nil {
		return nil, err
	}
	return reachable(program, used)
}

// reachable walks the branch relation from address 0. An instruction
// with MAC=00 has exactly one successor; all other address controls can
// select either low bit of the base address.
func reachable(program cpu.Program, used [32]bool) ([]Entry, error) {
	var states [32]slotState

	if !used[0] {
		return nil, ParseError("no instruction reachable (address 0 is empty)")
	}
	states[0] = slotPresent

	for changed := true; changed; {
		changed = false
		for i, state := range states {
			if state != slotPresent {
				continue
			}
			for _, successor := range successors(program[i]) {
				if states[successor] != slotEmpty {
					continue
				}
				if used[successor] {
					states[successor] = slotPresent
				} else {
					states[successor] = slotVisited
				}
				changed = true
			}
		}
	}

	var entries []Entry
	for i, state := range states {
		if state != slotEmpty {
			entries = append(entries, Entry{
				Address:     uint8(i),
				Instruction: program[i],
			})
		}
	}
	return entries, nil
}

func successors(inst cpu.Instruction) []uint8 {
	na := inst.NextInstructionAddress()
	if inst.AddressControl() == 0 {
		return []uint8{na}
	}
	return []uint8{na &^ 1, na | 1}
}
