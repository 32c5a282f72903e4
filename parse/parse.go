// Package parse reads 2i microprograms.
//
// A microprogram is a text file with one instruction per line. Lines
// starting after a '#' are comments, and any char other than '0' and '1'
// inside an instruction is ignored, so the word can be grouped freely:
//
//	# Read value from FC into register 0
//
//	       00,00001 00 000|1100 01 01,1100 0
//	00001: 00,00000 01 000|0000 01 10,0001 0
//
// Instructions can optionally be given an explicit address by prefixing
// the line with the 5 bit binary address and a colon. Instructions
// without an address are saved at the lowest unused address.

package parse

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/klemens/2i-emulator/cpu"
)

// A ParseError reports a malformed microprogram source: bad address
// tokens, address collisions or programs that do not fit the 32 slots.
type ParseError string

func (e ParseError) Error() string {
	return "parse error: " + string(e)
}

// ReadProgram parses a microprogram into its 32 instruction slots.
// Unused slots hold the zero instruction.
func ReadProgram(r io.Reader) (cpu.Program, error) {
	program, _, err := readSlots(r)
	return program, err
}

// readSlots parses the source and additionally reports which slots were
// actually filled, which the reachability analysis needs to tell an
// empty slot from an explicit zero instruction.
func readSlots(r io.Reader) (cpu.Program, [32]bool, error) {
	var program cpu.Program
	var used [32]bool

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		// Everything after a # is a comment
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Check if an explicit address is given
		address := -1
		body := line
		if i := strings.IndexByte(line, ':'); i >= 0 {
			parsed, err := parseAddress(line[:i])
			if err != nil {
				return program, used, err
			}
			address = parsed
			body = line[i+1:]
		}

		// Parse the instruction, ignoring all formatting chars
		var bits strings.Builder
		for _, c := range body {
			if c == '0' || c == '1' {
				bits.WriteByte(byte(c))
			}
		}
		inst, err := cpu.NewInstructionFromString(bits.String())
		if err != nil {
			return program, used, err
		}

		if address < 0 {
			// Find the lowest unused address
			address = len(used)
			for i, u := range used {
				if !u {
					address = i
					break
				}
			}
			if address == len(used) {
				return program, used, ParseError("too many instructions in this program")
			}
		} else if used[address] {
			return program, used, ParseError("two instructions with the same address")
		}

		program[address] = inst
		used[address] = true
	}
	if err := scanner.Err(); err != nil {
		return program, used, fmt.Errorf("reading program: %w", err)
	}

	return program, used, nil
}

// parseAddress parses an explicit address token: exactly 5 chars from
// {0,1}.
func parseAddress(token string) (int, error) {
	token = strings.TrimSpace(token)
	if len(token) != 5 {
		return 0, ParseError("invalid address token: " + token)
	}
	address := 0
	for _, c := range token {
		switch c {
		case '0':
			address = address << 1
		case '1':
			address = address<<1 | 1
		default:
			return 0, ParseError("invalid address token: " + token)
		}
	}
	return address, nil
}
