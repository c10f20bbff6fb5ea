package bytecode

import (
	"fmt"
	"strings"
)

// Decode walks a delta stream and returns the instructions it encodes.
// Each instruction's Offset holds the index of its opcode delta. Comment
// regions and deltas that select no opcode are skipped, so Decode never
// fails.
func Decode(deltas []Delta) []Instruction {
	var instrs []Instruction
	offset := 0
	for offset < len(deltas) {
		in, n, ok := decodeInstruction(deltas, offset)
		if ok {
			instrs = append(instrs, in)
		}
		offset += n
	}
	return instrs
}

// Disassemble returns one assembly line per instruction in the delta stream.
func Disassemble(deltas []Delta) []string {
	instrs := Decode(deltas)
	lines := make([]string, len(instrs))
	for i, in := range instrs {
		lines[i] = in.String()
	}
	return lines
}

// DisassembleWithName returns an annotated listing: a comment header, then
// every instruction with the delta offset it was decoded from. The listing
// is itself valid assembly.
func DisassembleWithName(name string, deltas []Delta) string {
	var sb strings.Builder

	if name != "" {
		sb.WriteString(fmt.Sprintf("; === %s ===\n", name))
	}
	instrs := Decode(deltas)
	sb.WriteString(fmt.Sprintf("; Fython assembly: %d deltas, %d instructions\n", len(deltas), len(instrs)))
	sb.WriteString("\n")

	for _, in := range instrs {
		d := deltas[in.Offset]
		sb.WriteString(fmt.Sprintf("%-16s ; %04d %s\n", in.String(), in.Offset, d))
	}

	return sb.String()
}

// decodeInstruction decodes the delta at offset. It returns the instruction,
// how many deltas it spans, and false when the deltas were skipped.
func decodeInstruction(deltas []Delta, offset int) (Instruction, int, bool) {
	d := deltas[offset]

	if op, ok := LookupKey(d); ok {
		in := Instruction{Mnemonic: op.String(), Offset: offset}
		if !op.TakesArg() {
			return in, 1, true
		}
		arg, consumed, _ := DecodeNumber(deltas[offset+1:], op.DefaultArg())
		in.Arg = arg
		in.HasArg = true
		return in, 1 + consumed, true
	}

	if d.Index == IndexNumber {
		return Instruction{}, commentLen(deltas, offset), false
	}

	// Unknown opcode: skip it.
	return Instruction{}, 1, false
}

// commentLen returns how many deltas the comment starting at offset covers.
//
//   - (0, n) with n > 0 is an inline comment: the marker and the next n deltas.
//   - (0, n) with n < 0 opens a block comment closed by the next (0, m) with
//     m < 0; an unclosed block runs to the end of the stream.
//   - (0, 0) only appears here outside any number run; it covers itself.
func commentLen(deltas []Delta, offset int) int {
	w := deltas[offset].Weight
	switch {
	case w > 0:
		if w < len(deltas)-offset {
			return 1 + w
		}
		return len(deltas) - offset
	case w < 0:
		for i := offset + 1; i < len(deltas); i++ {
			if deltas[i].Index == IndexNumber && deltas[i].Weight < 0 {
				return i + 1 - offset
			}
		}
		return len(deltas) - offset
	default:
		return 1
	}
}
