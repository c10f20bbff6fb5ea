package bytecode

import (
	"math/big"
	"regexp"
	"strings"
)

// Instruction is one parsed line of assembly. The mnemonic is kept as text
// so that unknown mnemonics surface only when they are assembled or run.
type Instruction struct {
	Mnemonic string
	Arg      *big.Int // nil unless HasArg
	HasArg   bool
	Line     int // 1-based line in the source text, 0 when decoded
	Offset   int // Index of the opcode delta, when decoded from deltas
}

// String formats the instruction the way the disassembler writes it.
func (in Instruction) String() string {
	if in.HasArg {
		return in.Mnemonic + " " + in.Arg.String()
	}
	return in.Mnemonic
}

// CommentMarkers lists every comment introducer the parser understands.
var CommentMarkers = []string{";", "//", "#", "%", "!"}

var instructionPattern = regexp.MustCompile(`^([a-z]+)\s*([+-]?[0-9]+)?$`)

// StripComment removes the first comment in line and any surrounding
// whitespace.
func StripComment(line string) string {
	cut := len(line)
	for _, marker := range CommentMarkers {
		if i := strings.Index(line, marker); i >= 0 && i < cut {
			cut = i
		}
	}
	return strings.TrimSpace(line[:cut])
}

// ParseLine parses a single line. It returns false for blank lines,
// comment-only lines and lines that do not look like an instruction.
func ParseLine(line string) (Instruction, bool) {
	text := StripComment(line)
	if text == "" {
		return Instruction{}, false
	}

	m := instructionPattern.FindStringSubmatch(text)
	if m == nil {
		return Instruction{}, false
	}

	in := Instruction{Mnemonic: m[1]}
	if m[2] != "" {
		arg, ok := new(big.Int).SetString(m[2], 10)
		if !ok {
			return Instruction{}, false
		}
		in.Arg = arg
		in.HasArg = true
	}
	return in, true
}

// ParseLines parses assembly lines into instructions, skipping anything
// ParseLine rejects. Arguments are never defaulted here.
func ParseLines(lines []string) []Instruction {
	instrs := make([]Instruction, 0, len(lines))
	for i, line := range lines {
		in, ok := ParseLine(line)
		if !ok {
			continue
		}
		in.Line = i + 1
		instrs = append(instrs, in)
	}
	return instrs
}

// SplitLines splits text into lines, accepting both \n and \r\n endings.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
