package bytecode

import "fmt"

// Opcode identifies one instruction of the Fython stack machine.
// Opcodes are grouped by the index delta of their key.
type Opcode byte

const (
	// OpUnknown marks a mnemonic that is not in the table. It is never
	// produced from a delta, only by resolving text.
	OpUnknown Opcode = 0x00

	// ========================================================================
	// I/O and control (index delta -1)
	// ========================================================================

	OpPrint Opcode = 0x10 // Pop and write up to k values: print <k>
	OpRead  Opcode = 0x11 // Read k values and push them: read <k>
	OpCopy  Opcode = 0x12 // Replace top with k copies of it: copy <k>
	OpJmpz  Opcode = 0x13 // Jump by k if zero flag set: jmpz <k>
	OpJmpnz Opcode = 0x14 // Jump by k if zero flag clear: jmpnz <k>
	OpPlace Opcode = 0x15 // Move top down into the stack: place <k>
	OpPick  Opcode = 0x16 // Move an element up to the top: pick <k>

	// ========================================================================
	// Stack and arithmetic (index delta +1)
	// ========================================================================

	OpPush Opcode = 0x20 // Push k: push <k>
	OpPop  Opcode = 0x21 // Remove k values: pop <k>
	OpAdd  Opcode = 0x22 // Pop two, push below + top
	OpSub  Opcode = 0x23 // Pop two, push below - top
	OpMul  Opcode = 0x24 // Pop two, push below * top
	OpDiv  Opcode = 0x25 // Pop two, push floor(below / top)
	OpMod  Opcode = 0x26 // Pop two, push below mod top (floored)
	OpPow  Opcode = 0x27 // Pop two, push below ** top
	OpAbs  Opcode = 0x28 // Pop one, push its absolute value
)

// Index delta families.
const (
	IndexControl = -1
	IndexNumber  = 0
	IndexStack   = 1
)

// Key is the (index delta, weight residue) pair that selects an opcode.
type Key struct {
	Index  int
	Weight int
}

func (k Key) String() string {
	return fmt.Sprintf("(%d, %d)", k.Index, k.Weight)
}

// Delta returns the canonical delta that encodes this key.
func (k Key) Delta() Delta {
	return Delta{Index: k.Index, Weight: k.Weight}
}

// OpcodeInfo provides metadata about each opcode.
type OpcodeInfo struct {
	Name       string // Mnemonic, as written in assembly
	Key        Key    // Delta key selecting the opcode
	TakesArg   bool   // Whether a number run follows the opcode delta
	DefaultArg int64  // Argument used when the number run is empty
	Doc        string // One-line description
}

// opcodeInfoTable maps opcodes to their metadata.
var opcodeInfoTable = map[Opcode]OpcodeInfo{
	// I/O and control
	OpPrint: {"print", Key{-1, 1}, true, 1, "pop and write up to k values, top first"},
	OpRead:  {"read", Key{-1, -1}, true, 1, "read k values and push them"},
	OpCopy:  {"copy", Key{-1, 2}, true, 2, "pop the top and push k copies of it"},
	OpJmpz:  {"jmpz", Key{-1, 3}, true, 1, "jump k instructions if the zero flag is set"},
	OpJmpnz: {"jmpnz", Key{-1, -3}, true, 1, "jump k instructions if the zero flag is clear"},
	OpPlace: {"place", Key{-1, 4}, true, 1, "pop the top and insert it k positions down"},
	OpPick:  {"pick", Key{-1, -4}, true, 1, "move the element k positions down to the top"},

	// Stack and arithmetic
	OpPush: {"push", Key{1, 1}, true, 0, "push k"},
	OpPop:  {"pop", Key{1, -1}, true, 1, "remove the top k values"},
	OpAdd:  {"add", Key{1, 2}, false, 0, "pop two, push their sum"},
	OpSub:  {"sub", Key{1, -2}, false, 0, "pop two, push below minus top"},
	OpMul:  {"mul", Key{1, 3}, false, 0, "pop two, push their product"},
	OpDiv:  {"div", Key{1, -3}, false, 0, "pop two, push below divided by top (floored)"},
	OpMod:  {"mod", Key{1, 4}, false, 0, "pop two, push below modulo top (floored)"},
	OpPow:  {"pow", Key{1, -4}, false, 0, "pop two, push below raised to top"},
	OpAbs:  {"abs", Key{1, 5}, false, 0, "pop one, push its absolute value"},
}

// Inverse indexes, built once from opcodeInfoTable.
var (
	opcodeByKey  = make(map[Key]Opcode, len(opcodeInfoTable))
	opcodeByName = make(map[string]Opcode, len(opcodeInfoTable))
)

func init() {
	for op, info := range opcodeInfoTable {
		if prev, dup := opcodeByKey[info.Key]; dup {
			panic(fmt.Sprintf("bytecode: %s and %s share key %s", prev, op, info.Key))
		}
		opcodeByKey[info.Key] = op
		opcodeByName[info.Name] = op
	}
}

// GetOpcodeInfo returns metadata for an opcode.
// Returns a zero OpcodeInfo with name "UNKNOWN" if the opcode is not recognized.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if info, ok := opcodeInfoTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(0x%02X)", byte(op))}
}

// String returns the mnemonic of an opcode.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// TakesArg reports whether the opcode is followed by a number.
func (op Opcode) TakesArg() bool {
	return GetOpcodeInfo(op).TakesArg
}

// DefaultArg returns the argument implied when none is given.
func (op Opcode) DefaultArg() int64 {
	return GetOpcodeInfo(op).DefaultArg
}

// IsJump returns true if this opcode is a conditional jump.
func (op Opcode) IsJump() bool {
	return op == OpJmpz || op == OpJmpnz
}

// Residue reduces a weight delta to its opcode class: the last decimal digit
// with the sign of w. Go's remainder already truncates toward zero, which is
// exactly sign(w) * (|w| mod 10).
func Residue(w int) int {
	return w % 10
}

// LookupKey returns the opcode selected by a delta, after reducing its
// weight with Residue.
func LookupKey(d Delta) (Opcode, bool) {
	op, ok := opcodeByKey[Key{Index: d.Index, Weight: Residue(d.Weight)}]
	return op, ok
}

// LookupName returns the opcode for a mnemonic.
func LookupName(name string) (Opcode, bool) {
	op, ok := opcodeByName[name]
	return op, ok
}

// AllOpcodes returns a slice of all defined opcodes, in opcode order.
func AllOpcodes() []Opcode {
	opcodes := make([]Opcode, 0, len(opcodeInfoTable))
	for op := OpPrint; op <= OpAbs; op++ {
		if _, ok := opcodeInfoTable[op]; ok {
			opcodes = append(opcodes, op)
		}
	}
	return opcodes
}

// OpcodeCount returns the number of defined opcodes.
func OpcodeCount() int {
	return len(opcodeInfoTable)
}
