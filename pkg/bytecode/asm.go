package bytecode

// Assemble turns assembly lines into the delta stream they encode.
// Unparseable lines are skipped; an unknown mnemonic fails with an
// *AssemblyError.
func Assemble(lines []string) ([]Delta, error) {
	return AssembleInstructions(ParseLines(lines))
}

// AssembleInstructions encodes already parsed instructions. An argument is
// emitted only for opcodes that take one; an explicit argument equal to the
// default is still written out.
func AssembleInstructions(instrs []Instruction) ([]Delta, error) {
	deltas := make([]Delta, 0, len(instrs)*2)
	for _, in := range instrs {
		op, ok := LookupName(in.Mnemonic)
		if !ok {
			return nil, &AssemblyError{Mnemonic: in.Mnemonic, Line: in.Line}
		}

		deltas = append(deltas, GetOpcodeInfo(op).Key.Delta())
		if op.TakesArg() && in.HasArg {
			deltas = append(deltas, EncodeNumber(in.Arg)...)
		}
	}
	return deltas, nil
}
