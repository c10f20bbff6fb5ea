// Package bytecode implements the Fython delta machine: the opcode table,
// the number codec, the delta disassembler and assembler, the assembly
// parser and the stack-machine executor.
//
// A Fython program is a sequence of deltas, each the change in indentation
// depth and line weight between two significant source lines. The index
// delta selects an instruction family and the weight delta, reduced to its
// last decimal digit, selects the instruction:
//
//	index -1   I/O and control   print read copy jmpz jmpnz place pick
//	index +1   stack and math    push pop add sub mul div mod pow abs
//	index  0   number digits, or comments outside a number run
//
// # Numbers
//
// An argument is the run of index-0 deltas following its opcode, one decimal
// digit per delta, most significant first. A negative weight d stands for
// digit 10+d. A leading 0 digit marks a negative number; a lone 0 is zero.
// An empty run means the opcode's default argument.
//
//	push 1234    (1,1) (0,1) (0,2) (0,3) (0,4)
//	push -1234   (1,1) (0,0) (0,1) (0,2) (0,3) (0,4)
//	push 9876    (1,1) (0,-1) (0,-2) (0,-3) (0,-4)
//	push 0       (1,1) (0,0)
//
// # Comments
//
// An index-0 delta that does not follow an opcode taking an argument starts
// a comment. A positive weight n hides the next n deltas; a negative weight
// hides everything up to and including the next index-0 delta with a
// negative weight.
//
// # Execution
//
// The VM has one stack of arbitrary-precision integers (*big.Int) and a
// zero flag, initially set.
// Instructions that find too few values on the stack substitute fixed
// defaults instead of failing; the only runtime errors are division by zero
// (*DivisionByZeroError) and reaching an unknown mnemonic (*AssemblyError).
package bytecode
