package bytecode

import (
	"errors"
	"fmt"
)

// AssemblyError reports a mnemonic that is not in the opcode table, found
// either while assembling or when the executor reaches it.
type AssemblyError struct {
	Mnemonic string
	Line     int // 1-based source line, 0 when unknown
}

func (e *AssemblyError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: unknown instruction %q", e.Line, e.Mnemonic)
	}
	return fmt.Sprintf("unknown instruction %q", e.Mnemonic)
}

// DivisionByZeroError reports div or mod by zero, or zero raised to a
// negative power.
type DivisionByZeroError struct {
	Op  Opcode
	Msg string
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

// IsAssemblyError checks if an error is an unknown-mnemonic error and
// returns the mnemonic.
func IsAssemblyError(err error) (string, bool) {
	var ae *AssemblyError
	if errors.As(err, &ae) {
		return ae.Mnemonic, true
	}
	return "", false
}

// IsDivisionByZero checks if an error is a division by zero.
func IsDivisionByZero(err error) bool {
	var de *DivisionByZeroError
	return errors.As(err, &de)
}

// StepLimitError reports a run cut short by VM.MaxSteps.
type StepLimitError struct {
	Limit int
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("step limit of %d instructions reached", e.Limit)
}
