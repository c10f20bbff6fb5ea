package bytecode

import (
	"fmt"
	"math/big"

	"github.com/tliron/commonlog"
)

var vmLog = commonlog.GetLogger("fython.vm")

// VM executes Fython programs. It owns a value stack and a zero flag for the
// duration of one run; both are reset by Execute.
//
// Stack values are arbitrary-precision integers. A value is never modified
// once pushed, so the same *big.Int may sit in several slots.
type VM struct {
	// Current execution state
	program []Instruction // Instructions being run
	ops     []Opcode      // Resolved opcode per instruction
	ip      int           // Instruction pointer
	stack   []*big.Int    // Value stack, last element is the top
	zero    bool          // Zero flag
	steps   int           // Instructions executed so far

	in  ValueReader
	out ValueWriter

	// Debug/trace mode
	Trace bool

	// MaxSteps stops a run with a StepLimitError once that many
	// instructions have executed. Zero means no limit.
	MaxSteps int
}

// NewVM creates a VM reading program input from in and writing program
// output to out. A nil reader yields 0 on every read; a nil writer discards.
func NewVM(in ValueReader, out ValueWriter) *VM {
	if in == nil {
		in = zeroReader{}
	}
	if out == nil {
		out = discardWriter{}
	}
	return &VM{
		stack: make([]*big.Int, 0, 64),
		zero:  true,
		in:    in,
		out:   out,
	}
}

// Execute runs a program to completion. The run ends when the instruction
// pointer leaves the program, or at the first error.
func (vm *VM) Execute(program []Instruction) error {
	vm.program = program
	vm.ops = make([]Opcode, len(program))
	for i, in := range program {
		if op, ok := LookupName(in.Mnemonic); ok {
			vm.ops[i] = op
		} else {
			vm.ops[i] = OpUnknown
		}
	}

	vm.ip = 0
	vm.stack = vm.stack[:0]
	vm.zero = true
	vm.steps = 0

	return vm.run()
}

// ExecuteAssembly parses assembly lines and runs them.
func (vm *VM) ExecuteAssembly(lines []string) error {
	return vm.Execute(ParseLines(lines))
}

// ExecuteDeltas decodes a delta stream and runs it.
func (vm *VM) ExecuteDeltas(deltas []Delta) error {
	return vm.Execute(Decode(deltas))
}

// Stack returns a copy of the value stack, bottom first. The values are
// shared with the VM and must not be modified.
func (vm *VM) Stack() []*big.Int {
	out := make([]*big.Int, len(vm.stack))
	copy(out, vm.stack)
	return out
}

// ZeroFlag returns the current zero flag.
func (vm *VM) ZeroFlag() bool {
	return vm.zero
}

// Steps returns the number of instructions the last run executed.
func (vm *VM) Steps() int {
	return vm.steps
}

// run is the main execution loop.
func (vm *VM) run() error {
	for vm.ip >= 0 && vm.ip < len(vm.program) {
		in := vm.program[vm.ip]
		op := vm.ops[vm.ip]

		arg := in.Arg
		if !in.HasArg || arg == nil {
			arg = big.NewInt(op.DefaultArg())
		}

		if vm.Trace {
			vmLog.Debugf("[%04d] %-6s %-6d sp=%d zf=%t", vm.ip, in.Mnemonic, arg, len(vm.stack), vm.zero)
		}
		if vm.MaxSteps > 0 && vm.steps >= vm.MaxSteps {
			return &StepLimitError{Limit: vm.MaxSteps}
		}
		vm.steps++

		// Counts, offsets and positions, saturated to a range no stack or
		// program can reach.
		k := clamp(arg)

		switch op {
		// ============ I/O and control ============
		case OpPrint:
			for i := int64(0); i < k; i++ {
				v, ok := vm.pop()
				if !ok {
					break
				}
				vm.setZero(v)
				if err := vm.out.WriteValue(v); err != nil {
					return vm.fault(err)
				}
			}

		case OpRead:
			for i := int64(0); i < k; i++ {
				v, err := vm.in.ReadValue()
				if err != nil {
					return vm.fault(err)
				}
				vm.push(v)
				vm.setZero(v)
			}

		case OpCopy:
			v := vm.popOr(0)
			for i := int64(0); i < k; i++ {
				vm.push(v)
			}
			if k >= 1 {
				vm.setZero(v)
			}

		case OpJmpz:
			if vm.zero {
				vm.jump(k)
				continue
			}

		case OpJmpnz:
			if !vm.zero {
				vm.jump(k)
				continue
			}

		case OpPlace:
			if len(vm.stack) == 0 {
				vm.push(new(big.Int))
				break
			}
			v, _ := vm.pop()
			n := int64(len(vm.stack))
			pos := -k - 1
			if k >= 0 {
				pos = n - k
			}
			vm.insert(insertIndex(pos, n), v)
			vm.setZero(v)

		case OpPick:
			if len(vm.stack) == 0 {
				vm.push(new(big.Int))
				break
			}
			n := int64(len(vm.stack))
			pos := -k - 1
			if k >= 0 {
				pos = n - k - 1
			}
			v := vm.remove(elementIndex(pos, n))
			vm.push(v)
			vm.setZero(v)

		// ============ Stack ============
		case OpPush:
			vm.push(arg)
			vm.setZero(arg)

		case OpPop:
			if k <= 0 {
				break
			}
			n := int64(len(vm.stack))
			if n < k {
				vm.stack = vm.stack[:0]
				vm.zero = true
				break
			}
			vm.setZero(vm.stack[n-k])
			vm.stack = vm.stack[:n-k]

		// ============ Arithmetic ============
		case OpAdd:
			a, b := vm.operands(0, 0)
			vm.pushResult(new(big.Int).Add(b, a))

		case OpSub:
			a, b := vm.operands(0, 0)
			vm.pushResult(new(big.Int).Sub(b, a))

		case OpMul:
			a, b := vm.operands(0, 0)
			vm.pushResult(new(big.Int).Mul(b, a))

		case OpDiv:
			a, b := vm.operands(1, 0)
			if a.Sign() == 0 {
				return &DivisionByZeroError{Op: op, Msg: "integer division by zero"}
			}
			q, _ := floorDivMod(b, a)
			vm.pushResult(q)

		case OpMod:
			a, b := vm.operands(1, 0)
			if a.Sign() == 0 {
				return &DivisionByZeroError{Op: op, Msg: "integer modulo by zero"}
			}
			_, r := floorDivMod(b, a)
			vm.pushResult(r)

		case OpPow:
			a, b := vm.operands(1, 1)
			if a.Sign() < 0 {
				switch b.Cmp(one) {
				case 1:
					vm.pushResult(new(big.Int))
				case 0:
					vm.pushResult(big.NewInt(1))
				default:
					if b.Sign() == 0 {
						return &DivisionByZeroError{Op: op, Msg: "0 cannot be raised to a negative power"}
					}
					vm.pushResult(big.NewInt(-1))
				}
				break
			}
			vm.pushResult(new(big.Int).Exp(b, a, nil))

		case OpAbs:
			v := vm.popOr(0)
			vm.pushResult(new(big.Int).Abs(v))

		default:
			return &AssemblyError{Mnemonic: in.Mnemonic, Line: in.Line}
		}

		vm.ip++
	}

	return nil
}

var one = big.NewInt(1)

// maxCount bounds the counts and offsets the executor works with. Any
// larger magnitude behaves the same, as no stack or program is that long.
const maxCount = 1 << 62

// clamp converts an argument to int64, saturating at ±maxCount.
func clamp(v *big.Int) int64 {
	if !v.IsInt64() {
		if v.Sign() < 0 {
			return -maxCount
		}
		return maxCount
	}
	n := v.Int64()
	switch {
	case n > maxCount:
		return maxCount
	case n < -maxCount:
		return -maxCount
	}
	return n
}

func (vm *VM) push(v *big.Int) {
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() (*big.Int, bool) {
	n := len(vm.stack)
	if n == 0 {
		return nil, false
	}
	v := vm.stack[n-1]
	vm.stack = vm.stack[:n-1]
	return v, true
}

// popOr pops the top, or returns def when the stack is empty.
func (vm *VM) popOr(def int64) *big.Int {
	if v, ok := vm.pop(); ok {
		return v
	}
	return big.NewInt(def)
}

// operands pops the top (a) and the value below it (b), substituting the
// given defaults for missing values in pop order.
func (vm *VM) operands(defTop, defBelow int64) (a, b *big.Int) {
	a = vm.popOr(defTop)
	b = vm.popOr(defBelow)
	return a, b
}

func (vm *VM) pushResult(v *big.Int) {
	vm.push(v)
	vm.setZero(v)
}

func (vm *VM) setZero(v *big.Int) {
	vm.zero = v.Sign() == 0
}

func (vm *VM) insert(i int, v *big.Int) {
	vm.stack = append(vm.stack, nil)
	copy(vm.stack[i+1:], vm.stack[i:])
	vm.stack[i] = v
}

func (vm *VM) remove(i int) *big.Int {
	v := vm.stack[i]
	vm.stack = append(vm.stack[:i], vm.stack[i+1:]...)
	return v
}

// jump moves the instruction pointer by a relative offset. An offset of 0
// is taken as 1 so a jump never targets itself. Landing outside the program
// ends the run.
func (vm *VM) jump(offset int64) {
	if offset == 0 {
		offset = 1
	}
	target := int64(vm.ip) + offset
	switch {
	case target < 0:
		vm.ip = -1
	case target > int64(len(vm.program)):
		vm.ip = len(vm.program)
	default:
		vm.ip = int(target)
	}
}

// fault wraps a collaborator error with the failing instruction.
func (vm *VM) fault(err error) error {
	in := vm.program[vm.ip]
	return fmt.Errorf("instruction %d (%s): %w", vm.ip, in, err)
}

// insertIndex resolves an insertion position in a list of length n:
// negative positions count from the end and the result is clamped to [0, n].
func insertIndex(pos, n int64) int {
	if pos < 0 {
		pos += n
		if pos < 0 {
			pos = 0
		}
	}
	if pos > n {
		pos = n
	}
	return int(pos)
}

// elementIndex resolves an element position in a non-empty list of length
// n: negative positions count from the end and the result is clamped to
// [0, n-1].
func elementIndex(pos, n int64) int {
	if pos < 0 {
		pos += n
		if pos < 0 {
			pos = 0
		}
	}
	if pos > n-1 {
		pos = n - 1
	}
	return int(pos)
}

// floorDivMod divides rounding toward negative infinity. The remainder takes
// the sign of the divisor.
func floorDivMod(a, b *big.Int) (q, r *big.Int) {
	q, r = new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 && (r.Sign() < 0) != (b.Sign() < 0) {
		q.Sub(q, one)
		r.Add(r, b)
	}
	return q, r
}

type zeroReader struct{}

func (zeroReader) ReadValue() (*big.Int, error) { return new(big.Int), nil }

type discardWriter struct{}

func (discardWriter) WriteValue(*big.Int) error { return nil }
