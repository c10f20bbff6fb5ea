// Package bytecode benchmarks
//
// These benchmarks measure the performance of:
// - Assembly and disassembly
// - Number encoding
// - VM execution (arithmetic, loops)
//
// Run: go test -bench=. ./pkg/bytecode/...
// Run with memory stats: go test -bench=. -benchmem ./pkg/bytecode/...
package bytecode

import (
	"math/big"
	"testing"
)

// ============================================================
// Translation Benchmarks
// ============================================================

func BenchmarkAssemble(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Assemble(fibonacci); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDisassemble(b *testing.B) {
	deltas, err := Assemble(fibonacci)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Disassemble(deltas)
	}
}

func BenchmarkEncodeDecodeNumber(b *testing.B) {
	for i := 0; i < b.N; i++ {
		run := EncodeNumber(big.NewInt(int64(i) - 1<<20))
		DecodeNumber(run, 0)
	}
}

// ============================================================
// Execution Benchmarks
// ============================================================

func BenchmarkExecuteArithmetic(b *testing.B) {
	program := ParseLines([]string{"push 6", "push 7", "mul", "push 2", "div", "push 5", "mod", "abs"})
	vm := NewVM(nil, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := vm.Execute(program); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkExecuteFibonacci(b *testing.B) {
	program := ParseLines(fibonacci)
	vm := NewVM(&constReader{v: 90}, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := vm.Execute(program); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkExecuteCountdown(b *testing.B) {
	program := ParseLines([]string{"push 10000", "push 1", "sub", "copy 1", "jmpnz -3"})
	vm := NewVM(nil, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := vm.Execute(program); err != nil {
			b.Fatal(err)
		}
	}
}
