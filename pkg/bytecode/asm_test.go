package bytecode

import (
	"reflect"
	"testing"
)

// fibonacci reads n and prints the first n Fibonacci numbers.
var fibonacci = []string{
	"read 1", "push 1", "add", "push 0", "push 1", "pick -1", "push 1", "sub", "copy 3", "abs",
	"add", "pop 1", "jmpz 7", "place -1", "copy 3", "print 1", "pick -2", "add", "jmpnz -13",
}

func TestAssembleArguments(t *testing.T) {
	lines := []string{"print 2", "read 2", "copy 2", "jmpz 2", "jmpnz 2", "place 2", "pick 2", "push 2", "pop 2"}
	want := []Delta{
		{-1, 1}, {0, 2}, {-1, -1}, {0, 2}, {-1, 2}, {0, 2}, {-1, 3}, {0, 2}, {-1, -3}, {0, 2},
		{-1, 4}, {0, 2}, {-1, -4}, {0, 2}, {1, 1}, {0, 2}, {1, -1}, {0, 2},
	}

	got, err := Assemble(lines)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Assemble = %v, want %v", got, want)
	}
}

func TestAssembleNoArguments(t *testing.T) {
	lines := []string{"add", "sub", "mul", "div", "mod", "pow", "abs"}
	want := []Delta{{1, 2}, {1, -2}, {1, 3}, {1, -3}, {1, 4}, {1, -4}, {1, 5}}

	got, err := Assemble(lines)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Assemble = %v, want %v", got, want)
	}
}

func TestAssembleIgnoresArgumentOnPlainOpcode(t *testing.T) {
	got, err := Assemble([]string{"add 5", "push -3"})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	want := []Delta{{1, 2}, {1, 1}, {0, 0}, {0, 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Assemble = %v, want %v", got, want)
	}
}

func TestAssembleOmittedArgument(t *testing.T) {
	got, err := Assemble([]string{"print", "push"})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	want := []Delta{{-1, 1}, {1, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Assemble = %v, want %v", got, want)
	}

	// The omitted argument comes back as the default.
	if back := Disassemble(got); !reflect.DeepEqual(back, []string{"print 1", "push 0"}) {
		t.Errorf("Disassemble = %v", back)
	}
}

func TestAssembleUnknownInstruction(t *testing.T) {
	_, err := Assemble([]string{"push 1", "", "lol 12"})
	if err == nil {
		t.Fatal("Expected an error for an unknown instruction")
	}
	mnemonic, ok := IsAssemblyError(err)
	if !ok {
		t.Fatalf("Expected *AssemblyError, got %T: %v", err, err)
	}
	if mnemonic != "lol" {
		t.Errorf("mnemonic = %q, want lol", mnemonic)
	}
	if ae := err.(*AssemblyError); ae.Line != 3 {
		t.Errorf("line = %d, want 3", ae.Line)
	}
}

func TestAssemblyRoundTrip(t *testing.T) {
	deltas, err := Assemble(fibonacci)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if got := Disassemble(deltas); !reflect.DeepEqual(got, fibonacci) {
		t.Errorf("Disassemble(Assemble(fibonacci)) = %v", got)
	}
}

func TestDeltaRoundTrip(t *testing.T) {
	streams := [][]Delta{
		{{1, 1}, {0, 4}, {1, 1}, {0, 0}, {0, 1}, {0, 2}, {1, 2}},
		{{-1, -1}, {0, 1}, {-1, 1}, {0, 3}, {1, -1}, {0, 1}, {0, 0}},
		{{1, 5}, {1, -4}, {-1, 3}, {0, 0}, {0, 7}, {-1, -3}, {0, 2}},
	}

	for _, deltas := range streams {
		got, err := Assemble(Disassemble(deltas))
		if err != nil {
			t.Fatalf("Assemble failed: %v", err)
		}
		if !reflect.DeepEqual(got, deltas) {
			t.Errorf("Assemble(Disassemble(%v)) = %v", deltas, got)
		}
	}
}
