package bytecode_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/charon25/FythonProgrammingLanguage/pkg/bytecode"
	"github.com/charon25/FythonProgrammingLanguage/pkg/deltafile"
	"github.com/charon25/FythonProgrammingLanguage/pkg/source"
)

// Fython code for: read, push 1, add, print. The first delta, (1, 0), is
// not an opcode and is skipped.
const successor = `while True:
    x= 1
if(a):
    x= 1
    if c :
        d = e + f
    h = f(i, j, k, l)
`

func TestSourceToOutput(t *testing.T) {
	deltas, err := source.Deltas(successor)
	if err != nil {
		t.Fatalf("Deltas: %v", err)
	}

	asm := bytecode.Disassemble(deltas)
	if want := []string{"read 1", "push 1", "add", "print 1"}; !reflect.DeepEqual(asm, want) {
		t.Fatalf("Disassemble = %q, want %q", asm, want)
	}

	var out strings.Builder
	vm := bytecode.NewVM(
		bytecode.NewValueReader(bytecode.FormatChar, strings.NewReader("a")),
		bytecode.NewValueWriter(bytecode.FormatChar, &out),
	)
	if err := vm.ExecuteDeltas(deltas); err != nil {
		t.Fatalf("ExecuteDeltas: %v", err)
	}
	if out.String() != "b" {
		t.Errorf("output = %q, want b", out.String())
	}
}

func TestAssemblyThroughDeltaFormats(t *testing.T) {
	lines := []string{
		"read 1", "push 1", "add", "push 0", "push 1", "pick -1", "push 1", "sub", "copy 3", "abs",
		"add", "pop 1", "jmpz 7", "place -1", "copy 3", "print 1", "pick -2", "add", "jmpnz -13",
	}
	deltas, err := bytecode.Assemble(lines)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	var text bytes.Buffer
	if err := deltafile.WriteText(&text, deltas); err != nil {
		t.Fatal(err)
	}
	fromText, err := deltafile.ReadText(&text)
	if err != nil {
		t.Fatal(err)
	}

	binary, err := deltafile.Marshal(fromText)
	if err != nil {
		t.Fatal(err)
	}
	fromBinary, err := deltafile.Unmarshal(binary)
	if err != nil {
		t.Fatal(err)
	}

	if got := bytecode.Disassemble(fromBinary); !reflect.DeepEqual(got, lines) {
		t.Fatalf("round trip = %q, want %q", got, lines)
	}

	var out strings.Builder
	vm := bytecode.NewVM(
		bytecode.NewValueReader(bytecode.FormatNumber, strings.NewReader("8")),
		bytecode.NewValueWriter(bytecode.FormatNumber, &out),
	)
	if err := vm.ExecuteDeltas(fromBinary); err != nil {
		t.Fatalf("ExecuteDeltas: %v", err)
	}
	if want := "1\n1\n2\n3\n5\n8\n13\n21\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}
