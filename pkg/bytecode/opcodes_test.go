package bytecode

import (
	"strings"
	"testing"
)

func TestAllOpcodesHaveMetadata(t *testing.T) {
	for _, op := range AllOpcodes() {
		info := GetOpcodeInfo(op)
		if info.Name == "" || strings.HasPrefix(info.Name, "UNKNOWN") {
			t.Errorf("Opcode 0x%02X has no metadata", byte(op))
		}
		if info.Doc == "" {
			t.Errorf("%s has no doc string", op)
		}
	}
}

func TestOpcodeCount(t *testing.T) {
	if got := OpcodeCount(); got != 16 {
		t.Errorf("OpcodeCount() = %d, want 16", got)
	}
	if got := len(AllOpcodes()); got != OpcodeCount() {
		t.Errorf("len(AllOpcodes()) = %d, want %d", got, OpcodeCount())
	}
}

func TestOpcodeKeysUnique(t *testing.T) {
	seen := make(map[Key]Opcode)
	for _, op := range AllOpcodes() {
		key := GetOpcodeInfo(op).Key
		if prev, dup := seen[key]; dup {
			t.Errorf("%s and %s share key %s", prev, op, key)
		}
		seen[key] = op
	}
}

func TestOpcodeTable(t *testing.T) {
	tests := []struct {
		name     string
		key      Key
		takesArg bool
		def      int64
	}{
		{"print", Key{-1, 1}, true, 1},
		{"read", Key{-1, -1}, true, 1},
		{"copy", Key{-1, 2}, true, 2},
		{"jmpz", Key{-1, 3}, true, 1},
		{"jmpnz", Key{-1, -3}, true, 1},
		{"place", Key{-1, 4}, true, 1},
		{"pick", Key{-1, -4}, true, 1},
		{"push", Key{1, 1}, true, 0},
		{"pop", Key{1, -1}, true, 1},
		{"add", Key{1, 2}, false, 0},
		{"sub", Key{1, -2}, false, 0},
		{"mul", Key{1, 3}, false, 0},
		{"div", Key{1, -3}, false, 0},
		{"mod", Key{1, 4}, false, 0},
		{"pow", Key{1, -4}, false, 0},
		{"abs", Key{1, 5}, false, 0},
	}

	for _, tt := range tests {
		op, ok := LookupName(tt.name)
		if !ok {
			t.Errorf("LookupName(%q) not found", tt.name)
			continue
		}
		info := GetOpcodeInfo(op)
		if info.Key != tt.key {
			t.Errorf("%s key = %s, want %s", tt.name, info.Key, tt.key)
		}
		if info.TakesArg != tt.takesArg {
			t.Errorf("%s TakesArg = %v, want %v", tt.name, info.TakesArg, tt.takesArg)
		}
		if tt.takesArg && info.DefaultArg != tt.def {
			t.Errorf("%s DefaultArg = %d, want %d", tt.name, info.DefaultArg, tt.def)
		}

		back, ok := LookupKey(tt.key.Delta())
		if !ok || back != op {
			t.Errorf("LookupKey(%s) = %s, %v, want %s", tt.key, back, ok, tt.name)
		}
	}
}

func TestUnknownOpcodeString(t *testing.T) {
	op := Opcode(0xEE)
	if got := op.String(); !strings.HasPrefix(got, "UNKNOWN") {
		t.Errorf("Unknown opcode should return UNKNOWN, got %q", got)
	}
	if OpUnknown.TakesArg() {
		t.Error("OpUnknown should not take an argument")
	}
}

func TestResidue(t *testing.T) {
	// -20..20 reduces to the last digit, keeping the sign.
	want := []int{0, -9, -8, -7, -6, -5, -4, -3, -2, -1, 0, -9, -8, -7, -6, -5, -4, -3, -2, -1,
		0,
		1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0}

	for i, w := 0, -20; w <= 20; i, w = i+1, w+1 {
		if got := Residue(w); got != want[i] {
			t.Errorf("Residue(%d) = %d, want %d", w, got, want[i])
		}
	}
}

func TestResidueMatchesDefinition(t *testing.T) {
	for _, w := range []int{-33334, -1001, -11, -10, -1, 0, 1, 9, 10, 52, 773, 123456789} {
		abs, sign := w, 1
		if w < 0 {
			abs, sign = -w, -1
		}
		if got, want := Residue(w), sign*(abs%10); got != want {
			t.Errorf("Residue(%d) = %d, want %d", w, got, want)
		}
	}
}

func TestLookupKeyUsesResidue(t *testing.T) {
	tests := []struct {
		d    Delta
		want Opcode
	}{
		{Delta{1, -11}, OpPop},
		{Delta{1, 52}, OpAdd},
		{Delta{1, -32}, OpSub},
		{Delta{1, 773}, OpMul},
		{Delta{1, -23}, OpDiv},
		{Delta{1, 44}, OpMod},
		{Delta{1, -33334}, OpPow},
		{Delta{-1, 101}, OpPrint},
	}

	for _, tt := range tests {
		got, ok := LookupKey(tt.d)
		if !ok || got != tt.want {
			t.Errorf("LookupKey(%s) = %s, %v, want %s", tt.d, got, ok, tt.want)
		}
	}

	for _, d := range []Delta{{0, 1}, {-1, 0}, {1, 0}, {2, 1}, {-3, 4}} {
		if op, ok := LookupKey(d); ok {
			t.Errorf("LookupKey(%s) = %s, want no opcode", d, op)
		}
	}
}

func TestIsJump(t *testing.T) {
	for _, op := range AllOpcodes() {
		want := op == OpJmpz || op == OpJmpnz
		if op.IsJump() != want {
			t.Errorf("%s.IsJump() = %v, want %v", op, op.IsJump(), want)
		}
	}
}
