package bytecode

import (
	"math"
	"math/big"
	"reflect"
	"testing"
)

func numberRun(weights ...int) []Delta {
	run := make([]Delta, len(weights))
	for i, w := range weights {
		run[i] = Delta{IndexNumber, w}
	}
	return run
}

func bigInt(t testing.TB, s string) *big.Int {
	t.Helper()
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("bad integer literal %q", s)
	}
	return n
}

func TestEncodeNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want []Delta
	}{
		{0, numberRun(0)},
		{9, numberRun(9)},
		{1234, numberRun(1, 2, 3, 4)},
		{-9, numberRun(0, 9)},
		{-1234, numberRun(0, 1, 2, 3, 4)},
		{10, numberRun(1, 0)},
	}

	for _, tt := range tests {
		if got := EncodeNumber(big.NewInt(tt.n)); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("EncodeNumber(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestDecodeNumber(t *testing.T) {
	tests := []struct {
		name     string
		deltas   []Delta
		want     int64
		consumed int
	}{
		{"one", numberRun(1), 1, 1},
		{"trailing zero", numberRun(1, 2, 3, 0), 1230, 4},
		{"positive digits", numberRun(9, 8, 7, 6), 9876, 4},
		{"complement digits", numberRun(-1, -2, -3, -4), 9876, 4},
		{"negative one", numberRun(0, 1), -1, 2},
		{"negative trailing zero", numberRun(0, 1, 2, 3, 0), -1230, 5},
		{"negative digits", numberRun(0, 9, 8, 7, 6), -9876, 5},
		{"negative complement", numberRun(0, -1, -2, -3, -4), -9876, 5},
		{"zero", numberRun(0), 0, 1},
		{"zero then opcode", []Delta{{0, 0}, {1, 0}}, 0, 1},
		{"ten then opcode", []Delta{{0, 1}, {0, 0}, {-1, 10}}, 10, 2},
		{"minus one then opcodes", []Delta{{0, 0}, {0, 1}, {1, 1}, {-1, 0}}, -1, 2},
		{"many zeros", []Delta{{0, 0}, {0, 0}, {0, 0}, {1, 0}}, 0, 3},
		{"zeros then one", []Delta{{0, 0}, {0, 0}, {0, 1}, {1, 1}, {-1, 0}}, -1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, consumed, ok := DecodeNumber(tt.deltas, 666)
			if !ok {
				t.Fatalf("DecodeNumber(%v) reported no number", tt.deltas)
			}
			if got.Cmp(big.NewInt(tt.want)) != 0 || consumed != tt.consumed {
				t.Errorf("DecodeNumber(%v) = (%v, %d), want (%d, %d)", tt.deltas, got, consumed, tt.want, tt.consumed)
			}
		})
	}
}

// Only a first weight of exactly 0 is the sign marker. A weight of 10 or -10
// reduces to the digit 0 and leads a positive magnitude.
func TestDecodeNumberSignMarkerIsRawZero(t *testing.T) {
	tests := []struct {
		deltas []Delta
		want   int64
	}{
		{numberRun(10, 5), 5},
		{numberRun(-10, 5), 5},
		{numberRun(10), 0},
		{numberRun(0, 5), -5},
		{numberRun(20, 1, 2), 12},
	}
	for _, tt := range tests {
		got, consumed, ok := DecodeNumber(tt.deltas, 0)
		if !ok || got.Cmp(big.NewInt(tt.want)) != 0 || consumed != len(tt.deltas) {
			t.Errorf("DecodeNumber(%v) = (%v, %d, %v), want %d", tt.deltas, got, consumed, ok, tt.want)
		}
	}
}

func TestDecodeNumberDefault(t *testing.T) {
	for _, deltas := range [][]Delta{nil, {{1, 0}}, {{-1, 3}, {0, 2}}} {
		got, consumed, ok := DecodeNumber(deltas, 666)
		if ok || got.Int64() != 666 || consumed != 0 {
			t.Errorf("DecodeNumber(%v) = (%v, %d, %v), want (666, 0, false)", deltas, got, consumed, ok)
		}
	}
}

func TestNumberRoundTrip(t *testing.T) {
	values := []int64{
		0, 1, -1, 7, -7, 10, -10, 99, 100, -100, 1234, -1234, 9876543210,
		math.MaxInt32, math.MinInt32, math.MaxInt64, math.MinInt64, math.MinInt64 + 1,
	}
	for n := int64(-1000); n <= 1000; n += 37 {
		values = append(values, n)
	}

	for _, n := range values {
		run := EncodeNumber(big.NewInt(n))
		got, consumed, ok := DecodeNumber(run, -42)
		if !ok || got.Int64() != n || !got.IsInt64() || consumed != len(run) {
			t.Errorf("DecodeNumber(EncodeNumber(%d)) = (%v, %d, %v), want (%d, %d, true)", n, got, consumed, ok, n, len(run))
		}
	}
}

func TestNumberRoundTripBeyondInt64(t *testing.T) {
	for _, s := range []string{
		"92233720368547758079",
		"-92233720368547758079",
		"1234567890123456789012345",
		"-1234567890123456789012345",
		"100000000000000000000000000000000000000000",
	} {
		n := bigInt(t, s)
		run := EncodeNumber(n)
		got, consumed, ok := DecodeNumber(run, 0)
		if !ok || got.Cmp(n) != 0 || consumed != len(run) {
			t.Errorf("DecodeNumber(EncodeNumber(%s)) = (%v, %d, %v)", s, got, consumed, ok)
		}
	}
}

func TestDecodeNumberLongRun(t *testing.T) {
	// 25 digits, all 9 written as ten's complement weights.
	weights := make([]int, 25)
	for i := range weights {
		weights[i] = -1
	}
	got, consumed, _ := DecodeNumber(numberRun(weights...), 0)
	if want := bigInt(t, "9999999999999999999999999"); got.Cmp(want) != 0 || consumed != 25 {
		t.Errorf("DecodeNumber = (%v, %d), want (%v, 25)", got, consumed, want)
	}
}

func TestNumberRoundTripWithSuffix(t *testing.T) {
	suffix := []Delta{{1, 2}, {0, 5}}
	for _, n := range []int64{0, 5, -5, 120, -120} {
		run := append(EncodeNumber(big.NewInt(n)), suffix...)
		got, consumed, _ := DecodeNumber(run, 0)
		if got.Int64() != n || consumed != len(run)-len(suffix) {
			t.Errorf("decode %d followed by opcode = (%v, %d)", n, got, consumed)
		}
	}
}
