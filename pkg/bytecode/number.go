package bytecode

import (
	"math/big"
	"strconv"
)

// Delta is the change in (indentation depth, line weight) between two
// consecutive significant source lines. It is the unit of a Fython program.
type Delta struct {
	Index  int
	Weight int
}

func (d Delta) String() string {
	return "(" + strconv.Itoa(d.Index) + ", " + strconv.Itoa(d.Weight) + ")"
}

// EncodeNumber returns the run of zero-index deltas that encodes n.
// Zero is a single (0, 0). Negative numbers carry a leading (0, 0) sign
// marker before the digits of |n|.
func EncodeNumber(n *big.Int) []Delta {
	if n.Sign() == 0 {
		return []Delta{{IndexNumber, 0}}
	}

	digits := new(big.Int).Abs(n).Text(10)
	run := make([]Delta, 0, len(digits)+1)
	if n.Sign() < 0 {
		run = append(run, Delta{IndexNumber, 0})
	}
	for i := 0; i < len(digits); i++ {
		run = append(run, Delta{IndexNumber, int(digits[i] - '0')})
	}
	return run
}

// DecodeNumber reads the number run at the start of deltas. It returns the
// value, the number of deltas consumed and whether a run was present at all.
// When the run is empty the value is def and nothing is consumed.
//
// A negative digit d stands for 10 + d. A first weight of exactly 0 makes
// the number negative unless it is the only digit.
func DecodeNumber(deltas []Delta, def int64) (value *big.Int, consumed int, ok bool) {
	for consumed < len(deltas) && deltas[consumed].Index == IndexNumber {
		consumed++
	}
	if consumed == 0 {
		return big.NewInt(def), 0, false
	}

	digits := deltas[:consumed]
	if consumed == 1 && digits[0].Weight == 0 {
		return new(big.Int), 1, true
	}

	text := make([]byte, 0, consumed+1)
	if digits[0].Weight == 0 {
		text = append(text, '-')
	}
	for _, d := range digits {
		text = append(text, byte('0'+digitValue(d.Weight)))
	}

	value, _ = new(big.Int).SetString(string(text), 10)
	return value, consumed, true
}

// digitValue maps a digit weight to its decimal digit. Negative weights are
// ten's complement: -1 is 9, -9 is 1. Weights outside -9..9 keep only their
// residue, the same way opcode weights do.
func digitValue(w int) int {
	w = Residue(w)
	if w < 0 {
		return 10 + w
	}
	return w
}
