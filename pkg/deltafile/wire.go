package deltafile

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/charon25/FythonProgrammingLanguage/pkg/bytecode"
)

// Version is the binary format version written by Marshal.
const Version = 1

// record is the CBOR layout: {1: version, 2: [[index, weight], ...]}.
type record struct {
	Version int      `cbor:"1,keyasint"`
	Deltas  [][2]int `cbor:"2,keyasint"`
}

// cborEncMode uses canonical mode so equal programs encode to equal bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("deltafile: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Marshal serializes deltas to CBOR bytes.
func Marshal(deltas []bytecode.Delta) ([]byte, error) {
	rec := record{Version: Version, Deltas: make([][2]int, len(deltas))}
	for i, d := range deltas {
		rec.Deltas[i] = [2]int{d.Index, d.Weight}
	}
	return cborEncMode.Marshal(rec)
}

// Unmarshal deserializes deltas from CBOR bytes.
func Unmarshal(data []byte) ([]bytecode.Delta, error) {
	var rec record
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("deltafile: unmarshal: %w", err)
	}
	if rec.Version != Version {
		return nil, fmt.Errorf("deltafile: unsupported version %d", rec.Version)
	}
	deltas := make([]bytecode.Delta, len(rec.Deltas))
	for i, p := range rec.Deltas {
		deltas[i] = bytecode.Delta{Index: p[0], Weight: p[1]}
	}
	return deltas, nil
}
