package deltafile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charon25/FythonProgrammingLanguage/pkg/bytecode"
)

// BinaryExt marks files in the CBOR format.
const BinaryExt = ".fyc"

// IsBinary reports whether path names a binary delta file.
func IsBinary(path string) bool {
	return strings.EqualFold(filepath.Ext(path), BinaryExt)
}

// Load reads a delta file, choosing the format from its extension.
func Load(path string) ([]bytecode.Delta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("deltafile: %w", err)
	}
	if IsBinary(path) {
		return Unmarshal(data)
	}
	return ReadText(bytes.NewReader(data))
}

// Save writes deltas to path, choosing the format from its extension.
func Save(path string, deltas []bytecode.Delta) error {
	var data []byte
	if IsBinary(path) {
		b, err := Marshal(deltas)
		if err != nil {
			return err
		}
		data = b
	} else {
		var buf bytes.Buffer
		if err := WriteText(&buf, deltas); err != nil {
			return err
		}
		data = buf.Bytes()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("deltafile: %w", err)
	}
	return nil
}
