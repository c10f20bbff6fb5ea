// Package deltafile reads and writes delta streams: a forgiving
// tab-separated text format and a compact CBOR binary format.
package deltafile

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/charon25/FythonProgrammingLanguage/pkg/bytecode"
)

// TextHeader is the first line WriteText emits.
const TextHeader = "di\tdw"

// deltaLine matches two integers separated by anything that is neither a
// digit nor a dash.
var deltaLine = regexp.MustCompile(`(-?[0-9]+)[^0-9-]+(-?[0-9]+)`)

// ReadText parses a delta text file. Lines without two integers, including
// the header, are skipped.
func ReadText(r io.Reader) ([]bytecode.Delta, error) {
	var deltas []bytecode.Delta
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		m := deltaLine.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("deltafile: line %d: %w", line, err)
		}
		weight, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, fmt.Errorf("deltafile: line %d: %w", line, err)
		}
		deltas = append(deltas, bytecode.Delta{Index: index, Weight: weight})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("deltafile: read: %w", err)
	}
	return deltas, nil
}

// WriteText writes the header followed by one "index<TAB>weight" line per
// delta.
func WriteText(w io.Writer, deltas []bytecode.Delta) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, TextHeader)
	for _, d := range deltas {
		fmt.Fprintf(bw, "%d\t%d\n", d.Index, d.Weight)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("deltafile: write: %w", err)
	}
	return nil
}
