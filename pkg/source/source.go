// Package source is the Fython front-end: it reads Python-looking source
// text and produces the delta stream the bytecode package executes.
//
// Only the shape of the source matters. Each significant line (not blank,
// not comment-only) contributes its indentation depth and its weight, the
// number of whitespace characters left once indentation, comments and
// trailing blanks are removed. The program is the list of differences
// between consecutive significant lines.
package source

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charon25/FythonProgrammingLanguage/pkg/bytecode"
)

// tabWidth is the column multiple a tab advances indentation to.
const tabWidth = 8

// Line is one significant source line.
type Line struct {
	Number int    // 1-based line number in the source
	Indent int    // Indentation width in columns
	Depth  int    // Indentation depth (number of enclosing blocks)
	Weight int    // Whitespace characters in the code part
	Code   string // Line without indentation, comment and trailing blanks
}

// SourceError reports malformed indentation or an unterminated string.
type SourceError struct {
	Line int
	Msg  string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Deltas scans src and returns its delta stream.
func Deltas(src string) ([]bytecode.Delta, error) {
	lines, err := Scan(src)
	if err != nil {
		return nil, err
	}
	return Differences(lines), nil
}

// Differences returns the change in (depth, weight) between each pair of
// consecutive lines. n lines give n-1 deltas.
func Differences(lines []Line) []bytecode.Delta {
	if len(lines) < 2 {
		return nil
	}
	deltas := make([]bytecode.Delta, 0, len(lines)-1)
	for i := 1; i < len(lines); i++ {
		deltas = append(deltas, bytecode.Delta{
			Index:  lines[i].Depth - lines[i-1].Depth,
			Weight: lines[i].Weight - lines[i-1].Weight,
		})
	}
	return deltas
}

// Scan returns the significant lines of src with their depth and weight.
// Indentation is checked first; a program with sound indentation must then
// also parse as Python.
func Scan(src string) ([]Line, error) {
	var lines []Line

	indents := []int{0} // open indentation levels, innermost last
	opensBlock := false // previous significant line ended with ':'

	src = strings.ReplaceAll(src, "\r\n", "\n")
	for i, raw := range strings.Split(src, "\n") {
		number := i + 1

		code, err := stripComment(raw)
		if err != nil {
			return nil, &SourceError{Line: number, Msg: err.Error()}
		}
		code = strings.TrimRightFunc(code, unicode.IsSpace)
		indent, body := splitIndent(code)
		if body == "" {
			continue
		}

		top := indents[len(indents)-1]
		switch {
		case indent > top:
			if !opensBlock {
				return nil, &SourceError{Line: number, Msg: "unexpected indent"}
			}
			indents = append(indents, indent)
		case opensBlock:
			return nil, &SourceError{Line: number, Msg: "expected an indented block"}
		case indent < top:
			for len(indents) > 1 && indents[len(indents)-1] > indent {
				indents = indents[:len(indents)-1]
			}
			if indents[len(indents)-1] != indent {
				return nil, &SourceError{Line: number, Msg: "unindent does not match any outer indentation level"}
			}
		}

		lines = append(lines, Line{
			Number: number,
			Indent: indent,
			Depth:  len(indents) - 1,
			Weight: Weight(body),
			Code:   body,
		})
		opensBlock = strings.HasSuffix(body, ":")
	}

	if len(lines) == 0 {
		return nil, nil
	}
	last := lines[len(lines)-1]
	if opensBlock {
		return nil, &SourceError{Line: last.Number, Msg: "expected an indented block"}
	}
	if err := checkSyntax(src, last.Number); err != nil {
		return nil, err
	}
	return lines, nil
}

// Weight counts the whitespace characters in a line's code part. String
// contents count like any other text.
func Weight(code string) int {
	n := 0
	for _, r := range code {
		if unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// LineWeight computes the weight of a raw source line: indentation, comment
// and trailing whitespace are dropped first.
func LineWeight(raw string) (int, error) {
	code, err := stripComment(raw)
	if err != nil {
		return 0, err
	}
	return Weight(strings.TrimSpace(code)), nil
}

// splitIndent returns the indentation width of line and the rest of it.
func splitIndent(line string) (int, string) {
	width := 0
	for i, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += tabWidth - width%tabWidth
		case '\f':
			width = 0
		default:
			return width, line[i:]
		}
	}
	return width, ""
}

// stripComment cuts line at the first '#' that is not inside a string
// literal.
func stripComment(line string) (string, error) {
	var quote rune
	escaped := false
	for i, r := range line {
		switch {
		case quote != 0 && escaped:
			escaped = false
		case quote != 0 && r == '\\':
			escaped = true
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
		case r == '\'' || r == '"':
			quote = r
		case r == '#':
			return line[:i], nil
		}
	}
	if quote != 0 {
		return "", fmt.Errorf("unterminated string literal")
	}
	return line, nil
}
