package bytecode

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/big"
	"unicode"
)

// Format selects how program I/O maps between raw bytes and stack values.
type Format string

const (
	// FormatChar reads and writes one Unicode character per value.
	FormatChar Format = "char"
	// FormatNumber reads and writes decimal integers.
	FormatNumber Format = "number"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatChar, FormatNumber:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown I/O format %q (want char or number)", s)
}

// ValueReader produces one stack value per call. It is what the read
// instruction consumes.
type ValueReader interface {
	ReadValue() (*big.Int, error)
}

// ValueWriter consumes one stack value per call. It is what the print
// instruction feeds.
type ValueWriter interface {
	WriteValue(v *big.Int) error
}

// NewValueReader wraps r for the given format. At end of input every read
// yields 0.
func NewValueReader(format Format, r io.Reader) ValueReader {
	br := bufio.NewReader(r)
	if format == FormatNumber {
		return &numberReader{r: br}
	}
	return &charReader{r: br}
}

// NewValueWriter wraps w for the given format.
func NewValueWriter(format Format, w io.Writer) ValueWriter {
	if format == FormatNumber {
		return &numberWriter{w: w}
	}
	return &charWriter{w: w}
}

type charReader struct {
	r *bufio.Reader
}

func (c *charReader) ReadValue() (*big.Int, error) {
	ch, _, err := c.r.ReadRune()
	if errors.Is(err, io.EOF) {
		return new(big.Int), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return big.NewInt(int64(ch)), nil
}

type numberReader struct {
	r *bufio.Reader
}

func (n *numberReader) ReadValue() (*big.Int, error) {
	// Skip leading whitespace.
	var ch rune
	var err error
	for {
		ch, _, err = n.r.ReadRune()
		if errors.Is(err, io.EOF) {
			return new(big.Int), nil
		}
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		if !unicode.IsSpace(ch) {
			break
		}
	}

	token := []rune{ch}
	for {
		ch, _, err = n.r.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		if unicode.IsSpace(ch) {
			break
		}
		token = append(token, ch)
	}

	v, ok := new(big.Int).SetString(string(token), 10)
	if !ok {
		return nil, fmt.Errorf("read: invalid number %q", string(token))
	}
	return v, nil
}

type charWriter struct {
	w io.Writer
}

func (c *charWriter) WriteValue(v *big.Int) error {
	// Values outside the rune range print as U+FFFD.
	r := unicode.ReplacementChar
	if v.IsInt64() && v.Int64() >= 0 && v.Int64() <= unicode.MaxRune {
		r = rune(v.Int64())
	}
	if _, err := io.WriteString(c.w, string(r)); err != nil {
		return fmt.Errorf("print: %w", err)
	}
	return nil
}

type numberWriter struct {
	w io.Writer
}

func (n *numberWriter) WriteValue(v *big.Int) error {
	if _, err := io.WriteString(n.w, v.String()+"\n"); err != nil {
		return fmt.Errorf("print: %w", err)
	}
	return nil
}
