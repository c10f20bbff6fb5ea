package source

import (
	"errors"
	"strings"

	"github.com/go-python/gpython/parser"
	"github.com/go-python/gpython/py"
)

// checkSyntax parses src as a Python module and reports the first syntax
// error as a SourceError. lastLine is the line reported when the parser
// points past the end of the text.
func checkSyntax(src string, lastLine int) error {
	if !strings.HasSuffix(src, "\n") {
		src += "\n"
	}
	_, err := parser.Parse(strings.NewReader(src), "<fython>", "exec")
	if err == nil {
		return nil
	}

	line, msg := lastLine, "invalid syntax"
	var exc *py.Exception
	if errors.As(err, &exc) {
		if n, ok := exc.Dict["lineno"].(py.Int); ok && n >= 1 && int(n) <= lastLine {
			line = int(n)
		}
		if args, ok := exc.Args.(py.Tuple); ok && len(args) > 0 {
			if s, ok := args[0].(py.String); ok && s != "" && string(s) != msg {
				msg += ": " + string(s)
			}
		}
	}
	return &SourceError{Line: line, Msg: msg}
}
