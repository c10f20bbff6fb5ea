package server

import (
	"errors"
	"fmt"
	"path"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/charon25/FythonProgrammingLanguage/pkg/bytecode"
	"github.com/charon25/FythonProgrammingLanguage/pkg/source"
)

// Document kinds the server understands.
const (
	kindAssembly = "assembly"
	kindSource   = "source"
)

// documentKind picks the language of a document from its URI. Fython source
// looks like Python; everything else is treated as assembly.
func documentKind(uri string) string {
	switch strings.ToLower(path.Ext(uri)) {
	case ".fy", ".py":
		return kindSource
	}
	return kindAssembly
}

// diagnose checks a document and returns its diagnostics. It never returns
// nil so clients always receive a (possibly empty) list.
func diagnose(uri, text string) []protocol.Diagnostic {
	if documentKind(uri) == kindSource {
		return diagnoseSource(text)
	}
	return diagnoseAssembly(text)
}

func diagnoseAssembly(text string) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	for i, line := range bytecode.SplitLines(text) {
		if bytecode.StripComment(line) == "" {
			continue
		}
		in, ok := bytecode.ParseLine(line)
		if !ok {
			diagnostics = append(diagnostics, lineDiagnostic(i, line, protocol.DiagnosticSeverityWarning,
				"not an instruction; the line is skipped"))
			continue
		}
		op, known := bytecode.LookupName(in.Mnemonic)
		switch {
		case !known:
			diagnostics = append(diagnostics, lineDiagnostic(i, line, protocol.DiagnosticSeverityError,
				fmt.Sprintf("unknown instruction %q", in.Mnemonic)))
		case in.HasArg && !op.TakesArg():
			diagnostics = append(diagnostics, lineDiagnostic(i, line, protocol.DiagnosticSeverityWarning,
				fmt.Sprintf("%s takes no argument; %d is ignored", op, in.Arg)))
		}
	}
	return diagnostics
}

func diagnoseSource(text string) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	_, err := source.Deltas(text)
	var se *source.SourceError
	if errors.As(err, &se) {
		lines := bytecode.SplitLines(text)
		line := ""
		if se.Line-1 < len(lines) {
			line = lines[se.Line-1]
		}
		diagnostics = append(diagnostics, lineDiagnostic(se.Line-1, line, protocol.DiagnosticSeverityError, se.Msg))
	}
	return diagnostics
}

// lineDiagnostic covers the non-blank part of a line.
func lineDiagnostic(n int, line string, severity protocol.DiagnosticSeverity, msg string) protocol.Diagnostic {
	start := len(line) - len(strings.TrimLeft(line, " \t"))
	end := len(strings.TrimRight(line, " \t\r"))
	if end < start {
		end = start
	}
	src := lspName
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: protocol.UInteger(n), Character: protocol.UInteger(start)},
			End:   protocol.Position{Line: protocol.UInteger(n), Character: protocol.UInteger(end)},
		},
		Severity: &severity,
		Source:   &src,
		Message:  msg,
	}
}

// completeMnemonics returns the mnemonics starting with prefix, in opcode
// order.
func completeMnemonics(prefix string) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	lowerPrefix := strings.ToLower(prefix)
	for _, op := range bytecode.AllOpcodes() {
		info := bytecode.GetOpcodeInfo(op)
		if !strings.HasPrefix(info.Name, lowerPrefix) {
			continue
		}
		kind := protocol.CompletionItemKindKeyword
		detail := signature(info)
		name := info.Name
		items = append(items, protocol.CompletionItem{
			Label:      name,
			Kind:       &kind,
			Detail:     &detail,
			InsertText: &name,
		})
	}
	return items
}

// hoverMnemonic describes an instruction, or returns nil for other words.
func hoverMnemonic(word string) *protocol.Hover {
	op, ok := bytecode.LookupName(word)
	if !ok {
		return nil
	}
	info := bytecode.GetOpcodeInfo(op)

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", signature(info))
	fmt.Fprintf(&b, "Opcode key `%s`", info.Key)
	if info.TakesArg {
		fmt.Fprintf(&b, ", argument defaults to `%d`", info.DefaultArg)
	}
	b.WriteString("\n\n")
	if info.Doc != "" {
		b.WriteString("---\n\n")
		b.WriteString(info.Doc)
		b.WriteString("\n")
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: b.String(),
		},
	}
}

// hoverSourceLine shows the delta and instruction a Fython source line
// starts. Lines that open no instruction produce no hover.
func hoverSourceLine(text string, line int) *protocol.Hover {
	lines, err := source.Scan(text)
	if err != nil {
		return nil
	}
	deltas := source.Differences(lines)
	for i, l := range lines {
		if l.Number != line+1 {
			continue
		}
		if i == 0 || i-1 >= len(deltas) {
			return nil
		}
		d := deltas[i-1]

		var b strings.Builder
		fmt.Fprintf(&b, "depth %d, weight %d\n\ndelta `%s`", l.Depth, l.Weight, d)
		for _, in := range bytecode.Decode(deltas) {
			if in.Offset == i-1 {
				fmt.Fprintf(&b, " starts `%s`", in)
				break
			}
		}
		return &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: b.String(),
			},
		}
	}
	return nil
}

func signature(info bytecode.OpcodeInfo) string {
	if info.TakesArg {
		return info.Name + " [n]"
	}
	return info.Name
}
