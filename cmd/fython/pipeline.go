package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charon25/FythonProgrammingLanguage/pkg/bytecode"
	"github.com/charon25/FythonProgrammingLanguage/pkg/deltafile"
	"github.com/charon25/FythonProgrammingLanguage/pkg/source"
)

// program is a loaded input: either a delta stream or assembly lines.
type program struct {
	name   string
	deltas []bytecode.Delta // from Fython code or a delta file
	lines  []string         // from an assembly file
}

// loadProgram reads path according to the input type.
func loadProgram(path, inputType string) (*program, error) {
	p := &program{name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}

	if inputType == "d" {
		deltas, err := deltafile.Load(path)
		if err != nil {
			return nil, err
		}
		p.deltas = deltas
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't open '%s': %w", path, err)
	}
	switch inputType {
	case "p":
		deltas, err := source.Deltas(string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		p.deltas = deltas
	case "a":
		p.lines = bytecode.SplitLines(string(data))
	default:
		return nil, fmt.Errorf("unknown input type %q", inputType)
	}
	log.Debugf("loaded %s as %s", path, inputType)
	return p, nil
}

// Deltas returns the program as a delta stream, assembling if needed.
func (p *program) Deltas() ([]bytecode.Delta, error) {
	if p.lines != nil {
		return bytecode.Assemble(p.lines)
	}
	return p.deltas, nil
}

// Instructions returns the program ready to execute.
func (p *program) Instructions() []bytecode.Instruction {
	if p.lines != nil {
		return bytecode.ParseLines(p.lines)
	}
	return bytecode.Decode(p.deltas)
}

// Assembly returns the program as assembly text.
func (p *program) Assembly() string {
	if p.lines != nil {
		var b strings.Builder
		for _, in := range bytecode.ParseLines(p.lines) {
			b.WriteString(in.String())
			b.WriteByte('\n')
		}
		return b.String()
	}
	return bytecode.DisassembleWithName(p.name, p.deltas)
}

// pipeline loads inputPath and produces the requested output.
func pipeline(inputPath, outputPath string, opts options, stdin io.Reader, stdout io.Writer) error {
	p, err := loadProgram(inputPath, opts.inputType)
	if err != nil {
		return err
	}

	switch opts.outputType {
	case "d":
		deltas, err := p.Deltas()
		if err != nil {
			return err
		}
		if outputPath != "" {
			return deltafile.Save(outputPath, deltas)
		}
		return deltafile.WriteText(stdout, deltas)

	case "a":
		text := p.Assembly()
		if outputPath != "" {
			if err := os.WriteFile(outputPath, []byte(text), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outputPath, err)
			}
			return nil
		}
		_, err := io.WriteString(stdout, text)
		return err

	case "e":
		return execute(p.Instructions(), opts, stdin, stdout)
	}
	return fmt.Errorf("unknown output type %q", opts.outputType)
}

// execute runs a program with the I/O described by opts.
func execute(instrs []bytecode.Instruction, opts options, stdin io.Reader, stdout io.Writer) error {
	format, err := bytecode.ParseFormat(opts.outputFormat)
	if err != nil {
		return err
	}

	in := stdin
	if opts.programInput != "" {
		f, err := os.Open(opts.programInput)
		if err != nil {
			return fmt.Errorf("program input: %w", err)
		}
		defer f.Close()
		in = f
	}

	out := stdout
	var outFile *os.File
	if opts.programOutput != "" {
		f, err := os.Create(opts.programOutput)
		if err != nil {
			return fmt.Errorf("program output: %w", err)
		}
		outFile = f
		out = f
	}

	vm := bytecode.NewVM(bytecode.NewValueReader(format, in), bytecode.NewValueWriter(format, out))
	vm.Trace = opts.trace
	err = vm.Execute(instrs)
	log.Infof("executed %d steps", vm.Steps())
	if outFile != nil {
		err = closeOutput(outFile, err)
	}
	return err
}

// closeOutput closes the program output file. A close failure is reported
// unless the run already failed.
func closeOutput(c io.Closer, err error) error {
	if cerr := c.Close(); cerr != nil && err == nil {
		return fmt.Errorf("program output: %w", cerr)
	}
	return err
}
