// Fython CLI - translates and runs Fython programs
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/charon25/FythonProgrammingLanguage/manifest"
	"github.com/charon25/FythonProgrammingLanguage/server"
)

var log = commonlog.GetLogger("fython.cli")

// debugVerbosity is the commonlog verbosity that enables debug messages.
const debugVerbosity = 2

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// countFlag counts how many times a boolean flag is given.
type countFlag int

func (c *countFlag) String() string   { return strconv.Itoa(int(*c)) }
func (c *countFlag) IsBoolFlag() bool { return true }
func (c *countFlag) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if v {
		*c++
	}
	return nil
}

// options are the pipeline settings after flags have been merged over the
// configuration file.
type options struct {
	inputType     string
	outputType    string
	outputFormat  string
	programInput  string
	programOutput string
	trace         bool
}

// run executes the command line and returns the process exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "lsp":
			return runLSP(args[1:], stderr)
		case "store":
			return runStore(args[1:], stdin, stdout, stderr)
		}
	}

	fs := flag.NewFlagSet("fython", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		flags      options
		configPath string
		verbosity  countFlag
	)
	stringFlag(fs, &flags.inputType, "input-type", "i", "", "Input type: p (Fython code), d (deltas), a (assembly). Default p.")
	stringFlag(fs, &flags.outputType, "output-type", "o", "", "Output type: d (deltas), a (assembly), e (execute). Default e.")
	stringFlag(fs, &flags.programInput, "program-input", "I", "", "File to read program input from when executing (default stdin)")
	stringFlag(fs, &flags.programOutput, "program-output", "O", "", "File to write program output to when executing (default stdout)")
	stringFlag(fs, &flags.outputFormat, "output-format", "f", "", "Program I/O format: char or number. Default char.")
	stringFlag(fs, &configPath, "config", "c", "", "Configuration file (default: fython.toml found upward from the working directory)")
	fs.Var(&verbosity, "v", "Increase log verbosity (repeatable)")
	fs.BoolVar(&flags.trace, "trace", false, "Log every executed instruction")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: fython [options] input_path [output_path]\n")
		fmt.Fprintf(stderr, "       fython lsp [-v]\n")
		fmt.Fprintf(stderr, "       fython store [-c config] put|get|list|rm|run ...\n\n")
		fmt.Fprintf(stderr, "Interprets, translates and runs Fython programs.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  fython prog.py                    # Run Fython code\n")
		fmt.Fprintf(stderr, "  fython -o a prog.py prog.fya      # Translate code to assembly\n")
		fmt.Fprintf(stderr, "  fython -i a -o d prog.fya p.fyc   # Assemble to binary deltas\n")
		fmt.Fprintf(stderr, "  fython -i d -f number p.fyc       # Run deltas with numeric I/O\n")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	rest := fs.Args()
	if len(rest) < 1 || len(rest) > 2 {
		fs.Usage()
		return 2
	}

	m, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	opts := merge(m, fs, flags)
	configureLogging(m, int(verbosity), opts.trace)

	if err := checkOptions(opts); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	outputPath := ""
	if len(rest) == 2 {
		outputPath = rest[1]
	}
	if err := pipeline(rest[0], outputPath, opts, stdin, stdout); err != nil {
		log.Errorf("%s", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runLSP(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("fython lsp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var verbosity countFlag
	fs.Var(&verbosity, "v", "Increase log verbosity (repeatable)")
	logFile := fs.String("log", "", "Log file (stdout carries the protocol, default stderr)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var path *string
	if *logFile != "" {
		path = logFile
	}
	commonlog.Configure(int(verbosity), path)

	if err := server.NewLSP().Run(); err != nil {
		fmt.Fprintf(stderr, "Server error: %v\n", err)
		return 1
	}
	return 0
}

// stringFlag registers a flag under a long and a short name.
func stringFlag(fs *flag.FlagSet, p *string, long, short, value, usage string) {
	fs.StringVar(p, long, value, usage)
	fs.StringVar(p, short, value, "Shorthand for -"+long)
}

// loadConfig reads an explicit configuration file, or looks for fython.toml
// upward from the working directory. Without one, defaults apply.
func loadConfig(path string) (*manifest.Manifest, error) {
	if path != "" {
		return manifest.LoadFile(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	m, err := manifest.FindAndLoad(wd)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = manifest.Default(wd)
	}
	return m, nil
}

// merge overlays explicitly set flags onto the configuration.
func merge(m *manifest.Manifest, fs *flag.FlagSet, flags options) options {
	opts := options{
		inputType:     m.Run.InputType,
		outputType:    m.Run.OutputType,
		outputFormat:  m.Run.OutputFormat,
		programInput:  m.Run.ProgramInput,
		programOutput: m.Run.ProgramOutput,
		trace:         m.Run.Trace,
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input-type", "i":
			opts.inputType = flags.inputType
		case "output-type", "o":
			opts.outputType = flags.outputType
		case "output-format", "f":
			opts.outputFormat = flags.outputFormat
		case "program-input", "I":
			opts.programInput = flags.programInput
		case "program-output", "O":
			opts.programOutput = flags.programOutput
		case "trace":
			opts.trace = flags.trace
		}
	})
	return opts
}

func checkOptions(opts options) error {
	if err := manifest.CheckInputType(opts.inputType); err != nil {
		return err
	}
	if err := manifest.CheckOutputType(opts.outputType); err != nil {
		return err
	}
	switch opts.outputFormat {
	case "char", "number":
		return nil
	}
	return fmt.Errorf("output format %q: want char or number", opts.outputFormat)
}

func configureLogging(m *manifest.Manifest, extra int, trace bool) {
	verbosity := m.Log.Verbosity + extra
	if trace && verbosity < debugVerbosity {
		verbosity = debugVerbosity
	}
	commonlog.Configure(verbosity, m.LogFile())
}
