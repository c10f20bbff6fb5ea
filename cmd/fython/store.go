package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/charon25/FythonProgrammingLanguage/pkg/deltafile"
	"github.com/charon25/FythonProgrammingLanguage/pkg/store"
)

// runStore processes the `fython store` subcommand.
// Usage:
//
//	fython store put [-i p|d|a] <name> <path>   Save a program
//	fython store get <name> [output_path]       Write a program's deltas
//	fython store list                           List saved programs
//	fython store rm <name>                      Delete a program
//	fython store run [-I in] [-O out] [-f fmt] <name>
func runStore(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fython store", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath string
		verbosity  countFlag
	)
	stringFlag(fs, &configPath, "config", "c", "", "Configuration file")
	db := fs.String("db", "", "Database path (overrides [store].path)")
	fs.Var(&verbosity, "v", "Increase log verbosity (repeatable)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rest := fs.Args()
	if len(rest) == 0 {
		storeUsage(stderr)
		return 2
	}

	m, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	configureLogging(m, int(verbosity), false)

	path := m.StorePath()
	if *db != "" {
		path = *db
	}

	ctx := context.Background()
	s, err := store.Open(ctx, path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer s.Close()

	base := options{
		inputType:     m.Run.InputType,
		outputFormat:  m.Run.OutputFormat,
		programInput:  m.Run.ProgramInput,
		programOutput: m.Run.ProgramOutput,
		trace:         m.Run.Trace,
	}

	var status int
	switch rest[0] {
	case "put":
		status = storePut(ctx, s, rest[1:], base, stdout, stderr)
	case "get":
		status = storeGet(ctx, s, rest[1:], stdout, stderr)
	case "list":
		status = storeList(ctx, s, stdout, stderr)
	case "rm":
		status = storeRemove(ctx, s, rest[1:], stdout, stderr)
	case "run":
		status = storeRun(ctx, s, rest[1:], base, stdin, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown store subcommand: %s\n", rest[0])
		storeUsage(stderr)
		status = 2
	}
	return status
}

func storeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fython store [-c config] [-db path] [put|get|list|rm|run] ...")
	fmt.Fprintln(w, "  put [-i p|d|a] <name> <path>   Save a program")
	fmt.Fprintln(w, "  get <name> [output_path]       Write a program's deltas")
	fmt.Fprintln(w, "  list                           List saved programs")
	fmt.Fprintln(w, "  rm <name>                      Delete a program")
	fmt.Fprintln(w, "  run [-I in] [-O out] [-f char|number] <name>")
}

func storePut(ctx context.Context, s *store.Store, args []string, base options, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fython store put", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inputType := base.inputType
	stringFlag(fs, &inputType, "input-type", "i", inputType, "Input type: p, d or a")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(stderr, "Usage: fython store put [-i p|d|a] <name> <path>")
		return 2
	}

	p, err := loadProgram(fs.Arg(1), inputType)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	deltas, err := p.Deltas()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	prog, err := s.Put(ctx, fs.Arg(0), deltas)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Stored %s: %d deltas, %s\n", prog.Name, len(prog.Deltas), prog.Hash[:12])
	return 0
}

func storeGet(ctx context.Context, s *store.Store, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(stderr, "Usage: fython store get <name> [output_path]")
		return 2
	}
	prog, err := s.Get(ctx, args[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if len(args) == 2 {
		err = deltafile.Save(args[1], prog.Deltas)
	} else {
		err = deltafile.WriteText(stdout, prog.Deltas)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func storeList(ctx context.Context, s *store.Store, stdout, stderr io.Writer) int {
	programs, err := s.List(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if len(programs) == 0 {
		fmt.Fprintln(stdout, "No stored programs")
		return 0
	}
	for _, p := range programs {
		fmt.Fprintf(stdout, "%-20s %6d deltas  %s  %s\n",
			p.Name, len(p.Deltas), p.Hash[:12], p.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	}
	return 0
}

func storeRemove(ctx context.Context, s *store.Store, args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Usage: fython store rm <name>")
		return 2
	}
	if err := s.Delete(ctx, args[0]); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Deleted %s\n", args[0])
	return 0
}

func storeRun(ctx context.Context, s *store.Store, args []string, base options, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fython store run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts := base
	stringFlag(fs, &opts.programInput, "program-input", "I", opts.programInput, "Program input file")
	stringFlag(fs, &opts.programOutput, "program-output", "O", opts.programOutput, "Program output file")
	stringFlag(fs, &opts.outputFormat, "output-format", "f", opts.outputFormat, "Program I/O format: char or number")
	fs.BoolVar(&opts.trace, "trace", opts.trace, "Log every executed instruction")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Usage: fython store run [-I in] [-O out] [-f char|number] <name>")
		return 2
	}

	prog, err := s.Get(ctx, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	p := &program{name: prog.Name, deltas: prog.Deltas}
	if err := execute(p.Instructions(), opts, stdin, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
