package server

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charon25/FythonProgrammingLanguage/pkg/bytecode"
)

// runRequest represents a trial run to be executed on the worker goroutine.
type runRequest struct {
	program []bytecode.Instruction
	input   string
	format  bytecode.Format
	done    chan runResult
}

var errWorkerStopped = errors.New("run worker stopped")

// runResult holds the outcome of a trial run. Stack values are decimal
// strings so clients without big integers see them exactly.
type runResult struct {
	Output string   `json:"output"`
	Stack  []string `json:"stack"`
	Steps  int      `json:"steps"`
	Error  string   `json:"error,omitempty"`
}

// RunWorker serializes trial runs through a single goroutine. Every run is
// bounded by a step budget.
type RunWorker struct {
	maxSteps int
	requests chan runRequest
	quit     chan struct{}
	stopOnce sync.Once
}

// NewRunWorker creates a RunWorker and starts the processing goroutine.
// Each run stops after maxSteps instructions.
func NewRunWorker(maxSteps int) *RunWorker {
	w := &RunWorker{
		maxSteps: maxSteps,
		requests: make(chan runRequest, 16),
		quit:     make(chan struct{}),
	}
	go w.loop()
	return w
}

// loop processes run requests sequentially on a dedicated goroutine.
func (w *RunWorker) loop() {
	for {
		select {
		case req := <-w.requests:
			req.done <- w.execute(req)
		case <-w.quit:
			return
		}
	}
}

// execute runs one program on a fresh VM, recovering from panics.
func (w *RunWorker) execute(req runRequest) (result runResult) {
	defer func() {
		if r := recover(); r != nil {
			result.Error = fmt.Sprintf("%v", r)
		}
	}()

	var out strings.Builder
	v := bytecode.NewVM(
		bytecode.NewValueReader(req.format, strings.NewReader(req.input)),
		bytecode.NewValueWriter(req.format, &out),
	)
	v.MaxSteps = w.maxSteps

	err := v.Execute(req.program)
	result.Output = out.String()
	for _, value := range v.Stack() {
		result.Stack = append(result.Stack, value.String())
	}
	result.Steps = v.Steps()
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// Run submits a program and blocks until it finishes. After Stop it
// returns at once with an error result.
func (w *RunWorker) Run(program []bytecode.Instruction, input string, format bytecode.Format) runResult {
	req := runRequest{
		program: program,
		input:   input,
		format:  format,
		done:    make(chan runResult, 1),
	}
	select {
	case <-w.quit:
		return runResult{Error: errWorkerStopped.Error()}
	default:
	}
	select {
	case w.requests <- req:
	case <-w.quit:
		return runResult{Error: errWorkerStopped.Error()}
	}
	select {
	case res := <-req.done:
		return res
	case <-w.quit:
		return runResult{Error: errWorkerStopped.Error()}
	}
}

// Stop shuts down the worker goroutine. It is safe to call more than once.
func (w *RunWorker) Stop() {
	w.stopOnce.Do(func() { close(w.quit) })
}
