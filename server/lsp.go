package server

import (
	"fmt"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/charon25/FythonProgrammingLanguage/pkg/bytecode"
	"github.com/charon25/FythonProgrammingLanguage/pkg/source"

	_ "github.com/tliron/commonlog/simple"
)

const lspName = "fython-lsp"

// runCommand executes the document given as first argument. Optional
// second and third arguments are the program input and its format.
const runCommand = "fython.run"

// defaultRunSteps bounds trial runs started from the editor.
const defaultRunSteps = 1_000_000

var lspLog = commonlog.GetLogger("fython.lsp")

// LspServer provides editor features for Fython assembly and source files.
type LspServer struct {
	worker *RunWorker

	mu   sync.Mutex
	docs map[string]string // URI → full document content

	handler protocol.Handler
	server  *glspserver.Server
	version string
}

// NewLSP creates a new LSP server.
func NewLSP() *LspServer {
	s := &LspServer{
		worker:  NewRunWorker(defaultRunSteps),
		docs:    make(map[string]string),
		version: "0.1.0",
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentCompletion:  s.textDocumentCompletion,
		TextDocumentHover:       s.textDocumentHover,
		WorkspaceExecuteCommand: s.workspaceExecuteCommand,
	}

	s.server = glspserver.NewServer(&s.handler, lspName, false)

	return s
}

// Run starts the LSP server on stdio. Blocks until the client disconnects.
func (s *LspServer) Run() error {
	return s.server.RunStdio()
}

// --- LSP lifecycle handlers ---

func (s *LspServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	lspLog.Info("Fython LSP initializing")

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{}
	capabilities.HoverProvider = true
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{runCommand},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lspName,
			Version: &s.version,
		},
	}, nil
}

func (s *LspServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *LspServer) shutdown(ctx *glsp.Context) error {
	s.worker.Stop()
	return nil
}

func (s *LspServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// --- Document synchronization ---

func (s *LspServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	text := params.TextDocument.Text

	s.mu.Lock()
	s.docs[string(uri)] = text
	s.mu.Unlock()

	s.publishDiagnostics(ctx, uri, text)
	return nil
}

func (s *LspServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	// With Full sync, the last change event contains the full text
	if len(params.ContentChanges) > 0 {
		last := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := last.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.mu.Lock()
			s.docs[string(uri)] = whole.Text
			s.mu.Unlock()

			s.publishDiagnostics(ctx, uri, whole.Text)
		}
	}
	return nil
}

func (s *LspServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.mu.Lock()
	delete(s.docs, string(uri))
	s.mu.Unlock()

	// Clear diagnostics for the closed document
	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

// --- Language features ---

func (s *LspServer) document(uri protocol.DocumentUri) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.docs[string(uri)]
	return text, ok
}

func (s *LspServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	uri := params.TextDocument.URI
	if documentKind(string(uri)) != kindAssembly {
		return nil, nil
	}
	text, ok := s.document(uri)
	if !ok {
		return nil, nil
	}

	prefix := extractPrefix(text, params.Position)
	if prefix == "" {
		return nil, nil
	}
	return completeMnemonics(prefix), nil
}

func (s *LspServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := params.TextDocument.URI
	text, ok := s.document(uri)
	if !ok {
		return nil, nil
	}

	if documentKind(string(uri)) == kindSource {
		return hoverSourceLine(text, int(params.Position.Line)), nil
	}

	word := extractWord(text, params.Position)
	if word == "" {
		return nil, nil
	}
	return hoverMnemonic(word), nil
}

func (s *LspServer) workspaceExecuteCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	if params.Command != runCommand {
		return nil, fmt.Errorf("unknown command %q", params.Command)
	}
	if len(params.Arguments) == 0 {
		return nil, fmt.Errorf("%s: missing document URI", runCommand)
	}
	uri, _ := params.Arguments[0].(string)
	input := ""
	if len(params.Arguments) > 1 {
		input, _ = params.Arguments[1].(string)
	}
	format := bytecode.FormatChar
	if len(params.Arguments) > 2 {
		name, _ := params.Arguments[2].(string)
		f, err := bytecode.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		format = f
	}

	text, ok := s.document(protocol.DocumentUri(uri))
	if !ok {
		return nil, fmt.Errorf("%s: document %s is not open", runCommand, uri)
	}
	program, err := programOf(uri, text)
	if err != nil {
		return nil, err
	}

	lspLog.Debugf("running %s (%d instructions)", uri, len(program))
	return s.worker.Run(program, input, format), nil
}

// programOf turns a document into executable instructions.
func programOf(uri, text string) ([]bytecode.Instruction, error) {
	if documentKind(uri) == kindSource {
		deltas, err := source.Deltas(text)
		if err != nil {
			return nil, err
		}
		return bytecode.Decode(deltas), nil
	}
	return bytecode.ParseLines(bytecode.SplitLines(text)), nil
}

// --- Diagnostics ---

func (s *LspServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	diagnostics := diagnose(string(uri), text)
	lspLog.Debugf("%s: %d diagnostics", uri, len(diagnostics))

	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// --- Text extraction helpers ---

// extractPrefix returns the word fragment before the cursor for completion.
func extractPrefix(text string, pos protocol.Position) string {
	line, col, ok := lineAt(text, pos)
	if !ok {
		return ""
	}

	// Walk backwards from cursor to find the start of the mnemonic
	start := col
	for start > 0 && isWordByte(line[start-1]) {
		start--
	}
	return line[start:col]
}

// extractWord returns the full word under the cursor.
func extractWord(text string, pos protocol.Position) string {
	line, col, ok := lineAt(text, pos)
	if !ok {
		return ""
	}

	start := col
	for start > 0 && isWordByte(line[start-1]) {
		start--
	}
	end := col
	for end < len(line) && isWordByte(line[end]) {
		end++
	}
	return line[start:end]
}

func lineAt(text string, pos protocol.Position) (string, int, bool) {
	lines := bytecode.SplitLines(text)
	if int(pos.Line) >= len(lines) {
		return "", 0, false
	}
	line := lines[pos.Line]
	col := int(pos.Character)
	if col > len(line) {
		col = len(line)
	}
	return line, col, true
}

// isWordByte matches mnemonic characters and the digits of an argument.
func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func boolPtr(b bool) *bool {
	return &b
}
