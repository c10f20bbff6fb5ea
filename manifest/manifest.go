// Package manifest handles fython.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "fython.toml"

// Manifest represents a fython.toml project configuration.
type Manifest struct {
	Project Project   `toml:"project"`
	Run     RunConfig `toml:"run"`
	Log     LogConfig `toml:"log"`
	Store   Store     `toml:"store"`

	// Dir is the directory containing the fython.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name string `toml:"name"`
}

// RunConfig holds defaults for the command-line pipeline.
type RunConfig struct {
	InputType     string `toml:"input-type"`
	OutputType    string `toml:"output-type"`
	OutputFormat  string `toml:"output-format"`
	ProgramInput  string `toml:"program-input"`
	ProgramOutput string `toml:"program-output"`
	Trace         bool   `toml:"trace"`
}

// LogConfig configures commonlog.
type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Store configures the program database.
type Store struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no fython.toml exists.
func Default(dir string) *Manifest {
	m := &Manifest{Dir: dir}
	m.applyDefaults()
	return m
}

// Load parses a fython.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile parses the configuration file at path. Relative paths inside it
// resolve against the file's directory.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	m.applyDefaults()
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find a fython.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

func (m *Manifest) applyDefaults() {
	if m.Run.InputType == "" {
		m.Run.InputType = "p"
	}
	if m.Run.OutputType == "" {
		m.Run.OutputType = "e"
	}
	if m.Run.OutputFormat == "" {
		m.Run.OutputFormat = "char"
	}
	if m.Store.Path == "" {
		m.Store.Path = filepath.Join(".fython", "programs.db")
	}
}

// Validate checks that the enumerated run settings hold known values.
func (m *Manifest) Validate() error {
	if err := CheckInputType(m.Run.InputType); err != nil {
		return err
	}
	if err := CheckOutputType(m.Run.OutputType); err != nil {
		return err
	}
	switch m.Run.OutputFormat {
	case "char", "number":
	default:
		return fmt.Errorf("run.output-format: unknown format %q (want char or number)", m.Run.OutputFormat)
	}
	return nil
}

// CheckInputType reports whether t is p (Fython code), d (deltas) or
// a (assembly).
func CheckInputType(t string) error {
	switch t {
	case "p", "d", "a":
		return nil
	}
	return fmt.Errorf("input type %q: want p, d or a", t)
}

// CheckOutputType reports whether t is d (deltas), a (assembly) or
// e (execute).
func CheckOutputType(t string) error {
	switch t {
	case "d", "a", "e":
		return nil
	}
	return fmt.Errorf("output type %q: want d, a or e", t)
}

// StorePath returns the absolute path of the program database.
func (m *Manifest) StorePath() string {
	return m.resolve(m.Store.Path)
}

// LogFile returns the absolute log file path, or nil to log to stderr.
func (m *Manifest) LogFile() *string {
	if m.Log.File == "" {
		return nil
	}
	p := m.resolve(m.Log.File)
	return &p
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, p)
}
