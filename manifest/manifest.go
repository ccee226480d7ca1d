// Package manifest handles stackvm.toml run configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by Load.
const FileName = "stackvm.toml"

// Manifest represents a stackvm.toml run configuration.
type Manifest struct {
	Run   Run   `toml:"run"`
	Trace Trace `toml:"trace"`
	Log   Log   `toml:"log"`

	// Dir is the directory containing the stackvm.toml file (set at load
	// time).
	Dir string `toml:"-"`
}

// Run configures the driver loop.
type Run struct {
	Program string `toml:"program"` // name of a built-in program
	Steps   uint64 `toml:"steps"`   // step budget (defaults to 69 when unset)
	Dump    bool   `toml:"dump"`    // dump the stack after the run
}

// Trace configures step-trace recording.
type Trace struct {
	Path string `toml:"path"` // trace database path; empty disables tracing
}

// Log configures logging.
type Log struct {
	Verbosity int `toml:"verbosity"`
}

// Default returns the configuration used when no stackvm.toml exists.
func Default() *Manifest {
	m := &Manifest{}
	m.applyDefaults()
	return m
}

// Load parses a stackvm.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	m.applyDefaults()
	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.Run.Program == "" {
		m.Run.Program = "fib"
	}
	if m.Run.Steps == 0 {
		m.Run.Steps = 69
	}
}
