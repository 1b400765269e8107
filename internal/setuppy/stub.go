package setuppy

import (
	"fmt"
	"os"
	"strings"

	"github.com/creachadair/atomicfile"
)

// Stub is the setup.py content left behind once all configuration lives in
// pyproject.toml.
const Stub = "from setuptools import setup\n\n\nsetup()\n"

// Format identifies where a project's packaging configuration lives.
type Format int

const (
	// FormatSetup means setup.py still carries the configuration.
	FormatSetup Format = iota
	// FormatPyProject means setup.py is the stub and pyproject.toml is authoritative.
	FormatPyProject
)

func (f Format) String() string {
	switch f {
	case FormatSetup:
		return "setup.py"
	case FormatPyProject:
		return "pyproject.toml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Detect reports FormatPyProject when contents equals stub, ignoring
// surrounding whitespace, and FormatSetup otherwise. An empty stub means Stub.
func Detect(contents, stub string) Format {
	if stub == "" {
		stub = Stub
	}
	if strings.TrimSpace(contents) == strings.TrimSpace(stub) {
		return FormatPyProject
	}
	return FormatSetup
}

// DetectFile reads path and detects its format.
func DetectFile(path, stub string) (Format, []byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return FormatSetup, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Detect(string(data), stub), data, nil
}

// Replace atomically overwrites path with stub. An empty stub means Stub.
func Replace(path, stub string) error {
	if stub == "" {
		stub = Stub
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := atomicfile.WriteData(path, []byte(stub), mode); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
