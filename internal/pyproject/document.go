// Package pyproject reads and rewrites pyproject.toml files.
//
// Only the [project] table is rebuilt. Every other table, including comments
// and formatting, is written back exactly as it was read.
package pyproject

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"github.com/creachadair/atomicfile"
	"github.com/pelletier/go-toml/v2"
)

// Document is a parsed pyproject.toml.
type Document struct {
	data         []byte
	preambleEnd  int
	sections     []section
	projectIndex int
	project      *Table
}

// ReadFile parses the pyproject.toml at path.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Project returns the [project] table. Changes to it are reflected by Bytes.
func (d *Document) Project() *Table {
	return d.project
}

// SetProject replaces the [project] table.
func (d *Document) SetProject(t *Table) {
	d.project = t
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Bytes serializes the document. Runs of blank lines collapse to a single one
// and the document ends with exactly one newline.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	buf.Write(d.data[:d.preambleEnd])

	for i, s := range d.sections {
		switch s.kind {
		case sectionProject:
			if i != d.projectIndex {
				buf.Write(d.data[s.bodyEnd:s.end])
				continue
			}
			writeProject(&buf, d.project)
			trailing := d.data[s.bodyEnd:s.end]
			buf.Write(trailing)
			if len(trailing) == 0 && i < len(d.sections)-1 {
				buf.WriteByte('\n')
			}
		case sectionProjectSub:
			buf.Write(d.data[s.bodyEnd:s.end])
		default:
			buf.Write(d.data[s.start:s.end])
		}
	}

	out := blankRuns.ReplaceAll(buf.Bytes(), []byte("\n\n"))
	return append(bytes.TrimRight(out, "\n"), '\n')
}

// Validate reports whether the serialized document is valid TOML.
func (d *Document) Validate() error {
	var decoded map[string]any
	if err := toml.Unmarshal(d.Bytes(), &decoded); err != nil {
		return fmt.Errorf("rewritten document is not valid TOML: %w", err)
	}
	return nil
}

// WriteFile atomically replaces path with the serialized document. An invalid
// document is not written.
func (d *Document) WriteFile(path string) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := atomicfile.WriteData(path, d.Bytes(), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
