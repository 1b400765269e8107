// Package license resolves free-text license names to SPDX identifiers using
// the SPDX license list.
package license

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrLicenseNotFound is returned when no SPDX entry matches a license name.
var ErrLicenseNotFound = errors.New("license not found")

// License is one entry of the SPDX license list.
type License struct {
	Name string `json:"name"`
	ID   string `json:"licenseId"`
}

// Table is the SPDX license list in upstream order.
type Table struct {
	Licenses []License `json:"licenses"`

	// lowered caches the lowercased names, parallel to Licenses.
	lowered []string
}

var lower = cases.Lower(language.Und)

// NewTable builds a Table from licenses.
func NewTable(licenses []License) *Table {
	t := &Table{Licenses: licenses}
	t.index()
	return t
}

func (t *Table) index() {
	t.lowered = make([]string, len(t.Licenses))
	for i, l := range t.Licenses {
		t.lowered[i] = lower.String(l.Name)
	}
}

// Len returns the number of licenses in the table.
func (t *Table) Len() int {
	return len(t.Licenses)
}

// Resolve returns the SPDX identifier of the first license whose name starts
// with name, compared case-insensitively after trimming surrounding whitespace.
func (t *Table) Resolve(name string) (string, error) {
	needle := lower.String(strings.TrimSpace(name))
	if needle == "" {
		return "", fmt.Errorf("%w: empty license name", ErrLicenseNotFound)
	}
	if len(t.lowered) != len(t.Licenses) {
		t.index()
	}
	for i, candidate := range t.lowered {
		if strings.HasPrefix(candidate, needle) {
			return t.Licenses[i].ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrLicenseNotFound, name)
}

// Decode reads an SPDX license list document.
func Decode(r io.Reader) (*Table, error) {
	var t Table
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to decode license data: %w", err)
	}
	if len(t.Licenses) == 0 {
		return nil, errors.New("license data contains no licenses")
	}
	t.index()
	return &t, nil
}

// Load reads an SPDX license list from a local file.
func Load(path string) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to open license data: %w", err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
