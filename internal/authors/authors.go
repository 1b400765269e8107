// Package authors parses the AUTHORS file of a project into an ordered
// registry of display names and email addresses.
//
// Each non-empty line has the form "Name <email>" or just "Name". Lines that
// start with "Listed" are headers and are skipped.
package authors

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// headerPrefix marks header lines in the authors file.
const headerPrefix = "Listed"

// Entry is a single author.
type Entry struct {
	Name  string
	Email string
}

// Registry maps author names to emails, preserving the order of first appearance.
type Registry struct {
	order  []string
	emails map[string]string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{emails: make(map[string]string)}
}

// Add records name with email. A repeated name keeps its first position and
// takes the latest email.
func (r *Registry) Add(name, email string) {
	if _, ok := r.emails[name]; !ok {
		r.order = append(r.order, name)
	}
	r.emails[name] = email
}

// Email returns the email recorded for name.
func (r *Registry) Email(name string) (string, bool) {
	email, ok := r.emails[name]
	return email, ok
}

// Entries returns the authors in file order.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, len(r.order))
	for _, name := range r.order {
		entries = append(entries, Entry{Name: name, Email: r.emails[name]})
	}
	return entries
}

// Len returns the number of authors.
func (r *Registry) Len() int {
	return len(r.order)
}

// ParseLine splits a "Name <email>" line. ok is false for blank and header lines.
func ParseLine(line string) (entry Entry, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, headerPrefix) {
		return Entry{}, false
	}

	name, email, _ := strings.Cut(line, "<")
	return Entry{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(strings.TrimRight(strings.TrimSpace(email), ">")),
	}, true
}

// Parse reads an authors file from r.
func Parse(r io.Reader) (*Registry, error) {
	reg := NewRegistry()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		entry, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		reg.Add(entry.Name, entry.Email)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read authors: %w", err)
	}
	return reg, nil
}

// Load parses the authors file at path.
func Load(path string) (*Registry, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to open authors file: %w", err)
	}
	defer f.Close()

	reg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}
