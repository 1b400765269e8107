// Package metadata holds the packaging configuration extracted from either
// setup.py keyword arguments or a pyproject.toml [project] table.
package metadata

import (
	"fmt"
	"slices"
)

// Value is a configuration value. It is either a Scalar or a List.
type Value interface {
	isValue()
	// IsEmpty reports whether the value carries no data.
	IsEmpty() bool
}

// Scalar is a single string value. Numbers and booleans are kept as their
// source text.
type Scalar string

// List is an ordered sequence of strings.
type List []string

func (Scalar) isValue() {}
func (List) isValue()   {}

// IsEmpty implements Value.
func (s Scalar) IsEmpty() bool { return s == "" }

// IsEmpty implements Value.
func (l List) IsEmpty() bool { return len(l) == 0 }

// Config is an insertion-ordered mapping from field name to Value.
// The zero value is ready to use.
type Config struct {
	keys   []string
	values map[string]Value
}

// New creates an empty Config.
func New() *Config {
	return &Config{values: make(map[string]Value)}
}

// Set stores v under key. A new key is appended; an existing key keeps its position.
func (c *Config) Set(key string, v Value) {
	if c.values == nil {
		c.values = make(map[string]Value)
	}
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = v
}

// Get returns the value stored under key.
func (c *Config) Get(key string) (Value, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Has reports whether key is present.
func (c *Config) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Delete removes key. Missing keys are ignored.
func (c *Config) Delete(key string) {
	if _, ok := c.values[key]; !ok {
		return
	}
	delete(c.values, key)
	c.keys = slices.DeleteFunc(c.keys, func(k string) bool { return k == key })
}

// Rename moves the value stored under from to key to, keeping the position of from.
// It is a no-op when from is missing.
func (c *Config) Rename(from, to string) {
	v, ok := c.values[from]
	if !ok || from == to {
		return
	}
	if _, exists := c.values[to]; exists {
		c.Delete(to)
	}
	i := slices.Index(c.keys, from)
	c.keys[i] = to
	delete(c.values, from)
	c.values[to] = v
}

// Keys returns the field names in insertion order.
func (c *Config) Keys() []string {
	return slices.Clone(c.keys)
}

// Len returns the number of fields.
func (c *Config) Len() int {
	return len(c.keys)
}

// String returns the scalar stored under key, or "" when the key is missing or
// holds a list.
func (c *Config) String(key string) string {
	if s, ok := c.values[key].(Scalar); ok {
		return string(s)
	}
	return ""
}

// List returns the list stored under key. A scalar is returned as a single
// element list; a missing key returns nil.
func (c *Config) List(key string) []string {
	switch v := c.values[key].(type) {
	case List:
		return slices.Clone(v)
	case Scalar:
		if v == "" {
			return nil
		}
		return []string{string(v)}
	default:
		return nil
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := New()
	for _, k := range c.keys {
		switch v := c.values[k].(type) {
		case List:
			out.Set(k, slices.Clone(v))
		default:
			out.Set(k, v)
		}
	}
	return out
}

// Describe renders v for log and diagnostic output.
func Describe(v Value) string {
	switch v := v.(type) {
	case Scalar:
		return fmt.Sprintf("%q", string(v))
	case List:
		return fmt.Sprintf("%q", []string(v))
	default:
		return "<nil>"
	}
}
