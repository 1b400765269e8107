package pyproject

import "slices"

// Value is a TOML value of the [project] table model: String, Raw, *Array or *Table.
type Value interface {
	isValue()
}

// String is a TOML string.
type String string

// Raw holds a non-string scalar (integer, float, boolean or date-time) as its
// source text.
type Raw string

// Array is a TOML array. Multiline arrays are written one item per line.
type Array struct {
	Items     []Value
	Multiline bool
}

// Table is an ordered TOML table. Inline tables are written as {k = v, ...};
// other tables nested in [project] are written as [project.<key>] sections.
type Table struct {
	Entries []Entry
	Inline  bool
}

// Entry is a key/value pair of a Table. An entry without key and value is a
// blank line.
type Entry struct {
	Key   string
	Value Value
}

func (String) isValue() {}
func (Raw) isValue()    {}
func (*Array) isValue() {}
func (*Table) isValue() {}

// Blank reports whether e is a blank line marker.
func (e Entry) Blank() bool {
	return e.Key == "" && e.Value == nil
}

// Strings builds an array of strings.
func Strings(items []string, multiline bool) *Array {
	a := &Array{Items: make([]Value, 0, len(items)), Multiline: multiline}
	for _, s := range items {
		a.Items = append(a.Items, String(s))
	}
	return a
}

// StringItems returns the string items of a, skipping other kinds.
func (a *Array) StringItems() []string {
	out := make([]string, 0, len(a.Items))
	for _, v := range a.Items {
		if s, ok := v.(String); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// NewTable creates an empty table.
func NewTable(inline bool) *Table {
	return &Table{Inline: inline}
}

// Get returns the value stored under key.
func (t *Table) Get(key string) (Value, bool) {
	for _, e := range t.Entries {
		if !e.Blank() && e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// GetString returns the string stored under key.
func (t *Table) GetString(key string) (string, bool) {
	v, ok := t.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(String)
	return string(s), ok
}

// GetArray returns the array stored under key.
func (t *Table) GetArray(key string) (*Array, bool) {
	v, ok := t.Get(key)
	if !ok {
		return nil, false
	}
	a, ok := v.(*Array)
	return a, ok
}

// GetTable returns the table stored under key.
func (t *Table) GetTable(key string) (*Table, bool) {
	v, ok := t.Get(key)
	if !ok {
		return nil, false
	}
	tbl, ok := v.(*Table)
	return tbl, ok
}

// Set replaces the value of key in place, or appends it.
func (t *Table) Set(key string, v Value) {
	for i, e := range t.Entries {
		if !e.Blank() && e.Key == key {
			t.Entries[i].Value = v
			return
		}
	}
	t.Entries = append(t.Entries, Entry{Key: key, Value: v})
}

// AddBlank appends a blank line marker.
func (t *Table) AddBlank() {
	t.Entries = append(t.Entries, Entry{})
}

// Delete removes key.
func (t *Table) Delete(key string) {
	t.Entries = slices.DeleteFunc(t.Entries, func(e Entry) bool {
		return !e.Blank() && e.Key == key
	})
}

// Keys returns the keys in order, skipping blank lines.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.Entries))
	for _, e := range t.Entries {
		if !e.Blank() {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Len returns the number of keys.
func (t *Table) Len() int {
	return len(t.Keys())
}

// ensureTable returns the non-inline table under key, creating it when missing.
func (t *Table) ensureTable(key string) *Table {
	if sub, ok := t.GetTable(key); ok {
		return sub
	}
	sub := NewTable(false)
	t.Set(key, sub)
	return sub
}

// appendTable adds an inline table to the array under key, creating the array
// when missing. [[project.<key>]] sections are read this way.
func (t *Table) appendTable(key string) *Table {
	arr, ok := t.GetArray(key)
	if !ok {
		arr = &Array{Multiline: true}
		t.Set(key, arr)
	}
	elem := NewTable(true)
	arr.Items = append(arr.Items, elem)
	return elem
}
