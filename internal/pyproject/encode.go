package pyproject

import (
	"bytes"
	"fmt"
	"strings"
)

const arrayIndent = "    "

// writeProject renders the [project] table followed by its sub-tables.
func writeProject(buf *bytes.Buffer, t *Table) {
	buf.WriteString("[" + projectTable + "]\n")

	var subs []Entry
	for _, e := range t.Entries {
		if e.Blank() {
			buf.WriteByte('\n')
			continue
		}
		if sub, ok := e.Value.(*Table); ok && !sub.Inline {
			subs = append(subs, e)
			continue
		}
		writeKeyValue(buf, e.Key, e.Value)
	}

	for _, e := range subs {
		buf.WriteString("\n[" + projectTable + "." + formatKey(e.Key) + "]\n")
		for _, se := range e.Value.(*Table).Entries {
			if se.Blank() {
				buf.WriteByte('\n')
				continue
			}
			writeKeyValue(buf, se.Key, se.Value)
		}
	}
}

func writeKeyValue(buf *bytes.Buffer, key string, v Value) {
	buf.WriteString(formatKey(key))
	buf.WriteString(" = ")
	writeValue(buf, v)
	buf.WriteByte('\n')
}

func writeValue(buf *bytes.Buffer, v Value) {
	switch v := v.(type) {
	case String:
		buf.WriteString(quote(string(v)))
	case Raw:
		buf.WriteString(string(v))
	case *Array:
		writeArray(buf, v)
	case *Table:
		writeInlineTable(buf, v)
	default:
		panic(fmt.Sprintf("pyproject: unknown value %T", v))
	}
}

func writeArray(buf *bytes.Buffer, a *Array) {
	if len(a.Items) == 0 {
		buf.WriteString("[]")
		return
	}
	if !a.Multiline {
		buf.WriteByte('[')
		for i, item := range a.Items {
			if i > 0 {
				buf.WriteString(", ")
			}
			writeValue(buf, item)
		}
		buf.WriteByte(']')
		return
	}
	buf.WriteString("[\n")
	for _, item := range a.Items {
		buf.WriteString(arrayIndent)
		writeValue(buf, item)
		buf.WriteString(",\n")
	}
	buf.WriteByte(']')
}

// writeInlineTable renders t as an inline table whatever its Inline flag,
// since nested sections cannot appear inside a value.
func writeInlineTable(buf *bytes.Buffer, t *Table) {
	buf.WriteByte('{')
	first := true
	for _, e := range t.Entries {
		if e.Blank() {
			continue
		}
		if !first {
			buf.WriteString(", ")
		}
		first = false
		buf.WriteString(formatKey(e.Key))
		buf.WriteString(" = ")
		writeValue(buf, e.Value)
	}
	buf.WriteByte('}')
}

func isBareKey(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '_' && c != '-' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

func formatKey(k string) string {
	if isBareKey(k) {
		return k
	}
	return quote(k)
}

// quote renders s as a TOML basic string.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
