package pyproject

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
)

// projectTable is the PEP 621 metadata table.
const projectTable = "project"

// ErrNoProjectTable is returned when a document has no [project] table.
var ErrNoProjectTable = errors.New("no [project] table")

// ParseError reports invalid TOML.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("toml error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// sectionKind tells how a section is treated when the document is written.
type sectionKind int

const (
	// sectionRaw sections are written back byte for byte.
	sectionRaw sectionKind = iota
	// sectionProject is the [project] table, rebuilt from the model.
	sectionProject
	// sectionProjectSub is a [project.<key>] table or [[project.<key>]] array
	// table folded into the model. Only its trailing comments survive in place.
	sectionProjectSub
)

// section is a header-delimited slice of the document.
type section struct {
	kind  sectionKind
	start int
	end   int
	// bodyEnd is where trailing blank and comment lines begin.
	bodyEnd int
}

// Parse reads a pyproject.toml document. The [project] table and its direct
// sub-tables are decoded into an ordered model; everything else is kept as is.
func Parse(data []byte) (*Document, error) {
	var decoded map[string]any
	if err := toml.Unmarshal(data, &decoded); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			line, col := derr.Position()
			return nil, &ParseError{Line: line, Column: col, Message: derr.Error()}
		}
		return nil, &ParseError{Message: err.Error()}
	}

	doc := &Document{data: bytes.Clone(data), project: NewTable(false), projectIndex: -1}

	var (
		p       unstable.Parser
		current *Table // model table receiving key/values, nil for raw sections
	)
	p.Reset(doc.data)
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			path, offset := keyPath(expr.Key())
			start := lineStart(doc.data, offset)
			doc.closeSection(start)

			kind := sectionRaw
			current = nil
			if len(path) > 0 && path[0] == projectTable {
				switch {
				case expr.Kind == unstable.Table && len(path) == 1:
					if doc.projectIndex < 0 {
						doc.projectIndex = len(doc.sections)
					}
					kind = sectionProject
					current = doc.project
				case expr.Kind == unstable.Table && len(path) == 2:
					kind = sectionProjectSub
					current = doc.project.ensureTable(path[1])
				case expr.Kind == unstable.ArrayTable && len(path) == 2:
					kind = sectionProjectSub
					current = doc.project.appendTable(path[1])
				}
			}
			doc.sections = append(doc.sections, section{kind: kind, start: start, end: len(doc.data)})
		case unstable.KeyValue:
			if current == nil {
				continue
			}
			path, offset := keyPath(expr.Key())
			v, err := convert(doc.data, expr.Value(), offset)
			if err != nil {
				return nil, err
			}
			target := current
			for _, k := range path[:len(path)-1] {
				target = target.ensureTable(k)
			}
			target.Set(path[len(path)-1], v)
		}
	}
	if err := p.Error(); err != nil {
		return nil, &ParseError{Message: err.Error()}
	}
	doc.closeSection(len(doc.data))

	if doc.projectIndex < 0 {
		return nil, ErrNoProjectTable
	}
	return doc, nil
}

// closeSection ends the open section at offset and records its trailing lines.
func (d *Document) closeSection(offset int) {
	if len(d.sections) == 0 {
		d.preambleEnd = offset
		return
	}
	s := &d.sections[len(d.sections)-1]
	s.end = offset
	s.bodyEnd = trailingStart(d.data, s.start, s.end)
}

func keyPath(it unstable.Iterator) ([]string, int) {
	var (
		path   []string
		offset = -1
	)
	for it.Next() {
		k := it.Node()
		if offset < 0 {
			offset = int(k.Raw.Offset)
		}
		path = append(path, string(k.Data))
	}
	return path, offset
}

// convert turns a parser node into a model value. anchor is the offset of the
// owning key, used to tell whether an array was written across lines.
func convert(data []byte, n *unstable.Node, anchor int) (Value, error) {
	switch n.Kind {
	case unstable.String:
		return String(string(n.Data)), nil
	case unstable.Bool, unstable.Integer, unstable.Float,
		unstable.LocalDate, unstable.LocalTime, unstable.LocalDateTime, unstable.DateTime:
		return Raw(string(n.Data)), nil
	case unstable.Array:
		arr := &Array{}
		it := n.Children()
		first := true
		for it.Next() {
			c := it.Node()
			if c.Kind == unstable.Comment {
				continue
			}
			if first && anchor >= 0 && c.Raw.Length > 0 {
				arr.Multiline = bytes.IndexByte(data[anchor:c.Raw.Offset], '\n') >= 0
			}
			first = false
			v, err := convert(data, c, -1)
			if err != nil {
				return nil, err
			}
			arr.Items = append(arr.Items, v)
		}
		return arr, nil
	case unstable.InlineTable:
		tbl := NewTable(true)
		it := n.Children()
		for it.Next() {
			kv := it.Node()
			if kv.Kind != unstable.KeyValue {
				continue
			}
			path, _ := keyPath(kv.Key())
			v, err := convert(data, kv.Value(), -1)
			if err != nil {
				return nil, err
			}
			target := tbl
			for _, k := range path[:len(path)-1] {
				sub, ok := target.GetTable(k)
				if !ok {
					sub = NewTable(true)
					target.Set(k, sub)
				}
				target = sub
			}
			target.Set(path[len(path)-1], v)
		}
		return tbl, nil
	default:
		return nil, fmt.Errorf("unsupported toml node %s", n.Kind)
	}
}

func lineStart(data []byte, offset int) int {
	if offset < 0 {
		return 0
	}
	return bytes.LastIndexByte(data[:offset], '\n') + 1
}

// trailingStart returns the offset where the run of blank and comment lines
// closing data[start:end] begins. The header line itself is never trailing.
func trailingStart(data []byte, start, end int) int {
	headerEnd := bytes.IndexByte(data[start:end], '\n')
	if headerEnd < 0 {
		return end
	}
	floor := start + headerEnd + 1

	pos := end
	for pos > floor {
		// line is data[ls:pos], pos is just past a '\n' or at end.
		lineEnd := pos
		if data[lineEnd-1] == '\n' {
			lineEnd--
		}
		ls := bytes.LastIndexByte(data[floor:lineEnd], '\n') + 1 + floor
		trimmed := bytes.TrimSpace(data[ls:lineEnd])
		if len(trimmed) > 0 && trimmed[0] != '#' {
			break
		}
		pos = ls
	}
	return pos
}
