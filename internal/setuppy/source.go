package setuppy

import (
	"bytes"
	"unicode/utf8"
)

// Python statements the Starlark grammar rejects outright. Lines starting with
// them are blanked before parsing; the setup() call never depends on them.
var maskedKeywords = [][]byte{[]byte("import"), []byte("from")}

// skipLiteral returns the index just past the string literal or comment that
// starts at src[i]. It returns i when src[i] starts neither.
func skipLiteral(src []byte, i int) int {
	switch c := src[i]; c {
	case '#':
		for i < len(src) && src[i] != '\n' {
			i++
		}
		return i
	case '\'', '"':
		if i+2 < len(src) && src[i+1] == c && src[i+2] == c {
			quote := []byte{c, c, c}
			j := i + 3
			for j < len(src) {
				if src[j] == '\\' {
					j += 2
					continue
				}
				if bytes.HasPrefix(src[j:], quote) {
					return j + 3
				}
				j++
			}
			return len(src)
		}
		j := i + 1
		for j < len(src) && src[j] != '\n' {
			switch src[j] {
			case '\\':
				j += 2
				continue
			case c:
				return j + 1
			}
			j++
		}
		return j
	default:
		return i
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c >= 0x80
}

// maskStatements returns a copy of src with import statements replaced by
// spaces. Newlines are kept so reported positions still match the input.
func maskStatements(src []byte) []byte {
	out := bytes.Clone(src)
	i := 0
	for i < len(out) {
		if i == 0 || out[i-1] == '\n' {
			if end, ok := maskedStatementEnd(out, i); ok {
				for j := i; j < end; j++ {
					if out[j] != '\n' {
						out[j] = ' '
					}
				}
				i = end
				continue
			}
		}
		if next := skipLiteral(out, i); next != i {
			i = next
			continue
		}
		i++
	}
	return out
}

// maskedStatementEnd reports whether the line starting at start opens a masked
// statement, and where that statement ends. Parenthesized and backslash
// continued imports span several lines.
func maskedStatementEnd(src []byte, start int) (int, bool) {
	i := start
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	matched := false
	for _, kw := range maskedKeywords {
		rest := src[i:]
		if bytes.HasPrefix(rest, kw) && len(rest) > len(kw) && (rest[len(kw)] == ' ' || rest[len(kw)] == '\t') {
			matched = true
			break
		}
	}
	if !matched {
		return 0, false
	}

	depth := 0
	for i < len(src) {
		switch src[i] {
		case '(':
			depth++
		case ')':
			depth--
		case '\\':
			if i+1 < len(src) && src[i+1] == '\n' {
				i += 2
				continue
			}
		case '\n':
			if depth <= 0 {
				return i, true
			}
		case '#', '\'', '"':
			i = skipLiteral(src, i)
			continue
		}
		i++
	}
	return len(src), true
}

// locateCall finds the first call to the function named name outside string
// literals and comments, returning the byte range of the whole call expression.
func locateCall(src []byte, name string) (start, end int, ok bool) {
	ident := []byte(name)
	i := 0
	for i < len(src) {
		if next := skipLiteral(src, i); next != i {
			i = next
			continue
		}
		if bytes.HasPrefix(src[i:], ident) && (i == 0 || !isIdentByte(src[i-1]) && src[i-1] != '.') {
			j := i + len(ident)
			if j < len(src) && isIdentByte(src[j]) {
				i = j
				continue
			}
			for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
				j++
			}
			if j < len(src) && src[j] == '(' {
				if close, found := matchParen(src, j); found {
					return i, close + 1, true
				}
				return 0, 0, false
			}
		}
		i++
	}
	return 0, 0, false
}

// matchParen returns the index of the bracket closing the one at src[open].
func matchParen(src []byte, open int) (int, bool) {
	depth := 0
	i := open
	for i < len(src) {
		switch src[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return i, true
			}
		case '#', '\'', '"':
			i = skipLiteral(src, i)
			continue
		}
		i++
	}
	return 0, false
}

// lineCol converts a byte offset into a 1-based line and column.
func lineCol(src []byte, offset int) Position {
	line := 1 + bytes.Count(src[:offset], []byte("\n"))
	col := offset + 1
	if nl := bytes.LastIndexByte(src[:offset], '\n'); nl >= 0 {
		col = offset - nl
	}
	return Position{Line: line, Column: col}
}

// joinAdjacentStrings rewrites the implicit concatenation of adjacent string
// literals, which Starlark rejects, into an explicit +. It returns the new
// source and the positions of the operators it introduced. Literals separated
// by a newline are joined only inside brackets.
func joinAdjacentStrings(src []byte) ([]byte, map[Position]bool) {
	out := make([]byte, 0, len(src))
	var offsets []int
	depth := 0
	i := 0
	for i < len(src) {
		next := skipLiteral(src, i)
		if next == i {
			switch src[i] {
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				depth--
			}
			out = append(out, src[i])
			i++
			continue
		}
		comment := src[i] == '#'
		out = append(out, src[i:next]...)
		i = next
		if comment || src[next-1] != '\'' && src[next-1] != '"' {
			continue
		}
		end, ok := adjacentLiteral(src, next)
		if !ok {
			continue
		}
		gap := src[next:end]
		if depth <= 0 && bytes.ContainsRune(gap, '\n') {
			continue
		}
		start := len(out)
		if at := plusSlot(gap); at >= 0 {
			out = append(out, gap...)
			out[start+at] = '+'
			offsets = append(offsets, start+at)
		} else {
			out = append(out, '+')
			out = append(out, gap...)
			offsets = append(offsets, start)
		}
		i = end
	}

	joins := make(map[Position]bool, len(offsets))
	for _, off := range offsets {
		joins[runePosition(out, off)] = true
	}
	return out, joins
}

// adjacentLiteral reports whether another string literal follows the one that
// ended at src[i], separated only by blanks, comments and line continuations.
// It returns the index where that literal, prefix included, starts.
func adjacentLiteral(src []byte, i int) (int, bool) {
	j := i
	for j < len(src) {
		switch c := src[j]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			j++
		case c == '\\' && j+1 < len(src) && src[j+1] == '\n':
			j += 2
		case c == '#':
			j = skipLiteral(src, j)
		default:
			k := j
			for k < len(src) && k-j < 2 && bytes.IndexByte([]byte("rRbB"), src[k]) >= 0 {
				k++
			}
			if k < len(src) && (src[k] == '\'' || src[k] == '"') {
				return j, true
			}
			return 0, false
		}
	}
	return 0, false
}

// plusSlot returns the index of a blank in gap, outside comments, that can be
// overwritten with an operator. It returns -1 when there is none.
func plusSlot(gap []byte) int {
	comment := false
	for i, c := range gap {
		switch {
		case c == '#':
			comment = true
		case c == '\n':
			comment = false
		case !comment && (c == ' ' || c == '\t'):
			return i
		}
	}
	return -1
}

// runePosition converts a byte offset into a 1-based line and rune column, the
// form the Starlark scanner reports.
func runePosition(src []byte, offset int) Position {
	line := 1 + bytes.Count(src[:offset], []byte("\n"))
	lineStart := bytes.LastIndexByte(src[:offset], '\n') + 1
	return Position{Line: line, Column: utf8.RuneCount(src[lineStart:offset]) + 1}
}
