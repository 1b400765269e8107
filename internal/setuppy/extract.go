// Package setuppy reads legacy setup.py packaging files.
//
// Extraction is static: the source is parsed with the Starlark grammar, which
// accepts the expression subset of Python that packaging files use, and the
// keyword arguments of the setup() call are evaluated by a restricted evaluator.
// Nothing is executed. Import statements are blanked and adjacent string
// literals are joined before parsing, as Starlark accepts neither.
package setuppy

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ProsePal/ebooklib-autoupdate/internal/metadata"
	"go.starlark.net/syntax"
)

// setupFunc is the name of the packaging entry point.
const setupFunc = "setup"

var fileOptions = &syntax.FileOptions{
	TopLevelControl: true,
	GlobalReassign:  true,
	While:           true,
	Set:             true,
}

// Extractor pulls the setup() keyword arguments out of setup.py sources.
type Extractor struct {
	Logger *slog.Logger
}

// Extract parses src and returns the keyword arguments of its setup() call in
// source order.
func Extract(filename string, src []byte) (*metadata.Config, error) {
	return (&Extractor{}).Extract(filename, src)
}

// ExtractFile reads and extracts the setup.py file at path.
func (x *Extractor) ExtractFile(path string) (*metadata.Config, error) {
	src, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return x.Extract(path, src)
}

// Extract parses src and returns the keyword arguments of its setup() call.
func (x *Extractor) Extract(filename string, src []byte) (*metadata.Config, error) {
	logger := x.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	text, joins := joinAdjacentStrings(maskStatements(src))
	call, base, err := findSetupCall(filename, text, logger)
	if err != nil {
		return nil, err
	}
	ev := evaluator{base: base, joins: joins}

	cfg := metadata.New()
	for _, arg := range call.Args {
		switch a := arg.(type) {
		case *syntax.BinaryExpr:
			if a.Op != syntax.EQ {
				continue
			}
			ident, ok := a.X.(*syntax.Ident)
			if !ok {
				continue
			}
			v, err := ev.eval(ident.Name, a.Y)
			if err != nil {
				return nil, err
			}
			cfg.Set(ident.Name, v)
		case *syntax.UnaryExpr:
			if a.Op == syntax.STARSTAR {
				return nil, ev.fail("**", a, "keyword unpacking")
			}
		}
	}

	logger.Debug("extracted setup() keywords", "file", filename, "keywords", cfg.Keys())
	return cfg, nil
}

// findSetupCall parses the whole file, falling back to parsing only the text of
// the setup() call when the file uses Python syntax Starlark does not accept.
func findSetupCall(filename string, src []byte, logger *slog.Logger) (*syntax.CallExpr, Position, error) {
	origin := Position{Line: 1, Column: 1}
	f, err := fileOptions.Parse(filename, src, 0)
	if err == nil {
		if call := firstSetupCall(f); call != nil {
			return call, origin, nil
		}
		return nil, origin, fmt.Errorf("%s: %w", filename, ErrNoSetupCall)
	}

	logger.Debug("full parse failed, isolating setup() call", "file", filename, "error", err)

	start, end, ok := locateCall(src, setupFunc)
	if !ok {
		return nil, origin, fmt.Errorf("%s: %w", filename, ErrNoSetupCall)
	}

	base := lineCol(src, start)
	expr, perr := fileOptions.ParseExpr(filename, src[start:end], 0)
	if perr != nil {
		return nil, origin, toParseError(filename, perr, base)
	}
	call, ok := expr.(*syntax.CallExpr)
	if !ok || !isSetupIdent(call.Fn) {
		return nil, origin, fmt.Errorf("%s: %w", filename, ErrNoSetupCall)
	}
	return call, base, nil
}

func firstSetupCall(f *syntax.File) *syntax.CallExpr {
	var found *syntax.CallExpr
	syntax.Walk(f, func(n syntax.Node) bool {
		if found != nil {
			return false
		}
		if call, ok := n.(*syntax.CallExpr); ok && isSetupIdent(call.Fn) {
			found = call
			return false
		}
		return true
	})
	return found
}

func isSetupIdent(e syntax.Expr) bool {
	ident, ok := e.(*syntax.Ident)
	return ok && ident.Name == setupFunc
}

func toParseError(filename string, err error, base Position) error {
	var serr syntax.Error
	if errors.As(err, &serr) {
		return &ParseError{
			File:    filename,
			Pos:     offsetPosition(int(serr.Pos.Line), int(serr.Pos.Col), base),
			Message: serr.Msg,
		}
	}
	return &ParseError{File: filename, Pos: base, Message: err.Error()}
}

// offsetPosition maps a position inside a snippet that starts at base back
// into the file. The origin base maps every position to itself.
func offsetPosition(line, col int, base Position) Position {
	if line <= 1 {
		return Position{Line: base.Line, Column: base.Column + col - 1}
	}
	return Position{Line: base.Line + line - 1, Column: col}
}
