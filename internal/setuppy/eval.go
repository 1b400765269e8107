package setuppy

import (
	"fmt"
	"strings"

	"github.com/ProsePal/ebooklib-autoupdate/internal/metadata"
	"go.starlark.net/syntax"
)

// pythonConstants maps the Python constant identifiers to their scalar form.
// None evaluates to the empty scalar so required-field checks reject it.
var pythonConstants = map[string]metadata.Scalar{
	"True":  "True",
	"False": "False",
	"None":  "",
}

// evaluator computes keyword argument values. It accepts exactly three
// shapes: a constant, a list of constants, and a call whose first positional
// argument is itself accepted. Parentheses are transparent and joined string
// literals count as one constant. Every other node is an *ExprError.
type evaluator struct {
	base  Position
	joins map[Position]bool
}

func (ev evaluator) eval(keyword string, e syntax.Expr) (metadata.Value, error) {
	switch e := e.(type) {
	case *syntax.Literal, *syntax.Ident:
		return ev.constant(keyword, e)
	case *syntax.ListExpr:
		items := make(metadata.List, 0, len(e.List))
		for _, elem := range e.List {
			s, err := ev.constant(keyword, elem)
			if err != nil {
				return nil, err
			}
			items = append(items, string(s))
		}
		return items, nil
	case *syntax.CallExpr:
		for _, arg := range e.Args {
			if isPositional(arg) {
				return ev.eval(keyword, arg)
			}
		}
		return nil, ev.fail(keyword, e, "call without positional arguments")
	case *syntax.ParenExpr:
		return ev.eval(keyword, e.X)
	case *syntax.BinaryExpr:
		if ev.joined(e) {
			return ev.constant(keyword, e)
		}
		return nil, ev.fail(keyword, e, describe(e))
	default:
		return nil, ev.fail(keyword, e, describe(e))
	}
}

// constant evaluates a literal or one of the Python constant identifiers.
func (ev evaluator) constant(keyword string, e syntax.Expr) (metadata.Scalar, error) {
	switch e := e.(type) {
	case *syntax.Literal:
		switch e.Token {
		case syntax.STRING, syntax.BYTES:
			s, _ := e.Value.(string)
			return metadata.Scalar(s), nil
		case syntax.INT, syntax.FLOAT:
			return metadata.Scalar(e.Raw), nil
		default:
			return "", ev.fail(keyword, e, "literal "+e.Token.String())
		}
	case *syntax.Ident:
		if v, ok := pythonConstants[e.Name]; ok {
			return v, nil
		}
		return "", ev.fail(keyword, e, fmt.Sprintf("name %s", e.Name))
	case *syntax.ParenExpr:
		return ev.constant(keyword, e.X)
	case *syntax.BinaryExpr:
		if !ev.joined(e) {
			return "", ev.fail(keyword, e, describe(e))
		}
		x, err := ev.stringPart(keyword, e.X)
		if err != nil {
			return "", err
		}
		y, err := ev.stringPart(keyword, e.Y)
		if err != nil {
			return "", err
		}
		return x + y, nil
	default:
		return "", ev.fail(keyword, e, describe(e))
	}
}

// joined reports whether e is an operator inserted between adjacent string
// literals rather than one written in the source.
func (ev evaluator) joined(e *syntax.BinaryExpr) bool {
	if e.Op != syntax.PLUS {
		return false
	}
	return ev.joins[offsetPosition(int(e.OpPos.Line), int(e.OpPos.Col), ev.base)]
}

// stringPart evaluates one side of a joined literal, which must be a string.
func (ev evaluator) stringPart(keyword string, e syntax.Expr) (metadata.Scalar, error) {
	if lit, ok := e.(*syntax.Literal); ok && lit.Token != syntax.STRING && lit.Token != syntax.BYTES {
		return "", ev.fail(keyword, e, "literal "+lit.Token.String())
	}
	if id, ok := e.(*syntax.Ident); ok {
		return "", ev.fail(keyword, e, "name "+id.Name)
	}
	return ev.constant(keyword, e)
}

func (ev evaluator) fail(keyword string, n syntax.Node, kind string) error {
	start, _ := n.Span()
	return &ExprError{
		Pos:     offsetPosition(int(start.Line), int(start.Col), ev.base),
		Keyword: keyword,
		Kind:    kind,
	}
}

func isPositional(arg syntax.Expr) bool {
	switch a := arg.(type) {
	case *syntax.BinaryExpr:
		return a.Op != syntax.EQ
	case *syntax.UnaryExpr:
		return a.Op != syntax.STAR && a.Op != syntax.STARSTAR
	default:
		return true
	}
}

// describe names an unsupported node for error messages.
func describe(e syntax.Expr) string {
	switch e := e.(type) {
	case *syntax.DictExpr:
		return "dict"
	case *syntax.TupleExpr:
		return "tuple"
	case *syntax.ListExpr:
		return "nested list"
	case *syntax.CallExpr:
		return "call"
	case *syntax.BinaryExpr:
		return "binary " + e.Op.String()
	case *syntax.UnaryExpr:
		return "unary " + e.Op.String()
	case *syntax.DotExpr:
		return "attribute ." + e.Name.Name
	case *syntax.IndexExpr, *syntax.SliceExpr:
		return "subscript"
	case *syntax.Comprehension:
		return "comprehension"
	case *syntax.CondExpr:
		return "conditional"
	case *syntax.LambdaExpr:
		return "lambda"
	default:
		return strings.TrimPrefix(fmt.Sprintf("%T", e), "*syntax.")
	}
}
