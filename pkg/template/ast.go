package template

import "github.com/neurodesk/caret/pkg/expr"

// Node is any node of a compiled template: *Element, *Text or *Expression.
type Node interface {
	node()
}

// Element is a tag with its resolved attributes, directives, listeners and
// children. The maps are never nil.
type Element struct {
	Tag        string
	Attributes map[string]Attr
	Directives map[string]Attr
	Listeners  map[string]*expr.Listener
	Children   []Node
}

func (*Element) node() {}

// Text is literal text between tags.
type Text struct {
	Value string
}

func (*Text) node() {}

// Expression is an embedded {expression} block.
type Expression struct {
	Compute *expr.Expr
}

func (*Expression) node() {}

// AttrKind says how an attribute value is produced.
type AttrKind int

const (
	AttrBool   AttrKind = iota // presence only
	AttrString                 // literal text
	AttrExpr                   // evaluated at render time
)

// Attr is the value of an attribute or directive.
type Attr struct {
	Kind AttrKind
	// Value is the literal text for AttrString.
	Value string
	// Expr is the compiled value for AttrExpr.
	Expr *expr.Expr
}

// Eval produces the attribute value under ctx: true for AttrBool, the
// literal for AttrString, the evaluated result for AttrExpr.
func (a Attr) Eval(ctx *expr.Context) (any, error) {
	switch a.Kind {
	case AttrString:
		return a.Value, nil
	case AttrExpr:
		return a.Expr.Eval(ctx)
	}
	return true, nil
}
