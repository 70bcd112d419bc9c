package template

import (
	"errors"

	"github.com/neurodesk/caret/pkg/expr"
)

// Directive names a reserved attribute that controls structural rendering.
type Directive string

const (
	DirectiveIf  Directive = "r-if"
	DirectiveFor Directive = "r-for"
)

// IsDirective reports whether name is a recognized directive.
func IsDirective(name string) bool {
	switch Directive(name) {
	case DirectiveIf, DirectiveFor:
		return true
	}
	return false
}

// IsKnownAttribute reports whether name is one of the plain attributes the
// compiler knows about. Unknown attributes are still accepted.
func IsKnownAttribute(name string) bool {
	switch name {
	case "class", "id", "disabled":
		return true
	}
	return false
}

// Tag is the resolved form of an opening or self-closing tag fragment.
type Tag struct {
	Name       string
	Attributes map[string]Attr
	Directives map[string]Attr
	Listeners  map[string]*expr.Listener
}

// ResolveTag classifies every attribute-like token of a tag fragment as a
// directive, a plain attribute or an event listener, compiling expression
// values along the way.
func ResolveTag(f Fragment) (Tag, error) {
	tag := Tag{
		Name:       f.TagName(),
		Attributes: map[string]Attr{},
		Directives: map[string]Attr{},
		Listeners:  map[string]*expr.Listener{},
	}
	if tag.Name == "" {
		return tag, structural(f, ErrMissingTagName)
	}
	start := 2
	if f.TagKind() == Closing {
		start = 3
	}
	r := &resolver{frag: f, toks: f.Tokens, i: start, tag: &tag}
	for !r.atEnd() {
		if err := r.resolveNext(); err != nil {
			return tag, err
		}
	}
	return tag, nil
}

type resolver struct {
	frag Fragment
	toks []Token
	i    int
	tag  *Tag
}

func (r *resolver) resolveNext() error {
	t := r.next()
	switch t.Kind {
	case At:
		return r.listener()
	case Identifier:
		return r.attribute(t.Text)
	}
	// '/', '>' and stray characters carry no meaning here
	return nil
}

// listener handles @event={handler}.
func (r *resolver) listener() error {
	name := r.next()
	if name == nil || name.Kind != Identifier {
		return attribute(r.frag, ErrListenerName)
	}
	if eq := r.next(); eq == nil || eq.Kind != Equals {
		return attribute(r.frag, ErrListenerNotExpression)
	}
	value := r.next()
	if value == nil || value.Kind != ExprBody {
		return attribute(r.frag, ErrListenerNotExpression)
	}
	l, err := expr.CompileListener(value.Text)
	if err != nil {
		if errors.Is(err, expr.ErrEmptyListener) {
			return attribute(r.frag, ErrListenerNotExpression)
		}
		return expression(r.frag, err)
	}
	r.tag.Listeners[name.Text] = l
	return nil
}

// attribute handles name, name="literal" and name={expression}.
func (r *resolver) attribute(name string) error {
	dest := r.tag.Attributes
	if IsDirective(name) {
		dest = r.tag.Directives
	}
	if p := r.peek(); p == nil || p.Kind != Equals {
		dest[name] = Attr{Kind: AttrBool}
		return nil
	}
	r.next() // =
	value := r.next()
	if value == nil {
		return attribute(r.frag, ErrAttributeValue)
	}
	switch value.Kind {
	case String:
		dest[name] = Attr{Kind: AttrString, Value: value.Text}
		return nil
	case OpenAngle, CloseAngle, Slash, Equals, At, Space:
		return attribute(r.frag, ErrAttributeValue)
	}
	// Expression blocks and bare words are both compiled as expressions.
	e, err := expr.Compile(value.Text)
	if err != nil {
		return expression(r.frag, err)
	}
	dest[name] = Attr{Kind: AttrExpr, Expr: e}
	return nil
}

func (r *resolver) next() *Token {
	if r.atEnd() {
		return nil
	}
	r.i++
	return &r.toks[r.i-1]
}

func (r *resolver) peek() *Token {
	if r.atEnd() {
		return nil
	}
	return &r.toks[r.i]
}

func (r *resolver) atEnd() bool {
	return r.i >= len(r.toks)
}
