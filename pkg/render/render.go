// Package render writes compiled templates out as HTML.
package render

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"

	"github.com/neurodesk/caret/pkg/expr"
	"github.com/neurodesk/caret/pkg/template"
	g "maragu.dev/gomponents"
)

// IDAttribute marks elements that carry listeners; its value is the key
// used with Bindings.Dispatch.
const IDAttribute = "data-caret-id"

type Renderer struct {
	Logger *slog.Logger
}

func NewRenderer() *Renderer {
	return &Renderer{Logger: slog.Default()}
}

// Render evaluates root under ctx and writes HTML to w. The returned
// Bindings hold every listener bound to ctx.
func (r *Renderer) Render(w io.Writer, root template.Node, ctx *expr.Context) (*Bindings, error) {
	st := &state{r: r, bindings: &Bindings{}}
	nodes, err := st.renderNode(root, ctx)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if err := n.Render(w); err != nil {
			return nil, fmt.Errorf("writing html: %w", err)
		}
	}
	return st.bindings, nil
}

type state struct {
	r        *Renderer
	bindings *Bindings
}

func (s *state) logger() *slog.Logger {
	if s.r == nil || s.r.Logger == nil {
		return slog.Default()
	}
	return s.r.Logger
}

func (s *state) renderNode(n template.Node, ctx *expr.Context) ([]g.Node, error) {
	switch t := n.(type) {
	case nil:
		return nil, nil
	case *template.Text:
		return []g.Node{g.Text(t.Value)}, nil
	case *template.Expression:
		v, err := t.Compute.Eval(ctx)
		if err != nil {
			return nil, err
		}
		return []g.Node{g.Text(expr.Stringify(v))}, nil
	case *template.Element:
		if d, ok := t.Directives[string(template.DirectiveFor)]; ok {
			return s.renderFor(t, d, ctx)
		}
		return s.renderElement(t, ctx)
	default:
		return nil, fmt.Errorf("unhandled node type: %T", n)
	}
}

// renderFor repeats el once per item of an `item in iterable` directive.
func (s *state) renderFor(el *template.Element, d template.Attr, ctx *expr.Context) ([]g.Node, error) {
	if d.Kind != template.AttrExpr {
		return nil, fmt.Errorf("%s on <%s> requires an expression", template.DirectiveFor, el.Tag)
	}
	target, iterable, ok := d.Expr.Range()
	if !ok {
		return nil, fmt.Errorf("%s on <%s>: expected 'item in iterable', got %q", template.DirectiveFor, el.Tag, d.Expr.Source())
	}
	v, err := iterable.Eval(ctx)
	if err != nil {
		return nil, err
	}
	items, err := iterate(v)
	if err != nil {
		return nil, fmt.Errorf("%s on <%s>: %w", template.DirectiveFor, el.Tag, err)
	}
	var out []g.Node
	for _, item := range items {
		nodes, err := s.renderElement(el, ctx.With(target, item))
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

func (s *state) renderElement(el *template.Element, ctx *expr.Context) ([]g.Node, error) {
	if d, ok := el.Directives[string(template.DirectiveIf)]; ok {
		v, err := d.Eval(ctx)
		if err != nil {
			return nil, err
		}
		if !truthy(v) {
			s.logger().Debug("element skipped", "tag", el.Tag, "directive", template.DirectiveIf)
			return nil, nil
		}
	}

	var children []g.Node
	for _, name := range slices.Sorted(maps.Keys(el.Attributes)) {
		v, err := el.Attributes[name].Eval(ctx)
		if err != nil {
			return nil, fmt.Errorf("attribute %q of <%s>: %w", name, el.Tag, err)
		}
		switch t := v.(type) {
		case nil:
			// omitted
		case bool:
			if t {
				children = append(children, g.Attr(name))
			}
		default:
			children = append(children, g.Attr(name, expr.Stringify(v)))
		}
	}
	if len(el.Listeners) > 0 {
		id := s.bindings.add(el, ctx)
		children = append(children, g.Attr(IDAttribute, strconv.Itoa(id)))
	}
	for _, c := range el.Children {
		nodes, err := s.renderNode(c, ctx)
		if err != nil {
			return nil, err
		}
		children = append(children, nodes...)
	}
	return []g.Node{g.El(el.Tag, children...)}, nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int64:
		return t != 0
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

func iterate(v any) ([]any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return t, nil
	case map[string]any:
		keys := slices.Sorted(maps.Keys(t))
		out := make([]any, len(keys))
		for i, k := range keys {
			out[i] = k
		}
		return out, nil
	case string:
		out := make([]any, 0, len(t))
		for _, r := range t {
			out = append(out, string(r))
		}
		return out, nil
	}
	return nil, fmt.Errorf("not iterable: %T", v)
}
