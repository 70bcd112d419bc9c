// Package expr compiles the expressions embedded in templates and evaluates
// them against a render-time Context.
//
// Expressions use the Starlark expression grammar: arithmetic, comparison,
// and/or/not, attribute and index access, string concatenation with +,
// conditionals (a if cond else b), list and dict literals, calls and
// lambdas. Statements, including assignment, are not expressions; listeners
// change state through methods or the set_data builtin. The names true, false
// and null are predeclared alongside Starlark's True, False and None.
package expr

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var fileOptions = &syntax.FileOptions{}

// ErrEmptyListener is returned when a listener has no expression text.
var ErrEmptyListener = errors.New("listener expression is empty")

// Expr is a compiled expression. It holds only immutable data and is safe
// for concurrent evaluation.
type Expr struct {
	src     string
	wrapped string
	names   []string

	rangeTarget string
	rangeOver   *Expr
}

// Compile parses src and records the names it references. Empty source
// compiles to an expression that evaluates to nil.
func Compile(src string) (*Expr, error) {
	e := &Expr{src: src}
	text := strings.TrimSpace(src)
	if text == "" {
		return e, nil
	}
	// Parenthesised so the expression may span lines.
	e.wrapped = "(" + text + "\n)"
	parsed, err := fileOptions.ParseExpr("<expr>", e.wrapped, 0)
	if err != nil {
		return nil, fmt.Errorf("parsing expression %q: %w", src, err)
	}
	e.names = referencedNames(parsed)

	if p, ok := parsed.(*syntax.ParenExpr); ok {
		parsed = p.X
	}
	if bin, ok := parsed.(*syntax.BinaryExpr); ok && bin.Op == syntax.IN {
		if id, ok := bin.X.(*syntax.Ident); ok {
			rest := strings.TrimSpace(strings.TrimPrefix(text, id.Name))
			over, err := Compile(strings.TrimSpace(strings.TrimPrefix(rest, "in")))
			if err == nil {
				e.rangeTarget = id.Name
				e.rangeOver = over
			}
		}
	}
	return e, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string) *Expr {
	e, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return e
}

// Source returns the expression text as written in the template.
func (e *Expr) Source() string { return e.src }

// Names returns the identifiers the expression references, sorted.
func (e *Expr) Names() []string { return slices.Clone(e.names) }

// Range reports whether the expression has the form `target in iterable`,
// returning the target name and the compiled iterable.
func (e *Expr) Range() (target string, iterable *Expr, ok bool) {
	if e.rangeOver == nil {
		return "", nil, false
	}
	return e.rangeTarget, e.rangeOver, true
}

// Eval evaluates the expression under ctx and converts the result to Go.
// A nil ctx behaves as an empty context.
func (e *Expr) Eval(ctx *Context) (any, error) {
	v, err := e.eval(newThread(), ctx)
	if err != nil {
		return nil, err
	}
	return ToGo(v), nil
}

// Truth evaluates the expression under ctx and reports its truthiness.
func (e *Expr) Truth(ctx *Context) (bool, error) {
	v, err := e.eval(newThread(), ctx)
	if err != nil {
		return false, err
	}
	return bool(v.Truth()), nil
}

// Bind returns a zero-argument invocable evaluating e under ctx.
func (e *Expr) Bind(ctx *Context) func() (any, error) {
	return func() (any, error) { return e.Eval(ctx) }
}

func (e *Expr) eval(thread *starlark.Thread, ctx *Context) (starlark.Value, error) {
	if e.wrapped == "" {
		return starlark.None, nil
	}
	env, err := ctx.env(thread, e.names)
	if err != nil {
		return nil, fmt.Errorf("evaluating %q: %w", e.src, err)
	}
	v, err := starlark.EvalOptions(fileOptions, thread, "<expr>", e.wrapped, env)
	if err != nil {
		return nil, fmt.Errorf("evaluating %q: %w", e.src, err)
	}
	return v, nil
}

// Listener is a compiled event handler: its expression evaluates to a
// callable which receives the event payload.
type Listener struct {
	expr *Expr
}

// CompileListener compiles the handler expression of an event listener.
func CompileListener(src string) (*Listener, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmptyListener
	}
	e, err := Compile(src)
	if err != nil {
		return nil, err
	}
	return &Listener{expr: e}, nil
}

// Source returns the handler expression text.
func (l *Listener) Source() string { return l.expr.src }

// Invoke evaluates the handler under ctx and calls it with event.
func (l *Listener) Invoke(ctx *Context, event any) error {
	thread := newThread()
	fn, err := l.expr.eval(thread, ctx)
	if err != nil {
		return err
	}
	callable, ok := fn.(starlark.Callable)
	if !ok {
		return fmt.Errorf("listener %q is not callable (got %s)", l.expr.src, fn.Type())
	}
	if _, err := starlark.Call(thread, callable, starlark.Tuple{FromGo(event)}, nil); err != nil {
		return fmt.Errorf("calling listener %q: %w", l.expr.src, err)
	}
	return nil
}

// Bind returns the handler bound to ctx.
func (l *Listener) Bind(ctx *Context) func(event any) error {
	return func(event any) error { return l.Invoke(ctx, event) }
}

func newThread() *starlark.Thread {
	return &starlark.Thread{
		Name: "caret",
		Print: func(_ *starlark.Thread, msg string) {
			slog.Debug("template print", "msg", msg)
		},
	}
}

func referencedNames(e syntax.Expr) []string {
	seen := map[string]bool{}
	fields := map[*syntax.Ident]bool{}
	syntax.Walk(e, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.DotExpr:
			// x.name: only x is looked up
			fields[n.Name] = true
		case *syntax.Ident:
			if !fields[n] {
				seen[n.Name] = true
			}
		}
		return true
	})
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
