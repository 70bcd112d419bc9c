package expr

import (
	"fmt"
	"maps"
	"slices"

	"go.starlark.net/starlark"
)

// Method is a named invocable exposed to templates.
type Method func(args ...any) (any, error)

// Context is the record compiled expressions and listeners are evaluated
// against. Names resolve from Data first, then Computed, then Methods.
type Context struct {
	// Data holds plain named values. The set_data builtin writes here.
	Data map[string]any
	// Computed values are expressions evaluated on each lookup.
	Computed map[string]*Expr
	Methods  map[string]Method
	// Props lists externally supplied names. Informational only.
	Props []string

	// root is the context a With chain started from; set_data writes
	// through to it so loop scopes can update component state.
	root *Context
}

// With returns a shallow copy of the context with name bound in Data.
func (c *Context) With(name string, value any) *Context {
	out := &Context{Data: map[string]any{}}
	if c != nil {
		out.Data = maps.Clone(c.Data)
		if out.Data == nil {
			out.Data = map[string]any{}
		}
		out.Computed = c.Computed
		out.Methods = c.Methods
		out.Props = c.Props
		out.root = c
		if c.root != nil {
			out.root = c.root
		}
	}
	out.Data[name] = value
	return out
}

// Names returns every name the context resolves, sorted.
func (c *Context) Names() []string {
	if c == nil {
		return nil
	}
	seen := map[string]bool{}
	for k := range c.Data {
		seen[k] = true
	}
	for k := range c.Computed {
		seen[k] = true
	}
	for k := range c.Methods {
		seen[k] = true
	}
	return slices.Sorted(maps.Keys(seen))
}

// computingKey is the thread-local holding computed names under evaluation.
const computingKey = "caret.computing"

// lookup resolves name on the given thread. found is false when the context
// does not declare the name.
func (c *Context) lookup(thread *starlark.Thread, name string) (starlark.Value, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	if v, ok := c.Data[name]; ok {
		return FromGo(v), true, nil
	}
	if e, ok := c.Computed[name]; ok {
		computing, _ := thread.Local(computingKey).(map[string]bool)
		if computing == nil {
			computing = map[string]bool{}
			thread.SetLocal(computingKey, computing)
		}
		if computing[name] {
			return nil, true, fmt.Errorf("computed value %q depends on itself", name)
		}
		computing[name] = true
		defer delete(computing, name)
		v, err := e.eval(thread, c)
		if err != nil {
			return nil, true, fmt.Errorf("computing %q: %w", name, err)
		}
		return v, true, nil
	}
	if m, ok := c.Methods[name]; ok {
		return methodBuiltin(name, m), true, nil
	}
	return nil, false, nil
}

// env builds the predeclared names for one evaluation: the JavaScript-style
// literals, the builtins, this, and every referenced context name.
func (c *Context) env(thread *starlark.Thread, names []string) (starlark.StringDict, error) {
	env := starlark.StringDict{
		"true":     starlark.True,
		"false":    starlark.False,
		"null":     starlark.None,
		"this":     &contextValue{ctx: c, thread: thread},
		"set_data": setDataBuiltin(c),
	}
	for _, name := range names {
		v, found, err := c.lookup(thread, name)
		if err != nil {
			return nil, err
		}
		if found {
			env[name] = v
		}
	}
	return env, nil
}

func methodBuiltin(name string, m Method) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) > 0 {
			return starlark.None, fmt.Errorf("%s: keyword arguments are not supported", fn.Name())
		}
		goArgs := make([]any, len(args))
		for i, a := range args {
			goArgs[i] = ToGo(a)
		}
		out, err := m(goArgs...)
		if err != nil {
			return starlark.None, fmt.Errorf("%s: %w", fn.Name(), err)
		}
		return FromGo(out), nil
	})
}

// setDataBuiltin lets listeners assign context data: set_data("name", value).
func setDataBuiltin(c *Context) *starlark.Builtin {
	return starlark.NewBuiltin("set_data", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		var value starlark.Value
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "value", &value); err != nil {
			return starlark.None, err
		}
		if c == nil || c.Data == nil {
			return starlark.None, fmt.Errorf("set_data: context has no data")
		}
		v := ToGo(value)
		c.Data[name] = v
		if c.root != nil && c.root.Data != nil {
			c.root.Data[name] = v
		}
		return starlark.None, nil
	})
}

// contextValue exposes the whole context as `this`, so this.name and name
// resolve identically.
type contextValue struct {
	ctx    *Context
	thread *starlark.Thread
}

var _ starlark.HasAttrs = (*contextValue)(nil)

func (v *contextValue) String() string       { return "<context>" }
func (v *contextValue) Type() string         { return "context" }
func (v *contextValue) Freeze()              {}
func (v *contextValue) Truth() starlark.Bool { return starlark.True }

func (v *contextValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: context")
}

func (v *contextValue) Attr(name string) (starlark.Value, error) {
	val, found, err := v.ctx.lookup(v.thread, name)
	if err != nil || !found {
		return nil, err
	}
	return val, nil
}

func (v *contextValue) AttrNames() []string { return v.ctx.Names() }
