// Package component pairs a template with the data, computed values and
// methods it renders against.
package component

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/neurodesk/caret/pkg/expr"
	"github.com/neurodesk/caret/pkg/render"
	"github.com/neurodesk/caret/pkg/template"
	v "github.com/neurodesk/caret/pkg/validator"
	"gopkg.in/yaml.v3"
)

// Options declares a component. Everything except Methods can be loaded from
// a YAML component file.
type Options struct {
	Template template.Markup `yaml:"template"`
	Data     map[string]any  `yaml:"data,omitempty"`
	Props    []string        `yaml:"props,omitempty"`
	// Computed maps names to expressions evaluated on every lookup.
	Computed map[string]string      `yaml:"computed,omitempty"`
	Methods  map[string]expr.Method `yaml:"-"`
}

func (o Options) Validate() error {
	return v.All(
		o.Template.Validate(),
		v.NoDuplicates(o.Props, "props"),
		v.MapDict(o.Data, func(k string, _ any) error { return v.Identifier(k, "data name") }, "data"),
		v.MapDict(o.Computed, func(k string, _ string) error { return v.Identifier(k, "computed name") }, "computed"),
		v.MapDict(o.Methods, func(k string, _ expr.Method) error { return v.Identifier(k, "method name") }, "methods"),
		v.Disjoint(map[string][]string{
			"data":     slices.Collect(maps.Keys(o.Data)),
			"computed": slices.Collect(maps.Keys(o.Computed)),
			"methods":  slices.Collect(maps.Keys(o.Methods)),
		}),
	)
}

// Component is a compiled template with its render context.
type Component struct {
	Template string
	Root     template.Node
	Context  *expr.Context
}

// New validates opts, compiles the template and computed expressions, and
// builds the context.
func New(opts Options) (*Component, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid component: %w", err)
	}
	root, err := opts.Template.Compile()
	if err != nil {
		return nil, fmt.Errorf("compiling template: %w", err)
	}
	ctx := &expr.Context{
		Data:     map[string]any{},
		Computed: map[string]*expr.Expr{},
		Methods:  map[string]expr.Method{},
		Props:    slices.Clone(opts.Props),
	}
	maps.Copy(ctx.Data, opts.Data)
	maps.Copy(ctx.Methods, opts.Methods)
	for name, src := range opts.Computed {
		e, err := expr.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("computed %q: %w", name, err)
		}
		ctx.Computed[name] = e
	}
	return &Component{Template: string(opts.Template), Root: root, Context: ctx}, nil
}

// Load reads a YAML component file.
func Load(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads component options from YAML, rejecting unknown fields.
func Decode(r io.Reader) (Options, error) {
	var opts Options
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && err != io.EOF {
		return Options{}, fmt.Errorf("decoding component: %w", err)
	}
	return opts, nil
}

// Render writes the component as HTML and returns its listener bindings.
func (c *Component) Render(w io.Writer) (*render.Bindings, error) {
	return render.NewRenderer().Render(w, c.Root, c.Context)
}
