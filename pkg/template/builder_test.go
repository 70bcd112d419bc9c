package template

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/neurodesk/caret/pkg/expr"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Node
	}{
		{
			name:  "element with text",
			input: "<div>hi</div>",
			want:  &Element{Tag: "div", Children: []Node{&Text{Value: "hi"}}},
		},
		{
			name:  "self-closing with listener",
			input: "<input @input={onInput} />",
			want: &Element{
				Tag:       "input",
				Listeners: map[string]*expr.Listener{"input": listenerOf(t, "onInput")},
			},
		},
		{
			name:  "expression child",
			input: "<p>{1 + 2}</p>",
			want:  &Element{Tag: "p", Children: []Node{&Expression{Compute: exprOf("1 + 2")}}},
		},
		{
			name:  "self-closing child",
			input: `<div id class="a"><span/></div>`,
			want: &Element{
				Tag: "div",
				Attributes: map[string]Attr{
					"id":    {Kind: AttrBool},
					"class": {Kind: AttrString, Value: "a"},
				},
				Children: []Node{&Element{Tag: "span"}},
			},
		},
		{
			name:  "attributes with text child",
			input: `<div id class="a"><span>x</span></div>`,
			want: &Element{
				Tag: "div",
				Attributes: map[string]Attr{
					"id":    {Kind: AttrBool},
					"class": {Kind: AttrString, Value: "a"},
				},
				Children: []Node{&Element{Tag: "span", Children: []Node{&Text{Value: "x"}}}},
			},
		},
		{
			name:  "directives are kept apart",
			input: `<li r-for={x in xs} r-if={x} title={x}>{x}</li>`,
			want: &Element{
				Tag:        "li",
				Attributes: map[string]Attr{"title": {Kind: AttrExpr, Expr: exprOf("x")}},
				Directives: map[string]Attr{
					"r-for": {Kind: AttrExpr, Expr: exprOf("x in xs")},
					"r-if":  {Kind: AttrExpr, Expr: exprOf("x")},
				},
				Children: []Node{&Expression{Compute: exprOf("x")}},
			},
		},
		{
			name:  "text words joined by single spaces",
			input: "<p>hello ,   world</p>",
			want:  &Element{Tag: "p", Children: []Node{&Text{Value: "hello , world"}}},
		},
		{
			name:  "mixed children in order",
			input: "<p>a {b} <i>c</i> d</p>",
			want: &Element{Tag: "p", Children: []Node{
				&Text{Value: "a"},
				&Expression{Compute: exprOf("b")},
				&Element{Tag: "i", Children: []Node{&Text{Value: "c"}}},
				&Text{Value: "d"},
			}},
		},
		{
			name:  "bare text root",
			input: "hello there",
			want:  &Text{Value: "hello there"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustCompile(t, tt.input)
			if diff := cmp.Diff(tt.want, got, treeOpts); diff != "" {
				t.Errorf("Compile(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestCompileEmpty(t *testing.T) {
	for _, src := range []string{"", "  \n  "} {
		n, err := Compile(src)
		if err != nil || n != nil {
			t.Errorf("Compile(%q) = %v, %v; want nil, nil", src, n, err)
		}
	}
}

func TestExpressionChildEvaluates(t *testing.T) {
	root := mustCompile(t, "<p>{1 + 2}</p>").(*Element)
	got, err := root.Children[0].(*Expression).Compute.Eval(nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != int64(3) {
		t.Errorf("got %#v, want int64(3)", got)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ErrorKind
		err   error
	}{
		{"mismatched close", "<div><span></div></span>", KindStructure, ErrMismatchedClose},
		{"unmatched close", "</div>", KindStructure, ErrUnmatchedClose},
		{"unclosed element", "<div><span></span>", KindStructure, ErrUnclosedElement},
		{"multiple roots", "<a></a><b></b>", KindStructure, ErrMultipleRoots},
		{"missing tag name", "<></>", KindStructure, ErrMissingTagName},
		{"unterminated tag", "<div", KindStructure, ErrUnterminatedTag},
		{"listener with string", `<button @click="go">x</button>`, KindAttribute, ErrListenerNotExpression},
		{"listener without value", "<button @click>x</button>", KindAttribute, ErrListenerNotExpression},
		{"empty listener", "<button @click={}>x</button>", KindAttribute, ErrListenerNotExpression},
		{"listener without name", "<button @={go}>x</button>", KindAttribute, ErrListenerName},
		{"attribute without value", "<div class=>x</div>", KindAttribute, ErrAttributeValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.input)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Compile(%q) error = %v, want %v", tt.input, err, tt.err)
			}
			var cerr *Error
			if !errors.As(err, &cerr) {
				t.Fatalf("error %T is not *Error", err)
			}
			if cerr.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", cerr.Kind, tt.kind)
			}
		})
	}
}

func TestCompileExpressionErrors(t *testing.T) {
	for _, src := range []string{
		"<p>{1 +}</p>",
		"<p title={)}>x</p>",
		"<p @click={a b}>x</p>",
	} {
		_, err := Compile(src)
		var cerr *Error
		if !errors.As(err, &cerr) || cerr.Kind != KindExpression {
			t.Errorf("Compile(%q) error = %v, want expression error", src, err)
		}
	}
}

func TestErrorNamesFragment(t *testing.T) {
	_, err := Compile("<div><span></div>")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "</div>") {
		t.Errorf("error %q does not name the offending fragment", err)
	}
}

func TestDeepNesting(t *testing.T) {
	const depth = 50
	src := strings.Repeat("<div>", depth) + "x" + strings.Repeat("</div>", depth)
	n := mustCompile(t, src)
	for i := 0; i < depth; i++ {
		el, ok := n.(*Element)
		if !ok {
			t.Fatalf("level %d: got %T, want *Element", i, n)
		}
		if len(el.Children) != 1 {
			t.Fatalf("level %d: %d children, want 1", i, len(el.Children))
		}
		n = el.Children[0]
	}
	if diff := cmp.Diff(&Text{Value: "x"}, n); diff != "" {
		t.Errorf("leaf mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileIsIdempotent(t *testing.T) {
	const src = `<form class="f" @submit={save}><input r-if={editing} value={name} disabled/>{count} items</form>`
	a := mustCompile(t, src)
	b := mustCompile(t, src)
	if diff := cmp.Diff(a, b, treeOpts); diff != "" {
		t.Fatalf("two compilations differ:\n%s", diff)
	}
}

func TestCounterTemplate(t *testing.T) {
	const src = `
<div class="counter">
  <p>Count: {count}</p>
  <button @click={lambda e: set_data("count", count + 1)}>more</button>
</div>`
	root := mustCompile(t, src).(*Element)
	if len(root.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(root.Children))
	}
	button := root.Children[1].(*Element)
	l := button.Listeners["click"]
	if l == nil {
		t.Fatal("click listener missing")
	}

	ctx := &expr.Context{Data: map[string]any{"count": 1}}
	for i := 0; i < 2; i++ {
		if err := l.Invoke(ctx, nil); err != nil {
			t.Fatalf("Invoke: %v", err)
		}
	}
	if got := ctx.Data["count"]; got != int64(3) {
		t.Errorf("count = %#v, want int64(3)", got)
	}
}

func TestMarkupValidate(t *testing.T) {
	if err := Markup("<p>ok</p>").Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if err := Markup("<p>").Validate(); !errors.Is(err, ErrUnclosedElement) {
		t.Errorf("Validate = %v, want ErrUnclosedElement", err)
	}
}
