package template

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/neurodesk/caret/pkg/expr"
)

// treeOpts compares trees structurally; compiled values compare by source.
var treeOpts = cmp.Options{
	cmpopts.EquateEmpty(),
	cmp.Comparer(func(a, b *expr.Expr) bool {
		if a == nil || b == nil {
			return a == b
		}
		return a.Source() == b.Source()
	}),
	cmp.Comparer(func(a, b *expr.Listener) bool {
		if a == nil || b == nil {
			return a == b
		}
		return a.Source() == b.Source()
	}),
}

func mustCompile(t *testing.T, markup string) Node {
	t.Helper()
	n, err := Compile(markup)
	if err != nil {
		t.Fatalf("compile %q: %v", markup, err)
	}
	return n
}

func exprOf(src string) *expr.Expr {
	return expr.MustCompile(src)
}

func listenerOf(t *testing.T, src string) *expr.Listener {
	t.Helper()
	l, err := expr.CompileListener(src)
	if err != nil {
		t.Fatalf("compile listener %q: %v", src, err)
	}
	return l
}
