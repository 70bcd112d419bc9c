package template

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPretty(t *testing.T) {
	root := mustCompile(t, `<div class="a" r-if={x} @click={f}>hi <b>{n}</b></div>`)
	want := `Element(div) class="a" r-if={x} @click={f}
  Text("hi")
  Element(b)
    Expression("n")
`
	if diff := cmp.Diff(want, Pretty(root)); diff != "" {
		t.Errorf("Pretty mismatch (-want +got):\n%s", diff)
	}
	if got := Pretty(nil); got != "<empty>\n" {
		t.Errorf("Pretty(nil) = %q", got)
	}
}

func TestWalk(t *testing.T) {
	root := mustCompile(t, "<a><b>x</b><c/>{y}</a>")
	var seen []string
	err := Walk(VisitorFunc(func(n Node) error {
		switch n := n.(type) {
		case *Element:
			seen = append(seen, n.Tag)
		case *Text:
			seen = append(seen, "text:"+n.Value)
		case *Expression:
			seen = append(seen, "expr:"+n.Compute.Source())
		}
		return nil
	}), root)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	want := []string{"a", "b", "text:x", "c", "expr:y"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("visit order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkStopsOnError(t *testing.T) {
	stop := errors.New("stop")
	root := mustCompile(t, "<a><b/><c/></a>")
	count := 0
	err := Walk(VisitorFunc(func(n Node) error {
		count++
		if el, ok := n.(*Element); ok && el.Tag == "b" {
			return stop
		}
		return nil
	}), root)
	if !errors.Is(err, stop) || count != 2 {
		t.Errorf("Walk = %v after %d visits, want stop after 2", err, count)
	}
	if err := Walk(VisitorFunc(func(Node) error { return stop }), nil); err != nil {
		t.Errorf("Walk(nil) = %v", err)
	}
}
