package template

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"
)

type Visitor interface {
	Visit(n Node) error
}

// Walk visits n and then its descendants in document order.
func Walk(v Visitor, n Node) error {
	if n == nil {
		return nil
	}
	if err := v.Visit(n); err != nil {
		return err
	}
	if el, ok := n.(*Element); ok {
		for _, c := range el.Children {
			if err := Walk(v, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// VisitorFunc adapts a function to Visitor.
type VisitorFunc func(n Node) error

func (f VisitorFunc) Visit(n Node) error { return f(n) }

// Pretty returns a line-oriented string representation of the tree.
func Pretty(n Node) string {
	var buf bytes.Buffer
	ppNode(&buf, 0, n)
	return buf.String()
}

func ppNode(buf *bytes.Buffer, indent int, n Node) {
	buf.WriteString(strings.Repeat(" ", indent))
	switch t := n.(type) {
	case nil:
		buf.WriteString("<empty>\n")
	case *Element:
		fmt.Fprintf(buf, "Element(%s)", t.Tag)
		ppAttrs(buf, t.Attributes)
		ppAttrs(buf, t.Directives)
		for _, name := range slices.Sorted(maps.Keys(t.Listeners)) {
			fmt.Fprintf(buf, " @%s={%s}", name, t.Listeners[name].Source())
		}
		buf.WriteByte('\n')
		for _, c := range t.Children {
			ppNode(buf, indent+2, c)
		}
	case *Text:
		fmt.Fprintf(buf, "Text(%q)\n", t.Value)
	case *Expression:
		fmt.Fprintf(buf, "Expression(%q)\n", t.Compute.Source())
	}
}

func ppAttrs(buf *bytes.Buffer, attrs map[string]Attr) {
	for _, name := range slices.Sorted(maps.Keys(attrs)) {
		buf.WriteByte(' ')
		buf.WriteString(attrMarkup(name, attrs[name]))
	}
}
