package template

import (
	"maps"
	"slices"
	"strings"
)

// Serialize writes a tree back out as markup. Compiling the result yields a
// tree equal to n. Attributes are written in name order, directives after
// plain attributes and listeners last; childless elements self-close.
func Serialize(n Node) string {
	var b strings.Builder
	serialize(&b, n)
	return b.String()
}

func serialize(b *strings.Builder, n Node) {
	switch t := n.(type) {
	case *Element:
		b.WriteByte('<')
		b.WriteString(t.Tag)
		for _, attrs := range []map[string]Attr{t.Attributes, t.Directives} {
			for _, name := range slices.Sorted(maps.Keys(attrs)) {
				b.WriteByte(' ')
				b.WriteString(attrMarkup(name, attrs[name]))
			}
		}
		for _, name := range slices.Sorted(maps.Keys(t.Listeners)) {
			b.WriteString(" @" + name + "={" + t.Listeners[name].Source() + "}")
		}
		if len(t.Children) == 0 {
			b.WriteString(" />")
			return
		}
		b.WriteByte('>')
		for _, c := range t.Children {
			serialize(b, c)
		}
		b.WriteString("</" + t.Tag + ">")
	case *Text:
		b.WriteString(t.Value)
	case *Expression:
		b.WriteString("{" + t.Compute.Source() + "}")
	}
}

func attrMarkup(name string, a Attr) string {
	switch a.Kind {
	case AttrString:
		return name + `="` + a.Value + `"`
	case AttrExpr:
		return name + "={" + a.Expr.Source() + "}"
	}
	return name
}
