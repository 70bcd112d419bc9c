package template

import (
	"strings"

	"github.com/neurodesk/caret/pkg/expr"
)

// Build assembles fragments into a tree. Each opening tag owns the subtree up
// to its matching closing tag. A template has at most one root: an empty
// fragment sequence yields a nil Node and no error.
func Build(fragments []Fragment) (Node, error) {
	b := &builder{frags: fragments}
	nodes, err := b.parseNodes(nil)
	if err != nil {
		return nil, err
	}
	switch len(nodes) {
	case 0:
		return nil, nil
	case 1:
		return nodes[0], nil
	}
	return nil, &Error{Kind: KindStructure, Err: ErrMultipleRoots}
}

type builder struct {
	frags []Fragment
	i     int
}

// parseNodes consumes fragments until the closing tag of open, or to the end
// of input when open is nil.
func (b *builder) parseNodes(open *Fragment) ([]Node, error) {
	var nodes []Node
	for b.i < len(b.frags) {
		f := b.frags[b.i]
		b.i++

		switch f.Kind {
		case TagFragment:
			switch f.TagKind() {
			case Closing:
				if open == nil {
					return nil, structural(f, ErrUnmatchedClose)
				}
				if f.TagName() != open.TagName() {
					return nil, structural(f, ErrMismatchedClose)
				}
				return nodes, nil
			case Opening:
				tag, err := ResolveTag(f)
				if err != nil {
					return nil, err
				}
				children, err := b.parseNodes(&f)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, newElement(tag, children))
			case SelfClosing:
				tag, err := ResolveTag(f)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, newElement(tag, nil))
			}
		case TextFragment:
			nodes = append(nodes, &Text{Value: joinText(f.Tokens)})
		case ExprFragment:
			e, err := expr.Compile(f.Tokens[0].Text)
			if err != nil {
				return nil, expression(f, err)
			}
			nodes = append(nodes, &Expression{Compute: e})
		}
	}
	if open != nil {
		return nil, structural(*open, ErrUnclosedElement)
	}
	return nodes, nil
}

func newElement(tag Tag, children []Node) *Element {
	return &Element{
		Tag:        tag.Name,
		Attributes: tag.Attributes,
		Directives: tag.Directives,
		Listeners:  tag.Listeners,
		Children:   children,
	}
}

// joinText joins the words of a text fragment with single spaces.
func joinText(tokens []Token) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind != Space {
			parts = append(parts, t.Text)
		}
	}
	return strings.Join(parts, " ")
}
