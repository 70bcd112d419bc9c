package template

import "strings"

// FragmentKind discriminates the token groups produced by Fragments.
type FragmentKind int

const (
	TagFragment FragmentKind = iota
	TextFragment
	ExprFragment
)

func (k FragmentKind) String() string {
	switch k {
	case TagFragment:
		return "Tag"
	case TextFragment:
		return "Text"
	case ExprFragment:
		return "Expr"
	}
	return "Unknown"
}

// TagKind is the shape of a tag fragment.
type TagKind int

const (
	Opening TagKind = iota
	Closing
	SelfClosing
)

func (k TagKind) String() string {
	switch k {
	case Opening:
		return "Opening"
	case Closing:
		return "Closing"
	case SelfClosing:
		return "SelfClosing"
	}
	return "Unknown"
}

// Fragment is one tag, one run of text, or one expression block.
type Fragment struct {
	Kind   FragmentKind
	Tokens []Token
}

// TagKind derives the tag shape from token positions. Only meaningful for
// tag fragments, which always start with '<' and end with '>'.
func (f Fragment) TagKind() TagKind {
	n := len(f.Tokens)
	switch {
	case n > 1 && f.Tokens[1].Kind == Slash:
		return Closing
	case n > 1 && f.Tokens[n-2].Kind == Slash:
		return SelfClosing
	}
	return Opening
}

// TagName returns the identifier naming the tag, or "" when the tag has none.
func (f Fragment) TagName() string {
	i := 1
	if f.TagKind() == Closing {
		i = 2
	}
	if i >= len(f.Tokens) || f.Tokens[i].Kind != Identifier {
		return ""
	}
	return f.Tokens[i].Text
}

// String reassembles the fragment as markup; used in error messages.
func (f Fragment) String() string {
	var b strings.Builder
	for i, t := range f.Tokens {
		if f.Kind == TagFragment && i > 1 && needsSpace(f.Tokens[i-1], t) {
			b.WriteByte(' ')
		}
		b.WriteString(t.markup())
	}
	return b.String()
}

// needsSpace reports whether two adjacent tag tokens were separated in source.
func needsSpace(prev, cur Token) bool {
	switch {
	case cur.Kind == Equals || prev.Kind == Equals || prev.Kind == At:
		return false
	case cur.Kind == CloseAngle:
		return false
	case prev.Kind == Slash:
		return false
	}
	return true
}

// Fragments partitions a token sequence into fragments in source order.
// Space tokens are dropped inside tags and kept inside text, where they mark
// word boundaries. Spaces before a tag or expression belong to it; a tail of
// spaces yields no fragment.
func Fragments(tokens []Token) ([]Fragment, error) {
	var out []Fragment
	i := 0
	for i < len(tokens) {
		j := i
		for j < len(tokens) && tokens[j].Kind == Space {
			j++
		}
		if j == len(tokens) {
			break
		}
		switch tokens[j].Kind {
		case OpenAngle:
			f := Fragment{Kind: TagFragment}
			closed := false
			for ; j < len(tokens); j++ {
				if tokens[j].Kind == Space {
					continue
				}
				f.Tokens = append(f.Tokens, tokens[j])
				if tokens[j].Kind == CloseAngle {
					closed = true
					j++
					break
				}
			}
			if !closed {
				return nil, structural(f, ErrUnterminatedTag)
			}
			out = append(out, f)
			i = j
		case ExprBody:
			out = append(out, Fragment{Kind: ExprFragment, Tokens: []Token{tokens[j]}})
			i = j + 1
		default:
			f := Fragment{Kind: TextFragment}
			for ; j < len(tokens); j++ {
				if k := tokens[j].Kind; k == OpenAngle || k == ExprBody {
					break
				}
				f.Tokens = append(f.Tokens, tokens[j])
			}
			out = append(out, f)
			i = j
		}
	}
	return out, nil
}
