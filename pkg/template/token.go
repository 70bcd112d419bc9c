package template

import "fmt"

// TokenKind classifies a scanned token.
type TokenKind int

const (
	OpenAngle  TokenKind = iota // <
	CloseAngle                  // >
	Slash                       // /
	OpenBrace                   // {
	CloseBrace                  // }
	Quote                       // "
	Equals                      // =
	At                          // @
	Space                       // collapsed run of spaces

	Literal    // any other single character
	String     // interior of "..."
	ExprBody   // interior of {...}
	Word       // word run between tags
	Identifier // word run inside a tag
)

var tokenKindNames = [...]string{
	OpenAngle:  "OpenAngle",
	CloseAngle: "CloseAngle",
	Slash:      "Slash",
	OpenBrace:  "OpenBrace",
	CloseBrace: "CloseBrace",
	Quote:      "Quote",
	Equals:     "Equals",
	At:         "At",
	Space:      "Space",
	Literal:    "Literal",
	String:     "String",
	ExprBody:   "ExprBody",
	Word:       "Word",
	Identifier: "Identifier",
}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is one lexeme of a template.
type Token struct {
	Kind TokenKind
	Text string
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
}

// markup returns the source form of the token.
func (t Token) markup() string {
	switch t.Kind {
	case String:
		return `"` + t.Text + `"`
	case ExprBody:
		return "{" + t.Text + "}"
	}
	return t.Text
}

// kindOf maps structural characters to their kind; everything else is a Literal.
func kindOf(r rune) TokenKind {
	switch r {
	case '<':
		return OpenAngle
	case '>':
		return CloseAngle
	case '{':
		return OpenBrace
	case '}':
		return CloseBrace
	case '/':
		return Slash
	case '"':
		return Quote
	case '=':
		return Equals
	case '@':
		return At
	case ' ':
		return Space
	}
	return Literal
}
