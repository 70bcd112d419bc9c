package template

import "strings"

// The scanner walks template source once, left to right, and emits a flat
// token sequence. Quoted strings and {expression} blocks are read greedily up
// to their first terminator; braces inside an expression are not balanced.

type scanner struct {
	src    []rune
	i      int
	start  int
	inText bool // a '>' was emitted more recently than a '<'
	tokens []Token
}

// Scan converts markup into tokens. Leading and trailing whitespace is
// trimmed first; unterminated strings and expressions run to end of input.
func Scan(markup string) []Token {
	s := &scanner{src: []rune(strings.TrimSpace(markup))}
	for !s.atEnd() {
		s.start = s.i
		s.scanToken()
	}
	return s.tokens
}

func (s *scanner) scanToken() {
	r := s.next()
	kind := kindOf(r)
	switch {
	case kind == Quote:
		s.scanUntil(String, '"')
	case kind == OpenBrace:
		s.scanUntil(ExprBody, '}')
	case kind == Space:
		if s.peek() == ' ' {
			return
		}
		s.emit(Space, " ")
	case isWordChar(r):
		s.scanWord()
	case r == '\n' || r == '\r':
		// line breaks are never tokenized
	default:
		s.emit(kind, string(r))
	}
}

// scanUntil consumes through term (or to end of input) and emits the text
// between the opening delimiter and term.
func (s *scanner) scanUntil(kind TokenKind, term rune) {
	for !s.atEnd() && s.peek() != term {
		s.i++
	}
	end := s.i
	if !s.atEnd() {
		s.i++
	}
	s.emit(kind, string(s.src[s.start+1:end]))
}

func (s *scanner) scanWord() {
	for !s.atEnd() && isWordChar(s.peek()) {
		s.i++
	}
	kind := Identifier
	if s.inText {
		kind = Word
	}
	s.emit(kind, string(s.src[s.start:s.i]))
}

func (s *scanner) emit(kind TokenKind, text string) {
	switch kind {
	case OpenAngle:
		s.inText = false
	case CloseAngle:
		s.inText = true
	}
	s.tokens = append(s.tokens, Token{Kind: kind, Text: text})
}

func (s *scanner) next() rune {
	r := s.src[s.i]
	s.i++
	return r
}

func (s *scanner) peek() rune {
	if s.atEnd() {
		return 0
	}
	return s.src[s.i]
}

func (s *scanner) atEnd() bool {
	return s.i >= len(s.src)
}

// isWordChar reports whether r belongs to a word run: ASCII letters, digits,
// underscore and hyphen.
func isWordChar(r rune) bool {
	return r == '_' || r == '-' ||
		('a' <= r && r <= 'z') ||
		('A' <= r && r <= 'Z') ||
		('0' <= r && r <= '9')
}
