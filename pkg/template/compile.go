// Package template compiles caret markup into a tree a renderer can walk.
//
// Compilation runs in three stages: Scan turns the source into tokens,
// Fragments groups tokens into tag, text and expression fragments, and Build
// assembles the fragments into Element, Text and Expression nodes, resolving
// attributes, directives and listeners on the way.
//
//	<div class="box" r-if={visible}>
//	  Hello {name}
//	  <input @input={on_input} />
//	</div>
package template

import "fmt"

// Compile runs the whole pipeline over markup.
func Compile(markup string) (Node, error) {
	frags, err := Fragments(Scan(markup))
	if err != nil {
		return nil, err
	}
	return Build(frags)
}

// MustCompile is like Compile but panics on error.
func MustCompile(markup string) Node {
	n, err := Compile(markup)
	if err != nil {
		panic(err)
	}
	return n
}

// Markup is template source text.
type Markup string

// Validate reports whether the markup compiles.
func (m Markup) Validate() error {
	if _, err := Compile(string(m)); err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}
	return nil
}

// Compile compiles the markup.
func (m Markup) Compile() (Node, error) {
	return Compile(string(m))
}
