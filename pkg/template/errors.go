package template

import (
	"errors"
	"fmt"
)

// ErrorKind groups compilation failures.
type ErrorKind int

const (
	KindAttribute ErrorKind = iota
	KindStructure
	KindExpression
)

func (k ErrorKind) String() string {
	switch k {
	case KindAttribute:
		return "attribute"
	case KindStructure:
		return "structural"
	case KindExpression:
		return "expression"
	}
	return "unknown"
}

var (
	ErrListenerNotExpression = errors.New("listener requires expression")
	ErrListenerName          = errors.New("listener requires an event name")
	ErrAttributeValue        = errors.New("attribute requires a value")

	ErrUnterminatedTag = errors.New("tag is never closed with '>'")
	ErrMissingTagName  = errors.New("tag has no name")
	ErrUnmatchedClose  = errors.New("closing tag has no matching opening tag")
	ErrMismatchedClose = errors.New("closing tag does not match opening tag")
	ErrUnclosedElement = errors.New("element is never closed")
	ErrMultipleRoots   = errors.New("template has more than one root node")
)

// Error reports a template that could not be compiled. Fragment holds the
// markup of the offending fragment.
type Error struct {
	Kind     ErrorKind
	Fragment string
	Err      error
}

func (e *Error) Error() string {
	if e.Fragment == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error in %s: %v", e.Kind, e.Fragment, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func structural(f Fragment, err error) *Error {
	return &Error{Kind: KindStructure, Fragment: f.String(), Err: err}
}

func attribute(f Fragment, err error) *Error {
	return &Error{Kind: KindAttribute, Fragment: f.String(), Err: err}
}

func expression(f Fragment, err error) *Error {
	return &Error{Kind: KindExpression, Fragment: f.String(), Err: err}
}
