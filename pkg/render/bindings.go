package render

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/neurodesk/caret/pkg/expr"
	"github.com/neurodesk/caret/pkg/template"
)

// Binding is one listener attached to a rendered element.
type Binding struct {
	ID      string
	Tag     string
	Event   string
	Handler func(event any) error
}

// Bindings collects the listeners of one render pass.
type Bindings struct {
	list []Binding
	next int
}

// List returns the bindings in document order.
func (b *Bindings) List() []Binding {
	return b.list
}

// Dispatch invokes the handler registered for event on the element with id.
func (b *Bindings) Dispatch(id, event string, payload any) error {
	for _, bd := range b.list {
		if bd.ID == id && bd.Event == event {
			return bd.Handler(payload)
		}
	}
	return fmt.Errorf("no %q listener on element %s", event, id)
}

func (b *Bindings) add(el *template.Element, ctx *expr.Context) int {
	id := b.next
	b.next++
	for _, event := range slices.Sorted(maps.Keys(el.Listeners)) {
		b.list = append(b.list, Binding{
			ID:      strconv.Itoa(id),
			Tag:     el.Tag,
			Event:   event,
			Handler: el.Listeners[event].Bind(ctx),
		})
	}
	return id
}
