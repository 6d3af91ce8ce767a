package fiber

import (
	"fmt"
	"sync/atomic"

	"github.com/vango-dev/loom/pkg/element"
)

// Kind is the fiber variant discriminator.
type Kind uint8

const (
	KindComponent Kind = iota + 1 // Function component
	KindHost                      // <div>, <button>, etc.
	KindText                      // Plain text leaf
	KindFragment                  // Grouping without wrapper
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindComponent:
		return "Component"
	case KindHost:
		return "Host"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// fiberIDCounter is used to generate unique fiber IDs.
var fiberIDCounter atomic.Uint64

// Fiber is a mutable tree node tracking the realized state of one element
// position.
type Fiber struct {
	id   uint64
	kind Kind

	// typ is the element type for Component, Host and Fragment fibers.
	typ  element.Type
	text string

	props element.Props
	key   any

	parent  *Fiber
	child   *Fiber
	sibling *Fiber

	// hooks is the head of the state slot chain, in call order.
	hooks *stateSlot

	// hookCount is the number of UseState calls in the last render,
	// -1 before the first one.
	hookCount int
}

func newFiber(kind Kind, parent *Fiber) *Fiber {
	return &Fiber{
		id:        fiberIDCounter.Add(1),
		kind:      kind,
		parent:    parent,
		hookCount: -1,
	}
}

// ID returns the fiber's mount serial number. A new ID means a new mount.
func (f *Fiber) ID() uint64 { return f.id }

// Kind returns the fiber variant.
func (f *Fiber) Kind() Kind { return f.kind }

// Type returns the element type, or nil for text fibers.
func (f *Fiber) Type() element.Type { return f.typ }

// Tag returns the host tag, or "" for other kinds.
func (f *Fiber) Tag() string {
	if t, ok := f.typ.(element.Tag); ok {
		return string(t)
	}
	return ""
}

// Text returns the content of a text fiber.
func (f *Fiber) Text() string { return f.text }

// Props returns the current props. Host props never include children.
// The map must not be modified.
func (f *Fiber) Props() element.Props { return f.props }

// Key returns the reconciliation key, or nil.
func (f *Fiber) Key() any { return f.key }

// Parent returns the parent fiber, or nil for the root.
func (f *Fiber) Parent() *Fiber { return f.parent }

// Child returns the first child.
func (f *Fiber) Child() *Fiber { return f.child }

// Sibling returns the next sibling.
func (f *Fiber) Sibling() *Fiber { return f.sibling }

// Children returns the child chain as a slice.
func (f *Fiber) Children() []*Fiber {
	var out []*Fiber
	for c := f.child; c != nil; c = c.sibling {
		out = append(out, c)
	}
	return out
}

// StateValues returns the current value of every state slot in call order.
func (f *Fiber) StateValues() []any {
	var out []any
	for s := f.hooks; s != nil; s = s.next {
		out = append(out, s.value)
	}
	return out
}

// String returns a short description for logs.
func (f *Fiber) String() string {
	if f == nil {
		return "<nil>"
	}
	switch f.kind {
	case KindText:
		return fmt.Sprintf("Text(%q)", f.text)
	default:
		name := f.kind.String()
		if f.typ != nil {
			name = f.typ.TypeName()
		}
		if f.key != nil {
			return fmt.Sprintf("%s#%v", name, f.key)
		}
		return name
	}
}

// sameType reports whether el can be reconciled into f.
func (f *Fiber) sameType(el *element.Element) bool {
	if f.kind == KindText || f.typ == nil || el.Type == nil {
		return false
	}
	return f.typ == el.Type
}
