package element

import (
	"context"
	"fmt"
	"math"
	"reflect"

	"github.com/vango-dev/loom/internal/errors"
)

// ChildrenProp is the prop holding an element's child content.
const ChildrenProp = "children"

// Type identifies what an Element renders to.
type Type interface {
	// TypeName returns a human-readable name for errors and logs.
	TypeName() string
}

// Tag is a host element type such as "div".
type Tag string

// TypeName implements Type.
func (t Tag) TypeName() string { return string(t) }

// RenderFunc is the body of a component.
// ctx carries the render scope used by hooks; it must not be retained.
type RenderFunc func(ctx context.Context, props Props) *Element

// Component is a named render function. Two elements share a component
// type only if they reference the same *Component.
type Component struct {
	name   string
	render RenderFunc
}

// NewComponent creates a component type.
func NewComponent(name string, render RenderFunc) *Component {
	return &Component{name: name, render: render}
}

// TypeName implements Type.
func (c *Component) TypeName() string {
	if c.name == "" {
		return "Component"
	}
	return c.name
}

// Render invokes the component body.
func (c *Component) Render(ctx context.Context, props Props) *Element {
	return c.render(ctx, props)
}

type fragmentType struct{}

func (*fragmentType) TypeName() string { return "Fragment" }

// Fragment is the type of elements that group children without a wrapper.
var Fragment Type = &fragmentType{}

// Props holds attributes, event handlers and children.
type Props map[string]any

// Children returns the children prop.
func (p Props) Children() any {
	return p[ChildrenProp]
}

// WithoutChildren returns a copy of p with the children prop removed.
func (p Props) WithoutChildren() Props {
	out := make(Props, len(p))
	for k, v := range p {
		if k == ChildrenProp {
			continue
		}
		out[k] = v
	}
	return out
}

// Element is an immutable UI descriptor.
type Element struct {
	Type  Type
	Props Props
	Key   any
	Ref   any
}

// New creates an element. props may be nil. key must be nil, a string, or a
// number; numbers are normalized so that 1 and 1.0 are the same key.
func New(typ Type, props Props, key any) *Element {
	if typ == nil {
		errors.Fatal("E110", "element type is nil")
	}
	if c, ok := typ.(*Component); ok && (c == nil || c.render == nil) {
		errors.Fatal("E110", "component has no render function")
	}
	k, ok := NormalizeKey(key)
	if !ok {
		errors.Fatal("E111", "key %v has type %T", key, key)
	}
	if props == nil {
		props = Props{}
	}
	return &Element{Type: typ, Props: props, Key: k}
}

// WithKey returns a copy of e carrying key.
func (e *Element) WithKey(key any) *Element {
	k, ok := NormalizeKey(key)
	if !ok {
		errors.Fatal("E111", "key %v has type %T", key, key)
	}
	cp := *e
	cp.Key = k
	return &cp
}

// WithRef returns a copy of e carrying ref.
func (e *Element) WithRef(ref any) *Element {
	cp := *e
	cp.Ref = ref
	return &cp
}

// String returns a short description for logs.
func (e *Element) String() string {
	if e == nil {
		return "<nil>"
	}
	if e.Key != nil {
		return fmt.Sprintf("%s#%v", e.Type.TypeName(), e.Key)
	}
	return e.Type.TypeName()
}

// NormalizeKey validates a key and maps numbers onto int64 (integral values)
// or float64. Unsigned values above math.MaxInt64 stay uint64. It reports false for unsupported key types.
func NormalizeKey(key any) (any, bool) {
	switch k := key.(type) {
	case nil:
		return nil, true
	case string:
		return k, true
	}

	v := reflect.ValueOf(key)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := v.Uint()
		if u > math.MaxInt64 {
			return u, true
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1<<53 {
			return int64(f), true
		}
		return f, true
	}
	return nil, false
}
