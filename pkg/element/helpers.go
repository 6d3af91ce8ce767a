package element

import (
	"strings"

	"github.com/vango-dev/loom/internal/errors"
)

// H creates a host element. Extra arguments become the children prop: none
// leaves it unset, one is stored as-is, more are stored as a []any.
func H(tag string, props Props, children ...any) *Element {
	return New(Tag(tag), withChildren(props, children), nil)
}

// C creates a component element.
func C(c *Component, props Props, children ...any) *Element {
	return New(c, withChildren(props, children), nil)
}

// Frag groups children without a wrapper element.
func Frag(children ...any) *Element {
	return New(Fragment, withChildren(nil, children), nil)
}

// Keyed returns a copy of el carrying key.
func Keyed(key any, el *Element) *Element {
	return el.WithKey(key)
}

// withChildren copies props and sets the children prop.
func withChildren(props Props, children []any) Props {
	out := make(Props, len(props)+1)
	for k, v := range props {
		out[k] = v
	}
	switch len(children) {
	case 0:
	case 1:
		out[ChildrenProp] = children[0]
	default:
		out[ChildrenProp] = children
	}
	return out
}

// If returns node if condition is true, nil otherwise.
func If(condition bool, node any) any {
	if condition {
		return node
	}
	return nil
}

// Range maps a slice to children.
func Range[T any](items []T, fn func(item T, index int) *Element) []any {
	result := make([]any, 0, len(items))
	for i, item := range items {
		if node := fn(item, i); node != nil {
			result = append(result, node)
		}
	}
	return result
}

// List normalizes a children value that is a slice. It reports false when v
// is not a slice. nil entries are dropped.
func List(v any) ([]any, bool) {
	var out []any
	switch c := v.(type) {
	case []any:
		out = make([]any, 0, len(c))
		for _, item := range c {
			if item == nil {
				continue
			}
			if el, ok := item.(*Element); ok && el == nil {
				continue
			}
			out = append(out, item)
		}
	case []*Element:
		out = make([]any, 0, len(c))
		for _, item := range c {
			if item != nil {
				out = append(out, item)
			}
		}
	case []string:
		out = make([]any, 0, len(c))
		for _, item := range c {
			out = append(out, item)
		}
	default:
		return nil, false
	}
	return out, true
}

// CheckChild panics with E112 unless v is a string or a non-nil *Element.
func CheckChild(v any) {
	switch c := v.(type) {
	case string:
		return
	case *Element:
		if c != nil {
			return
		}
	}
	errors.Fatal("E112", "unsupported child of type %T", v)
}

// IsEventProp reports whether a prop name looks like an event handler
// ("onClick", "oninput", ...). The check is case-insensitive.
func IsEventProp(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}
