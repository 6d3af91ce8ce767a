// Package element provides the immutable UI descriptors consumed by the
// loom reconciler.
//
// An Element says what should be shown at one position of the tree: a host
// tag, a component, or a fragment, together with its props and an optional
// reconciliation key. Elements are created fresh on every render and are
// never mutated by the runtime.
//
// # Types
//
// Type is a closed variant with three implementations:
//
//   - Tag: a host element such as "div" or "button"
//   - *Component: a named render function; identity is the pointer
//   - Fragment: groups children without a wrapper
//
// Two elements have the same type when their Type values are equal, which
// is what the reconciler uses to decide whether a fiber can be reused.
//
// # Building Trees
//
//	Counter := element.NewComponent("Counter", func(ctx context.Context, props element.Props) *element.Element {
//	    return element.H("div", nil,
//	        element.H("span", nil, "0"),
//	        element.H("button", element.Props{"id": "inc", "onClick": inc}),
//	    )
//	})
//
//	app := element.C(Counter, nil)
//
// Children live in the "children" prop and may be a string, a single
// *Element, a slice of those, or absent.
package element
