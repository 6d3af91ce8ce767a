// Package loom is a retained-mode UI tree reconciler.
//
// Components describe UI as trees of elements. A Root turns them into a
// persistent fiber tree, keeps per-component state across renders, and
// serializes the result as indented text:
//
//	Counter := loom.NewComponent("Counter", func(ctx context.Context, props loom.Props) *loom.Element {
//	    count, setCount := loom.UseState(ctx, 0)
//	    return loom.H("div", nil,
//	        loom.H("span", nil, strconv.Itoa(count)),
//	        loom.H("button", loom.Props{"id": "inc", "onClick": func() {
//	            setCount.Update(func(n int) int { return n + 1 })
//	        }}),
//	    )
//	})
//
//	root := loom.CreateRoot()
//	el := loom.CreateElement(Counter, nil, nil)
//	fmt.Println(root.Render(el))
//	loom.Dispatch("inc", nil)
//	root.Flush()
//	fmt.Println(root.Render(el))
//
// State changes made outside a render are batched: the first setter call
// schedules one pass on the root's microtask queue, which Flush drains.
package loom

import (
	"context"
	"log/slog"

	"github.com/vango-dev/loom/pkg/callback"
	"github.com/vango-dev/loom/pkg/element"
	"github.com/vango-dev/loom/pkg/fiber"
	"github.com/vango-dev/loom/pkg/render"
)

// =============================================================================
// Elements
// =============================================================================

// Element is an immutable UI descriptor.
type Element = element.Element

// Props holds attributes, event handlers and children.
type Props = element.Props

// Type is the element type: a Tag, a *Component or Fragment.
type Type = element.Type

// Tag is a host element type such as "div".
type Tag = element.Tag

// Component is a named render function.
type Component = element.Component

// Fragment groups children without a wrapper.
var Fragment = element.Fragment

// NewComponent creates a component type. Each call returns a distinct type.
func NewComponent(name string, render func(ctx context.Context, props Props) *Element) *Component {
	return element.NewComponent(name, render)
}

// CreateElement creates an element. key may be nil, a string or a number.
func CreateElement(typ Type, props Props, key any) *Element {
	return element.New(typ, props, key)
}

// H creates a host element with children.
func H(tag string, props Props, children ...any) *Element {
	return element.H(tag, props, children...)
}

// C creates a component element with children.
func C(c *Component, props Props, children ...any) *Element {
	return element.C(c, props, children...)
}

// Frag groups children without a wrapper element.
func Frag(children ...any) *Element {
	return element.Frag(children...)
}

// =============================================================================
// State
// =============================================================================

// UseState returns the component's next state value and its setter.
// ctx must be the context passed to the component.
func UseState[T any](ctx context.Context, initial T) (T, fiber.Setter[T]) {
	return fiber.UseState(ctx, initial)
}

// Dispatch invokes the primary handler registered for id in the default
// callback registry.
func Dispatch(id string, payload any) {
	callback.Dispatch(id, payload)
}

// =============================================================================
// Root
// =============================================================================

// Option configures a Root.
type Option func(*rootConfig)

type rootConfig struct {
	fiber  []fiber.Option
	render render.Config
}

// WithFiberOptions passes options to the underlying fiber.Root.
func WithFiberOptions(opts ...fiber.Option) Option {
	return func(c *rootConfig) {
		c.fiber = append(c.fiber, opts...)
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return WithFiberOptions(fiber.WithLogger(l))
}

// WithObserver sets the render lifecycle observer.
func WithObserver(o fiber.Observer) Option {
	return WithFiberOptions(fiber.WithObserver(o))
}

// WithRegistry sets the callback registry.
func WithRegistry(reg *callback.Registry) Option {
	return WithFiberOptions(fiber.WithRegistry(reg))
}

// WithRenderLimit bounds the render-phase update loop.
func WithRenderLimit(n int) Option {
	return WithFiberOptions(fiber.WithRenderLimit(n))
}

// WithIndent sets the serializer's per-level indent.
func WithIndent(indent string) Option {
	return func(c *rootConfig) {
		c.render.Indent = indent
	}
}

// Root renders element trees and keeps their state.
type Root struct {
	*fiber.Root
	renderer *render.Renderer
}

// CreateRoot creates an empty root.
func CreateRoot(opts ...Option) *Root {
	var c rootConfig
	for _, opt := range opts {
		opt(&c)
	}
	return &Root{
		Root:     fiber.NewRoot(c.fiber...),
		renderer: render.NewRenderer(c.render),
	}
}

// Render brings the tree in line with el, applying any pending updates, and
// returns the serialized output.
//
// Element identity decides whether the tree is walked: passing the same
// *Element as the previous call only walks when queued updates changed
// state, while a freshly built element, even an identical one, always
// reconciles and walks the whole tree.
func (r *Root) Render(el *Element) string {
	r.Work(el)
	return r.String()
}

// String serializes the current tree without rendering.
func (r *Root) String() string {
	return r.renderer.RenderToString(r.Fiber())
}
