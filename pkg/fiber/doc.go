// Package fiber implements the loom reconciler: the persistent tree of
// fibers that mirrors an element tree, the algorithms that update it, the
// UseState hook, and the Root that drives render passes.
//
// # Fibers
//
// A Fiber is one realized position in the tree. It owns its first child and
// its next sibling and keeps a non-owning back-reference to its parent,
// which the render walk uses to climb out of a finished subtree. Fibers are
// created on first mount and mutated in place afterwards. A fiber is reused
// for a new element only when the element's Type equals the fiber's type;
// otherwise the old subtree is dropped, along with its state, and a fresh
// one is mounted.
//
// # Render Passes
//
// Root.Work drains pending state updates. If any value changed, or this is
// the first render, or the root element changed, it walks the whole tree in
// pre-order without recursion. Component fibers are re-invoked and their
// output reconciled as their only child; host fibers register their event
// handlers with the callback registry.
//
// # State
//
//	Counter := element.NewComponent("Counter", func(ctx context.Context, props element.Props) *element.Element {
//	    count, setCount := fiber.UseState(ctx, 0)
//	    inc := func() { setCount.Update(func(n int) int { return n + 1 }) }
//	    return element.H("div", nil,
//	        element.H("span", nil, strconv.Itoa(count)),
//	        element.H("button", element.Props{"id": "inc", "onClick": inc}),
//	    )
//	})
//
// Setter calls made while the component itself is rendering are applied
// before the pass moves on. Setter calls made from outside a pass are queued
// on the Root, and the first one schedules a microtask that runs a single
// pass for the whole batch.
//
// # Errors
//
// Misuse is fatal: every violation panics with an *errors.Error carrying a
// code (E101 hook outside render, E102 reentrant render, E103 cross-fiber
// render-phase update, E104 hook count change, E106 runaway render loop,
// E110/E112 malformed elements). A Root that panicked must be discarded.
package fiber
