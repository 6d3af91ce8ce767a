package fiber

import (
	"context"
	"time"

	"github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/callback"
	"github.com/vango-dev/loom/pkg/element"
)

// doWork runs one pass: apply queued updates, then, if anything changed or
// a render is forced, reconcile the root and walk the whole tree.
func (r *Root) doWork() bool {
	if r.working {
		errors.Fatal("E102", "root %s is already rendering", r.id)
	}
	r.working = true
	defer func() {
		r.working = false
		r.current = nil
		r.lastSlot = nil
		r.renderQueue = nil
	}()

	start := time.Now()
	r.pass = PassStats{RootID: r.id}
	ctx := r.observer.PassStarted(r.ctx, r.id)

	changed := r.mustRender
	queue := r.queue
	r.queue = nil
	for _, u := range queue {
		r.pass.Updates++
		if u.run() {
			changed = true
		}
	}

	if changed {
		r.reconcileRoot()
		r.walk(ctx)
		r.pass.Walked = true
	}

	r.pass.Duration = time.Since(start)
	r.stats.add(r.pass)
	r.observer.PassFinished(ctx, r.pass)
	if r.pass.Walked {
		r.logger.Debug("render pass",
			"root", r.id,
			"visited", r.pass.Visited,
			"mounted", r.pass.Mounted,
			"updates", r.pass.Updates,
			"rerenders", r.pass.Rerenders,
			"duration", r.pass.Duration,
		)
	}
	return r.pass.Walked
}

func (r *Root) reconcileRoot() {
	if !r.mustRender {
		return
	}
	r.mustRender = false
	r.rendered = true

	switch {
	case r.lastElement == nil:
		r.rootFiber = nil
	case r.rootFiber == nil:
		r.rootFiber = r.mount(r.lastElement, nil)
	default:
		r.rootFiber = r.reconcileFiber(nil, r.rootFiber, r.lastElement)
	}
}

// walk visits every fiber in pre-order without recursion, climbing parent
// links to find the next sibling once a subtree is done.
func (r *Root) walk(ctx context.Context) {
	f := r.rootFiber
	for f != nil {
		r.renderFiber(ctx, f)
		r.pass.Visited++

		if f.child != nil {
			f = f.child
			continue
		}
		for f != nil && f.sibling == nil {
			f = f.parent
		}
		if f != nil {
			f = f.sibling
		}
	}
}

// renderFiber performs the per-fiber step of a pass.
func (r *Root) renderFiber(ctx context.Context, f *Fiber) {
	switch f.kind {
	case KindComponent:
		r.renderComponent(ctx, f)
	case KindHost:
		r.registerHandlers(f)
	}
}

func (r *Root) renderComponent(ctx context.Context, f *Fiber) {
	comp := f.typ.(*element.Component)
	ctx = context.WithValue(ctx, scopeKey{}, &scope{root: r, fiber: f})

	r.current = f
	out := r.invoke(ctx, comp, f)
	for i := 0; len(r.renderQueue) > 0; i++ {
		if i >= r.renderLimit {
			errors.Fatal("E106", "%s kept updating its own state after %d renders", comp.TypeName(), r.renderLimit)
		}
		queue := r.renderQueue
		r.renderQueue = nil

		changed := false
		for _, u := range queue {
			if u.fiber != f {
				errors.Fatal("E103", "%s updated state of %s while rendering", f, u.fiber)
			}
			r.pass.Updates++
			if u.run() {
				changed = true
			}
		}
		if changed {
			r.pass.Rerenders++
			out = r.invoke(ctx, comp, f)
		}
	}
	r.current = nil

	if out == nil {
		clearChildren(f)
		return
	}
	r.reconcileChildren(f, out)
}

// invoke calls the component once and checks its hook count against the
// previous render.
func (r *Root) invoke(ctx context.Context, comp *element.Component, f *Fiber) *element.Element {
	r.lastSlot = nil
	r.hookCalls = 0
	out := comp.Render(ctx, f.props)
	if f.hookCount >= 0 && r.hookCalls != f.hookCount {
		errors.Fatal("E104", "%s called UseState %d times, previously %d", comp.TypeName(), r.hookCalls, f.hookCount)
	}
	f.hookCount = r.hookCalls
	return out
}

// registerHandlers publishes a host fiber's event props under its id.
func (r *Root) registerHandlers(f *Fiber) {
	id, ok := f.props["id"].(string)
	if !ok || id == "" {
		return
	}
	for name, v := range f.props {
		if !element.IsEventProp(name) {
			continue
		}
		if h, ok := callback.Wrap(v); ok {
			r.registry.Register(id, name, h)
		}
	}
}
