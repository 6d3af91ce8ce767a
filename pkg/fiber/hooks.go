package fiber

import (
	"context"

	"github.com/vango-dev/loom/internal/errors"
)

type scopeKey struct{}

// scope is the render scope carried by the context handed to a component.
type scope struct {
	root  *Root
	fiber *Fiber
}

func scopeFrom(ctx context.Context) *scope {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(scopeKey{}).(*scope)
	return s
}

// Rendering returns the fiber whose component is executing under ctx, or nil.
func Rendering(ctx context.Context) *Fiber {
	s := scopeFrom(ctx)
	if s == nil || s.root.current != s.fiber {
		return nil
	}
	return s.fiber
}

// UseState returns the current value of the component's next state slot and
// a setter for it. The slot is created with initial on the first render and
// reused on every later render, so hooks must be called in the same order
// every time.
//
// UseState must be called with the context passed to the component's render
// function, while that render is in progress.
func UseState[T any](ctx context.Context, initial T) (T, Setter[T]) {
	s := scopeFrom(ctx)
	if s == nil {
		errors.Fatal("E101", "UseState called without a render context")
	}
	if s.root.current != s.fiber {
		errors.Fatal("E101", "UseState called for %s after its render returned", s.fiber)
	}

	slot := s.root.nextSlot(initial)
	v, _ := slot.value.(T)
	return v, Setter[T]{root: s.root, fiber: s.fiber, slot: slot}
}

// Setter updates one state slot. The zero Setter is unusable.
type Setter[T any] struct {
	root  *Root
	fiber *Fiber
	slot  *stateSlot
}

// Set replaces the state value.
func (s Setter[T]) Set(v T) {
	s.enqueue(func(any) any { return v })
}

// Update replaces the state value with fn applied to the value current at
// the time the update runs.
func (s Setter[T]) Update(fn func(prev T) T) {
	s.enqueue(func(prev any) any {
		p, _ := prev.(T)
		return fn(p)
	})
}

func (s Setter[T]) enqueue(apply func(prev any) any) {
	if s.root == nil {
		errors.Fatal("E101", "setter used without UseState")
	}
	s.root.enqueue(&update{fiber: s.fiber, slot: s.slot, apply: apply})
}

// nextSlot advances the hook cursor of the executing fiber, creating the
// slot on first use.
func (r *Root) nextSlot(initial any) *stateSlot {
	f := r.current
	var slot *stateSlot
	if r.lastSlot == nil {
		slot = f.hooks
	} else {
		slot = r.lastSlot.next
	}
	if slot == nil {
		slot = &stateSlot{value: initial}
		if r.lastSlot == nil {
			f.hooks = slot
		} else {
			r.lastSlot.next = slot
		}
	}
	r.lastSlot = slot
	r.hookCalls++
	return slot
}

// enqueue routes an update to the render-phase queue while a component is
// executing, or to the root queue otherwise. The first update of a batch
// schedules the pass.
func (r *Root) enqueue(u *update) {
	if r.current != nil {
		r.renderQueue = append(r.renderQueue, u)
		r.observer.UpdateQueued(true)
		return
	}

	r.observer.UpdateQueued(false)
	wasEmpty := len(r.queue) == 0
	r.queue = append(r.queue, u)
	if wasEmpty {
		r.logger.Debug("schedule render", "root", r.id)
		r.scheduler.Schedule(r.flushTask)
	}
}
