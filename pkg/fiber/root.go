package fiber

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/callback"
	"github.com/vango-dev/loom/pkg/element"
	"github.com/vango-dev/loom/pkg/microtask"
)

// DefaultRenderLimit bounds the render-phase update loop of one component.
const DefaultRenderLimit = 1000

// Scheduler defers a task until the current synchronous work finishes.
// *microtask.Queue is the default implementation.
type Scheduler interface {
	Schedule(fn func())
}

// drainer is implemented by schedulers the Root can flush itself.
type drainer interface {
	Drain() int
}

// Option configures a Root.
type Option func(*Root)

// WithScheduler sets the microtask scheduler. The default is a private
// microtask.Queue drained by Root.Flush.
func WithScheduler(s Scheduler) Option {
	return func(r *Root) {
		if s != nil {
			r.scheduler = s
		}
	}
}

// WithRegistry sets the callback registry host fibers register handlers in.
// The default is callback.Default().
func WithRegistry(reg *callback.Registry) Option {
	return func(r *Root) {
		if reg != nil {
			r.registry = reg
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Root) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithObserver sets the lifecycle observer.
func WithObserver(o Observer) Option {
	return func(r *Root) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithRenderLimit sets the render-phase iteration bound.
func WithRenderLimit(n int) Option {
	return func(r *Root) {
		if n > 0 {
			r.renderLimit = n
		}
	}
}

// WithContext sets the base context handed to components.
func WithContext(ctx context.Context) Option {
	return func(r *Root) {
		if ctx != nil {
			r.ctx = ctx
		}
	}
}

// WithID overrides the generated root ID.
func WithID(id string) Option {
	return func(r *Root) {
		if id != "" {
			r.id = id
		}
	}
}

// Root owns one fiber tree and drives render passes over it.
// A Root is not safe for concurrent use.
type Root struct {
	id          string
	ctx         context.Context
	logger      *slog.Logger
	observer    Observer
	scheduler   Scheduler
	registry    *callback.Registry
	renderLimit int

	rootFiber   *Fiber
	lastElement *element.Element
	rendered    bool
	mustRender  bool

	queue       []*update
	renderQueue []*update

	working   bool
	current   *Fiber
	lastSlot  *stateSlot
	hookCalls int

	pass  PassStats
	stats Stats

	flushTask func()
}

// NewRoot creates an empty Root.
func NewRoot(opts ...Option) *Root {
	r := &Root{
		id:          uuid.NewString(),
		ctx:         context.Background(),
		logger:      slog.Default(),
		observer:    NopObserver{},
		scheduler:   microtask.NewQueue(),
		registry:    callback.Default(),
		renderLimit: DefaultRenderLimit,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.flushTask = func() { r.doWork() }
	return r
}

// ID returns the root's unique identifier.
func (r *Root) ID() string { return r.id }

// Fiber returns the root fiber, or nil before the first render.
func (r *Root) Fiber() *Fiber { return r.rootFiber }

// Registry returns the callback registry used by this root.
func (r *Root) Registry() *callback.Registry { return r.registry }

// Stats returns cumulative pass counters.
func (r *Root) Stats() Stats { return r.stats }

// Pending returns the number of queued external updates.
func (r *Root) Pending() int { return len(r.queue) }

// Work renders el into the tree. The root fiber is reconciled on the first
// call and whenever el differs from the previous call; queued updates are
// applied in the same pass. It reports whether the tree was walked.
func (r *Root) Work(el *element.Element) bool {
	if r.working {
		errors.Fatal("E102", "root %s is already rendering", r.id)
	}
	if !r.rendered || el != r.lastElement {
		r.lastElement = el
		r.mustRender = true
	}
	return r.doWork()
}

// Flush drains the scheduler when the Root can drive it, running any
// scheduled pass. It returns the number of tasks run.
func (r *Root) Flush() int {
	if d, ok := r.scheduler.(drainer); ok {
		return d.Drain()
	}
	return 0
}
