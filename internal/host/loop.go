// Package host runs a loom Root on a single goroutine.
//
// A Root is not safe for concurrent use and defers batched renders to a
// microtask queue. Loop owns both: other goroutines submit work through an
// ingress channel, the loop runs each task and then drains the microtask
// queue before taking the next one, so every task observes a settled tree.
// After a task causes a render walk, the serialized tree is published to
// subscribers.
package host

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/vango-dev/loom"
	"github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/callback"
	"github.com/vango-dev/loom/pkg/element"
	"github.com/vango-dev/loom/pkg/fiber"
	"github.com/vango-dev/loom/pkg/microtask"
)

var (
	// ErrLoopAlreadyRunning is returned when Run is called on a running loop.
	ErrLoopAlreadyRunning = stderrors.New("host: loop is already running")

	// ErrLoopTerminated is returned when work is submitted to a stopped loop.
	ErrLoopTerminated = stderrors.New("host: loop has been terminated")
)

const defaultIngressSize = 64

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger for the loop and its Root.
func WithLogger(l *slog.Logger) Option {
	return func(loop *Loop) {
		if l != nil {
			loop.logger = l
		}
	}
}

// WithRootOptions passes options to the Root.
func WithRootOptions(opts ...loom.Option) Option {
	return func(loop *Loop) {
		loop.rootOpts = append(loop.rootOpts, opts...)
	}
}

// WithIngressSize sets the ingress buffer length.
func WithIngressSize(n int) Option {
	return func(loop *Loop) {
		if n > 0 {
			loop.ingressSize = n
		}
	}
}

// Loop owns a Root and serializes all access to it.
type Loop struct {
	logger      *slog.Logger
	rootOpts    []loom.Option
	ingressSize int

	el       *element.Element
	root     *loom.Root
	queue    *microtask.Queue
	registry *callback.Registry

	ingress chan func()
	done    chan struct{}
	running atomic.Bool

	// Loop goroutine only.
	fatal     error
	lastWalks uint64

	mu   sync.Mutex
	err  error
	last string
	subs map[string]chan string
}

// New creates a loop rendering el. The Root gets a private callback
// registry and a microtask queue the loop drains.
func New(el *element.Element, opts ...Option) *Loop {
	l := &Loop{
		logger:      slog.Default(),
		ingressSize: defaultIngressSize,
		el:          el,
		queue:       microtask.NewQueue(),
		registry:    callback.NewRegistry(),
		done:        make(chan struct{}),
		subs:        make(map[string]chan string),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.ingress = make(chan func(), l.ingressSize)

	rootOpts := append([]loom.Option{
		loom.WithLogger(l.logger),
		loom.WithRegistry(l.registry),
		loom.WithFiberOptions(fiber.WithScheduler(l.queue)),
	}, l.rootOpts...)
	l.root = loom.CreateRoot(rootOpts...)
	return l
}

// Run performs the initial render and processes submitted tasks until ctx
// is done or a render fails. A render failure is returned; the loop cannot
// be restarted.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopAlreadyRunning
	}

	l.logger.Info("host loop started", "root", l.root.ID())
	l.runTask(func(r *loom.Root) error {
		r.Work(l.el)
		return nil
	})

	for l.fatal == nil {
		select {
		case <-ctx.Done():
			return l.stop(nil)
		case task := <-l.ingress:
			task()
		}
	}
	return l.stop(l.fatal)
}

func (l *Loop) stop(err error) error {
	l.mu.Lock()
	l.err = err
	for id, ch := range l.subs {
		close(ch)
		delete(l.subs, id)
	}
	close(l.done)
	l.mu.Unlock()

	if err != nil {
		l.logger.Error("host loop failed", "root", l.root.ID(), "error", err)
	} else {
		l.logger.Info("host loop stopped", "root", l.root.ID())
	}
	return err
}

// Done is closed when the loop stops.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Err returns the render failure that stopped the loop, if any.
func (l *Loop) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// runTask runs fn against the root, then drains microtasks. Panics raised
// by a callback lookup are returned to the caller; any other panic leaves
// the Root unusable and stops the loop.
func (l *Loop) runTask(fn func(r *loom.Root) error) error {
	var fnErr error
	if err := errors.Recover(func() { fnErr = fn(l.root) }); err != nil {
		if errors.CategoryOf(err) != errors.CategoryCallback {
			l.fatal = err
			return err
		}
		fnErr = err
	}

	if err := errors.Recover(func() { l.queue.Drain() }); err != nil {
		l.fatal = err
		return err
	}
	l.publish()
	return fnErr
}

// Do runs fn on the loop goroutine and waits for it and every render it
// schedules to finish.
func (l *Loop) Do(ctx context.Context, fn func(r *loom.Root) error) error {
	res := make(chan error, 1)
	task := func() { res <- l.runTask(fn) }

	select {
	case l.ingress <- task:
	case <-l.done:
		return ErrLoopTerminated
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-res:
		return err
	case <-l.done:
		select {
		case err := <-res:
			return err
		default:
			return ErrLoopTerminated
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatch invokes the primary handler registered for id and waits for the
// resulting render.
func (l *Loop) Dispatch(ctx context.Context, id string, payload any) error {
	return l.Do(ctx, func(*loom.Root) error {
		l.registry.Dispatch(id, payload)
		return nil
	})
}

// DispatchEvent invokes the handler registered for id and event.
func (l *Loop) DispatchEvent(ctx context.Context, id, event string, payload any) error {
	return l.Do(ctx, func(*loom.Root) error {
		l.registry.DispatchEvent(id, event, payload)
		return nil
	})
}

// Snapshot returns the serialized tree.
func (l *Loop) Snapshot(ctx context.Context) (string, error) {
	var out string
	err := l.Do(ctx, func(r *loom.Root) error {
		out = r.String()
		return nil
	})
	return out, err
}

// Stats returns the root's pass counters.
func (l *Loop) Stats(ctx context.Context) (fiber.Stats, error) {
	var stats fiber.Stats
	err := l.Do(ctx, func(r *loom.Root) error {
		stats = r.Stats()
		return nil
	})
	return stats, err
}

// Handlers returns the ids with registered handlers.
func (l *Loop) Handlers() []string {
	return l.registry.IDs()
}

// Subscribe returns a channel receiving the serialized tree after every
// walk, starting with the latest output. Slow subscribers only see the
// newest value. The channel is closed by cancel or when the loop stops.
func (l *Loop) Subscribe() (id string, updates <-chan string, cancel func()) {
	id = uuid.NewString()
	ch := make(chan string, 1)

	l.mu.Lock()
	select {
	case <-l.done:
		close(ch)
	default:
		if l.last != "" {
			ch <- l.last
		}
		l.subs[id] = ch
	}
	l.mu.Unlock()

	cancel = func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if c, ok := l.subs[id]; ok {
			close(c)
			delete(l.subs, id)
		}
	}
	return id, ch, cancel
}

// publish sends the current output to subscribers if the last task walked
// the tree.
func (l *Loop) publish() {
	walks := l.root.Stats().Walks
	if walks == l.lastWalks {
		return
	}
	l.lastWalks = walks
	out := l.root.String()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.last = out
	for _, ch := range l.subs {
		// Replace a value the subscriber has not read yet.
		select {
		case <-ch:
		default:
		}
		ch <- out
	}
}
