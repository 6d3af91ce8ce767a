package fiber

import (
	"context"
	"time"
)

// PassStats describes one doWork call.
type PassStats struct {
	RootID string

	// Walked is false when the pass found nothing to do.
	Walked bool

	Visited   int
	Mounted   int
	Updates   int
	Rerenders int
	Duration  time.Duration
}

// Stats are cumulative counters for a Root.
type Stats struct {
	Passes    uint64
	Walks     uint64
	Visited   uint64
	Mounted   uint64
	Updates   uint64
	Rerenders uint64
}

func (s *Stats) add(p PassStats) {
	s.Passes++
	if p.Walked {
		s.Walks++
	}
	s.Visited += uint64(p.Visited)
	s.Mounted += uint64(p.Mounted)
	s.Updates += uint64(p.Updates)
	s.Rerenders += uint64(p.Rerenders)
}

// Observer receives render lifecycle notifications. Calls are made on the
// goroutine running the pass and must not re-enter the Root.
type Observer interface {
	// PassStarted is called at the start of every doWork. The returned
	// context is handed to components rendered during the pass.
	PassStarted(ctx context.Context, rootID string) context.Context

	// PassFinished is called with the ctx returned by PassStarted.
	PassFinished(ctx context.Context, stats PassStats)

	FiberMounted(kind Kind)

	// UpdateQueued is called for every setter call.
	UpdateQueued(renderPhase bool)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) PassStarted(ctx context.Context, _ string) context.Context { return ctx }
func (NopObserver) PassFinished(context.Context, PassStats)                   {}
func (NopObserver) FiberMounted(Kind)                                         {}
func (NopObserver) UpdateQueued(bool)                                         {}
