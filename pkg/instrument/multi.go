package instrument

import (
	"context"

	"github.com/vango-dev/loom/pkg/fiber"
)

type multi []fiber.Observer

// Multi fans notifications out to every observer in order. The context
// returned by each PassStarted is passed to the next.
func Multi(observers ...fiber.Observer) fiber.Observer {
	var out multi
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

func (m multi) PassStarted(ctx context.Context, rootID string) context.Context {
	for _, o := range m {
		ctx = o.PassStarted(ctx, rootID)
	}
	return ctx
}

func (m multi) PassFinished(ctx context.Context, stats fiber.PassStats) {
	for i := len(m) - 1; i >= 0; i-- {
		m[i].PassFinished(ctx, stats)
	}
}

func (m multi) FiberMounted(kind fiber.Kind) {
	for _, o := range m {
		o.FiberMounted(kind)
	}
}

func (m multi) UpdateQueued(renderPhase bool) {
	for _, o := range m {
		o.UpdateQueued(renderPhase)
	}
}
