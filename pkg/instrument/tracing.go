package instrument

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/loom/pkg/fiber"
)

// Default tracer name for loom render passes.
const defaultTracerName = "loom"

// TracingConfig configures the OpenTelemetry observer.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "loom").
	TracerName string

	// Provider supplies the tracer. Default: otel.GetTracerProvider().
	Provider trace.TracerProvider
}

// TracingOption configures the OpenTelemetry observer.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = tp
	}
}

// Tracing is a fiber.Observer that records one span per render pass.
// Components rendered during the pass receive the span's context.
type Tracing struct {
	tracer trace.Tracer
}

// NewTracing creates the tracing observer.
func NewTracing(opts ...TracingOption) *Tracing {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}
	return &Tracing{tracer: config.Provider.Tracer(config.TracerName)}
}

func (t *Tracing) PassStarted(ctx context.Context, rootID string) context.Context {
	ctx, _ = t.tracer.Start(ctx, "loom.render_pass",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("loom.root.id", rootID)),
	)
	return ctx
}

func (t *Tracing) PassFinished(ctx context.Context, stats fiber.PassStats) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.Bool("loom.pass.walked", stats.Walked),
		attribute.Int("loom.pass.visited", stats.Visited),
		attribute.Int("loom.pass.mounted", stats.Mounted),
		attribute.Int("loom.pass.updates", stats.Updates),
		attribute.Int("loom.pass.rerenders", stats.Rerenders),
	)
	span.End()
}

func (t *Tracing) FiberMounted(fiber.Kind) {}

func (t *Tracing) UpdateQueued(bool) {}
