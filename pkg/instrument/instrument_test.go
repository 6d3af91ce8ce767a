package instrument

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/loom/pkg/callback"
	"github.com/vango-dev/loom/pkg/element"
	"github.com/vango-dev/loom/pkg/fiber"
)

func counterRoot(t *testing.T, obs fiber.Observer) (*fiber.Root, *element.Element, func()) {
	t.Helper()
	var set fiber.Setter[int]
	comp := element.NewComponent("Counter", func(ctx context.Context, props element.Props) *element.Element {
		n, s := fiber.UseState(ctx, 0)
		set = s
		if n == 1 {
			s.Set(2)
		}
		return element.H("p", nil, "n")
	})
	root := fiber.NewRoot(fiber.WithObserver(obs), fiber.WithRegistry(callback.NewRegistry()))
	return root, element.C(comp, nil), func() { set.Set(1) }
}

// find returns the metric in families matching name and label pairs.
func find(families []*dto.MetricFamily, name string, labels ...string) *dto.Metric {
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for i := 0; i+1 < len(labels); i += 2 {
				found := false
				for _, lp := range m.GetLabel() {
					if lp.GetName() == labels[i] && lp.GetValue() == labels[i+1] {
						found = true
					}
				}
				if !found {
					continue next
				}
			}
			return m
		}
	}
	return nil
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))

	root, el, bump := counterRoot(t, m)
	root.Work(el)
	root.Work(el) // idle pass
	bump()
	root.Flush()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	tests := []struct {
		name   string
		labels []string
		want   float64
	}{
		{"test_render_passes_total", []string{"walked", "true"}, 2},
		{"test_render_passes_total", []string{"walked", "false"}, 1},
		{"test_fibers_mounted_total", []string{"kind", "Component"}, 1},
		{"test_fibers_mounted_total", []string{"kind", "Host"}, 1},
		{"test_fibers_mounted_total", []string{"kind", "Text"}, 1},
		{"test_state_updates_queued_total", []string{"phase", "external"}, 1},
		{"test_state_updates_queued_total", []string{"phase", "render"}, 1},
		{"test_state_updates_applied_total", nil, 2},
		{"test_component_rerenders_total", nil, 1},
		{"test_fibers_visited_total", nil, 6},
	}
	for _, tt := range tests {
		metric := find(families, tt.name, tt.labels...)
		if metric == nil {
			t.Errorf("%s%v not found", tt.name, tt.labels)
			continue
		}
		if got := metric.GetCounter().GetValue(); got != tt.want {
			t.Errorf("%s%v = %v, want %v", tt.name, tt.labels, got, tt.want)
		}
	}

	h := find(families, "test_render_pass_duration_seconds")
	if h == nil || h.GetHistogram().GetSampleCount() != 3 {
		t.Errorf("pass duration samples = %v, want 3", h.GetHistogram().GetSampleCount())
	}
}

func TestMetricsOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(
		WithRegistry(reg),
		WithNamespace("app"),
		WithSubsystem("ui"),
		WithConstLabels(prometheus.Labels{"env": "test"}),
		WithBuckets([]float64{0.001, 1}),
	)

	root, el, _ := counterRoot(t, m)
	root.Work(el)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if find(families, "app_ui_render_passes_total", "env", "test", "walked", "true") == nil {
		t.Error("app_ui_render_passes_total with env=test not found")
	}
	h := find(families, "app_ui_render_pass_duration_seconds", "env", "test")
	if h == nil {
		t.Fatal("app_ui_render_pass_duration_seconds not found")
	}
	if got := len(h.GetHistogram().GetBucket()); got != 2 {
		t.Errorf("buckets = %d, want 2", got)
	}
}

func TestTracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tr := NewTracing(WithTracerProvider(tp), WithTracerName("loom.test"))

	var seen trace.SpanContext
	comp := element.NewComponent("Probe", func(ctx context.Context, props element.Props) *element.Element {
		seen = trace.SpanContextFromContext(ctx)
		return nil
	})
	root := fiber.NewRoot(fiber.WithObserver(tr), fiber.WithRegistry(callback.NewRegistry()), fiber.WithID("root-1"))
	root.Work(element.C(comp, nil))

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	span := spans[0]
	if span.Name() != "loom.render_pass" {
		t.Errorf("span name = %q", span.Name())
	}
	if got := span.InstrumentationScope().Name; got != "loom.test" {
		t.Errorf("tracer name = %q, want loom.test", got)
	}
	if span.SpanContext().SpanID() != seen.SpanID() {
		t.Error("component should render under the pass span")
	}

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if got := attrs["loom.root.id"].AsString(); got != "root-1" {
		t.Errorf("loom.root.id = %q, want root-1", got)
	}
	if !attrs["loom.pass.walked"].AsBool() {
		t.Error("loom.pass.walked should be true")
	}
	if got := attrs["loom.pass.visited"].AsInt64(); got != 1 {
		t.Errorf("loom.pass.visited = %d, want 1", got)
	}
}

type recorder struct {
	name   string
	events *[]string
}

type ctxKey string

func (r recorder) PassStarted(ctx context.Context, _ string) context.Context {
	*r.events = append(*r.events, r.name+".start")
	return context.WithValue(ctx, ctxKey(r.name), true)
}

func (r recorder) PassFinished(ctx context.Context, _ fiber.PassStats) {
	if ctx.Value(ctxKey("a")) == nil || ctx.Value(ctxKey("b")) == nil {
		*r.events = append(*r.events, r.name+".missing-ctx")
	}
	*r.events = append(*r.events, r.name+".finish")
}

func (r recorder) FiberMounted(fiber.Kind) {}

func (r recorder) UpdateQueued(bool) {}

func TestMulti(t *testing.T) {
	var events []string
	obs := Multi(recorder{"a", &events}, nil, recorder{"b", &events})

	ctx := obs.PassStarted(context.Background(), "r")
	obs.PassFinished(ctx, fiber.PassStats{})

	want := []string{"a.start", "b.start", "b.finish", "a.finish"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, events[i], want[i])
		}
	}

	single := recorder{"a", &events}
	if got := Multi(single); got != fiber.Observer(single) {
		t.Error("Multi of one observer should return it")
	}
}
