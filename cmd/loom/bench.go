package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/vango-dev/loom"
	"github.com/vango-dev/loom/internal/config"
	"github.com/vango-dev/loom/internal/demo"
	"github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/callback"
	"github.com/vango-dev/loom/pkg/element"
	"github.com/vango-dev/loom/pkg/instrument"
)

func benchCmd(flags *globalFlags) *cobra.Command {
	var iterations, items int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure keyed list reconciliation",
		Long: `Render a keyed list and rotate it repeatedly, reporting time per
pass and mount counts. A keyed rotation should reuse every fiber, so the
mount count stays at the initial render's.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if iterations > 0 {
				cfg.Bench.Iterations = iterations
			}
			if items > 0 {
				cfg.Bench.Items = items
			}
			return runBench(cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().IntVarP(&iterations, "iterations", "n", 0, "Override bench.iterations")
	cmd.Flags().IntVar(&items, "items", 0, "Override bench.items")

	return cmd
}

// benchResult summarizes one bench run.
type benchResult struct {
	Passes   int
	Items    int
	Elapsed  time.Duration
	Mounted  uint64
	Visited  uint64
	Registry *prometheus.Registry
}

func keyedList(todos []demo.Todo) *element.Element {
	return element.H("ul", nil, element.Range(todos, func(t demo.Todo, _ int) *element.Element {
		return element.Keyed(t.ID, element.H("li", nil, t.Title))
	}))
}

func bench(cfg *config.Config) (benchResult, error) {
	reg := prometheus.NewRegistry()
	metrics := instrument.NewMetrics(
		instrument.WithRegistry(reg),
		instrument.WithNamespace(cfg.Metrics.Namespace),
		instrument.WithSubsystem("bench"),
		instrument.WithConstLabels(prometheus.Labels{"items": strconv.Itoa(cfg.Bench.Items)}),
	)
	root := loom.CreateRoot(
		loom.WithLogger(newLogger(cfg)),
		loom.WithObserver(metrics),
		loom.WithRegistry(callback.NewRegistry()),
		loom.WithRenderLimit(cfg.Render.RenderLimit),
	)

	todos := demo.Seed(cfg.Bench.Items)
	res := benchResult{Passes: cfg.Bench.Iterations, Items: cfg.Bench.Items, Registry: reg}
	err := errors.Recover(func() {
		root.Work(keyedList(todos))
		start := time.Now()
		for i := 0; i < cfg.Bench.Iterations; i++ {
			todos = demo.Rotate(todos)
			root.Work(keyedList(todos))
		}
		res.Elapsed = time.Since(start)
	})
	stats := root.Stats()
	res.Mounted = stats.Mounted
	res.Visited = stats.Visited
	return res, err
}

func runBench(w io.Writer, cfg *config.Config) error {
	res, err := bench(cfg)
	if err != nil {
		return err
	}

	perPass := time.Duration(0)
	if res.Passes > 0 {
		perPass = res.Elapsed / time.Duration(res.Passes)
	}
	fmt.Fprintf(w, "items:      %d\n", res.Items)
	fmt.Fprintf(w, "passes:     %d\n", res.Passes)
	fmt.Fprintf(w, "elapsed:    %s\n", res.Elapsed)
	fmt.Fprintf(w, "per pass:   %s\n", perPass)
	fmt.Fprintf(w, "mounted:    %d\n", res.Mounted)
	fmt.Fprintf(w, "visited:    %d\n", res.Visited)

	families, err := res.Registry.Gather()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "counters:")
	for _, mf := range families {
		if mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, m := range mf.GetMetric() {
			fmt.Fprintf(w, "  %s%s %g\n", mf.GetName(), labelString(m.GetLabel()), m.GetCounter().GetValue())
		}
	}
	return nil
}

// labelString formats label pairs as {a="x",b="y"}, in the order given.
func labelString(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, len(pairs))
	for i, lp := range pairs {
		parts[i] = fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue())
	}
	return "{" + strings.Join(parts, ",") + "}"
}
