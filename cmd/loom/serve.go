package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/loom"
	"github.com/vango-dev/loom/internal/config"
	"github.com/vango-dev/loom/internal/demo"
	"github.com/vango-dev/loom/internal/host"
	"github.com/vango-dev/loom/pkg/fiber"
	"github.com/vango-dev/loom/pkg/instrument"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [demo]",
		Short: "Serve a demo over HTTP and WebSocket",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Serve.Addr = addr
			}
			name := "counter"
			if len(args) == 1 {
				name = args[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, name)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Override serve.addr")

	return cmd
}

// observers builds the render observers for cfg, registering metrics with
// reg. The returned shutdown flushes the tracer provider, if any.
func observers(cfg *config.Config, reg *prometheus.Registry) (fiber.Observer, func(context.Context) error) {
	metrics := instrument.NewMetrics(
		instrument.WithRegistry(reg),
		instrument.WithNamespace(cfg.Metrics.Namespace),
	)
	if !cfg.Tracing.Enabled {
		return metrics, func(context.Context) error { return nil }
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	otel.SetTracerProvider(tp)
	return instrument.Multi(metrics, instrument.NewTracing(
		instrument.WithTracerName("loom.serve"),
		instrument.WithTracerProvider(tp),
	)), tp.Shutdown
}

func serve(ctx context.Context, cfg *config.Config, name string) error {
	el, ok := demo.App(name, nil)
	if !ok {
		return stderrors.New("unknown demo " + name)
	}
	logger := newLogger(cfg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	obs, shutdownTracing := observers(cfg, reg)
	defer shutdownTracing(context.Background())

	loop := host.New(el,
		host.WithLogger(logger),
		host.WithRootOptions(
			loom.WithObserver(obs),
			loom.WithRenderLimit(cfg.Render.RenderLimit),
			loom.WithIndent(cfg.Render.Indent),
		),
	)

	srv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           newRouter(loop, reg, cfg.Serve.MetricsPath, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("listening", "addr", srv.Addr, "demo", name)
		info("render: http://%s/render", displayAddr(srv.Addr))
		info("live:   ws://%s/live", displayAddr(srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-loop.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	success("Server stopped")
	return nil
}

// displayAddr turns a listen address into something a browser can reach.
func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}
