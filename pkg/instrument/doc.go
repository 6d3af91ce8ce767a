// Package instrument provides fiber.Observer implementations that export
// render pass telemetry: Prometheus metrics and OpenTelemetry spans.
//
//	metrics := instrument.NewMetrics(instrument.WithNamespace("app"))
//	tracing := instrument.NewTracing()
//	root := fiber.NewRoot(fiber.WithObserver(instrument.Multi(metrics, tracing)))
package instrument
