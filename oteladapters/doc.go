// Package oteladapters provides OpenTelemetry implementations of the cqrs observability interfaces.
//
// Use them to plug a Pipeline, its behaviors, and a Publisher into an existing OpenTelemetry setup:
//
//	tracing := oteladapters.NewTracingCollector(otel.Tracer("library"))
//	metrics := oteladapters.NewMetricsCollector(otel.Meter("library"))
//	logger := oteladapters.NewSlogBridgeLogger("library")
//
// SlogBridgeLogger correlates log records with the active span. OTelLogger emits records
// through the OpenTelemetry logs API directly.
package oteladapters
