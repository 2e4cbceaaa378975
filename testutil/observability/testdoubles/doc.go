// Package testdoubles provides test doubles (spies) for the cqrs observability interfaces.
//
//   - ContextualLoggerSpy: captures context-aware log calls, also usable as a basic cqrs.Logger
//   - MetricsCollectorSpy: captures metric calls (basic and context-aware) with fluent matchers
//   - TracingCollectorSpy: captures started and finished spans with fluent matchers
//   - LogHandlerSpy: a slog.Handler that captures records, for code that logs through *slog.Logger
//
// These test doubles enable testing of observability instrumentation without telemetry backends.
package testdoubles
