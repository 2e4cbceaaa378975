package cqrs

import (
	"context"
	"errors"
	"time"
)

const (
	// LogMsgRequestFault is logged when a behavior or handler returned an unexpected error.
	LogMsgRequestFault = "request handling failed with unexpected error"

	// LogMsgRequestPanicked is logged when a behavior or handler panicked.
	LogMsgRequestPanicked = "request handling panicked"

	// LogMsgRequestCanceled is logged when the context ended before handling completed.
	LogMsgRequestCanceled = "request handling canceled"

	// LogMsgMissingIdentity is logged when a request or notification has no identity.
	LogMsgMissingIdentity = "message without identity rejected"

	// LogMsgNotificationHandlerFailed is logged once per failing notification handler.
	LogMsgNotificationHandlerFailed = "notification handler failed"

	// LogAttrRequestType identifies the request type in logs.
	LogAttrRequestType = "request_type"

	// LogAttrRequestID identifies the request in logs.
	LogAttrRequestID = "request_id"

	// LogAttrNotificationType identifies the notification type in logs.
	LogAttrNotificationType = "notification_type"

	// LogAttrNotificationID identifies the notification in logs.
	LogAttrNotificationID = "notification_id"

	// LogAttrHandlerIndex identifies a notification handler by registration position.
	LogAttrHandlerIndex = "handler_index"

	// LogAttrCategorizedCode contains the categorized result code of an outcome.
	LogAttrCategorizedCode = "categorized_code"

	// LogAttrError contains error details.
	LogAttrError = "error"
)

// Logger interface for operational logging, warnings, and error reporting.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger interface for context-aware logging with automatic trace correlation.
// This interface follows the same dependency-free pattern as MetricsCollector and TracingCollector,
// allowing users to integrate with any logging backend (OpenTelemetry, structured loggers, etc.)
// that supports context-based correlation.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector interface for collecting request handling performance and operational metrics.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// ContextualMetricsCollector extends MetricsCollector with context-aware methods for better tracing integration.
// This interface is optional, the context-aware methods are used when available.
type ContextualMetricsCollector interface {
	MetricsCollector
	RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string)
	IncrementCounterContext(ctx context.Context, metric string, labels map[string]string)
	RecordValueContext(ctx context.Context, metric string, value float64, labels map[string]string)
}

// SpanContext represents an active tracing span that can be finished and updated with attributes.
type SpanContext interface {
	SetStatus(status string)
	AddAttribute(key, value string)
}

// TracingCollector interface for collecting distributed tracing information.
// Integrate with any tracing backend (OpenTelemetry, Jaeger, Zipkin, etc.) by implementing this interface.
type TracingCollector interface {
	StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext)
	FinishSpan(spanCtx SpanContext, status string, attrs map[string]string)
}

// IsCancellationError checks if an error is due to context cancellation.
func IsCancellationError(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsTimeoutError checks if an error is due to context deadline exceeded.
func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// LogError logs at error level, preferring the contextual logger when both are set.
func LogError(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.ErrorContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Error(msg, args...)
	}
}

// LogWarn logs at warn level, preferring the contextual logger when both are set.
func LogWarn(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.WarnContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Warn(msg, args...)
	}
}

// LogInfo logs at info level, preferring the contextual logger when both are set.
func LogInfo(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.InfoContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Info(msg, args...)
	}
}

// LogDebug logs at debug level, preferring the contextual logger when both are set.
func LogDebug(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.DebugContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Debug(msg, args...)
	}
}
