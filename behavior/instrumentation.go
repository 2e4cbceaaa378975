package behavior

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
	"github.com/AntonStoeckl/cqrs-pipeline-go/outcome"
)

const (
	// RequestDurationMetric tracks request handling duration (OpenTelemetry-compatible).
	RequestDurationMetric = "cqrs_request_duration_seconds"

	// RequestCallsMetric tracks total handled requests.
	RequestCallsMetric = "cqrs_request_calls_total"

	// RequestFailuresMetric tracks requests that ended with a failure outcome or an unexpected error.
	RequestFailuresMetric = "cqrs_request_failures_total"

	// RequestCanceledMetric tracks requests that ended because the context ended.
	RequestCanceledMetric = "cqrs_request_canceled_total"

	// RequestRetriesMetric tracks retry attempts.
	//
	// Labels:
	//   - request_type: Type of request being retried
	//   - attempt_number: Which retry attempt (1, 2, 3, ...)
	//   - reason: Categorized code or "error" that caused the retry
	RequestRetriesMetric = "cqrs_request_retries_total"

	// RequestRetryDelayMetric tracks the backoff delay before each retry.
	RequestRetryDelayMetric = "cqrs_request_retry_delay_seconds"

	// RequestMaxRetriesReachedMetric tracks when max retries are exhausted.
	RequestMaxRetriesReachedMetric = "cqrs_request_max_retries_reached_total"

	// StatusSuccess indicates a success outcome.
	StatusSuccess = "success"

	// StatusFailure indicates an expected failure outcome.
	StatusFailure = "failure"

	// StatusCanceled indicates the context ended before handling completed.
	StatusCanceled = "canceled"

	// StatusError indicates an unexpected error.
	StatusError = "error"

	// LogMsgRequestStarted is logged when request handling begins.
	LogMsgRequestStarted = "request handling started"

	// LogMsgRequestSucceeded is logged when request handling ends with a success outcome.
	LogMsgRequestSucceeded = "request handling succeeded"

	// LogMsgRequestFailed is logged when request handling ends with a failure outcome.
	LogMsgRequestFailed = "request handling failed"

	// LogMsgRequestCanceled is logged when request handling ends because the context ended.
	LogMsgRequestCanceled = "request handling canceled"

	// LogMsgRequestErrored is logged when request handling ends with an unexpected error.
	LogMsgRequestErrored = "request handling errored"

	// LogMsgRequestRetrying is logged before a retry attempt.
	LogMsgRequestRetrying = "request handling retrying"

	// LogAttrStatus indicates the request handling status.
	LogAttrStatus = "status"

	// LogAttrDescription contains the outcome description.
	LogAttrDescription = "description"

	// LogAttrDurationMS indicates the processing duration in milliseconds.
	LogAttrDurationMS = "duration_ms"

	// LogAttrAttempt indicates the retry attempt number.
	LogAttrAttempt = "attempt_number"

	// LogAttrReason indicates what caused a retry.
	LogAttrReason = "reason"

	// SpanNameRequestHandle is the tracing span name for request handling.
	SpanNameRequestHandle = "cqrs.request.handle"

	reasonError = "error"
)

// ClassifyStatus determines the status label of a finished request.
func ClassifyStatus(res outcome.Outcome, err error) string {
	switch {
	case err != nil && (cqrs.IsCancellationError(err) || cqrs.IsTimeoutError(err)):
		return StatusCanceled
	case err != nil:
		return StatusError
	case cqrs.IsCancellation(res):
		return StatusCanceled
	case res.IsSuccess():
		return StatusSuccess
	default:
		return StatusFailure
	}
}

// categorizedCodeOf returns the categorized code the caller will eventually see.
func categorizedCodeOf(res outcome.Outcome, err error) string {
	if err != nil {
		return cqrs.CodeForError(err).String()
	}

	return res.CategorizedCode()
}

// BuildRequestLabels creates standard metric labels for request handling.
func BuildRequestLabels(requestType, status, categorizedCode string) map[string]string {
	return map[string]string{
		cqrs.LogAttrRequestType:     requestType,
		LogAttrStatus:               status,
		cqrs.LogAttrCategorizedCode: categorizedCode,
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with precision.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// RecordRequestMetrics records all relevant metrics for one handled request.
// It handles both context-aware and basic metrics collectors.
func RecordRequestMetrics(
	ctx context.Context,
	collector cqrs.MetricsCollector,
	requestType string,
	status string,
	categorizedCode string,
	duration time.Duration,
) {
	if collector == nil {
		return
	}

	labels := BuildRequestLabels(requestType, status, categorizedCode)

	recordDuration(ctx, collector, RequestDurationMetric, duration, labels)
	incrementCounter(ctx, collector, RequestCallsMetric, labels)

	switch status {
	case StatusFailure, StatusError:
		incrementCounter(ctx, collector, RequestFailuresMetric, labels)
	case StatusCanceled:
		incrementCounter(ctx, collector, RequestCanceledMetric, labels)
	}
}

func recordDuration(ctx context.Context, collector cqrs.MetricsCollector, metric string, duration time.Duration, labels map[string]string) {
	if contextualCollector, ok := collector.(cqrs.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
	} else {
		collector.RecordDuration(metric, duration, labels)
	}
}

func incrementCounter(ctx context.Context, collector cqrs.MetricsCollector, metric string, labels map[string]string) {
	if contextualCollector, ok := collector.(cqrs.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
	} else {
		collector.IncrementCounter(metric, labels)
	}
}

// StartRequestSpan starts a tracing span for request handling.
// Returns the original context and nil if tracing is disabled.
func StartRequestSpan(
	ctx context.Context,
	tracingCollector cqrs.TracingCollector,
	requestType string,
	requestID string,
) (context.Context, cqrs.SpanContext) {
	if tracingCollector == nil {
		return ctx, nil
	}

	attrs := map[string]string{
		cqrs.LogAttrRequestType: requestType,
		cqrs.LogAttrRequestID:   requestID,
	}

	return tracingCollector.StartSpan(ctx, SpanNameRequestHandle, attrs)
}

// FinishRequestSpan completes a tracing span with the request's status.
func FinishRequestSpan(
	tracingCollector cqrs.TracingCollector,
	span cqrs.SpanContext,
	status string,
	categorizedCode string,
	duration time.Duration,
	err error,
) {
	if tracingCollector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		LogAttrStatus:               status,
		cqrs.LogAttrCategorizedCode: categorizedCode,
		LogAttrDurationMS:           formatDurationMS(duration),
	}

	if err != nil {
		attrs[cqrs.LogAttrError] = err.Error()
	}

	tracingCollector.FinishSpan(span, status, attrs)
}

func formatDurationMS(duration time.Duration) string {
	return fmt.Sprintf("%.2f", ToMilliseconds(duration))
}

func attemptLabel(attempt int) string {
	return strconv.Itoa(attempt)
}
