package behavior

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
	"github.com/AntonStoeckl/cqrs-pipeline-go/outcome"
)

const (
	defaultMaxAttempts  = 6
	defaultBaseDelay    = 10 * time.Millisecond
	defaultMaxDelay     = 10 * time.Second
	defaultJitterFactor = 0.3
)

// Retry re-runs the rest of the chain with exponential backoff and jitter.
// Only errors matching WithRetryableErrors (errors.Is) and failure outcomes whose categorized code
// matches WithRetryableCodes are retried, everything else is returned after the first attempt.
//
// Retry Schedule (default): 0 ms, 10 ms, 20 ms, 40 ms, 80 ms, 160 ms (with 30% jitter)
//
// Register Retry outside of transactional behaviors so that each attempt runs in a fresh transaction.
type Retry[Req cqrs.Request, Res cqrs.Response[Res]] struct {
	maxAttempts      int
	baseDelay        time.Duration
	maxDelay         time.Duration
	jitterFactor     float64
	retryableErrors  []error
	retryableCodes   map[string]struct{}
	metricsCollector cqrs.MetricsCollector
	contextualLogger cqrs.ContextualLogger
	logger           cqrs.Logger
}

// RetryOption configures Retry using the functional options pattern.
type RetryOption[Req cqrs.Request, Res cqrs.Response[Res]] func(*Retry[Req, Res]) error

// NewRetry creates a Retry behavior.
func NewRetry[Req cqrs.Request, Res cqrs.Response[Res]](opts ...RetryOption[Req, Res]) (*Retry[Req, Res], error) {
	r := &Retry[Req, Res]{
		maxAttempts:    defaultMaxAttempts,
		baseDelay:      defaultBaseDelay,
		maxDelay:       defaultMaxDelay,
		jitterFactor:   defaultJitterFactor,
		retryableCodes: make(map[string]struct{}),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// WithRetryableErrors adds errors that trigger a retry when returned through the chain.
func WithRetryableErrors[Req cqrs.Request, Res cqrs.Response[Res]](targets ...error) RetryOption[Req, Res] {
	return func(r *Retry[Req, Res]) error {
		r.retryableErrors = append(r.retryableErrors, targets...)
		return nil
	}
}

// WithRetryableCodes adds result codes that trigger a retry when a failure outcome carries them.
func WithRetryableCodes[Req cqrs.Request, Res cqrs.Response[Res]](codes ...outcome.ResultCode) RetryOption[Req, Res] {
	return func(r *Retry[Req, Res]) error {
		for _, rc := range codes {
			r.retryableCodes[rc.String()] = struct{}{}
		}

		return nil
	}
}

// WithMaxAttempts sets the maximum number of attempts, including the first one.
func WithMaxAttempts[Req cqrs.Request, Res cqrs.Response[Res]](attempts int) RetryOption[Req, Res] {
	return func(r *Retry[Req, Res]) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		r.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the base delay for exponential backoff.
// Actual delays: baseDelay, baseDelay*2, baseDelay*4, baseDelay*8, etc.
func WithBaseDelay[Req cqrs.Request, Res cqrs.Response[Res]](delay time.Duration) RetryOption[Req, Res] {
	return func(r *Retry[Req, Res]) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		r.baseDelay = delay

		return nil
	}
}

// WithMaxDelay caps the backoff delay before jitter is added.
func WithMaxDelay[Req cqrs.Request, Res cqrs.Response[Res]](delay time.Duration) RetryOption[Req, Res] {
	return func(r *Retry[Req, Res]) error {
		if delay <= 0 {
			return ErrInvalidMaxDelay
		}

		r.maxDelay = delay

		return nil
	}
}

// WithJitterFactor sets the jitter added as a share of the calculated backoff delay.
// Valid range: 0.0 (no jitter) to 1.0 (100% jitter).
func WithJitterFactor[Req cqrs.Request, Res cqrs.Response[Res]](factor float64) RetryOption[Req, Res] {
	return func(r *Retry[Req, Res]) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		r.jitterFactor = factor

		return nil
	}
}

// WithRetryMetrics sets the metrics collector for retry instrumentation.
func WithRetryMetrics[Req cqrs.Request, Res cqrs.Response[Res]](collector cqrs.MetricsCollector) RetryOption[Req, Res] {
	return func(r *Retry[Req, Res]) error {
		if collector == nil {
			return ErrNilMetricsCollector
		}

		r.metricsCollector = collector

		return nil
	}
}

// WithRetryLogger sets the basic logger.
func WithRetryLogger[Req cqrs.Request, Res cqrs.Response[Res]](logger cqrs.Logger) RetryOption[Req, Res] {
	return func(r *Retry[Req, Res]) error {
		r.logger = logger
		return nil
	}
}

// WithRetryContextualLogger sets the contextual logger.
func WithRetryContextualLogger[Req cqrs.Request, Res cqrs.Response[Res]](logger cqrs.ContextualLogger) RetryOption[Req, Res] {
	return func(r *Retry[Req, Res]) error {
		r.contextualLogger = logger
		return nil
	}
}

// Handle implements cqrs.Behavior.
// When the context ends during a backoff delay, a cancellation failure is returned.
func (r *Retry[Req, Res]) Handle(ctx context.Context, request Req, next cqrs.Next[Res]) (Res, error) {
	var (
		res    Res
		err    error
		reason string
	)

	requestType := request.RequestType()

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if attempt > 0 {
			backoffDelay := r.backoff(attempt)
			r.recordRetry(ctx, requestType, attempt, reason, backoffDelay)

			select {
			case <-time.After(backoffDelay):
			case <-ctx.Done():
				return cqrs.FailureFor[Res](cqrs.CodeForError(ctx.Err()), outcome.WithCorrelationID(request.ID()))
			}
		}

		res, err = next(ctx)

		var retryable bool
		if retryable, reason = r.isRetryable(res, err); !retryable {
			return res, err
		}
	}

	r.recordMaxRetriesReached(ctx, requestType, reason)

	return res, err
}

// backoff returns baseDelay * 2^(attempt-1), capped at maxDelay, plus jitter.
func (r *Retry[Req, Res]) backoff(attempt int) time.Duration {
	delay := r.maxDelay
	if shift := attempt - 1; shift < 63 && r.baseDelay <= r.maxDelay>>shift {
		delay = r.baseDelay << shift
	}

	jitter := rand.Float64() * float64(delay) * r.jitterFactor //nolint:gosec // math/rand is sufficient for jitter

	return delay + time.Duration(jitter)
}

func (r *Retry[Req, Res]) isRetryable(res Res, err error) (bool, string) {
	if err != nil {
		for _, target := range r.retryableErrors {
			if errors.Is(err, target) {
				return true, reasonError
			}
		}

		return false, ""
	}

	if res.IsSuccess() {
		return false, ""
	}

	if _, ok := r.retryableCodes[res.CategorizedCode()]; ok {
		return true, res.CategorizedCode()
	}

	return false, ""
}

func (r *Retry[Req, Res]) recordRetry(ctx context.Context, requestType string, attempt int, reason string, delay time.Duration) {
	cqrs.LogInfo(ctx, r.logger, r.contextualLogger, LogMsgRequestRetrying,
		cqrs.LogAttrRequestType, requestType,
		LogAttrAttempt, attempt,
		LogAttrReason, reason,
		LogAttrDurationMS, ToMilliseconds(delay),
	)

	if r.metricsCollector == nil {
		return
	}

	incrementCounter(ctx, r.metricsCollector, RequestRetriesMetric, map[string]string{
		cqrs.LogAttrRequestType: requestType,
		LogAttrAttempt:          attemptLabel(attempt),
		LogAttrReason:           reason,
	})

	recordDuration(ctx, r.metricsCollector, RequestRetryDelayMetric, delay, map[string]string{
		cqrs.LogAttrRequestType: requestType,
		LogAttrAttempt:          attemptLabel(attempt),
	})
}

func (r *Retry[Req, Res]) recordMaxRetriesReached(ctx context.Context, requestType string, reason string) {
	if r.metricsCollector == nil {
		return
	}

	incrementCounter(ctx, r.metricsCollector, RequestMaxRetriesReachedMetric, map[string]string{
		cqrs.LogAttrRequestType: requestType,
		LogAttrReason:           reason,
	})
}
