package behavior

import (
	"context"
	"fmt"
	"time"

	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
)

// Observability adds logging, metrics, and tracing around the rest of the chain.
// It never changes the outcome or the error it observes.
type Observability[Req cqrs.Request, Res cqrs.Response[Res]] struct {
	metricsCollector cqrs.MetricsCollector
	tracingCollector cqrs.TracingCollector
	contextualLogger cqrs.ContextualLogger
	logger           cqrs.Logger
}

// ObservabilityOption defines a functional option for configuring Observability.
type ObservabilityOption[Req cqrs.Request, Res cqrs.Response[Res]] func(*Observability[Req, Res]) error

// NewObservability creates an Observability behavior. Without options it only passes through.
func NewObservability[Req cqrs.Request, Res cqrs.Response[Res]](
	opts ...ObservabilityOption[Req, Res],
) (*Observability[Req, Res], error) {
	o := &Observability[Req, Res]{}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// WithMetrics sets the metrics collector.
func WithMetrics[Req cqrs.Request, Res cqrs.Response[Res]](collector cqrs.MetricsCollector) ObservabilityOption[Req, Res] {
	return func(o *Observability[Req, Res]) error {
		o.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector.
func WithTracing[Req cqrs.Request, Res cqrs.Response[Res]](collector cqrs.TracingCollector) ObservabilityOption[Req, Res] {
	return func(o *Observability[Req, Res]) error {
		o.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger sets the contextual logger, which takes precedence over the basic logger.
func WithContextualLogger[Req cqrs.Request, Res cqrs.Response[Res]](logger cqrs.ContextualLogger) ObservabilityOption[Req, Res] {
	return func(o *Observability[Req, Res]) error {
		o.contextualLogger = logger
		return nil
	}
}

// WithLogger sets the basic logger.
func WithLogger[Req cqrs.Request, Res cqrs.Response[Res]](logger cqrs.Logger) ObservabilityOption[Req, Res] {
	return func(o *Observability[Req, Res]) error {
		o.logger = logger
		return nil
	}
}

// Handle implements cqrs.Behavior.
func (o *Observability[Req, Res]) Handle(ctx context.Context, request Req, next cqrs.Next[Res]) (Res, error) {
	start := time.Now()
	requestType := request.RequestType()
	requestID := request.ID().String()

	ctx, span := StartRequestSpan(ctx, o.tracingCollector, requestType, requestID)
	cqrs.LogDebug(ctx, o.logger, o.contextualLogger, LogMsgRequestStarted,
		cqrs.LogAttrRequestType, requestType,
		cqrs.LogAttrRequestID, requestID,
	)

	finish := func(res Res, err error) {
		duration := time.Since(start)
		status := ClassifyStatus(res, err)
		categorizedCode := categorizedCodeOf(res, err)

		RecordRequestMetrics(ctx, o.metricsCollector, requestType, status, categorizedCode, duration)
		FinishRequestSpan(o.tracingCollector, span, status, categorizedCode, duration, err)
		o.logFinished(ctx, requestType, requestID, status, categorizedCode, res, err, duration)
	}

	// A panic is observed as an error and then handed on to the pipeline's recovery.
	defer func() {
		if r := recover(); r != nil {
			var zero Res
			finish(zero, fmt.Errorf("%w: %v", cqrs.ErrHandlerPanicked, r))
			panic(r)
		}
	}()

	res, err := next(ctx)
	finish(res, err)

	return res, err
}

func (o *Observability[Req, Res]) logFinished(
	ctx context.Context,
	requestType string,
	requestID string,
	status string,
	categorizedCode string,
	res Res,
	err error,
	duration time.Duration,
) {
	args := []any{
		cqrs.LogAttrRequestType, requestType,
		cqrs.LogAttrRequestID, requestID,
		LogAttrStatus, status,
		cqrs.LogAttrCategorizedCode, categorizedCode,
		LogAttrDurationMS, ToMilliseconds(duration),
	}

	switch status {
	case StatusSuccess:
		cqrs.LogInfo(ctx, o.logger, o.contextualLogger, LogMsgRequestSucceeded, args...)
	case StatusFailure:
		args = append(args, LogAttrDescription, res.Description())
		cqrs.LogInfo(ctx, o.logger, o.contextualLogger, LogMsgRequestFailed, args...)
	case StatusCanceled:
		cqrs.LogWarn(ctx, o.logger, o.contextualLogger, LogMsgRequestCanceled, args...)
	default:
		args = append(args, cqrs.LogAttrError, err.Error())
		cqrs.LogError(ctx, o.logger, o.contextualLogger, LogMsgRequestErrored, args...)
	}
}
