package behavior_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/cqrs-pipeline-go/behavior"
	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
	"github.com/AntonStoeckl/cqrs-pipeline-go/outcome"
	"github.com/AntonStoeckl/cqrs-pipeline-go/testutil/observability/testdoubles"
)

type observabilitySpies struct {
	metrics *testdoubles.MetricsCollectorSpy
	tracing *testdoubles.TracingCollectorSpy
	logger  *testdoubles.ContextualLoggerSpy
}

func newObservability(t *testing.T) (*behavior.Observability[lendBook, outcome.Result], observabilitySpies) {
	t.Helper()

	spies := observabilitySpies{
		metrics: testdoubles.NewMetricsCollectorSpy(),
		tracing: testdoubles.NewTracingCollectorSpy(),
		logger:  testdoubles.NewContextualLoggerSpy(),
	}

	o, err := behavior.NewObservability[lendBook, outcome.Result](
		behavior.WithMetrics[lendBook, outcome.Result](spies.metrics),
		behavior.WithTracing[lendBook, outcome.Result](spies.tracing),
		behavior.WithContextualLogger[lendBook, outcome.Result](spies.logger),
	)
	require.NoError(t, err)

	return o, spies
}

func Test_Observability_Success(t *testing.T) {
	// arrange
	o, spies := newObservability(t)
	request := newLendBook()

	// act
	res, err := o.Handle(context.Background(), request, succeed)

	// assert
	require.NoError(t, err)
	assert.True(t, res.IsSuccess())

	assert.True(t, spies.metrics.HasDurationRecordForMetric(behavior.RequestDurationMetric).
		WithRequestType("LendBook").
		WithStatus(behavior.StatusSuccess).
		WithLabel(cqrs.LogAttrCategorizedCode, "DF0").
		Contextual().
		Assert())
	assert.True(t, spies.metrics.HasCounterRecordForMetric(behavior.RequestCallsMetric).
		WithStatus(behavior.StatusSuccess).
		Assert())
	assert.Zero(t, spies.metrics.CountRecordsForMetric(testdoubles.KindCounter, behavior.RequestFailuresMetric))

	assert.True(t, spies.tracing.HasSpanRecordForName(behavior.SpanNameRequestHandle).
		WithStartAttribute(cqrs.LogAttrRequestType, "LendBook").
		WithStartAttribute(cqrs.LogAttrRequestID, request.ID().String()).
		Finished().
		WithStatus(behavior.StatusSuccess).
		HasEndAttribute(behavior.LogAttrDurationMS).
		Assert())

	assert.True(t, spies.logger.HasLog(testdoubles.LevelDebug, behavior.LogMsgRequestStarted))
	assert.True(t, spies.logger.HasLogForMessage(testdoubles.LevelInfo, behavior.LogMsgRequestSucceeded).
		WithArg(cqrs.LogAttrRequestID, request.ID().String()).
		Assert())
}

func Test_Observability_BusinessFailure(t *testing.T) {
	// arrange
	o, spies := newObservability(t)

	// act
	res, err := o.Handle(context.Background(), newLendBook(), func(_ context.Context) (outcome.Result, error) {
		return outcome.MustFailure(codeBookAlreadyLent), nil
	})

	// assert
	require.NoError(t, err)
	assert.True(t, res.Is(codeBookAlreadyLent))

	assert.True(t, spies.metrics.HasCounterRecordForMetric(behavior.RequestFailuresMetric).
		WithStatus(behavior.StatusFailure).
		WithLabel(cqrs.LogAttrCategorizedCode, "LB1").
		Assert())
	assert.True(t, spies.tracing.HasSpanRecordForName(behavior.SpanNameRequestHandle).
		WithStatus(behavior.StatusFailure).
		WithEndAttribute(cqrs.LogAttrCategorizedCode, "LB1").
		Assert())
	assert.True(t, spies.logger.HasLogForMessage(testdoubles.LevelInfo, behavior.LogMsgRequestFailed).
		WithArg(behavior.LogAttrDescription, "Book already lent").
		Assert())
}

func Test_Observability_UnexpectedError(t *testing.T) {
	// arrange
	o, spies := newObservability(t)
	fault := errors.New("connection refused")

	// act
	_, err := o.Handle(context.Background(), newLendBook(), func(_ context.Context) (outcome.Result, error) {
		return outcome.Result{}, fault
	})

	// assert
	assert.ErrorIs(t, err, fault, "errors are observed, not swallowed")
	assert.True(t, spies.metrics.HasCounterRecordForMetric(behavior.RequestFailuresMetric).
		WithStatus(behavior.StatusError).
		WithLabel(cqrs.LogAttrCategorizedCode, "DF1").
		Assert())
	assert.True(t, spies.tracing.HasSpanRecordForName(behavior.SpanNameRequestHandle).
		WithStatus(behavior.StatusError).
		WithEndAttribute(cqrs.LogAttrError, "connection refused").
		Assert())
	assert.True(t, spies.logger.HasLog(testdoubles.LevelError, behavior.LogMsgRequestErrored))
}

func Test_Observability_PanickingHandlerIsObservedAndRethrown(t *testing.T) {
	// arrange
	o, spies := newObservability(t)

	// act
	assert.PanicsWithValue(t, "boom", func() {
		_, _ = o.Handle(context.Background(), newLendBook(), func(_ context.Context) (outcome.Result, error) {
			panic("boom")
		})
	})

	// assert
	assert.True(t, spies.metrics.HasCounterRecordForMetric(behavior.RequestFailuresMetric).
		WithStatus(behavior.StatusError).
		WithLabel(cqrs.LogAttrCategorizedCode, "DF1").
		Assert())
	assert.True(t, spies.tracing.HasSpanRecordForName(behavior.SpanNameRequestHandle).
		Finished().
		WithStatus(behavior.StatusError).
		Assert())
	assert.True(t, spies.logger.HasLog(testdoubles.LevelError, behavior.LogMsgRequestErrored))
}

func Test_Observability_PanickingHandlerBecomesExceptionThroughPipeline(t *testing.T) {
	// setup
	o, spies := newObservability(t)
	p := mustPipeline(t, func(_ context.Context, _ lendBook) (outcome.Result, error) {
		panic("boom")
	}, o)

	// act
	var res outcome.Result
	assert.NotPanics(t, func() { res = p.Send(context.Background(), newLendBook()) })

	// assert
	assert.True(t, res.Is(outcome.CodeException))
	assert.True(t, spies.tracing.HasSpanRecordForName(behavior.SpanNameRequestHandle).
		Finished().
		WithStatus(behavior.StatusError).
		Assert())
}

func Test_Observability_Cancellation(t *testing.T) {
	tests := []struct {
		name string
		next func(context.Context) (outcome.Result, error)
		code string
	}{
		{
			name: "canceled outcome",
			next: func(_ context.Context) (outcome.Result, error) {
				return outcome.MustFailure(cqrs.CodeCanceled), nil
			},
			code: "PL1",
		},
		{
			name: "wrapped deadline error",
			next: func(_ context.Context) (outcome.Result, error) {
				return outcome.Result{}, fmt.Errorf("load: %w", context.DeadlineExceeded)
			},
			code: "PL2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			o, spies := newObservability(t)

			// act
			_, _ = o.Handle(context.Background(), newLendBook(), tt.next)

			// assert
			assert.True(t, spies.metrics.HasCounterRecordForMetric(behavior.RequestCanceledMetric).
				WithStatus(behavior.StatusCanceled).
				WithLabel(cqrs.LogAttrCategorizedCode, tt.code).
				Assert())
			assert.Zero(t, spies.metrics.CountRecordsForMetric(testdoubles.KindCounter, behavior.RequestFailuresMetric))
			assert.True(t, spies.logger.HasLog(testdoubles.LevelWarn, behavior.LogMsgRequestCanceled))
		})
	}
}

func Test_Observability_WithoutCollectorsPassesThrough(t *testing.T) {
	// arrange
	o, err := behavior.NewObservability[lendBook, outcome.Result]()
	require.NoError(t, err)
	expected := outcome.MustFailure(codeBookAlreadyLent)

	// act
	res, err := o.Handle(context.Background(), newLendBook(), func(_ context.Context) (outcome.Result, error) {
		return expected, nil
	})

	// assert
	require.NoError(t, err)
	assert.Equal(t, expected, res)
}

func Test_Observability_FallsBackToBasicMetricsAndLogger(t *testing.T) {
	// arrange
	logger := testdoubles.NewContextualLoggerSpy()
	metrics := &basicMetricsCollector{spy: testdoubles.NewMetricsCollectorSpy()}
	o, err := behavior.NewObservability[lendBook, outcome.Result](
		behavior.WithMetrics[lendBook, outcome.Result](metrics),
		behavior.WithLogger[lendBook, outcome.Result](logger),
	)
	require.NoError(t, err)

	// act
	_, _ = o.Handle(context.Background(), newLendBook(), succeed)

	// assert
	assert.True(t, metrics.spy.HasDurationRecordForMetric(behavior.RequestDurationMetric).Assert())
	assert.False(t, metrics.spy.HasDurationRecordForMetric(behavior.RequestDurationMetric).Contextual().Assert())
	assert.True(t, logger.HasLog(testdoubles.LevelInfo, behavior.LogMsgRequestSucceeded))
	assert.False(t, logger.HasLogForMessage(testdoubles.LevelInfo, behavior.LogMsgRequestSucceeded).ViaContextualLogger().Assert())
}

func Test_ClassifyStatus(t *testing.T) {
	assert.Equal(t, behavior.StatusSuccess, behavior.ClassifyStatus(outcome.Success(), nil))
	assert.Equal(t, behavior.StatusFailure, behavior.ClassifyStatus(outcome.MustFailure(outcome.CodeFailure), nil))
	assert.Equal(t, behavior.StatusCanceled, behavior.ClassifyStatus(outcome.MustFailure(cqrs.CodeDeadlineExceeded), nil))
	assert.Equal(t, behavior.StatusCanceled, behavior.ClassifyStatus(outcome.Result{}, context.Canceled))
	assert.Equal(t, behavior.StatusError, behavior.ClassifyStatus(outcome.Result{}, errors.New("boom")))
}

// basicMetricsCollector hides the context-aware methods of the spy.
type basicMetricsCollector struct {
	spy *testdoubles.MetricsCollectorSpy
}

func (c *basicMetricsCollector) RecordDuration(metric string, d time.Duration, labels map[string]string) {
	c.spy.RecordDuration(metric, d, labels)
}

func (c *basicMetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	c.spy.IncrementCounter(metric, labels)
}

func (c *basicMetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	c.spy.RecordValue(metric, value, labels)
}
