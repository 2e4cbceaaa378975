package behavior_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/cqrs-pipeline-go/behavior"
	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
	"github.com/AntonStoeckl/cqrs-pipeline-go/outcome"
	"github.com/AntonStoeckl/cqrs-pipeline-go/testutil/observability/testdoubles"
)

var errSerializationFailure = errors.New("could not serialize access due to concurrent update")

var codeStaleReadModel = outcome.NewResultCode(7, "LB", "Read model is stale")

type retryOption = behavior.RetryOption[lendBook, outcome.Result]

func newRetry(t *testing.T, opts ...retryOption) *behavior.Retry[lendBook, outcome.Result] {
	t.Helper()

	opts = append([]retryOption{
		behavior.WithBaseDelay[lendBook, outcome.Result](time.Millisecond),
		behavior.WithJitterFactor[lendBook, outcome.Result](0),
	}, opts...)

	r, err := behavior.NewRetry[lendBook, outcome.Result](opts...)
	require.NoError(t, err)

	return r
}

// flakyNext fails with the given outcome or error for the first failures calls.
func flakyNext(failures int, failure func() (outcome.Result, error)) (cqrs.Next[outcome.Result], *int) {
	calls := 0

	return func(_ context.Context) (outcome.Result, error) {
		calls++
		if calls <= failures {
			return failure()
		}

		return outcome.Success(), nil
	}, &calls
}

func Test_Retry_SuccessOnFirstAttempt(t *testing.T) {
	// arrange
	r := newRetry(t, behavior.WithRetryableErrors[lendBook, outcome.Result](errSerializationFailure))
	next, calls := flakyNext(0, nil)

	// act
	res, err := r.Handle(context.Background(), newLendBook(), next)

	// assert
	require.NoError(t, err)
	assert.True(t, res.IsSuccess())
	assert.Equal(t, 1, *calls)
}

func Test_Retry_RetriesRetryableError(t *testing.T) {
	// arrange
	metrics := testdoubles.NewMetricsCollectorSpy()
	r := newRetry(t,
		behavior.WithRetryableErrors[lendBook, outcome.Result](errSerializationFailure),
		behavior.WithRetryMetrics[lendBook, outcome.Result](metrics),
	)
	next, calls := flakyNext(2, func() (outcome.Result, error) {
		return outcome.Result{}, errSerializationFailure
	})

	// act
	res, err := r.Handle(context.Background(), newLendBook(), next)

	// assert
	require.NoError(t, err)
	assert.True(t, res.IsSuccess())
	assert.Equal(t, 3, *calls)
	assert.Equal(t, 2, metrics.CountRecordsForMetric(testdoubles.KindCounter, behavior.RequestRetriesMetric))
	assert.True(t, metrics.HasCounterRecordForMetric(behavior.RequestRetriesMetric).
		WithLabel(behavior.LogAttrAttempt, "2").
		WithLabel(behavior.LogAttrReason, "error").
		Assert())
	assert.Equal(t, 2, metrics.CountRecordsForMetric(testdoubles.KindDuration, behavior.RequestRetryDelayMetric))
}

func Test_Retry_RetriesRetryableCode(t *testing.T) {
	// arrange
	r := newRetry(t, behavior.WithRetryableCodes[lendBook, outcome.Result](codeStaleReadModel))
	next, calls := flakyNext(1, func() (outcome.Result, error) {
		return outcome.MustFailure(codeStaleReadModel), nil
	})

	// act
	res, err := r.Handle(context.Background(), newLendBook(), next)

	// assert
	require.NoError(t, err)
	assert.True(t, res.IsSuccess())
	assert.Equal(t, 2, *calls)
}

func Test_Retry_DoesNotRetryOtherFailures(t *testing.T) {
	tests := []struct {
		name    string
		failure func() (outcome.Result, error)
	}{
		{
			name:    "non-retryable error",
			failure: func() (outcome.Result, error) { return outcome.Result{}, errors.New("syntax error") },
		},
		{
			name:    "non-retryable code",
			failure: func() (outcome.Result, error) { return outcome.MustFailure(codeBookAlreadyLent), nil },
		},
		{
			name:    "cancellation",
			failure: func() (outcome.Result, error) { return outcome.MustFailure(cqrs.CodeCanceled), nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			r := newRetry(t,
				behavior.WithRetryableErrors[lendBook, outcome.Result](errSerializationFailure),
				behavior.WithRetryableCodes[lendBook, outcome.Result](codeStaleReadModel),
			)
			next, calls := flakyNext(10, tt.failure)

			// act
			_, _ = r.Handle(context.Background(), newLendBook(), next)

			// assert
			assert.Equal(t, 1, *calls)
		})
	}
}

func Test_Retry_GivesUpAfterMaxAttempts(t *testing.T) {
	// arrange
	metrics := testdoubles.NewMetricsCollectorSpy()
	r := newRetry(t,
		behavior.WithRetryableCodes[lendBook, outcome.Result](codeStaleReadModel),
		behavior.WithMaxAttempts[lendBook, outcome.Result](3),
		behavior.WithRetryMetrics[lendBook, outcome.Result](metrics),
	)
	next, calls := flakyNext(10, func() (outcome.Result, error) {
		return outcome.MustFailure(codeStaleReadModel), nil
	})

	// act
	res, err := r.Handle(context.Background(), newLendBook(), next)

	// assert
	require.NoError(t, err)
	assert.True(t, res.Is(codeStaleReadModel))
	assert.Equal(t, 3, *calls)
	assert.True(t, metrics.HasCounterRecordForMetric(behavior.RequestMaxRetriesReachedMetric).
		WithRequestType("LendBook").
		WithLabel(behavior.LogAttrReason, "LB7").
		Assert())
}

func Test_Retry_StopsWhenContextEndsDuringBackoff(t *testing.T) {
	// setup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// arrange
	r, err := behavior.NewRetry[lendBook, outcome.Result](
		behavior.WithRetryableErrors[lendBook, outcome.Result](errSerializationFailure),
		behavior.WithBaseDelay[lendBook, outcome.Result](time.Hour),
	)
	require.NoError(t, err)

	request := newLendBook()
	next, calls := flakyNext(10, func() (outcome.Result, error) {
		cancel()
		return outcome.Result{}, errSerializationFailure
	})

	// act
	res, err := r.Handle(ctx, request, next)

	// assert
	require.NoError(t, err)
	assert.True(t, res.Is(cqrs.CodeCanceled))
	assert.Equal(t, 1, *calls)
	correlationID, _ := res.CorrelationID()
	assert.Equal(t, request.ID(), correlationID)
}

func Test_Retry_InsidePipelineReinvokesTheRestOfTheChain(t *testing.T) {
	// arrange
	r := newRetry(t, behavior.WithRetryableErrors[lendBook, outcome.Result](errSerializationFailure))
	innerCalls := 0
	inner := cqrs.BehaviorFunc[lendBook, outcome.Result](
		func(ctx context.Context, _ lendBook, next cqrs.Next[outcome.Result]) (outcome.Result, error) {
			innerCalls++
			return next(ctx)
		},
	)
	handlerCalls := 0
	p := mustPipeline(t, func(_ context.Context, _ lendBook) (outcome.Result, error) {
		handlerCalls++
		if handlerCalls == 1 {
			return outcome.Result{}, errSerializationFailure
		}

		return outcome.Success(), nil
	}, r, inner)

	// act
	res := p.Send(context.Background(), newLendBook())

	// assert
	assert.True(t, res.IsSuccess())
	assert.Equal(t, 2, innerCalls)
	assert.Equal(t, 2, handlerCalls)
}

func Test_Retry_Backoff_DoublesUntilMaxDelay(t *testing.T) {
	// arrange
	r := newRetry(t, behavior.WithMaxDelay[lendBook, outcome.Result](5*time.Millisecond))

	// act & assert
	assert.Equal(t, time.Millisecond, r.BackoffFor(1))
	assert.Equal(t, 2*time.Millisecond, r.BackoffFor(2))
	assert.Equal(t, 4*time.Millisecond, r.BackoffFor(3))
	assert.Equal(t, 5*time.Millisecond, r.BackoffFor(4))
}

func Test_Retry_Backoff_StaysCappedForLargeAttemptNumbers(t *testing.T) {
	// arrange
	r := newRetry(t, behavior.WithJitterFactor[lendBook, outcome.Result](1.0))

	for _, attempt := range []int{40, 63, 64, 100, 1000} {
		// act
		delay := r.BackoffFor(attempt)

		// assert
		assert.Positive(t, delay, "attempt %d", attempt)
		assert.LessOrEqual(t, delay, 20*time.Second, "attempt %d", attempt)
	}
}

func Test_NewRetry_InvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		option retryOption
		err    error
	}{
		{"zero attempts", behavior.WithMaxAttempts[lendBook, outcome.Result](0), behavior.ErrInvalidMaxAttempts},
		{"negative delay", behavior.WithBaseDelay[lendBook, outcome.Result](-time.Millisecond), behavior.ErrNegativeBaseDelay},
		{"zero max delay", behavior.WithMaxDelay[lendBook, outcome.Result](0), behavior.ErrInvalidMaxDelay},
		{"jitter above one", behavior.WithJitterFactor[lendBook, outcome.Result](1.5), behavior.ErrInvalidJitterFactor},
		{"negative jitter", behavior.WithJitterFactor[lendBook, outcome.Result](-0.1), behavior.ErrInvalidJitterFactor},
		{"nil metrics", behavior.WithRetryMetrics[lendBook, outcome.Result](nil), behavior.ErrNilMetricsCollector},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			r, err := behavior.NewRetry[lendBook, outcome.Result](tt.option)

			// assert
			assert.ErrorIs(t, err, tt.err)
			assert.Nil(t, r)
		})
	}
}
