package readerregistered_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
	"github.com/AntonStoeckl/cqrs-pipeline-go/example/features/readerregistered"
	"github.com/AntonStoeckl/cqrs-pipeline-go/testutil/observability/testdoubles"
)

func Test_RegistrationCounter_CountsAndRecordsMetric(t *testing.T) {
	// setup
	metricsSpy := testdoubles.NewMetricsCollectorSpy()
	counter := readerregistered.NewRegistrationCounter(metricsSpy)

	// act
	err := counter.Handle(context.Background(), newNotification())

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), counter.Count())
	assert.True(t, metricsSpy.HasCounterRecordForMetric(readerregistered.ReadersRegisteredMetric).
		WithLabel(cqrs.LogAttrNotificationType, "ReaderRegistered").
		Contextual().
		Assert())
}

func Test_RegistrationCounter_WorksWithoutMetrics(t *testing.T) {
	// setup
	counter := readerregistered.NewRegistrationCounter(nil)

	// act
	err := counter.Handle(context.Background(), newNotification())

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), counter.Count())
}

func Test_RegistrationCounter_IsSafeForConcurrentUse(t *testing.T) {
	// setup
	counter := readerregistered.NewRegistrationCounter(testdoubles.NewMetricsCollectorSpy())

	// act
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = counter.Handle(context.Background(), newNotification())
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, int64(50), counter.Count())
}

func Test_RegistrationCounter_SkipsCanceledContext(t *testing.T) {
	// setup
	counter := readerregistered.NewRegistrationCounter(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// act
	err := counter.Handle(ctx, newNotification())

	// assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, counter.Count())
}

func newNotification() readerregistered.Notification {
	return readerregistered.BuildNotification(uuid.New(), "John Doe", "john@example.org", time.Now(), uuid.New())
}
