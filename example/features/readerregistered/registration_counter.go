package readerregistered

import (
	"context"
	"sync/atomic"

	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
)

// ReadersRegisteredMetric counts registered readers.
const ReadersRegisteredMetric = "library_readers_registered_total"

// RegistrationCounter counts registered readers and reports them as a metric when a
// collector is configured.
type RegistrationCounter struct {
	count            atomic.Int64
	metricsCollector cqrs.MetricsCollector
}

// NewRegistrationCounter creates a RegistrationCounter. The collector may be nil.
func NewRegistrationCounter(metricsCollector cqrs.MetricsCollector) *RegistrationCounter {
	return &RegistrationCounter{metricsCollector: metricsCollector}
}

// Handle implements cqrs.NotificationHandler.
func (c *RegistrationCounter) Handle(ctx context.Context, notification Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.count.Add(1)

	if c.metricsCollector == nil {
		return nil
	}

	labels := map[string]string{cqrs.LogAttrNotificationType: notification.NotificationType()}

	if contextual, ok := c.metricsCollector.(cqrs.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, ReadersRegisteredMetric, labels)
		return nil
	}

	c.metricsCollector.IncrementCounter(ReadersRegisteredMetric, labels)

	return nil
}

// Count returns the number of handled notifications.
func (c *RegistrationCounter) Count() int64 {
	return c.count.Load()
}

var _ cqrs.NotificationHandler[Notification] = (*RegistrationCounter)(nil)
