package cqrs

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Publisher fans one notification out to all registered handlers.
// Every handler runs, a failing or panicking handler never prevents another one from running.
type Publisher[N Notification] struct {
	handlers         []NotificationHandler[N]
	maxConcurrency   int
	logger           Logger
	contextualLogger ContextualLogger
}

// PublisherOption defines a functional option for configuring Publisher.
type PublisherOption[N Notification] func(*Publisher[N]) error

// NewPublisher creates a Publisher for the handlers, kept in registration order.
// Returns ErrNilHandler when any handler is nil.
func NewPublisher[N Notification](handlers []NotificationHandler[N], opts ...PublisherOption[N]) (*Publisher[N], error) {
	for _, h := range handlers {
		if h == nil {
			return nil, ErrNilHandler
		}
	}

	publisher := &Publisher[N]{
		handlers: slices.Clone(handlers),
	}

	for _, opt := range opts {
		if err := opt(publisher); err != nil {
			return nil, err
		}
	}

	return publisher, nil
}

// WithMaxConcurrency limits how many handlers run at the same time.
// Zero means unlimited, 1 runs the handlers sequentially in registration order.
func WithMaxConcurrency[N Notification](limit int) PublisherOption[N] {
	return func(p *Publisher[N]) error {
		if limit < 0 {
			return ErrInvalidMaxConcurrency
		}

		p.maxConcurrency = limit

		return nil
	}
}

// WithPublisherLogger sets the basic logger for the Publisher.
func WithPublisherLogger[N Notification](logger Logger) PublisherOption[N] {
	return func(p *Publisher[N]) error {
		p.logger = logger
		return nil
	}
}

// WithPublisherContextualLogger sets the contextual logger for the Publisher.
func WithPublisherContextualLogger[N Notification](logger ContextualLogger) PublisherOption[N] {
	return func(p *Publisher[N]) error {
		p.contextualLogger = logger
		return nil
	}
}

// Publish delivers the notification to every handler and waits for all of them.
// The returned error joins one *HandlerError per failed handler, ordered by registration index,
// and is nil when every handler succeeded.
// A context that already ended returns its error without invoking any handler.
func (p *Publisher[N]) Publish(ctx context.Context, notification N) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	notificationID := identityOf(notification)
	if notificationID == uuid.Nil {
		LogWarn(ctx, p.logger, p.contextualLogger, LogMsgMissingIdentity, LogAttrNotificationType, notificationTypeOf(notification))
		return ErrMissingIdentity
	}

	var (
		mu     sync.Mutex
		failed []*HandlerError
		group  errgroup.Group
	)

	if p.maxConcurrency > 0 {
		group.SetLimit(p.maxConcurrency)
	}

	for index, handler := range p.handlers {
		group.Go(func() error {
			if handlerErr := p.deliver(ctx, index, handler, notification, notificationID); handlerErr != nil {
				mu.Lock()
				failed = append(failed, handlerErr)
				mu.Unlock()
			}

			return nil
		})
	}

	_ = group.Wait() // deliver never returns an error to the group

	if len(failed) == 0 {
		return nil
	}

	slices.SortFunc(failed, func(a, b *HandlerError) int {
		return a.Index - b.Index
	})

	errs := make([]error, 0, len(failed))
	for _, handlerErr := range failed {
		errs = append(errs, handlerErr)
	}

	return errors.Join(errs...)
}

func (p *Publisher[N]) deliver(
	ctx context.Context,
	index int,
	handler NotificationHandler[N],
	notification N,
	notificationID uuid.UUID,
) (handlerErr *HandlerError) {
	defer func() {
		if r := recover(); r != nil {
			handlerErr = p.handlerError(ctx, index, notification, notificationID, fmt.Errorf("%w: %v", ErrHandlerPanicked, r))
		}
	}()

	if err := handler.Handle(ctx, notification); err != nil {
		return p.handlerError(ctx, index, notification, notificationID, err)
	}

	return nil
}

func (p *Publisher[N]) handlerError(
	ctx context.Context,
	index int,
	notification N,
	notificationID uuid.UUID,
	err error,
) *HandlerError {
	handlerErr := &HandlerError{
		Index:            index,
		NotificationType: notificationTypeOf(notification),
		NotificationID:   notificationID,
		Err:              err,
	}

	LogError(
		ctx, p.logger, p.contextualLogger, LogMsgNotificationHandlerFailed,
		LogAttrNotificationType, handlerErr.NotificationType,
		LogAttrNotificationID, notificationID.String(),
		LogAttrHandlerIndex, index,
		LogAttrError, err.Error(),
	)

	return handlerErr
}

// notificationTypeOf reads the notification type, treating a panicking accessor as an unknown type.
func notificationTypeOf(notification Notification) (notificationType string) {
	defer func() {
		if recover() != nil {
			notificationType = unknownType
		}
	}()

	return notification.NotificationType()
}
