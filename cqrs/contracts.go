package cqrs

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/cqrs-pipeline-go/outcome"
)

// Request represents the contract for all request (command or query) types.
// RequestType names the request for logs, metrics, and audit records.
type Request interface {
	Identified
	RequestType() string
}

// Notification represents the contract for all notification types.
type Notification interface {
	Identified
	NotificationType() string
}

// Response is the constraint for the outcome type a request handler returns.
// Besides reading the outcome, generic code must be able to synthesize a failure of the same
// shape (AsFailure) and to stamp a correlation id onto a copy (Correlated) without knowing the
// concrete type. outcome.Result and every outcome.ResultOf[T] satisfy it.
type Response[Self any] interface {
	outcome.Outcome
	Correlated(id uuid.UUID) Self
	AsFailure(rc outcome.ResultCode, opts ...outcome.Option) (Self, error)
}

// FailureFor synthesizes a failure of Res's shape from its zero value.
func FailureFor[Res Response[Res]](rc outcome.ResultCode, opts ...outcome.Option) (Res, error) {
	var zero Res

	return zero.AsFailure(rc, opts...)
}

// mustFailureFor is FailureFor for the fixed, non-zero codes of this package.
func mustFailureFor[Res Response[Res]](rc outcome.ResultCode, opts ...outcome.Option) Res {
	res, err := FailureFor[Res](rc, opts...)
	if err != nil {
		panic(err)
	}

	return res
}

// Next invokes the remainder of a behavior chain, eventually the request handler.
type Next[Res any] func(ctx context.Context) (Res, error)

// RequestHandler defines the contract for components that process one request type.
// Expected failures are returned as a failure outcome with a nil error. An error is reserved
// for unexpected faults, which the Pipeline translates into an outcome.CodeException outcome.
type RequestHandler[Req Request, Res Response[Res]] interface {
	Handle(ctx context.Context, request Req) (Res, error)
}

// RequestHandlerFunc adapts a function to RequestHandler.
type RequestHandlerFunc[Req Request, Res Response[Res]] func(ctx context.Context, request Req) (Res, error)

// Handle calls f.
func (f RequestHandlerFunc[Req, Res]) Handle(ctx context.Context, request Req) (Res, error) {
	return f(ctx, request)
}

// Behavior defines the contract for cross-cutting interceptors around a request handler.
// A behavior either calls next and returns (or replaces) its outcome, or short-circuits by
// returning its own outcome without calling next. It must never mutate an outcome it received.
type Behavior[Req Request, Res Response[Res]] interface {
	Handle(ctx context.Context, request Req, next Next[Res]) (Res, error)
}

// BehaviorFunc adapts a function to Behavior.
type BehaviorFunc[Req Request, Res Response[Res]] func(ctx context.Context, request Req, next Next[Res]) (Res, error)

// Handle calls f.
func (f BehaviorFunc[Req, Res]) Handle(ctx context.Context, request Req, next Next[Res]) (Res, error) {
	return f(ctx, request, next)
}

// NotificationHandler defines the contract for components that react to a notification.
// Handlers of the same notification are independent of each other and should be idempotent,
// since no outcome is returned to coordinate partial failure.
type NotificationHandler[N Notification] interface {
	Handle(ctx context.Context, notification N) error
}

// NotificationHandlerFunc adapts a function to NotificationHandler.
type NotificationHandlerFunc[N Notification] func(ctx context.Context, notification N) error

// Handle calls f.
func (f NotificationHandlerFunc[N]) Handle(ctx context.Context, notification N) error {
	return f(ctx, notification)
}
