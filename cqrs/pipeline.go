package cqrs

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/cqrs-pipeline-go/outcome"
)

// Pipeline runs an ordered chain of behaviors around one request handler.
// The first registered behavior is the outermost one, it sees the request first and the outcome last.
type Pipeline[Req Request, Res Response[Res]] struct {
	handler          RequestHandler[Req, Res]
	behaviors        []Behavior[Req, Res]
	requestType      string
	logger           Logger
	contextualLogger ContextualLogger
}

// PipelineOption defines a functional option for configuring Pipeline.
type PipelineOption[Req Request, Res Response[Res]] func(*Pipeline[Req, Res]) error

// NewPipeline creates a Pipeline around the handler.
// Returns ErrNilHandler when the handler is nil and ErrNilBehavior when any behavior is nil.
func NewPipeline[Req Request, Res Response[Res]](
	handler RequestHandler[Req, Res],
	opts ...PipelineOption[Req, Res],
) (*Pipeline[Req, Res], error) {
	if handler == nil {
		return nil, ErrNilHandler
	}

	pipeline := &Pipeline[Req, Res]{
		handler: handler,
	}

	for _, opt := range opts {
		if err := opt(pipeline); err != nil {
			return nil, err
		}
	}

	return pipeline, nil
}

// WithBehaviors appends behaviors in the given order.
func WithBehaviors[Req Request, Res Response[Res]](behaviors ...Behavior[Req, Res]) PipelineOption[Req, Res] {
	return func(p *Pipeline[Req, Res]) error {
		for _, b := range behaviors {
			if b == nil {
				return ErrNilBehavior
			}
		}

		p.behaviors = append(p.behaviors, behaviors...)

		return nil
	}
}

// WithLogger sets the basic logger for the Pipeline.
func WithLogger[Req Request, Res Response[Res]](logger Logger) PipelineOption[Req, Res] {
	return func(p *Pipeline[Req, Res]) error {
		p.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Pipeline.
func WithContextualLogger[Req Request, Res Response[Res]](logger ContextualLogger) PipelineOption[Req, Res] {
	return func(p *Pipeline[Req, Res]) error {
		p.contextualLogger = logger
		return nil
	}
}

// WithRequestType overrides the request type name used in logs.
func WithRequestType[Req Request, Res Response[Res]](requestType string) PipelineOption[Req, Res] {
	return func(p *Pipeline[Req, Res]) error {
		p.requestType = requestType
		return nil
	}
}

// Handle runs the behavior chain and the handler.
// Errors and panics propagate to the caller, which makes a Pipeline usable as a RequestHandler.
// A context that ended before a link runs yields a cancellation outcome instead of calling it.
func (p *Pipeline[Req, Res]) Handle(ctx context.Context, request Req) (Res, error) {
	return p.invoke(ctx, request, 0)
}

// Send is the boundary call: it always returns an outcome and never an error or a panic.
//
//   - a request without identity yields CodeMissingIdentity
//   - an ended context yields CodeCanceled or CodeDeadlineExceeded
//   - an error returned through the chain is logged and yields outcome.CodeException,
//     or the cancellation code when it wraps a context error
//   - a panic is recovered, logged, and yields outcome.CodeException
//
// Outcomes produced by behaviors or the handler are returned unchanged.
// Outcomes synthesized here carry the request id as correlation id.
func (p *Pipeline[Req, Res]) Send(ctx context.Context, request Req) (res Res) {
	requestID := identityOf(request)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrHandlerPanicked, r)
			LogError(ctx, p.logger, p.contextualLogger, LogMsgRequestPanicked, p.logArgs(request, requestID, err)...)
			res = synthesize[Res](outcome.CodeException, requestID)
		}
	}()

	if requestID == uuid.Nil {
		LogWarn(ctx, p.logger, p.contextualLogger, LogMsgMissingIdentity, LogAttrRequestType, p.typeOf(request))
		return mustFailureFor[Res](CodeMissingIdentity)
	}

	res, err := p.Handle(ctx, request)
	if err == nil {
		return res
	}

	rc := CodeForError(err)
	if rc == outcome.CodeException {
		LogError(ctx, p.logger, p.contextualLogger, LogMsgRequestFault, p.logArgs(request, requestID, err)...)
	} else {
		LogInfo(ctx, p.logger, p.contextualLogger, LogMsgRequestCanceled, p.logArgs(request, requestID, err)...)
	}

	return synthesize[Res](rc, requestID)
}

func (p *Pipeline[Req, Res]) invoke(ctx context.Context, request Req, index int) (Res, error) {
	if err := ctx.Err(); err != nil {
		return synthesize[Res](CodeForError(err), identityOf(request)), nil
	}

	if index == len(p.behaviors) {
		return p.handler.Handle(ctx, request)
	}

	return p.behaviors[index].Handle(ctx, request, func(nextCtx context.Context) (Res, error) {
		return p.invoke(nextCtx, request, index+1)
	})
}

func (p *Pipeline[Req, Res]) typeOf(request Req) (requestType string) {
	if p.requestType != "" {
		return p.requestType
	}

	defer func() {
		if recover() != nil {
			requestType = unknownType
		}
	}()

	return request.RequestType()
}

func (p *Pipeline[Req, Res]) logArgs(request Req, requestID uuid.UUID, err error) []any {
	return []any{
		LogAttrRequestType, p.typeOf(request),
		LogAttrRequestID, requestID.String(),
		LogAttrError, err.Error(),
	}
}

const unknownType = "unknown"

// synthesize builds a failure for one of the fixed non-success codes.
func synthesize[Res Response[Res]](rc outcome.ResultCode, requestID uuid.UUID) Res {
	return mustFailureFor[Res](rc, outcome.WithCorrelationID(requestID))
}

// identityOf reads the message id, treating a panicking accessor (e.g., a nil pointer message) as no identity.
func identityOf(message Identified) (id uuid.UUID) {
	defer func() {
		if recover() != nil {
			id = uuid.Nil
		}
	}()

	return message.ID()
}
