package cqrs_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
	"github.com/AntonStoeckl/cqrs-pipeline-go/outcome"
	"github.com/AntonStoeckl/cqrs-pipeline-go/testutil/observability/testdoubles"
)

type (
	pipeline = cqrs.Pipeline[registerReader, outcome.Result]
	behavior = cqrs.Behavior[registerReader, outcome.Result]
)

func newPipeline(
	t *testing.T,
	handler cqrs.RequestHandler[registerReader, outcome.Result],
	opts ...cqrs.PipelineOption[registerReader, outcome.Result],
) *pipeline {
	t.Helper()

	p, err := cqrs.NewPipeline[registerReader, outcome.Result](handler, opts...)
	require.NoError(t, err)

	return p
}

func withBehaviors(behaviors ...behavior) cqrs.PipelineOption[registerReader, outcome.Result] {
	return cqrs.WithBehaviors[registerReader, outcome.Result](behaviors...)
}

func withContextualLogger(logger cqrs.ContextualLogger) cqrs.PipelineOption[registerReader, outcome.Result] {
	return cqrs.WithContextualLogger[registerReader, outcome.Result](logger)
}

func Test_NewPipeline_RejectsNilHandler(t *testing.T) {
	// act
	p, err := cqrs.NewPipeline[registerReader, outcome.Result](nil)

	// assert
	assert.ErrorIs(t, err, cqrs.ErrNilHandler)
	assert.Nil(t, p)
}

func Test_NewPipeline_RejectsNilBehavior(t *testing.T) {
	// arrange
	recorder := &callRecorder{}

	// act
	p, err := cqrs.NewPipeline[registerReader, outcome.Result](
		succeedingHandler(recorder),
		withBehaviors(recordingBehavior("first", recorder), nil),
	)

	// assert
	assert.ErrorIs(t, err, cqrs.ErrNilBehavior)
	assert.Nil(t, p)
}

func Test_Pipeline_Send_RunsBehaviorsInRegistrationOrder(t *testing.T) {
	// arrange
	recorder := &callRecorder{}
	p := newPipeline(t,
		succeedingHandler(recorder),
		withBehaviors(recordingBehavior("first", recorder), recordingBehavior("second", recorder)),
		withBehaviors(recordingBehavior("third", recorder)),
	)

	// act
	res := p.Send(context.Background(), registerReader{Identity: cqrs.NewIdentity(), Name: "Ada"})

	// assert
	assert.True(t, res.IsSuccess())
	assert.Equal(t,
		[]string{
			"first:before", "second:before", "third:before",
			"handler",
			"third:after", "second:after", "first:after",
		},
		recorder.get(),
	)
}

func Test_Pipeline_Send_PassesHandlerOutcomeThroughUnchanged(t *testing.T) {
	// arrange
	recorder := &callRecorder{}
	p := newPipeline(t, succeedingHandler(recorder), withBehaviors(recordingBehavior("outer", recorder)))

	// act
	res := p.Send(context.Background(), registerReader{Identity: cqrs.NewIdentity()})

	// assert
	assert.Equal(t, outcome.Success(outcome.WithDescription("Reader registered")), res)
	_, hasCorrelation := res.CorrelationID()
	assert.False(t, hasCorrelation, "the pipeline must not stamp outcomes it did not synthesize")
}

func Test_Pipeline_Send_ShortCircuitingBehaviorSkipsTheRest(t *testing.T) {
	// arrange
	recorder := &callRecorder{}
	rejected := outcome.MustFailure(outcome.CodeFailure, outcome.WithFieldError("name", "is required"))

	shortCircuit := cqrs.BehaviorFunc[registerReader, outcome.Result](
		func(_ context.Context, _ registerReader, _ cqrs.Next[outcome.Result]) (outcome.Result, error) {
			recorder.add("validation")
			return rejected, nil
		},
	)

	p := newPipeline(t,
		succeedingHandler(recorder),
		withBehaviors(recordingBehavior("outer", recorder), shortCircuit, recordingBehavior("inner", recorder)),
	)

	// act
	res := p.Send(context.Background(), registerReader{Identity: cqrs.NewIdentity()})

	// assert
	assert.Equal(t, rejected, res)
	assert.Equal(t, []string{"outer:before", "validation", "outer:after"}, recorder.get())
}

func Test_Pipeline_Send_BehaviorMayReplaceTheOutcome(t *testing.T) {
	// arrange
	recorder := &callRecorder{}
	replacing := cqrs.BehaviorFunc[registerReader, outcome.Result](
		func(ctx context.Context, _ registerReader, next cqrs.Next[outcome.Result]) (outcome.Result, error) {
			if _, err := next(ctx); err != nil {
				return outcome.Result{}, err
			}

			return outcome.Success(outcome.WithDescription("Replaced")), nil
		},
	)

	p := newPipeline(t, succeedingHandler(recorder), withBehaviors(replacing))

	// act
	res := p.Send(context.Background(), registerReader{Identity: cqrs.NewIdentity()})

	// assert
	assert.Equal(t, "Replaced", res.Description())
	assert.Equal(t, []string{"handler"}, recorder.get())
}

func Test_Pipeline_Send_TranslatesHandlerErrorIntoException(t *testing.T) {
	// arrange
	logger := testdoubles.NewContextualLoggerSpy()
	handler := cqrs.RequestHandlerFunc[registerReader, outcome.Result](
		func(_ context.Context, _ registerReader) (outcome.Result, error) {
			return outcome.Result{}, errors.New("connection reset by peer")
		},
	)
	p := newPipeline(t, handler, withContextualLogger(logger))
	request := registerReader{Identity: cqrs.NewIdentity()}

	// act
	res := p.Send(context.Background(), request)

	// assert
	assert.True(t, res.IsFailure())
	assert.True(t, res.Is(outcome.CodeException))
	assert.Equal(t, "Exception", res.Description(), "the error text must not leak into the outcome")
	assert.Empty(t, res.Errors())

	correlationID, ok := res.CorrelationID()
	assert.True(t, ok)
	assert.Equal(t, request.ID(), correlationID)

	assert.True(t, logger.HasLogForMessage(testdoubles.LevelError, cqrs.LogMsgRequestFault).
		WithArg(cqrs.LogAttrRequestType, "RegisterReader").
		WithArg(cqrs.LogAttrRequestID, request.ID().String()).
		WithArg(cqrs.LogAttrError, "connection reset by peer").
		ViaContextualLogger().
		Assert())
}

func Test_Pipeline_Send_RecoversPanicsIntoException(t *testing.T) {
	// arrange
	logger := testdoubles.NewContextualLoggerSpy()
	panicking := cqrs.BehaviorFunc[registerReader, outcome.Result](
		func(_ context.Context, _ registerReader, _ cqrs.Next[outcome.Result]) (outcome.Result, error) {
			panic("boom")
		},
	)
	p := newPipeline(t, succeedingHandler(&callRecorder{}), withBehaviors(panicking), withContextualLogger(logger))
	request := registerReader{Identity: cqrs.NewIdentity()}

	// act
	var res outcome.Result
	assert.NotPanics(t, func() { res = p.Send(context.Background(), request) })

	// assert
	assert.True(t, res.Is(outcome.CodeException))
	correlationID, _ := res.CorrelationID()
	assert.Equal(t, request.ID(), correlationID)
	assert.True(t, logger.HasLog(testdoubles.LevelError, cqrs.LogMsgRequestPanicked))
}

func Test_Pipeline_Send_RejectsRequestWithoutIdentity(t *testing.T) {
	// arrange
	recorder := &callRecorder{}
	logger := testdoubles.NewContextualLoggerSpy()
	p := newPipeline(t, succeedingHandler(recorder), withContextualLogger(logger))

	// act
	res := p.Send(context.Background(), registerReader{Name: "Ada"})

	// assert
	assert.True(t, res.Is(cqrs.CodeMissingIdentity))
	assert.Equal(t, "PL3", res.CategorizedCode())
	assert.Empty(t, recorder.get())
	assert.True(t, logger.HasLog(testdoubles.LevelWarn, cqrs.LogMsgMissingIdentity))
}

func Test_Pipeline_Send_CanceledContextYieldsCanceledOutcome(t *testing.T) {
	// setup
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// arrange
	recorder := &callRecorder{}
	p := newPipeline(t, succeedingHandler(recorder), withBehaviors(recordingBehavior("outer", recorder)))
	request := registerReader{Identity: cqrs.NewIdentity()}

	// act
	res := p.Send(ctx, request)

	// assert
	assert.True(t, res.Is(cqrs.CodeCanceled))
	assert.True(t, cqrs.IsCancellation(res))
	assert.Empty(t, recorder.get())

	correlationID, _ := res.CorrelationID()
	assert.Equal(t, request.ID(), correlationID)
}

func Test_Pipeline_Send_ExpiredDeadlineYieldsDeadlineExceededOutcome(t *testing.T) {
	// setup
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	// arrange
	p := newPipeline(t, succeedingHandler(&callRecorder{}))

	// act
	res := p.Send(ctx, registerReader{Identity: cqrs.NewIdentity()})

	// assert
	assert.True(t, res.Is(cqrs.CodeDeadlineExceeded))
	assert.True(t, cqrs.IsCancellation(res))
}

func Test_Pipeline_Send_CancellationBetweenLinksStopsTheChain(t *testing.T) {
	// setup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// arrange
	recorder := &callRecorder{}
	var seenByOuter outcome.Result

	canceling := cqrs.BehaviorFunc[registerReader, outcome.Result](
		func(ctx context.Context, _ registerReader, next cqrs.Next[outcome.Result]) (outcome.Result, error) {
			cancel()
			res, err := next(ctx)
			seenByOuter = res

			return res, err
		},
	)

	p := newPipeline(t, succeedingHandler(recorder), withBehaviors(canceling, recordingBehavior("inner", recorder)))

	// act
	res := p.Send(ctx, registerReader{Identity: cqrs.NewIdentity()})

	// assert
	assert.True(t, res.Is(cqrs.CodeCanceled))
	assert.True(t, seenByOuter.Is(cqrs.CodeCanceled), "the enclosing behavior sees the canceled outcome")
	assert.Empty(t, recorder.get())
}

func Test_Pipeline_Send_WrappedContextErrorYieldsCancellationOutcome(t *testing.T) {
	// arrange
	handler := cqrs.RequestHandlerFunc[registerReader, outcome.Result](
		func(_ context.Context, _ registerReader) (outcome.Result, error) {
			return outcome.Result{}, fmt.Errorf("query readers: %w", context.DeadlineExceeded)
		},
	)
	p := newPipeline(t, handler)

	// act
	res := p.Send(context.Background(), registerReader{Identity: cqrs.NewIdentity()})

	// assert
	assert.True(t, res.Is(cqrs.CodeDeadlineExceeded))
}

func Test_Pipeline_Send_FallsBackToBasicLogger(t *testing.T) {
	// arrange
	logger := testdoubles.NewContextualLoggerSpy()
	handler := cqrs.RequestHandlerFunc[registerReader, outcome.Result](
		func(_ context.Context, _ registerReader) (outcome.Result, error) {
			return outcome.Result{}, errors.New("disk full")
		},
	)
	p := newPipeline(t, handler,
		cqrs.WithLogger[registerReader, outcome.Result](logger),
		cqrs.WithRequestType[registerReader, outcome.Result]("reader.register"),
	)

	// act
	_ = p.Send(context.Background(), registerReader{Identity: cqrs.NewIdentity()})

	// assert
	record := logger.HasLogForMessage(testdoubles.LevelError, cqrs.LogMsgRequestFault).
		WithArg(cqrs.LogAttrRequestType, "reader.register")
	assert.True(t, record.Assert())
	assert.False(t, record.ViaContextualLogger().Assert())
}

func Test_Pipeline_Send_SynthesizesTypedFailures(t *testing.T) {
	// arrange
	handler := cqrs.RequestHandlerFunc[registerReader, outcome.ResultOf[uuid.UUID]](
		func(_ context.Context, _ registerReader) (outcome.ResultOf[uuid.UUID], error) {
			return outcome.ResultOf[uuid.UUID]{}, errors.New("unexpected")
		},
	)
	p, err := cqrs.NewPipeline[registerReader, outcome.ResultOf[uuid.UUID]](handler)
	require.NoError(t, err)

	// act
	res := p.Send(context.Background(), registerReader{Identity: cqrs.NewIdentity()})

	// assert
	assert.True(t, res.Is(outcome.CodeException))
	_, hasData := res.Data()
	assert.False(t, hasData)
}

func Test_Pipeline_Send_ReturnsTypedData(t *testing.T) {
	// arrange
	readerID := uuid.New()
	handler := cqrs.RequestHandlerFunc[registerReader, outcome.ResultOf[uuid.UUID]](
		func(_ context.Context, _ registerReader) (outcome.ResultOf[uuid.UUID], error) {
			return outcome.SuccessOf(readerID), nil
		},
	)
	p, err := cqrs.NewPipeline[registerReader, outcome.ResultOf[uuid.UUID]](handler)
	require.NoError(t, err)

	// act
	res := p.Send(context.Background(), registerReader{Identity: cqrs.NewIdentity()})

	// assert
	data, ok := res.Data()
	assert.True(t, ok)
	assert.Equal(t, readerID, data)
}

func Test_Pipeline_Handle_PropagatesErrors(t *testing.T) {
	// arrange
	fault := errors.New("unexpected")
	handler := cqrs.RequestHandlerFunc[registerReader, outcome.Result](
		func(_ context.Context, _ registerReader) (outcome.Result, error) {
			return outcome.Result{}, fault
		},
	)
	p := newPipeline(t, handler)

	// act
	_, err := p.Handle(context.Background(), registerReader{Identity: cqrs.NewIdentity()})

	// assert
	assert.ErrorIs(t, err, fault)
}

func Test_Pipeline_CanBeNestedAsHandler(t *testing.T) {
	// arrange
	recorder := &callRecorder{}
	inner := newPipeline(t, succeedingHandler(recorder), withBehaviors(recordingBehavior("inner", recorder)))
	outer := newPipeline(t, inner, withBehaviors(recordingBehavior("outer", recorder)))

	// act
	res := outer.Send(context.Background(), registerReader{Identity: cqrs.NewIdentity()})

	// assert
	assert.True(t, res.IsSuccess())
	assert.Equal(t, []string{"outer:before", "inner:before", "handler", "inner:after", "outer:after"}, recorder.get())
}

func Test_FailureFor_RejectsSuccessCode(t *testing.T) {
	// act
	_, err := cqrs.FailureFor[outcome.Result](outcome.CodeSuccess)

	// assert
	assert.ErrorIs(t, err, outcome.ErrSuccessCodeOnFailure)
}

func Test_CodeForError(t *testing.T) {
	assert.Equal(t, cqrs.CodeCanceled, cqrs.CodeForError(fmt.Errorf("wrapped: %w", context.Canceled)))
	assert.Equal(t, cqrs.CodeDeadlineExceeded, cqrs.CodeForError(context.DeadlineExceeded))
	assert.Equal(t, outcome.CodeException, cqrs.CodeForError(errors.New("disk full")))
}
