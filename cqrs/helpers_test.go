package cqrs_test

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
	"github.com/AntonStoeckl/cqrs-pipeline-go/outcome"
)

type registerReader struct {
	cqrs.Identity
	Name string
}

func (registerReader) RequestType() string { return "RegisterReader" }

type readerRegistered struct {
	cqrs.Identity
	Name string
}

func (readerRegistered) NotificationType() string { return "ReaderRegistered" }

// callRecorder records the order in which chain links ran.
type callRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *callRecorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, call)
}

func (r *callRecorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.calls...)
}

func recordingBehavior(name string, recorder *callRecorder) cqrs.Behavior[registerReader, outcome.Result] {
	return cqrs.BehaviorFunc[registerReader, outcome.Result](
		func(ctx context.Context, _ registerReader, next cqrs.Next[outcome.Result]) (outcome.Result, error) {
			recorder.add(name + ":before")
			res, err := next(ctx)
			recorder.add(name + ":after")

			return res, err
		},
	)
}

func succeedingHandler(recorder *callRecorder) cqrs.RequestHandler[registerReader, outcome.Result] {
	return cqrs.RequestHandlerFunc[registerReader, outcome.Result](
		func(_ context.Context, _ registerReader) (outcome.Result, error) {
			recorder.add("handler")

			return outcome.Success(outcome.WithDescription("Reader registered")), nil
		},
	)
}
