// Package cqrs defines the identity, handler, and behavior contracts for request and notification
// processing, and provides a reference composition that honors them.
//
// Every request and notification carries an identity that is generated once at construction
// (see Identity). Request handlers and behaviors return an outcome (see package outcome),
// behaviors are chained in registration order and may short-circuit by returning their own
// outcome instead of calling next.
//
// Key types:
//   - Identity: embeddable, compute-once message identifier
//   - RequestHandler, Behavior, NotificationHandler: the single-method contracts
//   - Pipeline: runs behaviors in order around one request handler
//   - Publisher: fans one notification out to independent handlers
//
// Common usage pattern:
//
//	type RegisterReader struct {
//		cqrs.Identity
//		Name string
//	}
//
//	func (RegisterReader) RequestType() string { return "RegisterReader" }
//
//	pipeline, err := cqrs.NewPipeline[RegisterReader, outcome.ResultOf[uuid.UUID]](
//		handler,
//		cqrs.WithBehaviors[RegisterReader, outcome.ResultOf[uuid.UUID]](logging, validation),
//	)
//
//	res := pipeline.Send(ctx, RegisterReader{Identity: cqrs.NewIdentity(), Name: "Ada"})
//	if res.IsFailure() {
//		// res.CategorizedCode(), res.Errors()
//	}
package cqrs
