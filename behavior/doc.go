// Package behavior provides generic cross-cutting behaviors for cqrs.Pipeline.
//
// Every behavior implements cqrs.Behavior for any request and outcome type and is configured
// with functional options validated at construction:
//
//   - Validation: runs validators and short-circuits with a failure carrying the field errors
//   - Correlation: stamps the request id onto outcomes that carry no correlation id yet
//   - Observability: logging, metrics, and tracing around the rest of the chain
//   - Retry: re-runs the rest of the chain with exponential backoff on retryable errors or codes
//
// A typical registration order is Observability, Correlation, Retry, Validation, followed by
// transactional behaviors (see package postgresbehavior), so that every retry attempt gets a
// fresh transaction and every outcome is observed once.
package behavior
