// Package demo wires the reader registration example into a pipeline and a publisher.
//
// The request pipeline runs these behaviors, outermost first:
//
//	Observability -> Correlation -> Validation -> [Audit] -> [Retry] -> [Transaction] -> CommandHandler
//
// Audit, Retry, and Transaction are only present with a PostgreSQL database. After a
// registration that stored a reader, the ReaderRegistered notification is published.
package demo
