// Package shell provides the infrastructure of the example: Reader registration in a public library
//
// It contains the reader repository, with an in-memory and a PostgreSQL implementation,
// and the in-memory outbox the notification handlers write to.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
