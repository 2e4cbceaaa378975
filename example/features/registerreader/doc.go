// Package registerreader implements the Register Reader use case.
//
// This feature registers new readers in the library system. It follows the Query-Decide-Store
// pattern with proper separation between infrastructure concerns (CommandHandler) and pure
// business logic (Decide function). Input validation runs as validation behavior in front of
// the handler, see Validators.
//
// The business logic ensures idempotency: registering the same reader twice yields the
// CodeAlreadyRegistered success outcome and stores nothing.
package registerreader
