package postgresbehavior

import "github.com/AntonStoeckl/cqrs-pipeline-go/outcome"

// CategoryTransaction groups the result codes synthesized by the Transaction behavior.
const CategoryTransaction = "TX"

var (
	// CodeBeginFailed is returned when the transaction could not be started.
	CodeBeginFailed = outcome.NewResultCode(1, CategoryTransaction, "Transaction could not be started")

	// CodeCommitFailed is returned when the transaction could not be committed.
	CodeCommitFailed = outcome.NewResultCode(2, CategoryTransaction, "Transaction could not be committed")
)
