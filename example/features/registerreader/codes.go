package registerreader

import "github.com/AntonStoeckl/cqrs-pipeline-go/outcome"

// CategoryReader groups the result codes of the reader use cases.
const CategoryReader = "RD"

var (
	// CodeAlreadyRegistered is the success code of a repeated registration of the same reader.
	CodeAlreadyRegistered = outcome.NewResultCode(0, CategoryReader, "Reader already registered")

	// CodeEmailTaken is returned when another reader is registered with the email.
	CodeEmailTaken = outcome.NewResultCode(1, CategoryReader, "Email already taken")

	// CodeReaderIDTaken is returned when the reader id is registered with another email.
	CodeReaderIDTaken = outcome.NewResultCode(2, CategoryReader, "Reader id already taken")
)
