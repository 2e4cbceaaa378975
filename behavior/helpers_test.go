package behavior_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
	"github.com/AntonStoeckl/cqrs-pipeline-go/outcome"
)

type lendBook struct {
	cqrs.Identity
	BookID   string
	ReaderID string
}

func (lendBook) RequestType() string { return "LendBook" }

func newLendBook() lendBook {
	return lendBook{Identity: cqrs.NewIdentity(), BookID: "book-1", ReaderID: "reader-1"}
}

var codeBookAlreadyLent = outcome.NewResultCode(1, "LB", "Book already lent")

func succeed(_ context.Context) (outcome.Result, error) {
	return outcome.Success(), nil
}

func requiredField(field string, value func(lendBook) string) behaviorValidator {
	return behaviorValidatorFunc(func(_ context.Context, request lendBook) outcome.FieldErrors {
		if strings.TrimSpace(value(request)) == "" {
			return outcome.NewFieldErrors().Add(field, field+" is required")
		}

		return nil
	})
}

func mustPipeline(
	t *testing.T,
	handler cqrs.RequestHandlerFunc[lendBook, outcome.Result],
	behaviors ...cqrs.Behavior[lendBook, outcome.Result],
) *cqrs.Pipeline[lendBook, outcome.Result] {
	t.Helper()

	p, err := cqrs.NewPipeline[lendBook, outcome.Result](
		handler,
		cqrs.WithBehaviors[lendBook, outcome.Result](behaviors...),
	)
	require.NoError(t, err)

	return p
}
