package behavior

import (
	"context"

	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
)

// Correlation stamps the request id onto every outcome that does not carry a correlation id yet.
// Outcomes that already carry one, and errors, pass through unchanged.
type Correlation[Req cqrs.Request, Res cqrs.Response[Res]] struct{}

// NewCorrelation creates a Correlation behavior.
func NewCorrelation[Req cqrs.Request, Res cqrs.Response[Res]]() *Correlation[Req, Res] {
	return &Correlation[Req, Res]{}
}

// Handle implements cqrs.Behavior.
func (c *Correlation[Req, Res]) Handle(ctx context.Context, request Req, next cqrs.Next[Res]) (Res, error) {
	res, err := next(ctx)
	if err != nil {
		return res, err
	}

	if _, ok := res.CorrelationID(); ok {
		return res, nil
	}

	return res.Correlated(request.ID()), nil
}
