package behavior

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
	"github.com/AntonStoeckl/cqrs-pipeline-go/outcome"
)

// Validator checks one aspect of a request and returns the field errors it found.
// An empty or nil result means the request is valid as far as this validator is concerned.
type Validator[Req cqrs.Request] interface {
	Validate(ctx context.Context, request Req) outcome.FieldErrors
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc[Req cqrs.Request] func(ctx context.Context, request Req) outcome.FieldErrors

// Validate calls f.
func (f ValidatorFunc[Req]) Validate(ctx context.Context, request Req) outcome.FieldErrors {
	return f(ctx, request)
}

// Validation runs all validators and short-circuits with a failure when any of them reported errors.
// The failure carries the merged field errors and the request id as correlation id.
type Validation[Req cqrs.Request, Res cqrs.Response[Res]] struct {
	validators []Validator[Req]
	code       outcome.ResultCode
}

// ValidationOption defines a functional option for configuring Validation.
type ValidationOption[Req cqrs.Request, Res cqrs.Response[Res]] func(*Validation[Req, Res]) error

// NewValidation creates a Validation behavior. Failures use outcome.CodeFailure unless WithValidationCode is given.
func NewValidation[Req cqrs.Request, Res cqrs.Response[Res]](
	validators []Validator[Req],
	opts ...ValidationOption[Req, Res],
) (*Validation[Req, Res], error) {
	for _, validator := range validators {
		if validator == nil {
			return nil, ErrNilValidator
		}
	}

	v := &Validation[Req, Res]{
		validators: validators,
		code:       outcome.CodeFailure,
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// WithValidationCode sets the result code of validation failures.
func WithValidationCode[Req cqrs.Request, Res cqrs.Response[Res]](rc outcome.ResultCode) ValidationOption[Req, Res] {
	return func(v *Validation[Req, Res]) error {
		if rc.IsSuccess() {
			return fmt.Errorf("%w: %s", outcome.ErrSuccessCodeOnFailure, rc)
		}

		v.code = rc

		return nil
	}
}

// Handle implements cqrs.Behavior.
func (v *Validation[Req, Res]) Handle(ctx context.Context, request Req, next cqrs.Next[Res]) (Res, error) {
	errs := outcome.NewFieldErrors()
	for _, validator := range v.validators {
		errs = errs.Merge(validator.Validate(ctx, request))
	}

	if errs.IsEmpty() {
		return next(ctx)
	}

	return cqrs.FailureFor[Res](v.code, outcome.WithErrors(errs), outcome.WithCorrelationID(request.ID()))
}
