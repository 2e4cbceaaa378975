package outcome

import (
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// resultJSON is the wire shape of a Result.
// isSuccess is derived from code when encoding and ignored when decoding.
type resultJSON struct {
	Code            int         `json:"code"`
	CategorizedCode string      `json:"categorizedCode"`
	Description     string      `json:"description"`
	IsSuccess       bool        `json:"isSuccess"`
	Errors          FieldErrors `json:"errors"`
	CorrelationID   *uuid.UUID  `json:"correlationId,omitempty"`
}

type resultOfJSON[T any] struct {
	resultJSON
	Data *T `json:"data,omitempty"`
}

func (r Result) toJSON() resultJSON {
	wire := resultJSON{
		Code:            r.code,
		CategorizedCode: r.categorizedCode,
		Description:     r.description,
		IsSuccess:       r.IsSuccess(),
		Errors:          r.Errors(),
	}

	if id, ok := r.CorrelationID(); ok {
		wire.CorrelationID = &id
	}

	return wire
}

func fromJSON(wire resultJSON) Result {
	res := Result{
		code:            wire.Code,
		categorizedCode: wire.CategorizedCode,
		description:     wire.Description,
		errors:          wire.Errors.Clone(),
	}

	if wire.CorrelationID != nil {
		res.correlationID = uuid.NullUUID{UUID: *wire.CorrelationID, Valid: true}
	}

	return res
}

// MarshalJSON implements json.Marshaler.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.toJSON())
}

// UnmarshalJSON implements json.Unmarshaler. Success is derived from the decoded code only.
func (r *Result) UnmarshalJSON(data []byte) error {
	var wire resultJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*r = fromJSON(wire)

	return nil
}

// MarshalJSON implements json.Marshaler. The data field is omitted for failures.
func (r ResultOf[T]) MarshalJSON() ([]byte, error) {
	wire := resultOfJSON[T]{resultJSON: r.base.toJSON()}
	if r.hasData && r.IsSuccess() {
		data := r.data
		wire.Data = &data
	}

	return json.Marshal(wire)
}

// UnmarshalJSON implements json.Unmarshaler. Data is only taken over for successes.
func (r *ResultOf[T]) UnmarshalJSON(data []byte) error {
	var wire resultOfJSON[T]
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	decoded := ResultOf[T]{base: fromJSON(wire.resultJSON)}
	if wire.Data != nil && decoded.IsSuccess() {
		decoded.data = *wire.Data
		decoded.hasData = true
	}

	*r = decoded

	return nil
}
