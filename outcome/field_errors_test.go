package outcome_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/cqrs-pipeline-go/outcome"
)

func Test_FieldErrors_Add_StartingFromNil(t *testing.T) {
	var errs outcome.FieldErrors

	errs = errs.Add("email", "is required").Add("email", "must be valid").Add("name", "is required")

	assert.Equal(t, []string{"is required", "must be valid"}, errs["email"])
	assert.True(t, errs.Has("name"))
	assert.False(t, errs.Has("age"))
	assert.Equal(t, []string{"email", "name"}, errs.Fields())
}

func Test_FieldErrors_Merge_KeepsOrder(t *testing.T) {
	a := outcome.FieldErrors{"email": {"first"}}
	b := outcome.FieldErrors{"email": {"second"}, "name": {"third"}}

	merged := a.Merge(b)

	assert.Equal(t, []string{"first", "second"}, merged["email"])
	assert.Equal(t, []string{"third"}, merged["name"])
}

func Test_FieldErrors_Merge_NilIntoNil_IsEmptyNotNil(t *testing.T) {
	var a outcome.FieldErrors

	merged := a.Merge(nil)

	assert.NotNil(t, merged)
	assert.True(t, merged.IsEmpty())
}

func Test_FieldErrors_Clone_IsDeep(t *testing.T) {
	original := outcome.FieldErrors{"email": {"is required"}}

	clone := original.Clone()
	clone["email"][0] = "changed"

	assert.Equal(t, "is required", original["email"][0])
}

func Test_FieldErrors_IsEmpty(t *testing.T) {
	assert.True(t, outcome.NewFieldErrors().IsEmpty())
	assert.True(t, outcome.FieldErrors{"email": {}}.IsEmpty())
	assert.False(t, outcome.FieldErrors{"email": {"x"}}.IsEmpty())
}
