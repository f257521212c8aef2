package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageErrorClassification(t *testing.T) {
	notFound := NewNotFoundError("rfm", "06_rfm.csv", errors.New("no such file"))
	schema := NewSchemaError("classify_status", "InvoiceNo")
	validation := NewValidationError("filter_invalid", "nulls remain")

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(schema))

	assert.True(t, IsSchemaError(schema))
	assert.False(t, IsSchemaError(validation))

	assert.True(t, IsValidationError(validation))
	assert.False(t, IsValidationError(notFound))
}

func TestStageErrorWrapsCause(t *testing.T) {
	cause := errors.New("disk gone")
	err := NewExecutionError("temporal", cause)
	assert.ErrorIs(t, err, cause)
}

func TestStageErrorMessage(t *testing.T) {
	err := NewSchemaError("classify_status", "InvoiceNo")
	require.Contains(t, err.Error(), "classify_status")
	require.Contains(t, err.Error(), "InvoiceNo")
}

func TestClassificationSurvivesWrapping(t *testing.T) {
	inner := NewNotFoundError("products", "06_rfm.csv", nil)
	wrapped := errors.Join(errors.New("outer"), inner)
	assert.True(t, IsNotFound(wrapped))
}
