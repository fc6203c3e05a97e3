package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "order not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestNotFoundError_ErrorInterface(t *testing.T) {
	var err error = NewNotFoundError("entity not found")
	assert.NotNil(t, err)
	assert.Equal(t, "entity not found", err.Error())
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "email", Message: "invalid email"},
		{Field: "name", Message: "required field"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query database", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.Contains(t, err.Error(), "failed to query database")
	assert.Contains(t, err.Error(), "database error")
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestConflictError_Creation(t *testing.T) {
	err := NewConflictError("order was modified concurrently")

	assert.Equal(t, "order was modified concurrently", err.Error())

	ce, ok := IsConflictError(err)
	assert.True(t, ok)
	assert.NotNil(t, ce)
}

func TestConflictError_IsConflictError_WithOtherError(t *testing.T) {
	ce, ok := IsConflictError(errors.New("something else"))

	assert.False(t, ok)
	assert.Nil(t, ce)
}

func TestForbiddenError_Creation(t *testing.T) {
	err := NewForbiddenError("invalid webhook signature")

	assert.Equal(t, "invalid webhook signature", err.Error())

	fe, ok := IsForbiddenError(err)
	assert.True(t, ok)
	assert.NotNil(t, fe)
}

func TestPaymentError_Creation(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewPaymentError("provider unreachable", "mercadopago", "12345", cause)

	assert.Equal(t, "mercadopago", err.Provider)
	assert.Equal(t, "12345", err.PaymentID)
	assert.Contains(t, err.Error(), "provider unreachable")
	assert.Contains(t, err.Error(), "connection refused")
	assert.True(t, errors.Is(err, cause))
}

func TestPaymentError_NilCause(t *testing.T) {
	err := NewPaymentError("rejected by provider", "mercadopago", "", nil)

	assert.Equal(t, "rejected by provider", err.Error())
	assert.Nil(t, err.Unwrap())

	pe, ok := IsPaymentError(err)
	assert.True(t, ok)
	assert.NotNil(t, pe)
}
