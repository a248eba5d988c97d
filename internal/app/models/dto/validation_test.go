package dto

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signUpForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Tier     string `validate:"omitempty,oneof=free premium"`
}

func validate(t *testing.T, form signUpForm) error {
	t.Helper()
	err := validator.New().Struct(form)
	require.Error(t, err)
	return err
}

func TestHandleValidationErrorSingleField(t *testing.T) {
	err := validate(t, signUpForm{Email: "not-an-email", Password: "long-enough"})

	detail := HandleValidationError(err)
	assert.Equal(t, ErrorCodeValidationFailed, detail.Code)
	assert.Equal(t, "email", detail.Field)
	assert.Equal(t, "Please enter a valid email address", detail.Message)
}

func TestHandleValidationErrorListsEveryField(t *testing.T) {
	err := validate(t, signUpForm{Password: "short", Tier: "gold"})

	detail := HandleValidationError(err)
	assert.Equal(t, "Validation failed", detail.Message)

	fields, ok := detail.Details.([]ErrorDetail)
	require.True(t, ok)
	require.Len(t, fields, 3)

	messages := map[string]string{}
	for _, f := range fields {
		messages[f.Field] = f.Message
	}
	assert.Equal(t, "email is required", messages["email"])
	assert.Equal(t, "password must be at least 8 characters", messages["password"])
	assert.Equal(t, "tier must be one of: free premium", messages["tier"])
}

func TestHandleValidationErrorMalformedJSON(t *testing.T) {
	var v map[string]string
	err := json.Unmarshal([]byte(`{"a":`), &v)
	require.Error(t, err)

	detail := HandleValidationError(err)
	assert.Equal(t, ErrorCodeValidationFailed, detail.Code)
	assert.Equal(t, "Invalid request format", detail.Message)
}

func TestHandleValidationErrorWrongType(t *testing.T) {
	var v struct {
		Count int `json:"count"`
	}
	err := json.Unmarshal([]byte(`{"count":"many"}`), &v)
	require.Error(t, err)

	detail := HandleValidationError(err)
	assert.Equal(t, "count", detail.Field)
}

func TestHandleValidationErrorFallback(t *testing.T) {
	detail := HandleValidationError(errors.New("EOF"))
	assert.Equal(t, ErrorCodeValidationFailed, detail.Code)
	assert.Equal(t, "EOF", detail.Details)
}
