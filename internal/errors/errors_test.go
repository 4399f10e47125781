package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrTypeInput, "test error message")

	assert.Equal(t, ErrTypeInput, err.Type)
	assert.Equal(t, "test error message", err.Message)
	assert.NoError(t, err.Cause)
}

func TestNewf(t *testing.T) {
	err := Newf(ErrTypeStorage, "failed to open %s", "history database")

	assert.Equal(t, ErrTypeStorage, err.Type)
	assert.Equal(t, "failed to open history database", err.Message)
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("original error")
	wrappedErr := Wrap(originalErr, ErrTypeLLM, "generation request failed")

	assert.Equal(t, ErrTypeLLM, wrappedErr.Type)
	assert.Equal(t, "generation request failed", wrappedErr.Message)
	assert.Equal(t, originalErr, wrappedErr.Cause)
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name: "error without cause",
			err: &Error{
				Type:    ErrTypeInput,
				Message: "invalid input",
			},
			expected: "input: invalid input",
		},
		{
			name: "error with cause",
			err: &Error{
				Type:    ErrTypeStorage,
				Message: "insert failed",
				Cause:   errors.New("database is locked"),
			},
			expected: "storage: insert failed (caused by: database is locked)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestUnwrap(t *testing.T) {
	originalErr := errors.New("original error")
	wrappedErr := Wrap(originalErr, ErrTypeLLM, "wrapped error")

	assert.Equal(t, originalErr, wrappedErr.Unwrap())
}

func TestWithSuggestion(t *testing.T) {
	err := New(ErrTypeConfig, "missing API key")
	err = err.WithSuggestion("Set SQL_ADVISOR_LLM_API_KEY in the environment")
	err = err.WithSuggestion("Or disable AI generation with an empty provider")

	assert.Len(t, err.Suggestions, 2)
	assert.Contains(t, err.Suggestions, "Set SQL_ADVISOR_LLM_API_KEY in the environment")
}

func TestIsType(t *testing.T) {
	structErr := New(ErrTypeInput, "bad input")
	regularErr := errors.New("regular error")

	assert.True(t, IsType(structErr, ErrTypeInput))
	assert.False(t, IsType(structErr, ErrTypeStorage))
	assert.False(t, IsType(regularErr, ErrTypeInput))
}

func TestGetType(t *testing.T) {
	structErr := New(ErrTypeLLM, "API error")
	regularErr := errors.New("regular error")

	assert.Equal(t, ErrTypeLLM, GetType(structErr))
	assert.Equal(t, ErrTypeInternal, GetType(regularErr))
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("invalid value", "log_level")

	assert.Equal(t, ErrTypeConfig, err.Type)
	assert.Contains(t, err.Message, "invalid value")
	assert.Contains(t, err.Message, "log_level")
	assert.NotEmpty(t, err.Suggestions)
}

func TestUserMessage(t *testing.T) {
	plain := errors.New("plain failure")
	assert.Equal(t, "plain failure", UserMessage(plain))

	structured := New(ErrTypeInput, "no query provided").
		WithSuggestion("Pass the query as an argument or use --file")
	msg := UserMessage(structured)
	assert.Contains(t, msg, "input: no query provided")
	assert.Contains(t, msg, "hint: Pass the query as an argument or use --file")
}
