package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidName, "test message: %s", "value")

	if err.Code != ErrCodeInvalidName {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidName)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_NAME: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeStorage, cause, "failed to load")

	if err.Code != ErrCodeStorage {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeStorage)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "STORAGE_ERROR: failed to load: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidMember, "test"),
			code:     ErrCodeInvalidMember,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidMember, "test"),
			code:     ErrCodeStorage,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInvalidDefinition, New(ErrCodeInvalidName, "inner"), "outer"),
			code:     ErrCodeInvalidDefinition,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidStyle, "test"),
			expected: ErrCodeInvalidStyle,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(New(ErrCodeInvalidRelationship, "x")) {
		t.Error("IsValidation(INVALID_RELATIONSHIP) = false, want true")
	}
	if !IsValidation(Wrap(ErrCodeInvalidDefinition, errors.New("x"), "y")) {
		t.Error("IsValidation(INVALID_DEFINITION) = false, want true")
	}
	if IsValidation(New(ErrCodeStorage, "x")) {
		t.Error("IsValidation(STORAGE_ERROR) = true, want false")
	}
	if IsValidation(errors.New("plain")) {
		t.Error("IsValidation(plain) = true, want false")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(New(ErrCodeDiagramNotFound, "x")) {
		t.Error("IsNotFound(DIAGRAM_NOT_FOUND) = false, want true")
	}
	if IsNotFound(New(ErrCodeInvalidName, "x")) {
		t.Error("IsNotFound(INVALID_NAME) = true, want false")
	}
}
