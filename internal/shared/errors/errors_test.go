package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"mysql", errors.New("Error 1062 (23000): Duplicate entry 'vet-happypaws' for key 'uk_code'"), true},
		{"postgres", errors.New(`ERROR: duplicate key value violates unique constraint "uk_code"`), true},
		{"sqlite", errors.New("UNIQUE constraint failed: referral_codes.code"), true},
		{"other", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateError(tt.err))
		})
	}
}

func TestLimitExceededError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewLimitExceededError("monthly meal plan limit reached"))

	assert.True(t, IsLimitExceededError(err))
	assert.False(t, IsNotFoundError(err))
	assert.Equal(t, http.StatusTooManyRequests, GetAppError(err).Code)
}

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "not_found: clinic not found", NewNotFoundError("clinic not found").Error())
	assert.Equal(t, "validation_error: bad input (lat)", NewValidationError("bad input", "lat").Error())
}
