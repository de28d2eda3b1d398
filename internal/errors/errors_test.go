package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIs_MatchesByCode(t *testing.T) {
	err := DuplicateISBN("isbn 123 already registered")
	assert.True(t, Is(err, ErrDuplicateISBN))
	assert.False(t, Is(err, ErrBookLoaned))
	assert.False(t, Is(err, ErrNotFound))
}

func TestErrorIs_MatchesThroughWrapping(t *testing.T) {
	cause := fmt.Errorf("row not found")
	err := Wrap(cause, CodeNotFound, "loan missing")

	assert.True(t, Is(err, ErrNotFound))
	assert.Equal(t, cause, Unwrap(err))
	assert.Contains(t, err.Error(), "row not found")
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err    *Error
		status int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrBookNotFound, http.StatusNotFound},
		{ErrDuplicateISBN, http.StatusConflict},
		{ErrBookLoaned, http.StatusConflict},
		{ErrValidation, http.StatusBadRequest},
		{ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.HTTPStatus(), "code %s", tt.err.Code)
	}
}

func TestWithDetails(t *testing.T) {
	base := Validation("validation failed")
	detailed := base.WithDetails(map[string]string{"title": "is required"})

	require.NotNil(t, detailed.Details)
	assert.Equal(t, CodeValidation, detailed.Code)
	// Original is untouched.
	assert.Nil(t, base.Details)
}

func TestAs_ExtractsDomainError(t *testing.T) {
	var domainErr *Error
	err := fmt.Errorf("service: %w", BookLoaned("book b-1 already loaned"))

	require.True(t, As(err, &domainErr))
	assert.Equal(t, CodeBookLoaned, domainErr.Code)
}
