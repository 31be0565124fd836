package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := MissingPlaceholders([]string{"*JUDUL*", "*LINK*"})

	assert.True(t, errors.Is(err, ErrMissingPlaceholder))
	assert.False(t, errors.Is(err, ErrEmptyInput))

	wrapped := fmt.Errorf("validate: %w", err)
	assert.True(t, errors.Is(wrapped, ErrMissingPlaceholder))

	var appErr *Error
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, []string{"*JUDUL*", "*LINK*"}, appErr.Details)
}

func TestBatchLengthMismatchMessage(t *testing.T) {
	err := BatchLengthMismatch([]ListLength{{"titles", 3}, {"links", 3}, {"images", 2}})

	assert.Equal(t, "row counts differ: titles=3, links=3, images=2", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
}

func TestWithCauseUnwraps(t *testing.T) {
	cause := errors.New("parse failure")
	err := ErrInternal.WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal error: parse failure", err.Error())
	assert.Nil(t, ErrInternal.cause, "sentinel must not be mutated")
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"coded", EmptyInput("no titles"), CodeEmptyInput},
		{"wrapped", fmt.Errorf("x: %w", IntegrityMismatch([]int{2}, nil)), CodeIntegrityMismatch},
		{"plain", errors.New("boom"), CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, CodeIntegrityMismatch.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, CodeNotFound.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, CodeInternal.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, Validation("bad", nil).HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, CodeBatchLengthMismatch.HTTPStatus())
}
