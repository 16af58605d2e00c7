package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByCode(t *testing.T) {
	detailed := ErrNotFound.WithMessage("tool not found")
	assert.ErrorIs(t, detailed, ErrNotFound)
	assert.NotErrorIs(t, detailed, ErrValidation)

	wrapped := fmt.Errorf("loading tool: %w", detailed)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.Equal(t, "loading tool: tool not found", wrapped.Error())
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrNotFound, http.StatusNotFound},
		{ErrValidation, http.StatusBadRequest},
		{ErrConfirmationFailed, http.StatusBadRequest},
		{ErrQRCodeMismatch, http.StatusBadRequest},
		{ErrInsufficientAvailability, http.StatusBadRequest},
		{ErrResourceInUse, http.StatusBadRequest},
		{ErrAlreadyExists, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", ErrNotFound.WithMessage("gone")), http.StatusNotFound},
		{errors.New("driver failure"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), "%v", tc.err)
	}
}
