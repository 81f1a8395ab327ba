package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"amethyst/internal/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestError_Status(t *testing.T) {
	cases := []struct {
		err    *apperrors.Error
		status int
	}{
		{apperrors.Validation("bad"), http.StatusBadRequest},
		{apperrors.Conflict("dup"), http.StatusBadRequest},
		{apperrors.Auth("no"), http.StatusUnauthorized},
		{apperrors.Forbidden("nope"), http.StatusForbidden},
		{apperrors.NotFound("gone"), http.StatusNotFound},
		{apperrors.Internal("boom", errors.New("db down")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.Status(), tc.err.Message)
	}
}

func TestError_UnwrapAndKindOf(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("register: %w", apperrors.Internal("Registration failed", cause))

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(apperrors.Conflict("Email already exists")))
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(errors.New("plain")))
	assert.Contains(t, err.Error(), "connection refused")
}
