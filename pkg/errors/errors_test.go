package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{Validation("bad input", nil), http.StatusBadRequest},
		{Conflict("ambiguous", nil), http.StatusBadRequest},
		{UnresolvableReference("dangling", nil), http.StatusBadRequest},
		{NotFound("doctor", nil), http.StatusNotFound},
		{Unauthorized("", nil), http.StatusUnauthorized},
		{Forbidden("", nil), http.StatusForbidden},
		{PaymentProvider("provider down", nil), http.StatusInternalServerError},
		{Persistence("db down", nil), http.StatusInternalServerError},
		{Internal(nil), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.HTTPStatus(), tc.err.Message)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Persistence("db write failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "root cause")
}

func TestIsCode(t *testing.T) {
	err := NotFound("doctor", nil)

	assert.True(t, IsCode(err, ErrNotFound))
	assert.False(t, IsCode(err, ErrValidation))
	assert.True(t, IsCode(fmt.Errorf("wrapped: %w", err), ErrNotFound))
	assert.False(t, IsCode(stderrors.New("plain"), ErrNotFound))
	assert.False(t, IsCode(nil, ErrNotFound))
}

func TestDefaultMessages(t *testing.T) {
	assert.Equal(t, "unauthorized", Unauthorized("", nil).Message)
	assert.Equal(t, "permission denied", Forbidden("", nil).Message)
	assert.Equal(t, "doctor not found", NotFound("doctor", nil).Message)
}
