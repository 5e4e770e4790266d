package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code Code
		want int
	}{
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeTimeout, http.StatusGatewayTimeout},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(E(tc.code, "Test.Op", "boom", nil)), "code %s", tc.code)
	}

	// sentinels without an AppError wrapper still map sensibly
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrConflict))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestAppError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := ErrNotFound
	err := E(CodeNotFound, "ProfileService.Resolve", "profile not found", cause)

	require.True(t, errors.Is(err, ErrNotFound))
	require.True(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(err, CodeInternal))

	// wrapping keeps the code reachable through further decoration
	wrapped := fmt.Errorf("handler: %w", err)
	assert.True(t, IsCode(wrapped, CodeNotFound))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(wrapped))
}

func TestAppError_Message(t *testing.T) {
	t.Parallel()

	err := E(CodeUnavailable, "PushService.Broadcast", "push sender is not configured", nil)
	var ae *AppError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, CodeUnavailable, ae.Code)
	assert.Contains(t, err.Error(), "PushService.Broadcast")
}
