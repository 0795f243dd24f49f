package apierrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        *APIError
		wantKind   Kind
		wantStatus int
	}{
		{"validation", NewValidation("bad"), KindValidation, http.StatusBadRequest},
		{"not found", NewNotFound("missing"), KindNotFound, http.StatusNotFound},
		{"auth", NewAuth("nope"), KindAuth, http.StatusUnauthorized},
		{"conflict is surfaced as bad request", NewConflict("dup"), KindConflict, http.StatusBadRequest},
		{"internal", NewInternal(errors.New("db down")), KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantKind, tt.err.Kind)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
		})
	}
}

func TestInternal_HidesCauseFromMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternal(cause)

	assert.Equal(t, "Internal Server Error", err.Message)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAs_FindsWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("verify otp: %w", NewErrOTPExpired())

	apiErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, MsgOTPExpired, apiErr.Message)
	assert.Equal(t, KindValidation, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, NewErrOTPExpired())
	assert.NotErrorIs(t, wrapped, NewErrInvalidOTP())
}

func TestKindOf_UntypedIsInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))

	_, ok := As(errors.New("boom"))
	assert.False(t, ok)
}
