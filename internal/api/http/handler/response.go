package handler

import (
	"encoding/json"
	"net/http"

	"github.com/certzilla/auth-server/internal/apierrors"
	"github.com/certzilla/auth-server/internal/logger"
	"github.com/certzilla/auth-server/internal/model"
)

// Response is the JSON envelope of every endpoint.
type Response struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	User       *model.PublicUser `json:"user,omitempty"`
	Token      string            `json:"token,omitempty"`
	ResetToken string            `json:"resetToken,omitempty"`
}

// WriteJSON encodes body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError maps err to its status and client-facing message. Untyped
// errors become 500 without exposing the cause.
func WriteError(w http.ResponseWriter, l *logger.Logger, err error) {
	apiErr, ok := apierrors.As(err)
	if !ok || apiErr.Kind == apierrors.KindInternal {
		l.Error("HTTP handler: internal error",
			"error", err.Error())
		apiErr = apierrors.NewInternal(err)
	}

	WriteJSON(w, apiErr.HTTPStatus, Response{Success: false, Message: apiErr.Message})
}
