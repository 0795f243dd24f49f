package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/certzilla/auth-server/internal/logger"
)

// Pinger checks a backing dependency.
type Pinger interface {
	Health(ctx context.Context) error
}

type healthResponse struct {
	Status string `json:"status"`
}

// Health reports whether the user store is reachable.
func Health(p Pinger, l *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := p.Health(ctx); err != nil {
			l.Warn("HTTP handler: health check failed",
				"error", err.Error())
			WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}

		WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}
