package context

import (
	"context"

	"github.com/google/uuid"

	"github.com/certzilla/auth-server/internal/model"
)

type contextKey struct{}

// userIDKey is the request context key holding the authenticated user ID.
var userIDKey = contextKey{}

// Manager stores and retrieves the authenticated user ID on request contexts.
type Manager struct{}

var _ model.ContextManager = (*Manager)(nil)

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// WithUserID returns a copy of ctx carrying userID.
func (m *Manager) WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the user ID set by WithUserID.
func (m *Manager) UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}
