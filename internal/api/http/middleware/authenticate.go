package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/certzilla/auth-server/internal/api/http/handler"
	"github.com/certzilla/auth-server/internal/apierrors"
	"github.com/certzilla/auth-server/internal/logger"
	"github.com/certzilla/auth-server/internal/model"
)

// Authenticate validates bearer tokens and injects user ID into context.
type Authenticate struct {
	tokenManager   model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenManager model.TokenManager, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenManager: tokenManager, contextManager: contextManager, logger: logger}
}

// Handle rejects requests without a valid session token.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r.Header.Get("Authorization"))

		userID, err := m.authenticateUser(tokenString)
		if err != nil {
			handler.WriteError(w, m.logger, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.WithUserID(r.Context(), userID)))
	})
}

func (m *Authenticate) authenticateUser(tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, apierrors.NewAuth(apierrors.MsgMissingAuthorization)
	}

	userID, err := m.tokenManager.Parse(tokenString)
	if err != nil {
		m.logger.Debug("HTTP middleware: token rejected",
			"error", err.Error())
		return uuid.Nil, apierrors.NewAuth(apierrors.MsgInvalidAuthorization)
	}

	if userID == uuid.Nil {
		return uuid.Nil, apierrors.NewAuth(apierrors.MsgInvalidAuthorization)
	}

	return userID, nil
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
