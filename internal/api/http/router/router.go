package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/certzilla/auth-server/internal/api/http/handler"
	"github.com/certzilla/auth-server/internal/api/http/middleware"
	"github.com/certzilla/auth-server/internal/logger"
	"github.com/certzilla/auth-server/internal/model"
)

// Service is the account service behind the auth routes.
type Service interface {
	handler.AuthService
	handler.Pinger
}

// Router wires the auth endpoints and their middleware.
type Router struct {
	authService    Service
	tokenManager   model.TokenManager
	contextManager model.ContextManager
	allowedOrigins []string
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	authService Service,
	tokenManager model.TokenManager,
	contextManager model.ContextManager,
	allowedOrigins []string,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		tokenManager:   tokenManager,
		contextManager: contextManager,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// Register builds the HTTP handler tree.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenManager, r.contextManager, r.logger)
	authHandler := handler.NewAuth(r.authService, r.contextManager, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(logging.Handle)
	mux.Use(chimw.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: r.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	mux.Get("/health", handler.Health(r.authService, r.logger))

	mux.Route("/api/v1/user/auth", func(ar chi.Router) {
		ar.Post("/signup", authHandler.Signup)
		ar.Post("/login", authHandler.Login)
		ar.Post("/send-otp", authHandler.SendOTP)
		ar.Post("/forgot-password", authHandler.ForgotPassword)
		ar.Post("/verify-otp", authHandler.VerifyOTP)
		ar.Post("/exchange-otp", authHandler.ExchangeOTP)
		ar.Post("/reset-password", authHandler.ResetPassword)
		ar.With(authenticate.Handle).Get("/me", authHandler.Me)
	})

	mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		handler.WriteJSON(w, http.StatusNotFound, handler.Response{Message: "endpoint not found"})
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		handler.WriteJSON(w, http.StatusMethodNotAllowed, handler.Response{Message: "method not allowed"})
	})

	return mux
}
