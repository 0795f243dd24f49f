package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/certzilla/auth-server/internal/apierrors"
	"github.com/certzilla/auth-server/internal/logger"
	"github.com/certzilla/auth-server/internal/model"
	"github.com/certzilla/auth-server/internal/service"
)

// Success messages.
const (
	MsgRegistered       = "User registered successfully."
	MsgLoggedIn         = "Login successful."
	MsgOTPSent          = "OTP sent to your email"
	MsgVerificationSent = "if email is registered on our system you should receive a code"
	MsgOTPVerified      = "OTP verified."
	MsgPasswordReset    = "Password has been reset successfully."
	MsgProfileRetrieved = "Profile retrieved successfully."
)

const maxRequestBodyBytes = 1 << 20

// AuthService defines the account operations exposed over HTTP.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (model.PublicUser, error)
	Login(ctx context.Context, email, password string) (service.LoginResult, error)
	SendVerificationOTP(ctx context.Context, email string) error
	SendPasswordResetOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) error
	ExchangeOTP(ctx context.Context, email, otp string) (string, error)
	ResetPassword(ctx context.Context, email, newPassword, resetToken string) error
	Profile(ctx context.Context, userID uuid.UUID) (model.PublicUser, error)
}

// authRequest is the union of all auth request bodies.
type authRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	PhoneNo         string `json:"phone_no"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	OTP             string `json:"otp"`
	NewPassword     string `json:"newPassword"`
	ResetToken      string `json:"resetToken"`
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// decode reads the request body. An empty body decodes to the zero request
// so that missing fields are reported by the service. A non-string code can
// never equal a stored one and is reported as an invalid code.
func (h *Auth) decode(r *http.Request) (authRequest, error) {
	var req authRequest
	err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes)).Decode(&req)
	if err == nil || errors.Is(err, io.EOF) {
		return req, nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "otp" {
		return authRequest{}, apierrors.NewErrInvalidOTP()
	}
	return authRequest{}, apierrors.NewValidation(apierrors.MsgMalformedRequest)
}

// Signup registers a new account.
func (h *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	user, err := h.authService.Register(r.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		PhoneNo:         req.PhoneNo,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusCreated, Response{Success: true, Message: MsgRegistered, User: &user})
}

// Login exchanges credentials for a session token.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	res, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, Response{Success: true, Message: MsgLoggedIn, User: &res.User, Token: res.Token})
}

// SendOTP issues a verification code. The answer does not reveal whether
// the email is registered.
func (h *Auth) SendOTP(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	if err := h.authService.SendVerificationOTP(r.Context(), req.Email); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, Response{Success: true, Message: MsgVerificationSent})
}

// ForgotPassword issues a password reset code.
func (h *Auth) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	if err := h.authService.SendPasswordResetOTP(r.Context(), req.Email); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, Response{Success: true, Message: MsgOTPSent})
}

// VerifyOTP confirms a code and marks the email verified.
func (h *Auth) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	if err := h.authService.VerifyOTP(r.Context(), req.Email, req.OTP); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, Response{Success: true, Message: MsgOTPVerified})
}

// ExchangeOTP trades a code for a reset token.
func (h *Auth) ExchangeOTP(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	resetToken, err := h.authService.ExchangeOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, Response{Success: true, Message: MsgOTPVerified, ResetToken: resetToken})
}

// ResetPassword sets a new password using a reset token.
func (h *Auth) ResetPassword(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Email, req.NewPassword, req.ResetToken); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, Response{Success: true, Message: MsgPasswordReset})
}

// Me returns the profile of the session holder.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, h.logger, apierrors.NewAuth(apierrors.MsgMissingAuthorization))
		return
	}

	user, err := h.authService.Profile(r.Context(), userID)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, Response{Success: true, Message: MsgProfileRetrieved, User: &user})
}
