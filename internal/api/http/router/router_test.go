package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpctx "github.com/certzilla/auth-server/internal/api/http/context"
	"github.com/certzilla/auth-server/internal/api/http/handler"
	"github.com/certzilla/auth-server/internal/apierrors"
	"github.com/certzilla/auth-server/internal/model"
	"github.com/certzilla/auth-server/internal/service"
	"github.com/certzilla/auth-server/internal/testutil"
	"github.com/certzilla/auth-server/internal/token"
)

// stubService answers every call with canned values.
type stubService struct {
	user      model.PublicUser
	healthErr error
}

func (s *stubService) Register(context.Context, service.RegisterInput) (model.PublicUser, error) {
	return s.user, nil
}

func (s *stubService) Login(_ context.Context, email, _ string) (service.LoginResult, error) {
	if email != s.user.Email {
		return service.LoginResult{}, apierrors.NewErrUserNotFound()
	}
	return service.LoginResult{Token: "tok", User: s.user}, nil
}

func (s *stubService) SendVerificationOTP(context.Context, string) error  { return nil }
func (s *stubService) SendPasswordResetOTP(context.Context, string) error { return nil }
func (s *stubService) VerifyOTP(context.Context, string, string) error    { return nil }

func (s *stubService) ExchangeOTP(context.Context, string, string) (string, error) {
	return "reset", nil
}

func (s *stubService) ResetPassword(context.Context, string, string, string) error { return nil }

func (s *stubService) Profile(_ context.Context, userID uuid.UUID) (model.PublicUser, error) {
	if userID != s.user.ID {
		return model.PublicUser{}, apierrors.NewErrUserNotFound()
	}
	return s.user, nil
}

func (s *stubService) Health(context.Context) error { return s.healthErr }

func newTestRouter(t *testing.T) (http.Handler, *stubService, *token.JWT) {
	t.Helper()

	svc := &stubService{user: model.PublicUser{
		ID:       uuid.New(),
		Username: "dana",
		Email:    "dana@example.com",
		Role:     model.RoleUser,
	}}
	jwt := token.NewJWT("test-secret", time.Hour)
	r := New(svc, jwt, httpctx.NewManager(), []string{"https://app.certzilla.ai"}, testutil.MakeNoopLogger())

	return r.Register(), svc, jwt
}

func serve(h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_AuthRoutes(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestRouter(t)

	tests := []struct {
		path       string
		body       string
		wantStatus int
	}{
		{"/api/v1/user/auth/signup", `{}`, http.StatusCreated},
		{"/api/v1/user/auth/login", `{"email":"dana@example.com","password":"pw"}`, http.StatusOK},
		{"/api/v1/user/auth/login", `{"email":"eve@example.com","password":"pw"}`, http.StatusNotFound},
		{"/api/v1/user/auth/send-otp", `{"email":"x@example.com"}`, http.StatusOK},
		{"/api/v1/user/auth/forgot-password", `{"email":"x@example.com"}`, http.StatusOK},
		{"/api/v1/user/auth/verify-otp", `{}`, http.StatusOK},
		{"/api/v1/user/auth/exchange-otp", `{}`, http.StatusOK},
		{"/api/v1/user/auth/reset-password", `{}`, http.StatusOK},
	}

	for _, tt := range tests {
		rec := serve(h, http.MethodPost, tt.path, tt.body, nil)
		assert.Equal(t, tt.wantStatus, rec.Code, tt.path)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"), tt.path)
	}
}

func TestRouter_Me(t *testing.T) {
	t.Parallel()

	h, svc, jwt := newTestRouter(t)

	rec := serve(h, http.MethodGet, "/api/v1/user/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(h, http.MethodGet, "/api/v1/user/auth/me", "", map[string]string{"Authorization": "Bearer not-a-jwt"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := jwt.Issue(svc.user.ID)
	require.NoError(t, err)

	rec = serve(h, http.MethodGet, "/api/v1/user/auth/me", "", map[string]string{"Authorization": "Bearer " + tok})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	assert.Equal(t, svc.user.ID, resp.User.ID)

	tok, err = jwt.Issue(uuid.New())
	require.NoError(t, err)
	rec = serve(h, http.MethodGet, "/api/v1/user/auth/me", "", map[string]string{"Authorization": "Bearer " + tok})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	h, svc, _ := newTestRouter(t)

	rec := serve(h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	svc.healthErr = assert.AnError
	rec = serve(h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestRouter(t)

	rec := serve(h, http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"endpoint not found"}`, rec.Body.String())

	rec = serve(h, http.MethodGet, "/api/v1/user/auth/login", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"method not allowed"}`, rec.Body.String())
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestRouter(t)

	rec := serve(h, http.MethodOptions, "/api/v1/user/auth/login", "", map[string]string{
		"Origin":                        "https://app.certzilla.ai",
		"Access-Control-Request-Method": http.MethodPost,
	})

	assert.Equal(t, "https://app.certzilla.ai", rec.Header().Get("Access-Control-Allow-Origin"))
}
