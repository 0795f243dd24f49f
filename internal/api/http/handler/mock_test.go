package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/certzilla/auth-server/internal/model"
	"github.com/certzilla/auth-server/internal/service"
)

type authServiceMock struct {
	mock.Mock
}

func (m *authServiceMock) Register(ctx context.Context, in service.RegisterInput) (model.PublicUser, error) {
	ret := m.Called(ctx, in)
	return ret.Get(0).(model.PublicUser), ret.Error(1)
}

func (m *authServiceMock) Login(ctx context.Context, email, password string) (service.LoginResult, error) {
	ret := m.Called(ctx, email, password)
	return ret.Get(0).(service.LoginResult), ret.Error(1)
}

func (m *authServiceMock) SendVerificationOTP(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *authServiceMock) SendPasswordResetOTP(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *authServiceMock) VerifyOTP(ctx context.Context, email, otp string) error {
	return m.Called(ctx, email, otp).Error(0)
}

func (m *authServiceMock) ExchangeOTP(ctx context.Context, email, otp string) (string, error) {
	ret := m.Called(ctx, email, otp)
	return ret.String(0), ret.Error(1)
}

func (m *authServiceMock) ResetPassword(ctx context.Context, email, newPassword, resetToken string) error {
	return m.Called(ctx, email, newPassword, resetToken).Error(0)
}

func (m *authServiceMock) Profile(ctx context.Context, userID uuid.UUID) (model.PublicUser, error) {
	ret := m.Called(ctx, userID)
	return ret.Get(0).(model.PublicUser), ret.Error(1)
}

func (m *authServiceMock) Health(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func newAuthServiceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *authServiceMock {
	m := &authServiceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
