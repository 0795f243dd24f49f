package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/certzilla/auth-server/internal/apierrors"
	"github.com/certzilla/auth-server/internal/hashing"
	"github.com/certzilla/auth-server/internal/model"
	"github.com/certzilla/auth-server/internal/notification"
	"github.com/certzilla/auth-server/internal/secret"
)

// SendPasswordResetOTP issues a code for the forgot-password flow.
// Unknown emails are reported as not found.
func (a *Auth) SendPasswordResetOTP(ctx context.Context, email string) error {
	return a.issueOTP(ctx, email, notification.PurposePasswordReset)
}

// SendVerificationOTP issues a code for email verification. Unknown emails
// succeed silently so callers cannot probe for accounts.
func (a *Auth) SendVerificationOTP(ctx context.Context, email string) error {
	err := a.issueOTP(ctx, email, notification.PurposeVerification)
	if apiErr, ok := apierrors.As(err); ok && apiErr.Kind == apierrors.KindNotFound {
		return nil
	}
	return err
}

// issueOTP replaces any pending challenge, including a reset token, with a
// fresh code and mails it. A mail failure leaves the stored code valid.
func (a *Auth) issueOTP(ctx context.Context, email string, purpose notification.Purpose) error {
	email = model.NormalizeEmail(email)
	if email == "" {
		return apierrors.NewValidation(apierrors.MsgEmailRequired)
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewNotFound(apierrors.MsgNoUserWithEmail)
	}
	if err != nil {
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	code, err := a.secrets.OTP()
	if err != nil {
		return err
	}

	now := a.now()
	user.Challenge = model.OTPPending(code, now.Add(model.OTPTTL))
	user.UpdatedAt = now

	if err := a.userStore.Update(ctx, user); err != nil {
		a.logger.Error("Auth service: failed to store otp",
			"user_id", user.ID,
			"error", err.Error())
		return fmt.Errorf("failed to store otp: %w", err)
	}

	msg, err := notification.OTPMessage(purpose, user.Email, code)
	if err != nil {
		return err
	}

	receipt, err := a.mailer.Send(ctx, msg)
	if err != nil {
		a.logger.Error("Auth service: failed to send otp email",
			"user_id", user.ID,
			"error", err.Error())
		return fmt.Errorf("failed to send otp email: %w", err)
	}

	a.logger.Info("Auth service: otp issued",
		"user_id", user.ID,
		"subject", msg.Subject,
		"receipt_id", receipt.ID)

	return nil
}

// VerifyOTP consumes a pending code and marks the email verified.
func (a *Auth) VerifyOTP(ctx context.Context, email, otp string) error {
	user, err := a.checkOTP(ctx, email, otp)
	if err != nil {
		return err
	}

	user.Challenge = model.NoChallenge()
	user.IsOTPVerified = true
	user.UpdatedAt = a.now()

	if err := a.userStore.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	a.logger.Info("Auth service: otp verified",
		"user_id", user.ID)

	return nil
}

// ExchangeOTP consumes a pending code and returns a single-use reset token.
// Only the token hash is stored.
func (a *Auth) ExchangeOTP(ctx context.Context, email, otp string) (string, error) {
	user, err := a.checkOTP(ctx, email, otp)
	if err != nil {
		return "", err
	}

	token, err := a.secrets.ResetToken()
	if err != nil {
		return "", err
	}

	now := a.now()
	user.Challenge = model.ResetPending(secret.HashToken(token), now.Add(model.ResetTokenTTL))
	user.UpdatedAt = now

	if err := a.userStore.Update(ctx, user); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	a.logger.Info("Auth service: otp exchanged for reset token",
		"user_id", user.ID)

	return token, nil
}

// ResetPassword sets a new password for the holder of a valid reset token.
func (a *Auth) ResetPassword(ctx context.Context, email, newPassword, resetToken string) error {
	email = model.NormalizeEmail(email)
	if email == "" || newPassword == "" || resetToken == "" {
		return apierrors.NewValidation(apierrors.MsgResetFieldsRequired)
	}

	user, err := a.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	tokenHash, expiresAt, ok := user.Challenge.PendingReset()
	if !ok || !secret.MatchToken(resetToken, tokenHash) {
		return apierrors.NewErrInvalidResetToken()
	}
	now := a.now()
	if expiresAt.Before(now) {
		return apierrors.NewErrResetTokenExpired()
	}

	if err := hashIfChanged(a.hasher, &user, &newPassword); err != nil {
		if errors.Is(err, hashing.ErrPasswordTooLong) {
			return apierrors.NewValidation(apierrors.MsgPasswordTooLong)
		}
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Challenge = model.NoChallenge()
	user.UpdatedAt = now

	if err := a.userStore.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	a.logger.Info("Auth service: password reset completed successfully",
		"user_id", user.ID)

	return nil
}

func (a *Auth) checkOTP(ctx context.Context, email, otp string) (model.User, error) {
	email = model.NormalizeEmail(email)
	if email == "" || otp == "" {
		return model.User{}, apierrors.NewValidation(apierrors.MsgOTPFieldsRequired)
	}

	user, err := a.findByEmail(ctx, email)
	if err != nil {
		return model.User{}, err
	}

	code, expiresAt, ok := user.Challenge.PendingOTP()
	if !ok || code != otp {
		return model.User{}, apierrors.NewErrInvalidOTP()
	}
	if expiresAt.Before(a.now()) {
		return model.User{}, apierrors.NewErrOTPExpired()
	}

	return user, nil
}
