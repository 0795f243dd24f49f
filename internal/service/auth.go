package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/certzilla/auth-server/internal/apierrors"
	"github.com/certzilla/auth-server/internal/hashing"
	"github.com/certzilla/auth-server/internal/logger"
	"github.com/certzilla/auth-server/internal/model"
	"github.com/certzilla/auth-server/internal/secret"
)

// RegisterInput carries the signup form.
type RegisterInput struct {
	Username        string
	Email           string
	PhoneNo         string
	Password        string
	ConfirmPassword string
}

// LoginResult is a successful login.
type LoginResult struct {
	Token string
	User  model.PublicUser
}

// Auth owns the account lifecycle: registration, login, one-time codes
// and password reset. All state lives in the user store.
type Auth struct {
	userStore    model.UserStore
	hasher       hashing.Hasher
	tokenManager model.TokenManager
	mailer       model.Mailer
	secrets      secret.Generator
	logger       *logger.Logger
	now          func() time.Time
}

func NewAuth(
	userStore model.UserStore,
	hasher hashing.Hasher,
	tokenManager model.TokenManager,
	mailer model.Mailer,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenManager: tokenManager,
		mailer:       mailer,
		secrets:      secret.Random{},
		logger:       logger,
		now:          time.Now,
	}
}

// hashIfChanged hashes plaintext into user.PasswordHash. A nil plaintext
// leaves the stored hash untouched.
func hashIfChanged(hasher hashing.Hasher, user *model.User, plaintext *string) error {
	if plaintext == nil {
		return nil
	}

	digest, err := hasher.Hash(*plaintext)
	if err != nil {
		return err
	}
	user.PasswordHash = digest

	return nil
}

func (a *Auth) Register(ctx context.Context, in RegisterInput) (model.PublicUser, error) {
	email := model.NormalizeEmail(in.Email)

	a.logger.Debug("Auth service: starting user registration",
		"email", email)

	if in.Username == "" || email == "" || in.PhoneNo == "" || in.Password == "" || in.ConfirmPassword == "" {
		return model.PublicUser{}, apierrors.NewValidation(apierrors.MsgAllFieldsRequired)
	}
	if in.Password != in.ConfirmPassword {
		return model.PublicUser{}, apierrors.NewValidation(apierrors.MsgPasswordsMismatch)
	}

	_, err := a.userStore.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Auth service: user already exists",
			"email", email)
		return model.PublicUser{}, apierrors.NewErrUserExists()
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.PublicUser{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	now := a.now()
	user := model.User{
		ID:        uuid.New(),
		Email:     email,
		Username:  in.Username,
		PhoneNo:   in.PhoneNo,
		Role:      model.RoleUser,
		Challenge: model.NoChallenge(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := hashIfChanged(a.hasher, &user, &in.Password); err != nil {
		if errors.Is(err, hashing.ErrPasswordTooLong) {
			return model.PublicUser{}, apierrors.NewValidation(apierrors.MsgPasswordTooLong)
		}
		return model.PublicUser{}, fmt.Errorf("failed to hash password: %w", err)
	}

	saved, err := a.userStore.Create(ctx, user)
	if errors.Is(err, model.ErrAlreadyExists) {
		return model.PublicUser{}, apierrors.NewErrUserExists()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.PublicUser{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registration completed successfully",
		"user_id", saved.ID)

	return saved.Public(), nil
}

func (a *Auth) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = model.NormalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, apierrors.NewValidation(apierrors.MsgLoginFieldsRequired)
	}

	user, err := a.findByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, err
	}

	ok, err := a.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		a.logger.Error("Auth service: failed to verify password",
			"user_id", user.ID,
			"error", err.Error())
		return LoginResult{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		a.logger.Info("Auth service: login rejected",
			"user_id", user.ID)
		return LoginResult{}, apierrors.NewErrBadCredentials()
	}

	token, err := a.tokenManager.Issue(user.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: login completed successfully",
		"user_id", user.ID)

	return LoginResult{Token: token, User: user.Public()}, nil
}

// Profile returns the public view of the session holder.
func (a *Auth) Profile(ctx context.Context, userID uuid.UUID) (model.PublicUser, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.PublicUser{}, apierrors.NewErrUserNotFound()
	}
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user.Public(), nil
}

// Health reports whether the user store is reachable.
func (a *Auth) Health(ctx context.Context) error {
	return a.userStore.Ping(ctx)
}

func (a *Auth) findByEmail(ctx context.Context, email string) (model.User, error) {
	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierrors.NewErrUserNotFound()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}
