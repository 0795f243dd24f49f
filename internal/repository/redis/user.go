// Package redis stores users as JSON documents in redis, one key per user
// plus an email index key.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/certzilla/auth-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	client redis.UniversalClient
	prefix string
}

func NewUserRepository(client redis.UniversalClient, prefix string) *UserRepository {
	if prefix == "" {
		prefix = "certzilla"
	}
	return &UserRepository{
		client: client,
		prefix: prefix,
	}
}

type challengeDocument struct {
	Kind      model.ChallengeKind `json:"kind"`
	Secret    *string             `json:"secret,omitempty"`
	ExpiresAt *time.Time          `json:"expiresAt,omitempty"`
}

type userDocument struct {
	ID            uuid.UUID         `json:"_id"`
	Email         string            `json:"email"`
	Username      string            `json:"username"`
	PhoneNo       string            `json:"phone_no"`
	PasswordHash  string            `json:"password"`
	Role          model.Role        `json:"role"`
	IsOTPVerified bool              `json:"isOtpVerified"`
	Challenge     challengeDocument `json:"challenge"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

func (r *UserRepository) userKey(id uuid.UUID) string {
	return r.prefix + ":user:" + id.String()
}

func (r *UserRepository) emailKey(email string) string {
	return r.prefix + ":email:" + model.NormalizeEmail(email)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	rawID, err := r.client.Get(ctx, r.emailKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return model.User{}, fmt.Errorf("corrupt email index for %s: %w", email, err)
	}

	return r.GetByID(ctx, id)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	data, err := r.client.Get(ctx, r.userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return decodeUser(data)
}

// Create claims the email index with SETNX before writing the document.
func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	user.Email = model.NormalizeEmail(user.Email)

	claimed, err := r.client.SetNX(ctx, r.emailKey(user.Email), user.ID.String(), 0).Result()
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	if !claimed {
		return model.User{}, model.ErrAlreadyExists
	}

	data, err := encodeUser(user)
	if err != nil {
		_ = r.client.Del(ctx, r.emailKey(user.Email)).Err()
		return model.User{}, err
	}

	if err := r.client.Set(ctx, r.userKey(user.ID), data, 0).Err(); err != nil {
		_ = r.client.Del(ctx, r.emailKey(user.Email)).Err()
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Update replaces the stored document. A changed email moves the index key.
func (r *UserRepository) Update(ctx context.Context, user model.User) error {
	current, err := r.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}

	user.Email = model.NormalizeEmail(user.Email)
	if user.Email != current.Email {
		claimed, err := r.client.SetNX(ctx, r.emailKey(user.Email), user.ID.String(), 0).Result()
		if err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		if !claimed {
			return model.ErrAlreadyExists
		}
	}

	data, err := encodeUser(user)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.userKey(user.ID), data, 0)
		if user.Email != current.Email {
			pipe.Del(ctx, r.emailKey(current.Email))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func encodeUser(user model.User) ([]byte, error) {
	kind, secret, expiresAt := user.Challenge.Parts()

	data, err := json.Marshal(userDocument{
		ID:            user.ID,
		Email:         user.Email,
		Username:      user.Username,
		PhoneNo:       user.PhoneNo,
		PasswordHash:  user.PasswordHash,
		Role:          user.Role,
		IsOTPVerified: user.IsOTPVerified,
		Challenge:     challengeDocument{Kind: kind, Secret: secret, ExpiresAt: expiresAt},
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode user: %w", err)
	}

	return data, nil
}

func decodeUser(data []byte) (model.User, error) {
	var doc userDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.User{}, fmt.Errorf("failed to decode user: %w", err)
	}

	var secret string
	if doc.Challenge.Secret != nil {
		secret = *doc.Challenge.Secret
	}
	challenge, err := model.RestoreChallenge(doc.Challenge.Kind, secret, doc.Challenge.ExpiresAt)
	if err != nil {
		return model.User{}, fmt.Errorf("corrupt challenge for user %s: %w", doc.ID, err)
	}
	if !doc.Role.Valid() {
		return model.User{}, fmt.Errorf("unknown role %q for user %s", doc.Role, doc.ID)
	}

	return model.User{
		ID:            doc.ID,
		Email:         doc.Email,
		Username:      doc.Username,
		PhoneNo:       doc.PhoneNo,
		PasswordHash:  doc.PasswordHash,
		Role:          doc.Role,
		IsOTPVerified: doc.IsOTPVerified,
		Challenge:     challenge,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}, nil
}
