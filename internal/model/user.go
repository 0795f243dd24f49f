package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// OTPTTL is how long an issued one-time code stays valid.
	OTPTTL = 10 * time.Minute
	// ResetTokenTTL is how long an exchanged reset token stays valid.
	ResetTokenTTL = 10 * time.Minute
)

// UserStore defines persistence operations for users.
//
// Implementations normalize the email on every write and report
// ErrAlreadyExists when the normalized email is taken. Update writes the
// whole record; concurrent updates are last-write-wins.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, user User) error
	Ping(ctx context.Context) error
}

// Role is the stored authorization role of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a stored user with credential and challenge state.
type User struct {
	ID            uuid.UUID
	Email         string
	Username      string
	PhoneNo       string
	PasswordHash  string
	Role          Role
	IsOTPVerified bool
	Challenge     Challenge
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PublicUser is the subset of user fields that may leave the server.
type PublicUser struct {
	ID       uuid.UUID `json:"_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
}

// Public strips credential and challenge material.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
