package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/certzilla/auth-server/internal/model"
)

const uniqueViolation = "23505"

const userColumns = `id, email, username, phone_no, password_hash, role, is_otp_verified,
		challenge_kind, challenge_secret, challenge_expires_at, created_at, updated_at`

var _ model.UserStore = (*UserRepository)(nil)

type pinger interface {
	PingContext(ctx context.Context) error
}

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, model.NormalizeEmail(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (` + userColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  RETURNING ` + userColumns

	kind, secret, expiresAt := user.Challenge.Parts()
	saved, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, model.NormalizeEmail(user.Email), user.Username, user.PhoneNo, user.PasswordHash,
		string(user.Role), user.IsOTPVerified, string(kind), secret, expiresAt,
		user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.User{}, model.ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

// Update overwrites every mutable column of the row identified by user.ID.
func (r *UserRepository) Update(ctx context.Context, user model.User) error {
	query := `UPDATE users SET email = $2, username = $3, phone_no = $4, password_hash = $5,
			  role = $6, is_otp_verified = $7, challenge_kind = $8, challenge_secret = $9,
			  challenge_expires_at = $10, updated_at = $11
			  WHERE id = $1`

	kind, secret, expiresAt := user.Challenge.Parts()
	res, err := r.db.ExecContext(ctx, query,
		user.ID, model.NormalizeEmail(user.Email), user.Username, user.PhoneNo, user.PasswordHash,
		string(user.Role), user.IsOTPVerified, string(kind), secret, expiresAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrAlreadyExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	p, ok := r.db.(pinger)
	if !ok {
		return nil
	}
	return p.PingContext(ctx)
}

func scanUser(row *sql.Row) (model.User, error) {
	var (
		user      model.User
		role      string
		kind      string
		secret    sql.NullString
		expiresAt sql.NullTime
	)

	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.PhoneNo, &user.PasswordHash, &role, &user.IsOTPVerified,
		&kind, &secret, &expiresAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return model.User{}, err
	}

	user.Role = model.Role(role)
	if !user.Role.Valid() {
		return model.User{}, fmt.Errorf("unknown role %q for user %s", role, user.ID)
	}

	var exp *time.Time
	if expiresAt.Valid {
		exp = &expiresAt.Time
	}
	user.Challenge, err = model.RestoreChallenge(model.ChallengeKind(kind), secret.String, exp)
	if err != nil {
		return model.User{}, fmt.Errorf("corrupt challenge for user %s: %w", user.ID, err)
	}

	return user, nil
}
