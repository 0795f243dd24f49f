package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certzilla/auth-server/internal/model"
)

var columns = []string{
	"id", "email", "username", "phone_no", "password_hash", "role", "is_otp_verified",
	"challenge_kind", "challenge_secret", "challenge_expires_at", "created_at", "updated_at",
}

func newRepoWithMock(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewUserRepository(db), mock
}

func TestNewUserRepository(t *testing.T) {
	db := &Connection{}
	repo := NewUserRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)
	expires := now.Add(10 * time.Minute)

	tests := []struct {
		name      string
		rows      *sqlmock.Rows
		queryErr  error
		wantErr   error
		wantKind  model.ChallengeKind
		wantEmail string
	}{
		{
			name: "user without challenge",
			rows: sqlmock.NewRows(columns).
				AddRow(id.String(), "a@b.com", "alice", "123", "hash", "user", false, "none", nil, nil, now, now),
			wantKind:  model.ChallengeNone,
			wantEmail: "a@b.com",
		},
		{
			name: "user with pending otp",
			rows: sqlmock.NewRows(columns).
				AddRow(id.String(), "a@b.com", "alice", "123", "hash", "user", false, "otp", "123456", expires, now, now),
			wantKind:  model.ChallengeOTP,
			wantEmail: "a@b.com",
		},
		{
			name:     "not found",
			queryErr: sql.ErrNoRows,
			wantErr:  model.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)

			exp := mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).WithArgs("a@b.com")
			if tt.queryErr != nil {
				exp.WillReturnError(tt.queryErr)
			} else {
				exp.WillReturnRows(tt.rows)
			}

			got, err := repo.GetByEmail(context.Background(), "  A@B.com ")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, id, got.ID)
				assert.Equal(t, tt.wantEmail, got.Email)
				assert.Equal(t, model.RoleUser, got.Role)
				assert.Equal(t, tt.wantKind, got.Challenge.Kind())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByID_CorruptChallenge(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(id.String(), "a@b.com", "alice", "123", "hash", "user", false, "reset", nil, nil, now, now))

	_, err := repo.GetByID(context.Background(), id)
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_UnknownRole(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(id.String(), "a@b.com", "alice", "123", "hash", "superuser", false, "none", nil, nil, now, now))

	_, err := repo.GetByID(context.Background(), id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown role "superuser"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.New(),
		Email:        "New@Example.com",
		Username:     "new",
		PhoneNo:      "555",
		PasswordHash: "hash",
		Role:         model.RoleUser,
		Challenge:    model.NoChallenge(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tests := []struct {
		name     string
		queryErr error
		wantErr  error
	}{
		{name: "success"},
		{name: "duplicate email", queryErr: &pgconn.PgError{Code: "23505"}, wantErr: model.ErrAlreadyExists},
		{name: "db error", queryErr: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)

			exp := mock.ExpectQuery(`INSERT INTO users`).WithArgs(
				user.ID, "new@example.com", "new", "555", "hash", "user", false, "none", nil, nil,
				sqlmock.AnyArg(), sqlmock.AnyArg(),
			)
			if tt.queryErr != nil {
				exp.WillReturnError(tt.queryErr)
			} else {
				exp.WillReturnRows(sqlmock.NewRows(columns).
					AddRow(user.ID.String(), "new@example.com", "new", "555", "hash", "user", false, "none", nil, nil, now, now))
			}

			saved, err := repo.Create(context.Background(), user)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.queryErr != nil:
				require.Error(t, err)
				assert.Contains(t, err.Error(), "db down")
			default:
				require.NoError(t, err)
				assert.Equal(t, "new@example.com", saved.Email)
				assert.Equal(t, model.ChallengeNone, saved.Challenge.Kind())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Update(t *testing.T) {
	expires := time.Now().Add(10 * time.Minute).UTC()
	user := model.User{
		ID:           uuid.New(),
		Email:        "a@b.com",
		Username:     "alice",
		PhoneNo:      "123",
		PasswordHash: "hash",
		Role:         model.RoleUser,
		Challenge:    model.ResetPending("tokenhash", expires),
		UpdatedAt:    time.Now(),
	}

	t.Run("writes challenge parts", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)

		mock.ExpectExec(`UPDATE users SET`).
			WithArgs(user.ID, "a@b.com", "alice", "123", "hash", "user", false, "reset", "tokenhash", expires, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Update(context.Background(), user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)

		mock.ExpectExec(`UPDATE users SET`).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(context.Background(), user), model.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)

		mock.ExpectExec(`UPDATE users SET`).WillReturnError(errors.New("db down"))

		err := repo.Update(context.Background(), user)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to update user")
	})
}

func TestUserRepository_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectPing().WillReturnError(errors.New("unreachable"))

	repo := NewUserRepository(db)
	assert.Error(t, repo.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
