package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudrakalshethra/academy-api/internal/models"
)

func TestFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "branch", "phone", "active", "created_at", "updated_at"}).
		AddRow("1", "Admin", "admin@example.com", "hash", string(models.RoleAdmin), string(models.BranchAll), "", true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash, role, branch, phone, active, created_at, updated_at FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("admin@example.com").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailExists(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("taken@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("free@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.EmailExists(context.Background(), "taken@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.EmailExists(context.Background(), "free@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleExists(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE role = $1 LIMIT 1")).
		WithArgs(models.RoleAdmin).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.RoleExists(context.Background(), models.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRefreshToken(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO refresh_tokens").WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateRefreshToken(context.Background(), &models.RefreshToken{
		ID: "rt-1", UserID: "usr-1", Token: "token", ExpiresAt: time.Now(), CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeRefreshToken(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE refresh_tokens SET revoked = true").
		WithArgs("rt-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RevokeRefreshToken(context.Background(), "rt-1", time.Now().UTC()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
