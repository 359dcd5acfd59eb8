package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/ekrukov/shortly/internal/database"
)

var userColumns = []string{"id", "username", "password_hash", "created_at"}

func setupUserRepository(t testing.TB) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}

	db := sqlx.NewDb(mockDB, "sqlmock")
	repo := NewUserRepository(db)

	t.Cleanup(func() {
		mockDB.Close()
		db.Close()
	})

	return repo, mock
}

func TestUserRepository_Create(t *testing.T) {
	t.Run("user exists", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("johndoe", "hash").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationErrCode})

		user, err := repo.Create(context.TODO(), "johndoe", "hash")

		assert.Error(t, err)
		assert.ErrorIs(t, err, database.ErrUserExists)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown error", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("johndoe", "hash").
			WillReturnError(errUnknown)

		user, err := repo.Create(context.TODO(), "johndoe", "hash")

		assert.Error(t, err)
		assert.ErrorIs(t, err, errUnknown)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		rows := sqlmock.NewRows(userColumns).
			AddRow(7, "johndoe", "hash", time.Time{})

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("johndoe", "hash").
			WillReturnRows(rows)

		user, err := repo.Create(context.TODO(), "johndoe", "hash")

		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, int64(7), user.ID)
		assert.Equal(t, "johndoe", user.Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByUsername(t *testing.T) {
	t.Run("user not found", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByUsername(context.TODO(), "missing")

		assert.Error(t, err)
		assert.ErrorIs(t, err, database.ErrUserNotFound)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		rows := sqlmock.NewRows(userColumns).
			AddRow(7, "johndoe", "hash", time.Time{})

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs("johndoe").
			WillReturnRows(rows)

		user, err := repo.GetByUsername(context.TODO(), "johndoe")

		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "hash", user.PasswordHash)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
