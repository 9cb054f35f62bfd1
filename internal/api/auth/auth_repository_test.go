package auth

import (
	"context"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoloptim/ecoloptim-api/internal/types"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PostgresAuthRepo) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return mockPool, NewPostgresAuthRepo(mockPool, slog.Default())
}

func TestExistsByUsernameOrEmail(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		mockPool, repo := newMockRepo(t)

		mockPool.ExpectQuery(regexp.QuoteMeta("SELECT id FROM utilizatori WHERE username = $1 OR email = $2")).
			WithArgs("ana", "ana@x.ro").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

		taken, err := repo.ExistsByUsernameOrEmail(context.Background(), "ana", "ana@x.ro")

		assert.NoError(t, err)
		assert.True(t, taken)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mockPool, repo := newMockRepo(t)

		mockPool.ExpectQuery(regexp.QuoteMeta("SELECT id FROM utilizatori WHERE username = $1 OR email = $2")).
			WithArgs("ghost", "ghost@x.ro").
			WillReturnError(pgx.ErrNoRows)

		taken, err := repo.ExistsByUsernameOrEmail(context.Background(), "ghost", "ghost@x.ro")

		assert.NoError(t, err)
		assert.False(t, taken)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestInsertUser(t *testing.T) {
	cols := []string{"id", "username", "email", "rol", "nume_complet", "telefon", "activ", "creat_la"}

	t.Run("Success", func(t *testing.T) {
		mockPool, repo := newMockRepo(t)
		now := time.Now()

		mockPool.ExpectQuery("INSERT INTO utilizatori").
			WithArgs("ana", "ana@x.ro", "hash", "Ana Pop", (*string)(nil), "user").
			WillReturnRows(pgxmock.NewRows(cols).
				AddRow(int64(1), "ana", "ana@x.ro", "user", "Ana Pop", (*string)(nil), true, now))

		user, err := repo.InsertUser(context.Background(), "ana", "ana@x.ro", "hash", "Ana Pop", nil, "user")

		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, "user", user.Rol)
		assert.True(t, user.Activ)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("UniqueViolation", func(t *testing.T) {
		mockPool, repo := newMockRepo(t)

		mockPool.ExpectQuery("INSERT INTO utilizatori").
			WithArgs("ana", "ana@x.ro", "hash", "Ana Pop", (*string)(nil), "user").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "utilizatori_username_key"})

		user, err := repo.InsertUser(context.Background(), "ana", "ana@x.ro", "hash", "Ana Pop", nil, "user")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, types.ErrConflict)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestGetActiveByUsername(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		mockPool, repo := newMockRepo(t)

		mockPool.ExpectQuery("SELECT (.+) FROM utilizatori").
			WithArgs("ghost").
			WillReturnError(pgx.ErrNoRows)

		user, err := repo.GetActiveByUsername(context.Background(), "ghost")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Success", func(t *testing.T) {
		mockPool, repo := newMockRepo(t)
		now := time.Now()
		cols := []string{"id", "username", "email", "parola_hash", "nume_complet", "telefon", "rol", "activ", "creat_la"}

		mockPool.ExpectQuery("SELECT (.+) FROM utilizatori").
			WithArgs("ana").
			WillReturnRows(pgxmock.NewRows(cols).
				AddRow(int64(1), "ana", "ana@x.ro", "hash", "Ana Pop", (*string)(nil), "user", true, now))

		user, err := repo.GetActiveByUsername(context.Background(), "ana")

		require.NoError(t, err)
		assert.Equal(t, "hash", user.ParolaHash)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestGetProfileByID(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		mockPool, repo := newMockRepo(t)

		mockPool.ExpectQuery("SELECT (.+) FROM utilizatori").
			WithArgs(int64(99)).
			WillReturnError(pgx.ErrNoRows)

		profile, err := repo.GetProfileByID(context.Background(), 99)

		assert.Nil(t, profile)
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
