package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/userauth/internal/apperrors"
	"github.com/akarpov/userauth/internal/models"
	"github.com/akarpov/userauth/internal/testutil"
)

func mustParseTime(value string) time.Time {
	dt, err := time.Parse("2006-01-02 15:04:05Z07:00", value)
	if err != nil {
		panic(err)
	}
	return dt
}

func Test_RefreshTokenRepo(t *testing.T) {
	t.Parallel() // It's ok to run in parallel with other tests, but not with subtests

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Token owner must exist, refresh tokens reference users
	createToken := func(t *testing.T, tx pgx.Tx) models.RefreshToken {
		t.Helper()

		users := UserRepo{DB: tx}
		user, err := users.CreateUser(t.Context(), "Mario", "mario@example.com", "hashed-password")
		require.NoError(t, err)

		return models.RefreshToken{
			ID:        uuid.New(),
			UserID:    user.ID,
			Token:     "encoded-refresh-token",
			CreatedAt: mustParseTime("2024-01-01 19:00:01Z"),
		}
	}

	t.Run("save token ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			token := createToken(t, tx)

			got, err := repo.Save(t.Context(), token)

			require.NoError(t, err)
			require.Equal(t, token.ID, got.ID)
			require.Equal(t, token.UserID, got.UserID)
			require.Equal(t, token.Token, got.Token)
			require.WithinDuration(t, token.CreatedAt, got.CreatedAt, time.Microsecond)
		})
	})

	t.Run("get token by id", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			token := createToken(t, tx)

			_, err := repo.Save(t.Context(), token)
			require.NoError(t, err)

			got, err := repo.GetByID(t.Context(), token.ID)

			require.NoError(t, err)
			require.Equal(t, token.Token, got.Token)
			require.Equal(t, token.UserID, got.UserID)
		})
	})

	t.Run("get fail if not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}

			_, err := repo.GetByID(t.Context(), uuid.New())

			require.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
		})
	})

	t.Run("delete token", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			token := createToken(t, tx)

			_, err := repo.Save(t.Context(), token)
			require.NoError(t, err)

			err = repo.DeleteByID(t.Context(), token.ID)
			require.NoError(t, err)

			_, err = repo.GetByID(t.Context(), token.ID)
			require.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound, "deleted record should be gone")
		})
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			token := createToken(t, tx)

			_, err := repo.Save(t.Context(), token)
			require.NoError(t, err)

			require.NoError(t, repo.DeleteByID(t.Context(), token.ID))
			require.NoError(t, repo.DeleteByID(t.Context(), token.ID), "deleting a missing id is not an error")
			require.NoError(t, repo.DeleteByID(t.Context(), uuid.New()), "deleting a never existed id is not an error")
		})
	})

	t.Run("records per login are independent", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			first := createToken(t, tx)
			second := models.RefreshToken{
				ID:        uuid.New(),
				UserID:    first.UserID,
				Token:     "other-encoded-refresh-token",
				CreatedAt: first.CreatedAt,
			}

			_, err := repo.Save(t.Context(), first)
			require.NoError(t, err)
			_, err = repo.Save(t.Context(), second)
			require.NoError(t, err)

			// Revoking one login session must not touch the other
			require.NoError(t, repo.DeleteByID(t.Context(), first.ID))

			_, err = repo.GetByID(t.Context(), second.ID)
			require.NoError(t, err, "second session should stay valid")
		})
	})
}
