package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/akarpov/userauth/internal/apperrors"
	"github.com/akarpov/userauth/internal/models"
)

type RefreshTokenRepo struct {
	DB DBTX
}

const saveToken = `-- name: SaveRefreshToken
INSERT INTO refresh_tokens (id, user_id, token, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, token, created_at
`

func (r *RefreshTokenRepo) Save(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, saveToken, token.ID, token.UserID, token.Token, token.CreatedAt)
	saved, err := pgx.CollectOneRow(rows, rowToRefreshToken)
	if err != nil {
		return saved, fmt.Errorf("db error: %w", err)
	}
	return saved, nil
}

const getTokenByID = `-- name: GetRefreshTokenByID
SELECT id, user_id, token, created_at
FROM refresh_tokens
WHERE id = $1
`

func (r *RefreshTokenRepo) GetByID(ctx context.Context, tokenID uuid.UUID) (models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, getTokenByID, tokenID)
	token, err := pgx.CollectOneRow(rows, rowToRefreshToken)

	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, pgx.ErrNoRows):
		return token, fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenNotFound)
	default:
		return token, fmt.Errorf("db error: %w", err)
	}
}

const deleteTokenByID = `-- name: DeleteRefreshTokenByID
DELETE FROM refresh_tokens
WHERE id = $1
`

// Delete token record
// Idempotent: removing an id that is gone already is not an error
func (r *RefreshTokenRepo) DeleteByID(ctx context.Context, tokenID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, deleteTokenByID, tokenID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func rowToRefreshToken(row pgx.CollectableRow) (models.RefreshToken, error) {
	var t models.RefreshToken
	err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt)
	return t, err
}
