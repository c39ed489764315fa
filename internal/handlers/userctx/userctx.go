package userctx

import (
	"context"

	"github.com/google/uuid"

	"github.com/akarpov/userauth/internal/models"
)

type ctxKey string

const (
	userIDKey       ctxKey = "userID"
	refreshTokenKey ctxKey = "refreshToken"
)

// WithUserID returns a context carrying the authenticated user id
// Set by the access token guard, the id is the decoded token subject
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID extracts the authenticated user id from the context
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// WithRefreshToken returns a context carrying the verified refresh token record
// Set by the refresh token guard after the store membership check
func WithRefreshToken(ctx context.Context, token models.RefreshToken) context.Context {
	return context.WithValue(ctx, refreshTokenKey, token)
}

// RefreshToken extracts the verified refresh token record from the context
func RefreshToken(ctx context.Context) (models.RefreshToken, bool) {
	t, ok := ctx.Value(refreshTokenKey).(models.RefreshToken)
	return t, ok
}
