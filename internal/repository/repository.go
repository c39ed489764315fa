package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/akarpov/userauth/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with the same email exists already has to return apperrors.ErrUserAlreadyExists
	// The email uniqueness check and the insert are atomic: two concurrent
	// registrations with the same email must not create two users
	CreateUser(ctx context.Context, name string, email string, hashedPassword string) (models.User, error)

	// Get user by it's id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

// RefreshToken repository interface
type RefreshTokenRepo interface {
	// Persist refresh token record
	Save(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error)

	// Return token record by it's id
	// If record not found must return apperrors.ErrRefreshTokenNotFound
	GetByID(ctx context.Context, tokenID uuid.UUID) (models.RefreshToken, error)

	// Delete token record by it's id
	// Idempotent: deleting a record that is already gone is not an error
	DeleteByID(ctx context.Context, tokenID uuid.UUID) error
}
