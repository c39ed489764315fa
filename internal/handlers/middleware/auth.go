package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/akarpov/userauth/internal/apperrors"
	"github.com/akarpov/userauth/internal/handlers/render"
	"github.com/akarpov/userauth/internal/handlers/userctx"
	"github.com/akarpov/userauth/internal/models"
)

type accessAuthorizer interface {
	// Extract and verify the access token from the request
	// Stateless: must not touch any repository
	AccessUserID(ctx context.Context, r *http.Request) (uuid.UUID, error)
}

type refreshAuthorizer interface {
	// Extract the refresh token from the request and verify signature
	// plus store membership, returning the live record
	CheckRefreshRequest(ctx context.Context, r *http.Request) (models.RefreshToken, error)
}

// Auth guards endpoints that require an access token.
// The decoded subject id is attached to the request context, token decode
// errors are surfaced verbatim so clients can tell malformed from expired.
func Auth(as accessAuthorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := as.AccessUserID(r.Context(), r)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			ctx := userctx.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Refresh guards endpoints that require a refresh token (newAuthToken, logout).
// Structurally identical to Auth but reads a different header and requires,
// after decode, a live record in the refresh token store.
func Refresh(as refreshAuthorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := as.CheckRefreshRequest(r.Context(), r)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			ctx := userctx.WithRefreshToken(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeAuthError renders expected auth outcomes with their literal messages
// and hides everything else behind a generic 500
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrAccessDenied):
		render.ServiceError(w, apperrors.ErrAccessDenied.Error(), http.StatusUnauthorized)
	case errors.Is(err, apperrors.ErrTokenMalformed):
		render.ServiceError(w, apperrors.ErrTokenMalformed.Error(), http.StatusUnauthorized)
	case errors.Is(err, apperrors.ErrTokenExpired):
		render.ServiceError(w, apperrors.ErrTokenExpired.Error(), http.StatusUnauthorized)
	case errors.Is(err, apperrors.ErrRefreshTokenNotFound):
		// Revoked or unknown record: same denial as a missing credential
		render.ServiceError(w, apperrors.ErrAccessDenied.Error(), http.StatusUnauthorized)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}
