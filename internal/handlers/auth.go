package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/akarpov/userauth/internal/apperrors"
	"github.com/akarpov/userauth/internal/handlers/render"
	"github.com/akarpov/userauth/internal/handlers/userctx"
	"github.com/akarpov/userauth/internal/logger"
	"github.com/akarpov/userauth/internal/models"
)

// Auth service contract the handlers need
type authService interface {
	// Register user
	// Has to return apperrors.ErrUserAlreadyExists if email is taken
	Register(ctx context.Context, name string, email string, password string) (models.User, error)

	// Login user with email and password
	// Has to return apperrors.ErrUserNotFound if email is unknown and
	// apperrors.ErrWrongPassword if the password doesn't match
	Login(ctx context.Context, email string, password string) (models.TokenPair, error)

	// Return the full user record for the authenticated id
	Me(ctx context.Context, userID uuid.UUID) (models.User, error)

	// Issue a new access token, keeping the refresh token unchanged
	Refresh(ctx context.Context, token models.RefreshToken) (models.TokenPair, error)

	// Delete the refresh token record
	Logout(ctx context.Context, token models.RefreshToken) error

	// Set auth tokens (access, refresh) to response headers
	SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair)
}

type AuthHandler struct {
	auth   authService
	logger logger.Logger
}

func NewAuth(auth authService, l logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: l}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	type RegisterRequest struct {
		Name     string `json:"name" validate:"required,min=2,max=255"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}
	type RegisterSuccessResponse struct {
		User uuid.UUID `json:"user"`
	}

	data, err := render.BindAndValidate[RegisterRequest](w, r)
	if err != nil {
		return
	}

	user, err := h.auth.Register(r.Context(), data.Name, data.Email, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "Email already exists", http.StatusBadRequest)
		default:
			h.logger.Error("register failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, RegisterSuccessResponse{User: user.ID})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	type LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	// Tokens go to the body and to the headers both, that duplication is a
	// deliberate part of the contract
	type LoginSuccessResponse struct {
		AuthToken      string    `json:"auth-token"`
		RefreshToken   string    `json:"refresh-token"`
		RefreshTokenID uuid.UUID `json:"refresh-token-id"`
	}

	data, err := render.BindAndValidate[LoginRequest](w, r)
	if err != nil {
		return
	}

	pair, err := h.auth.Login(r.Context(), data.Email, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "Email not found", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrWrongPassword):
			render.ServiceError(w, "password is wrong", http.StatusBadRequest)
		default:
			h.logger.Error("login failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.auth.SetTokenPairToResponse(w, pair)
	render.JSON(w, LoginSuccessResponse{
		AuthToken:      pair.Access,
		RefreshToken:   pair.Refresh,
		RefreshTokenID: pair.RefreshID,
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	// The password hash is returned on purpose: this is an authenticated
	// self lookup, not a public profile
	type MeResponse struct {
		ID       uuid.UUID `json:"_id"`
		Name     string    `json:"name"`
		Email    string    `json:"email"`
		Password string    `json:"password"`
	}

	userID, ok := userctx.UserID(r.Context())
	if !ok {
		render.ServiceError(w, apperrors.ErrAccessDenied.Error(), http.StatusUnauthorized)
		return
	}

	user, err := h.auth.Me(r.Context(), userID)
	if err != nil {
		h.logger.Error("me lookup failed", "error", err.Error())
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, MeResponse{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Password: user.HashedPassword,
	})
}

func (h *AuthHandler) NewAuthToken(w http.ResponseWriter, r *http.Request) {
	type RefreshSuccessResponse struct {
		Message string `json:"message"`
	}

	token, ok := userctx.RefreshToken(r.Context())
	if !ok {
		render.ServiceError(w, apperrors.ErrAccessDenied.Error(), http.StatusUnauthorized)
		return
	}

	pair, err := h.auth.Refresh(r.Context(), token)
	if err != nil {
		h.logger.Error("token refresh failed", "error", err.Error())
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// New auth token and the unchanged refresh token travel in headers only
	h.auth.SetTokenPairToResponse(w, pair)
	render.JSON(w, RefreshSuccessResponse{Message: "Auth token refreshed successfully"})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	type LogoutSuccessResponse struct {
		Message string `json:"message"`
	}

	token, ok := userctx.RefreshToken(r.Context())
	if !ok {
		render.ServiceError(w, apperrors.ErrAccessDenied.Error(), http.StatusUnauthorized)
		return
	}

	if err := h.auth.Logout(r.Context(), token); err != nil {
		h.logger.Error("logout failed", "error", err.Error())
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// No auth or refresh headers on logout, the session is gone
	render.JSON(w, LogoutSuccessResponse{Message: "Successfully logged out"})
}
