package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/akarpov/userauth/internal/apperrors"
	"github.com/akarpov/userauth/internal/models"
	"github.com/akarpov/userauth/internal/repository"
	"github.com/akarpov/userauth/internal/service/auth/tokenmanager"
)

const (
	defaultAccessHeaderName  = "auth-token"
	defaultRefreshHeaderName = "refresh-token"
)

type Config struct {
	// Hasher to use during user registration or login
	// If not set then DefaultHasher is used
	Hasher PasswordHasher

	// Header names the tokens travel in
	// If not set then defaults are used
	AccessHeaderName  string
	RefreshHeaderName string
}

// Auth service
// Orchestrates registration, login, token refresh and logout
type AuthService struct {
	// Manager to issue and verify tokens
	token *tokenmanager.TokenManager

	// hasher to hash or compare user passwords
	hasher PasswordHasher

	// Repositories for long term data
	userRepo    repository.UserRepo
	refreshRepo repository.RefreshTokenRepo

	accessHeaderName  string
	refreshHeaderName string
}

func NewService(cfg Config, token *tokenmanager.TokenManager, userRepo repository.UserRepo, refreshRepo repository.RefreshTokenRepo) (*AuthService, error) {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	if cfg.AccessHeaderName == "" {
		cfg.AccessHeaderName = defaultAccessHeaderName
	}
	if cfg.RefreshHeaderName == "" {
		cfg.RefreshHeaderName = defaultRefreshHeaderName
	}

	return &AuthService{
		token:             token,
		hasher:            hasher,
		userRepo:          userRepo,
		refreshRepo:       refreshRepo,
		accessHeaderName:  cfg.AccessHeaderName,
		refreshHeaderName: cfg.RefreshHeaderName,
	}, nil
}

// Register creates a new user
// No tokens are issued at registration, the user logs in afterwards
func (s *AuthService) Register(ctx context.Context, name string, email string, password string) (models.User, error) {
	var user models.User

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password, error=%w", err)
	}

	user, err = s.userRepo.CreateUser(ctx, name, email, hash)
	if err != nil {
		return user, err
	}

	return user, nil
}

// Login verifies credentials and issues a fresh token pair
// The refresh token record is persisted before the pair is returned
func (s *AuthService) Login(ctx context.Context, email string, password string) (models.TokenPair, error) {
	var pair models.TokenPair

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return pair, err
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return pair, apperrors.ErrWrongPassword
	}

	pair, err = s.token.GeneratePair(ctx, user)
	if err != nil {
		return pair, fmt.Errorf("token could not generated, sorry. %w", err)
	}

	return pair, nil
}

// Me returns the full user record for an authenticated identity
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

// Refresh issues a new access token for the owner of a live refresh token.
// The refresh token itself is returned unchanged: no rotation, a record
// stays valid until explicitly deleted.
func (s *AuthService) Refresh(ctx context.Context, token models.RefreshToken) (models.TokenPair, error) {
	var pair models.TokenPair

	access, err := s.token.GenerateAccess(token.UserID)
	if err != nil {
		return pair, fmt.Errorf("token could not generated, sorry. %w", err)
	}

	return models.TokenPair{
		Access:    access,
		Refresh:   token.Token,
		RefreshID: token.ID,
	}, nil
}

// Logout deletes the refresh token record
// After that the token is permanently invalid even with a valid signature
func (s *AuthService) Logout(ctx context.Context, token models.RefreshToken) error {
	return s.refreshRepo.DeleteByID(ctx, token.ID)
}

// AccessUserID extracts and verifies the access token from the request.
// Stateless: no repo lookup, validity is purely cryptographic and time based.
func (s *AuthService) AccessUserID(ctx context.Context, r *http.Request) (uuid.UUID, error) {
	access := r.Header.Get(s.accessHeaderName)
	if access == "" {
		return uuid.Nil, apperrors.ErrAccessDenied
	}

	return s.token.ParseAccess(access)
}

// CheckRefreshRequest extracts the refresh token from the request and
// verifies both its signature and its record membership
func (s *AuthService) CheckRefreshRequest(ctx context.Context, r *http.Request) (models.RefreshToken, error) {
	refresh := r.Header.Get(s.refreshHeaderName)
	if refresh == "" {
		return models.RefreshToken{}, apperrors.ErrAccessDenied
	}

	return s.token.CheckRefresh(ctx, refresh)
}

// SetTokenPairToResponse sets both tokens as response headers
// Some endpoints additionally return them in the body, that duplication is
// an explicit part of the API contract
func (s *AuthService) SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair) {
	w.Header().Set(s.accessHeaderName, pair.Access)
	w.Header().Set(s.refreshHeaderName, pair.Refresh)
}

// SetTokenPairToRequest sets both tokens as request headers
// Intended for tests and clients built on net/http
func (s *AuthService) SetTokenPairToRequest(r *http.Request, pair models.TokenPair) {
	r.Header.Set(s.accessHeaderName, pair.Access)
	r.Header.Set(s.refreshHeaderName, pair.Refresh)
}

// IsAuthError reports whether err is an expected authentication outcome
// rather than an internal failure
func IsAuthError(err error) bool {
	return errors.Is(err, apperrors.ErrAccessDenied) ||
		errors.Is(err, apperrors.ErrTokenMalformed) ||
		errors.Is(err, apperrors.ErrTokenExpired) ||
		errors.Is(err, apperrors.ErrRefreshTokenNotFound)
}
