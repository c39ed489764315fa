package tokenmanager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/akarpov/userauth/internal/apperrors"
	"github.com/akarpov/userauth/internal/models"
	"github.com/akarpov/userauth/internal/repository"
)

const (
	defaultAccessTokenTTL = 24 * time.Hour
	defaultSigningMethod  = "HS256"
)

type AccessTokenClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"uid"`
}

// RefreshTokenClaims deliberately carries no ExpiresAt: a refresh token
// lives until its backing record is deleted from the repository.
// The registered ID (jti) equals the record id, which makes the
// signature-plus-membership check a single lookup.
type RefreshTokenClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"uid"`
}

// Token manager config with sensible defaults
type Config struct {
	// Secret key to sign token payloads
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set then default is used
	Alg string

	// Access token lifetime
	// If not set then default is used
	AccessTTL time.Duration
}

type TokenManager struct {
	// Secret key to sign tokens
	key string

	// JWT MAC (Message Authentication Code) algorithm
	alg jwt.SigningMethod

	// Access token lifetime
	accessTTL time.Duration

	// Refresh token repo
	refreshRepo repository.RefreshTokenRepo
}

func New(cfg Config, refreshRepo repository.RefreshTokenRepo) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}

	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = defaultAccessTokenTTL
	}

	return &TokenManager{
		key:         cfg.SecretKey,
		alg:         jwt.GetSigningMethod(cfg.Alg),
		accessTTL:   cfg.AccessTTL,
		refreshRepo: refreshRepo,
	}, nil
}

// GenerateAccess issues a signed access token for the user
// Validity window is fixed at accessTTL from issuance
func (m *TokenManager) GenerateAccess(userID uuid.UUID) (string, error) {
	now := time.Now().Truncate(time.Second)

	token := jwt.NewWithClaims(
		m.alg,
		AccessTokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			},
			UserID: userID,
		},
	)

	access, err := token.SignedString([]byte(m.key))
	if err != nil {
		return "", fmt.Errorf("error while signing access token. Err: %w", err)
	}

	return access, nil
}

// GeneratePair issues an access token and a refresh token for the user
// and persists the refresh token record
func (m *TokenManager) GeneratePair(ctx context.Context, user models.User) (models.TokenPair, error) {
	var pair models.TokenPair
	now := time.Now().Truncate(time.Second)

	access, err := m.GenerateAccess(user.ID)
	if err != nil {
		return pair, err
	}

	// The record id is minted before signing so it can ride inside the
	// token as jti
	recordID := uuid.New()

	refreshToken := jwt.NewWithClaims(
		m.alg,
		RefreshTokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:       recordID.String(),
				IssuedAt: jwt.NewNumericDate(now),
			},
			UserID: user.ID,
		},
	)
	refresh, err := refreshToken.SignedString([]byte(m.key))
	if err != nil {
		return pair, fmt.Errorf("error while signing refresh token. Err: %w", err)
	}

	_, err = m.refreshRepo.Save(ctx, models.RefreshToken{
		ID:        recordID,
		UserID:    user.ID,
		Token:     refresh,
		CreatedAt: now,
	})
	if err != nil {
		return pair, fmt.Errorf("error while saving refresh token. Err: %w", err)
	}

	return models.TokenPair{
		Access:    access,
		Refresh:   refresh,
		RefreshID: recordID,
	}, nil
}

// ParseAccess parses and validates the access token: pure CPU work, no repo lookup
// Returns apperrors.ErrTokenMalformed or apperrors.ErrTokenExpired so callers
// can surface the exact kind to the client
func (m *TokenManager) ParseAccess(access string) (uuid.UUID, error) {
	claims := &AccessTokenClaims{}

	_, err := jwt.ParseWithClaims(
		access,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(m.key), nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
	)
	if err != nil {
		return uuid.Nil, decodeError(err)
	}

	return claims.UserID, nil
}

// CheckRefresh parses the refresh token and requires a live record for it.
// Signature validity alone is not enough: the record must still exist,
// deleting it revokes the token immediately.
func (m *TokenManager) CheckRefresh(ctx context.Context, refresh string) (models.RefreshToken, error) {
	var token models.RefreshToken
	claims := &RefreshTokenClaims{}

	_, err := jwt.ParseWithClaims(
		refresh,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(m.key), nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
	)
	if err != nil {
		return token, decodeError(err)
	}

	recordID, err := uuid.Parse(claims.ID)
	if err != nil {
		return token, apperrors.ErrTokenMalformed
	}

	token, err = m.refreshRepo.GetByID(ctx, recordID)
	if err != nil {
		return token, err
	}

	if token.Token != refresh {
		return models.RefreshToken{}, fmt.Errorf("token mismatch: %w", apperrors.ErrRefreshTokenNotFound)
	}

	return token, nil
}

// decodeError collapses jwt library errors into the two kinds the API
// exposes. Structural and signature defects win over expiry: a token that
// can't be verified is malformed even if its exp also elapsed.
func decodeError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return apperrors.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.ErrTokenExpired
	default:
		return apperrors.ErrTokenMalformed
	}
}
