package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the persisted record behind an issued refresh token.
// The record existence is the revocation state: while the row is there the
// token value is honored, delete the row and the token is dead no matter
// how valid its signature still is.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	CreatedAt time.Time
}

// Token pair issued by TokenManager on login
type TokenPair struct {
	Access  string
	Refresh string

	// ID of the persisted refresh token record.
	// Returned to the client as 'refresh-token-id'
	RefreshID uuid.UUID
}
