package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrWrongPassword     = errors.New("wrong password")

	ErrRefreshTokenNotFound = errors.New("refresh token not found")

	// Returned when a guarded endpoint is called without its credential header
	ErrAccessDenied = errors.New("Access denied")

	// Token decode errors
	// The messages are part of the public API: clients receive them verbatim
	ErrTokenMalformed = errors.New("jwt malformed")
	ErrTokenExpired   = errors.New("jwt expired")
)
