package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid employee code or password")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrTokenExpired        = errors.New("token has expired")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrGoogleEmailNotFound = errors.New("no active employee is registered with this Google account")
	ErrEmailNotVerified    = errors.New("google email is not verified")
	ErrMissingClaims       = errors.New("authentication claims are missing or invalid")
)
