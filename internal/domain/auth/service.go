package auth

import (
	"context"
)

type AuthService interface {
	LoginWithEmployeeCode(ctx context.Context, req LoginEmployeeCodeRequest, session SessionTrackingRequest) (TokenResponse, error)
	LoginWithGoogle(ctx context.Context, googleEmail string, verified bool, session SessionTrackingRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}
