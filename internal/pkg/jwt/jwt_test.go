package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() Service {
	return NewJWTService("test-secret-key-for-jwt-tests", 15*time.Minute, 24*time.Hour, false)
}

func TestGenerateAccessToken(t *testing.T) {
	svc := newTestService()

	token, expiresAt, err := svc.GenerateAccessToken(AccessClaims{
		EmployeeID:   "0190a7c2-4b7e-7d3a-9f10-2c4e5b6a7d81",
		EmployeeCode: "SAT-0142",
		Designation:  "MT",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0190a7c2-4b7e-7d3a-9f10-2c4e5b6a7d81", claims["employee_id"])
	assert.Equal(t, "SAT-0142", claims["employee_code"])
	assert.Equal(t, "MT", claims["designation"])
	assert.Equal(t, "access", claims["type"])
}

func TestSSEToken(t *testing.T) {
	svc := newTestService()

	t.Run("round trip", func(t *testing.T) {
		token, expiresIn, err := svc.GenerateSSEToken("emp-1")
		require.NoError(t, err)
		assert.Equal(t, 300, expiresIn)

		id, err := svc.ValidateSSEToken(token)
		require.NoError(t, err)
		assert.Equal(t, "emp-1", id)
	})

	t.Run("access token is rejected", func(t *testing.T) {
		token, _, err := svc.GenerateAccessToken(AccessClaims{EmployeeID: "emp-1", Designation: "DC"})
		require.NoError(t, err)

		_, err = svc.ValidateSSEToken(token)
		assert.Error(t, err)
	})

	t.Run("token signed with another key is rejected", func(t *testing.T) {
		other := NewJWTService("a-different-secret", time.Minute, time.Hour, false)
		token, _, err := other.GenerateSSEToken("emp-1")
		require.NoError(t, err)

		_, err = svc.ValidateSSEToken(token)
		assert.Error(t, err)
	})
}

func TestRefreshTokenCookie(t *testing.T) {
	svc := NewJWTService("secret", time.Minute, time.Hour, true)
	cookie := svc.RefreshTokenCookie("abc", time.Now().Add(time.Hour).Unix())

	assert.Equal(t, "refresh_token", cookie.Name)
	assert.Equal(t, "abc", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
}
