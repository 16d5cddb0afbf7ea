package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestService(userInfoURL string) *GoogleServiceImpl {
	svc := NewGoogleService("client-id", "client-secret", "http://localhost:8080/api/v1/auth/oauth/callback/google", []string{"email"}).(*GoogleServiceImpl)
	svc.userInfoURL = userInfoURL
	return svc
}

func TestGenerateState_Unique(t *testing.T) {
	svc := newTestService("")

	a, err := svc.GenerateState()
	require.NoError(t, err)
	b, err := svc.GenerateState()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43)
}

func TestRedirectURL_CarriesState(t *testing.T) {
	svc := newTestService("")

	u, err := url.Parse(svc.RedirectURL("abc"))
	require.NoError(t, err)
	assert.Equal(t, "abc", u.Query().Get("state"))
	assert.Equal(t, "client-id", u.Query().Get("client_id"))
	assert.Equal(t, "select_account", u.Query().Get("prompt"))
}

func TestProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"g-1","email":" Field.Officer@Example.org ","verified_email":true}`))
	}))
	defer srv.Close()

	profile, err := newTestService(srv.URL).Profile(context.Background(), &oauth2.Token{AccessToken: "access-123", TokenType: "Bearer"})
	require.NoError(t, err)
	assert.Equal(t, "field.officer@example.org", profile.Email)
	assert.True(t, profile.VerifiedEmail)
}

func TestProfile_RejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestService(srv.URL).Profile(context.Background(), &oauth2.Token{AccessToken: "x"})
	assert.ErrorContains(t, err, "unexpected status 401")
}
