package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Asia/Kolkata", cfg.App.Timezone.String())
	assert.Equal(t, 500.0, cfg.Attendance.MaxDistanceMeters)
	assert.Equal(t, 720*time.Hour, cfg.Notification.TTL)
	assert.Equal(t, "en", cfg.Notification.DefaultLocale)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.CORSAllowedOrigins)
	assert.False(t, cfg.OAuth2Google.Enabled())
	assert.Empty(t, cfg.MongoDB.URI)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("GPS_MAX_DISTANCE_METERS", "250")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DEFAULT_LOCALE", "hi")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.UTC, cfg.App.Timezone)
	assert.Equal(t, 250.0, cfg.Attendance.MaxDistanceMeters)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSAllowedOrigins)
	assert.Equal(t, "hi", cfg.Notification.DefaultLocale)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing db password", map[string]string{"DB_PASSWORD": "", "JWT_SECRET_KEY": "x"}},
		{"missing jwt secret", map[string]string{"DB_PASSWORD": "x", "JWT_SECRET_KEY": ""}},
		{"bad timezone", map[string]string{"DB_PASSWORD": "x", "JWT_SECRET_KEY": "x", "APP_TIMEZONE": "Mars/Olympus"}},
		{"bad distance", map[string]string{"DB_PASSWORD": "x", "JWT_SECRET_KEY": "x", "GPS_MAX_DISTANCE_METERS": "-1"}},
		{"bad locale", map[string]string{"DB_PASSWORD": "x", "JWT_SECRET_KEY": "x", "DEFAULT_LOCALE": "fr"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
