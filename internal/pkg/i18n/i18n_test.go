package i18n

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestT(t *testing.T) {
	require.NoError(t, Init("en"))

	t.Run("default locale", func(t *testing.T) {
		got := T(context.Background(), "notification.attendance_approved.title")
		assert.Equal(t, "Attendance approved", got)
	})

	t.Run("hindi from context", func(t *testing.T) {
		ctx := WithLocale(context.Background(), "hi")
		got := T(ctx, "notification.attendance_approved.title")
		assert.Equal(t, "उपस्थिति स्वीकृत", got)
	})

	t.Run("template data", func(t *testing.T) {
		got := T(context.Background(), "notification.attendance_confirmed.message", map[string]any{
			"Date":  "2026-03-02",
			"Actor": "Ravi Kumar",
		})
		assert.Equal(t, "Your attendance for 2026-03-02 was confirmed by Ravi Kumar.", got)
	})

	t.Run("unsupported locale falls back to default", func(t *testing.T) {
		ctx := WithLocale(context.Background(), "ta")
		got := T(ctx, "notification.travel_approved.title")
		assert.Equal(t, "Travel approved", got)
	})

	t.Run("unknown message returns id", func(t *testing.T) {
		assert.Equal(t, "does.not.exist", T(context.Background(), "does.not.exist"))
	})
}

func TestLocaleFromContext(t *testing.T) {
	require.NoError(t, Init("en"))

	assert.Equal(t, "en", LocaleFromContext(context.Background()))
	assert.Equal(t, "hi", LocaleFromContext(WithLocale(context.Background(), "hi")))
	assert.Equal(t, "en", LocaleFromContext(WithLocale(context.Background(), "")))
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("en"))
	assert.True(t, Supported("hi"))
	assert.False(t, Supported("fr"))
}
