package localization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizer_GetWithFallback(t *testing.T) {
	l, err := New()
	require.NoError(t, err)

	assert.Equal(t, "مستخدم", l.Get("ar", "visitor_prefix"))
	assert.Equal(t, "Visitor", l.Get("en", "visitor_prefix"))

	// Unknown language falls back to English, unknown key to the key itself.
	assert.Equal(t, "Visitor", l.Get("fr", "visitor_prefix"))
	assert.Equal(t, "no_such_key", l.Get("ar", "no_such_key"))
}

func TestLocalizer_Getf(t *testing.T) {
	l, err := New()
	require.NoError(t, err)

	alert := l.Getf("en", "offline_alert", "Visitor c123", "hello")
	assert.Contains(t, alert, "Visitor c123")
	assert.Contains(t, alert, "hello")
}

func TestLocalizer_EveryArabicKeyHasEnglishCounterpart(t *testing.T) {
	l, err := New()
	require.NoError(t, err)

	for key := range l.translations["ar"] {
		_, ok := l.translations["en"][key]
		assert.True(t, ok, "key %q missing from en locale", key)
	}
}
