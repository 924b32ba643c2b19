package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exact", truncate("exact", 5))
	assert.Equal(t, "abc…", truncate("abcdef", 3))

	// Rune-aware: Arabic text must not be cut mid-character.
	assert.Equal(t, "مرح…", truncate("مرحبا بكم", 3))
	assert.Equal(t, "", truncate("", 5))
}
