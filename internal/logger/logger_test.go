package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{"api_key", "sk-123", "topic", "Go", "dangling"})
	require.Len(t, out, 5)
	assert.Equal(t, "[REDACTED]", out[1])
	assert.Equal(t, "Go", out[3])
	assert.Equal(t, "dangling", out[4])
}

func TestNewDevLogger(t *testing.T) {
	log, err := New("dev")
	require.NoError(t, err)
	log.With("component", "test").Debug("hello")
	assert.NotNil(t, Nop().SugaredLogger)
}
