package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("debug", false)
	require.NoError(t, err)
	assert.NotNil(t, l.With("component", "test"))
}

func TestNewLogger_BadLevelFallsBack(t *testing.T) {
	l, err := NewLogger("loud", true)
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Info("ignored", "key", "value")
	assert.NotNil(t, l.With("a", 1))
}
