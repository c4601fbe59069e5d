package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	l, err := New(true, true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New(false, false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestTruncateForLog(t *testing.T) {
	assert.Equal(t, "Burton", TruncateForLog("  Burton  ", 10))
	assert.Equal(t, "Bur...", TruncateForLog("Burton DeWilde", 3))
	assert.Equal(t, "", TruncateForLog("Burton", 0))
	assert.Equal(t, "Réd...", TruncateForLog("Rédaction", 3))
}
