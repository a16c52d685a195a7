package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerFormatsMessages(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewLoggerFrom(zap.New(core), "storage")

	l.Info("Loaded %d page(s)", 3)
	l.With("relation", 128).Warn("skipping %s", "hole")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Loaded 3 page(s)", entries[0].Message)
	assert.Equal(t, "storage", entries[0].LoggerName)
	assert.Equal(t, "skipping hole", entries[1].Message)
	assert.Equal(t, int64(128), entries[1].ContextMap()["relation"])
}

func TestConfigureLoggingRejectsBadInput(t *testing.T) {
	err := ConfigureLogging("loud", LogFormatConsole)
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrInvalidArgument))

	err = ConfigureLogging("info", "xml")
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrInvalidArgument))

	require.NoError(t, ConfigureLogging("debug", LogFormatJSON))
	require.NoError(t, ConfigureLogging("info", LogFormatConsole))
	assert.Equal(t, "catalog", NewLogger("catalog").Name())
}
