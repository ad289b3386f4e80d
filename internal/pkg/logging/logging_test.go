package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		Name     string
		Input    string
		Expected zapcore.Level
	}{
		{"debug", "debug", zapcore.DebugLevel},
		{"mixed case with spaces", "  Warn ", zapcore.WarnLevel},
		{"error", "error", zapcore.ErrorLevel},
		{"numeric", "-1", zapcore.DebugLevel},
	}

	for _, aTestCase := range testCases {
		t.Run(aTestCase.Name, func(t *testing.T) {
			level, err := ParseLevel(aTestCase.Input)
			require.NoError(t, err)
			assert.Equal(t, aTestCase.Expected, level)
		})
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")

	logger, err := FromEnv("debug")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))

	t.Setenv(EnvLogLevel, "nonsense")
	_, err = FromEnv("debug")
	require.Error(t, err)
}
