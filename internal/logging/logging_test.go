package logging

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLoggerSharedSink(t *testing.T) {
	mock := NewMockLogger()

	mock.Info("plain message")
	mock.WithField("key", "value").Warn("derived message")
	mock.WithError(errors.New("boom")).Error("failed")

	entries := mock.Entries()
	require.Len(t, entries, 3)
	assert.True(t, mock.HasEntry("info", "plain message"))
	assert.True(t, mock.HasEntry("warn", "derived message"))
	assert.True(t, mock.HasEntry("error", "failed"))
	assert.False(t, mock.HasEntry("info", "never logged"))

	// Derived logger fields are attached to the recorded entry.
	assert.Equal(t, "key", entries[1].Fields[0].Key)
}

func TestNewLogrusAdapterLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"info", logrus.InfoLevel},
		{"warn", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"nonsense", logrus.InfoLevel},
	}

	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			adapter, ok := NewLogrusAdapter(tc.level, "text").(*LogrusAdapter)
			require.True(t, ok)
			assert.Equal(t, tc.expected, adapter.logger.GetLevel())
		})
	}
}

func TestAdapterDerivation(t *testing.T) {
	logger := NewLogrusAdapter("debug", "json")

	derived := logger.WithField("component", "test").WithFields(Field{Key: "n", Value: 1})
	require.NotNil(t, derived)

	withErr := derived.WithError(errors.New("boom"))
	require.NotNil(t, withErr)
}
