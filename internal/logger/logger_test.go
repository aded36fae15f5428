package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"DEBUG":   DEBUG,
		"info":    INFO,
		"Warn":    WARN,
		"WARNING": WARN,
		"ERROR":   ERROR,
		"":        INFO,
		"verbose": INFO,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestLoggerWritesFieldsAndRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: INFO, Output: &buf})
	require.NoError(t, err)

	l.Debug("hidden")
	l.WithFields(F("store", "tasks")).Info("dispatched", F("intent", "AddTask"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "dispatched")
	assert.Contains(t, out, "store=tasks")
	assert.Contains(t, out, "intent=AddTask")
}

func TestLoggerRotatesBySize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ironlist.log")
	l, err := New(Config{Level: DEBUG, FilePath: path, MaxSize: 64, MaxBackups: 2})
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	for i := 0; i < 5; i++ {
		l.Info("a message long enough to push the file past the limit")
	}

	_, err = os.Stat(path + ".1")
	assert.NoError(t, err, "expected a rotated backup")
	_, err = os.Stat(path + ".3")
	assert.True(t, os.IsNotExist(err), "backups are capped")
}

func TestWithFieldsBeforeInitIsSafe(t *testing.T) {
	l := WithFields(F("k", "v"))
	require.NotNil(t, l)
	l.Info("nobody listens")
}
