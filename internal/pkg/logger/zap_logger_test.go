package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogsFiltersAndPaginates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.log")
	l := NewZapLogger(path, true)

	l.Info("ENGINE", "session started", map[string]interface{}{"session_id": 1})
	l.Error("GATEWAY", "send failed", map[string]interface{}{"phone": "+15550100001"})
	l.Info("ENGINE", "session closed", nil)

	// Newest first.
	all, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "session closed", all[0].Message)
	assert.Equal(t, "session started", all[2].Message)

	// Zap writes capital levels; the filter matches however the operator
	// typed it.
	errorsOnly, err := l.GetLogs("error", 10, 0)
	require.NoError(t, err)
	require.Len(t, errorsOnly, 1)
	assert.Equal(t, "send failed", errorsOnly[0].Message)
	assert.Equal(t, "GATEWAY", errorsOnly[0].Module)

	page, err := l.GetLogs("", 2, 1)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	// An offset past the end is an empty page, not an error.
	empty, err := l.GetLogs("", 10, 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetLogByIdRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.log")
	l := NewZapLogger(path, true)

	l.Warn("NOTIFIER", "smtp not configured", nil)

	logs, err := l.GetLogs("", 1, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	got, err := l.GetLogById(logs[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "smtp not configured", got.Message)

	_, err = l.GetLogById("not-a-real-id")
	assert.EqualError(t, err, "log not found")
}

func TestGetLogsMissingFileIsEmpty(t *testing.T) {
	l := NewZapLogger(filepath.Join(t.TempDir(), "never-written.log"), true)

	entries, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
