package logger_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"memo-notes/src/logger"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	require.NoError(t, logger.InitLogger(logger.Options{Level: "warn", Directory: dir}))
	defer logger.CloseLogger()

	assert.Equal(t, logrus.WarnLevel, logger.Log.GetLevel())

	path := logger.GetCurrentLogFile()
	require.NotEmpty(t, path)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "app_"))

	logger.WithFields(logrus.Fields{"memo_id": "m1"}).Warn("test entry")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"memo_id":"m1"`)
	assert.Contains(t, string(raw), `"msg":"test entry"`)
}

func TestInitLogger_InvalidLevel(t *testing.T) {
	require.NoError(t, logger.InitLogger(logger.Options{Level: "loud", Directory: t.TempDir()}))
	defer logger.CloseLogger()

	assert.Equal(t, logrus.InfoLevel, logger.Log.GetLevel())
}

func TestCloseLogger(t *testing.T) {
	require.NoError(t, logger.InitLogger(logger.Options{Level: "error", Directory: t.TempDir()}))

	logger.CloseLogger()

	assert.Empty(t, logger.GetCurrentLogFile())
	assert.NotPanics(t, func() {
		logger.WithField("after", "close").Error("still writable")
		logger.CloseLogger()
	})
}
