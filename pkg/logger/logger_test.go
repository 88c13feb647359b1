package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"quiz_engine/internal/config"
	"quiz_engine/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefaultLoggerIsUsable(t *testing.T) {
	require.NotNil(t, logger.Log)
	logger.Log.Info("no-op logger accepts writes", zap.Int("n", 1))
}

func TestInitLoggerWritesJSONFile(t *testing.T) {
	prev := logger.Log
	t.Cleanup(func() { logger.Log = prev })

	logFile := filepath.Join(t.TempDir(), "quiz.log")
	logger.InitLogger(&config.Config{
		App: config.AppConfig{Mode: "debug"},
		Log: config.LogConfig{File: logFile, MaxSize: 1, MaxBackups: 1, MaxAge: 1},
	})

	logger.Log.Debug("attempt started", zap.Uint("attempt_id", 7))
	_ = logger.Log.Sync()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"attempt started"`)
	assert.Contains(t, string(data), `"attempt_id":7`)
	assert.Contains(t, string(data), `"level":"DEBUG"`)
}
