package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreLogger(t *testing.T) {
	t.Helper()
	level := logrus.GetLevel()
	t.Cleanup(func() {
		logrus.SetLevel(level)
		logrus.SetOutput(os.Stderr)
	})
}

func TestSetupLogging_Level(t *testing.T) {
	restoreLogger(t)

	require.NoError(t, setupLogging(logOptions{Level: "warn"}))
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())

	require.NoError(t, setupLogging(logOptions{Level: "warn", Verbose: true}))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	require.NoError(t, setupLogging(logOptions{Level: "trace", Verbose: true}))
	assert.Equal(t, logrus.TraceLevel, logrus.GetLevel(), "verbose never lowers verbosity")
}

func TestSetupLogging_InvalidLevel(t *testing.T) {
	restoreLogger(t)
	assert.Error(t, setupLogging(logOptions{Level: "loud"}))
}

func TestSetupLogging_File(t *testing.T) {
	restoreLogger(t)
	path := filepath.Join(t.TempDir(), "logs", "lineage-sim.log")

	require.NoError(t, setupLogging(logOptions{Level: "info", File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}))
	logrus.Info("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
