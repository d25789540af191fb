package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/hpfold/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: "info", NoColor: true, Output: &buf})

	log.Debug("hidden")
	log.Info("pool started", logger.WithField("workers", 4), logger.WithField("capacity", 1023))
	log.With(logger.WithField("worker", 2)).Warn("seed pruned")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO: pool started {capacity=1023, workers=4}")
	assert.Contains(t, out, "WARN: seed pruned {worker=2}")
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: "chatty", NoColor: true, Output: &buf})
	log.Debug("no")
	log.Error("yes")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "ERROR: yes")
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hpfold.log")
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: "debug", NoColor: true, Output: &buf, File: path})
	log.Debug("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DEBUG: to file")
	assert.Contains(t, buf.String(), "DEBUG: to file")
}

func TestNop(t *testing.T) {
	log := logger.Nop()
	require.NotNil(t, log)
	log.Error("discarded", logger.WithField("k", 1))
	log.With(logger.WithField("a", "b")).Info("discarded")
}
