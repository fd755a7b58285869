package logger_test

import (
	"bytes"
	"testing"

	"github.com/forgelabs/crossforge/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger.SetTestOutput(&buf)
	defer logger.UnsetTestOutput()

	logger.InitLogger("debug")
	logger.Debugf("fetching %s", "zlib")
	logger.Info("stage complete", logger.Fields{"package": "zlib", "stage": "build"})

	out := buf.String()
	assert.Contains(t, out, "fetching zlib")
	assert.Contains(t, out, "stage complete")
	assert.Contains(t, out, "package=zlib")
}

func TestLoggerSuppressesBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger.SetTestOutput(&buf)
	defer logger.UnsetTestOutput()

	logger.InitLogger("warn")
	logger.Infof("should not appear")
	logger.Warnf("should appear")

	out := buf.String()
	assert.NotContains(t, out, "should not appear")
	assert.Contains(t, out, "should appear")
}
