package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelInfo, ParseLevel("info"))
	assert.Equal(t, LevelWarn, ParseLevel("warn"))
	assert.Equal(t, LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelNone, ParseLevel("off"))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelWarn, false)

	log.Debug("hidden %d", 1)
	log.Info("also hidden")
	log.Warn("visible warning")
	log.Error("visible error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN] visible warning")
	assert.Contains(t, out, "ERROR] visible error")
}

func TestDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelDebug, false)
	log.Debug("visible at debug")
	assert.Contains(t, buf.String(), "DEBUG] visible at debug")
}

func TestNoopDiscards(t *testing.T) {
	// Must not panic; Noop satisfies Logger with no output sink at all.
	var log Logger = Noop{}
	log.Debug("x")
	log.Info("x")
	log.Warn("x")
	log.Error("x")
}
