package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWarn_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	Init("info")

	Warn("decoding degraded", Fields{"charset": "x-bogus"})

	out := buf.String()
	assert.Contains(t, out, "decoding degraded")
	assert.Contains(t, out, "charset=x-bogus")
	assert.Contains(t, out, "level=WARN")
}

func TestInit_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	Init("warn")

	Debug("hidden")
	Info("also hidden")
	Error("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestInit_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	Init("chatty")

	Debug("hidden")
	Info("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}
