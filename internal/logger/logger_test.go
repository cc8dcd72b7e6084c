package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestLevelFiltersOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("warn")
	t.Cleanup(func() {
		SetLevel("info")
		SetOutput(nil)
	})

	Infof("hidden %d", 1)
	Warnf("shown %d", 2)

	assert.NotContains(t, buf.String(), "hidden 1")
	assert.Contains(t, buf.String(), "shown 2")
}

func TestLLMTranscript(t *testing.T) {
	var buf bytes.Buffer
	SetLLMWriter(&buf)
	t.Cleanup(func() { SetLLMWriter(nil) })

	assert.True(t, LLMEnabled())
	LogLLMRequest("A", "ollama:qwen2.5:7b", "sys", "user")
	LogLLMResponse("A", "ollama:qwen2.5:7b", "手心")
	LogLLMError("A", "ollama:qwen2.5:7b", errors.New("boom"))
	LogLLMError("A", "ollama:qwen2.5:7b", nil)

	out := buf.String()
	assert.Contains(t, out, "[LLM][request][A][ollama:qwen2.5:7b]")
	assert.Contains(t, out, "--- SYSTEM ---\nsys\n")
	assert.Contains(t, out, "--- RAW ---\n手心\n")
	assert.Contains(t, out, "--- ERROR ---\nboom\n")

	SetLLMWriter(nil)
	assert.False(t, LLMEnabled())
}
