package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "vatask.log")

	l, closer, err := New("info", path)
	require.NoError(t, err)

	l.Info().Str("component", "test").Msg("hello")
	l.Debug().Msg("hidden")
	closer()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.Contains(t, string(data), `"component":"test"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New("loud", "")
	assert.Error(t, err)
}

func TestConsole_PlainTextForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	l := Console(&buf, zerolog.InfoLevel)

	l.Info().Str("list", "VATaskList").Msg("VATaskList already exists.")
	l.Debug().Msg("hidden")

	out := buf.String()
	assert.Contains(t, out, "VATaskList already exists.")
	assert.Contains(t, out, "list=VATaskList")
	assert.NotContains(t, out, "\x1b[")
	assert.NotContains(t, out, "hidden")
}
