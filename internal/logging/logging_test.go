package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestSetup_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "smartmix.log")

	logger, closer, err := Setup(Options{Level: "info", File: path})
	require.NoError(t, err)
	logger.Debug().Msg("hidden")
	logger.Info().Str("mix", "Chill").Msg("mix saved")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "mix saved", rec["message"])
	assert.Equal(t, "Chill", rec["mix"])
	assert.Equal(t, "info", rec["level"])
	assert.IsType(t, float64(0), rec["time"], "time should be unix seconds")
}

func TestSetup_ConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := Setup(Options{Level: "debug", Console: &buf})
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestSetup_BadLevel(t *testing.T) {
	_, _, err := Setup(Options{Level: "chatty"})
	assert.Error(t, err)
}
