package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "lf", cfg.LineEnding)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Empty(t, cfg.Journal)
	assert.Empty(t, cfg.Lots)
}

func TestLoad_FullFile(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "fleetlot.cue"))
	require.NoError(t, err)

	assert.Equal(t, "legacy", cfg.LineEnding)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "fleetlot.db", cfg.Journal)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr)
	assert.Equal(t, []LotConfig{{Capacity: 5, Limit: 2}, {Capacity: 10, Limit: 3}}, cfg.Lots)
}

func TestParse_EmptyFileGetsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(""), "empty.cue")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code ErrorCode
	}{
		{name: "syntax", src: "line_ending: ", code: ErrCodeSyntax},
		{name: "unknown field", src: `colour: "blue"`, code: ErrCodeSchema},
		{name: "bad line ending", src: `line_ending: "cr"`, code: ErrCodeSchema},
		{name: "bad log level", src: `log_level: "loud"`, code: ErrCodeSchema},
		{name: "negative capacity", src: `lots: [{capacity: -1, limit: 2}]`, code: ErrCodeSchema},
		{name: "lot missing limit", src: `lots: [{capacity: 3}]`, code: ErrCodeSchema},
		{name: "non-int capacity", src: `lots: [{capacity: "3", limit: 1}]`, code: ErrCodeSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.cue")
			require.Error(t, err)

			var cfgErr *Error
			require.True(t, errors.As(err, &cfgErr), "got %T: %v", err, err)
			assert.Equal(t, tt.code, cfgErr.Code)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrCodeRead, cfgErr.Code)
}

func TestLoad_ErrorCarriesPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.cue")
	require.NoError(t, os.WriteFile(path, []byte("log_level: \"info\"\nline_ending: \"cr\"\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONFIG_SCHEMA")
}

func TestMerge(t *testing.T) {
	base := &Config{
		LineEnding: "crlf",
		LogLevel:   "info",
		Journal:    "a.db",
		HTTP:       HTTPConfig{Addr: ":8080"},
		Lots:       []LotConfig{{Capacity: 1, Limit: 1}},
	}

	merged := base.Merge(Overrides{LineEnding: "legacy", HTTPAddr: ":9000"})

	assert.Equal(t, "legacy", merged.LineEnding)
	assert.Equal(t, "info", merged.LogLevel)
	assert.Equal(t, "a.db", merged.Journal)
	assert.Equal(t, ":9000", merged.HTTP.Addr)
	assert.Equal(t, base.Lots, merged.Lots)

	// Base is untouched.
	assert.Equal(t, "crlf", base.LineEnding)
	assert.Equal(t, ":8080", base.HTTP.Addr)
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range tests {
		got, err := (&Config{LogLevel: name}).SlogLevel()
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	_, err := (&Config{LogLevel: "shout"}).SlogLevel()
	assert.Error(t, err)
}
