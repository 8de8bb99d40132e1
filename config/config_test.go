package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Parse(nil)
		require.NoError(t, err)
		require.Equal(t, Default(), cfg)
	})

	t.Run("overrides", func(t *testing.T) {
		cfg, err := Parse([]byte("chunkSize: 60000\nmaxMessageLength: 1024\nlogLevel: debug\ndebug: true\n"))
		require.NoError(t, err)
		require.Equal(t, uint32(60000), cfg.ChunkSize)
		require.Equal(t, uint32(1024), cfg.MaxMessageLength)
		require.Equal(t, DefaultWindowAckSize, cfg.WindowAckSize)
		require.Equal(t, "debug", cfg.LogLevel)
		require.True(t, cfg.Debug)
	})

	for _, tt := range []struct {
		name string
		yaml string
	}{
		{"zero chunk size", "chunkSize: 0\n"},
		{"chunk size top bit", "chunkSize: 2147483648\n"},
		{"message length too large", "maxMessageLength: 16777216\n"},
		{"zero window", "windowAckSize: 0\n"},
		{"unknown level", "logLevel: loud\n"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("chunkSize: ["))
		require.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtmp.yml")
	require.NoError(t, os.WriteFile(path, []byte("windowAckSize: 5000000\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, uint32(5000000), cfg.WindowAckSize)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}
