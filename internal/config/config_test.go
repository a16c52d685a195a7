package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghosecorp/fdbreader/internal/storage"
	"github.com/ghosecorp/fdbreader/internal/util"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, storage.CharsetUTF8, cfg.CharsetValue())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"upper case level", func(c *Config) { c.LogLevel = "DEBUG" }, true},
		{"json", func(c *Config) { c.LogFormat = "json" }, true},
		{"lower case charset", func(c *Config) { c.Charset = "win1251" }, true},
		{"bad level", func(c *Config) { c.LogLevel = "verbose" }, false},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, false},
		{"bad charset", func(c *Config) { c.Charset = "KOI8R" }, false},
		{"zero workers", func(c *Config) { c.Workers = 0 }, false},
		{"too many workers", func(c *Config) { c.Workers = 1000 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, util.HasCode(err, util.ErrInvalidArgument))
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"FDBREADER_LOG_LEVEL": "debug",
		"FDBREADER_CHARSET":   "ISO8859_1",
		"FDBREADER_WORKERS":   " 8 ",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.applyEnv(lookup))
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, util.LogFormatConsole, cfg.LogFormat)
	assert.Equal(t, 8, cfg.Workers)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, storage.CharsetISO88591, cfg.CharsetValue())

	env["FDBREADER_WORKERS"] = "many"
	err := Default().applyEnv(lookup)
	assert.True(t, util.HasCode(err, util.ErrInvalidArgument))
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("FDBREADER_LOG_FORMAT=json\nFDBREADER_WORKERS=2\n"), 0o644))
	t.Setenv("FDBREADER_LOG_FORMAT", "")
	t.Setenv("FDBREADER_WORKERS", "")
	os.Unsetenv("FDBREADER_LOG_FORMAT")
	os.Unsetenv("FDBREADER_WORKERS")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 2, cfg.Workers)
}

func TestLoadEnvironmentWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("FDBREADER_LOG_LEVEL=error\n"), 0o644))
	t.Setenv("FDBREADER_LOG_LEVEL", "info")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
	assert.True(t, util.HasCode(err, util.ErrIO))
}
