package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/dirdiff/pkg/models"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.Compare.PreviewLimit)
	assert.Equal(t, 1, cfg.Performance.MaxWorkers)
	assert.Equal(t, ByteSize(4096), cfg.Performance.BufferSize)
	assert.Contains(t, cfg.Compare.Ignore, ".git")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"PreviewLimit", func(c *Config) { c.Compare.PreviewLimit = 0 }, "compare.preview_limit"},
		{"Workers", func(c *Config) { c.Performance.MaxWorkers = 0 }, "performance.max_workers"},
		{"BufferSize", func(c *Config) { c.Performance.BufferSize = 1024 }, "performance.buffer_size"},
		{"ReadLimit", func(c *Config) { c.Performance.ReadLimit = -1 }, "performance.read_limit"},
		{"OutputFormat", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"Color", func(c *Config) { c.Output.Color = "sometimes" }, "output.color"},
		{"LogFormat", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"LogLevel", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"MaxBackups", func(c *Config) { c.Logging.MaxBackups = -1 }, "logging.max_backups"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			var verr *models.ValidationError
			require.True(t, errors.As(cfg.Validate(), &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestLoadFromFile_PartialOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
compare:
  verbose: true
  ignore: ["*.tmp"]
performance:
  max_workers: 4
  buffer_size: 64K
  read_limit: 10M
output:
  color: never
`), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.Compare.Verbose)
	assert.Equal(t, []string{"*.tmp"}, cfg.Compare.Ignore)
	assert.Equal(t, 4, cfg.Performance.MaxWorkers)
	assert.Equal(t, ByteSize(65536), cfg.Performance.BufferSize)
	assert.Equal(t, ByteSize(10*1024*1024), cfg.Performance.ReadLimit)
	assert.Equal(t, "never", cfg.Output.Color)
	assert.Equal(t, "human", cfg.Output.Format, "unset keys keep defaults")
}

func TestLoadFromFile_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("output:\n  format: xml\n"), 0644))
	_, err := LoadFromFile(bad)
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("performance:\n  buffer_size: lots\n"), 0644))
	_, err = LoadFromFile(broken)
	assert.Error(t, err)

	_, err = LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Performance.BufferSize = 1024 * 1024
	cfg.Compare.Shallow = true
	require.NoError(t, SaveToFile(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# dirdiff configuration"))
	assert.Contains(t, string(data), "buffer_size: 1M")

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".config-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temporary file must not remain")

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFromFile_UnknownKeyRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compare:\n  verbos: true\n"), 0644))

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verbos")
}

func TestLoadFromFile_EmptyFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromFile_Normalizes(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
compare:
  ignore: [" *.tmp ", ""]
output:
  format: JSON
  color: Never
logging:
  level: DEBUG
  file: ~/logs/dirdiff.log
`), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"*.tmp"}, cfg.Compare.Ignore)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "never", cfg.Output.Color)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, filepath.Join(home, "logs", "dirdiff.log"), cfg.Logging.File)
}

func TestSaveToFile_InvalidLeavesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, SaveToFile(Default(), path))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	cfg := Default()
	cfg.Performance.MaxWorkers = 0
	assert.Error(t, SaveToFile(cfg, path))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseByteSize(t *testing.T) {
	tests := []struct {
		in      string
		want    ByteSize
		wantErr bool
	}{
		{"4096", 4096, false},
		{"64K", 65536, false},
		{"1 MiB", 1048576, false},
		{"1m", 1048576, false},
		{"lots", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseByteSize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
