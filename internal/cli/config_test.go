package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rdfpipe.yaml", `
tmp_dir: /var/tmp/rdfpipe
spill_threshold: 5000
workers: 3
prefixes:
  ex: http://example.org/
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/tmp/rdfpipe", cfg.TmpDir)
	assert.Equal(t, 5000, cfg.SpillThreshold)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, map[string]string{"ex": "http://example.org/"}, cfg.Prefixes)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "tmpdir: /tmp\n", "field tmpdir not found"},
		{"negative threshold", "spill_threshold: -1\n", "spill_threshold must not be negative"},
		{"negative workers", "workers: -2\n", "workers must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, dir, "c.yaml", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigMerge(t *testing.T) {
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	require.NoError(t, cmd.Flags().Parse([]string{"--workers", "7"}))
	opts := &RunOptions{TmpDir: "/flag/tmp", SpillThreshold: 100, Workers: 7}

	cfg := &Config{TmpDir: "/file/tmp", Workers: 2}
	cfg.merge(cmd.Flags(), opts)

	assert.Equal(t, "/file/tmp", cfg.TmpDir, "file value kept when flag unset")
	assert.Equal(t, 100, cfg.SpillThreshold, "flag default fills missing file value")
	assert.Equal(t, 7, cfg.Workers, "explicit flag overrides file")
}
