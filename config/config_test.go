package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alevel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "x", cfg.Analysis.Variable)
	assert.True(t, cfg.Analysis.Degrees)
	assert.Equal(t, int64(1<<20), cfg.Server.BodyLimit)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesKeepDefaults(t *testing.T) {
	path := writeFile(t, `
analysis:
  degrees: false
  root_samples: 4000
history:
  enabled: true
  store:
    in_memory: true
server:
  addr: ":9090"
  shutdown_timeout: 2s
log:
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Analysis.Degrees)
	assert.Equal(t, 4000, cfg.Analysis.RootSamples)
	assert.Equal(t, 2000, cfg.Analysis.PlotSamples)
	assert.True(t, cfg.History.Store.InMemory)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":   "analysis:\n  colour: red\n",
		"bad level":     "log:\n  level: loud\n",
		"bad samples":   "analysis:\n  plot_samples: 1\n",
		"bad variable":  "analysis:\n  variable: x1\n",
		"missing store": "history:\n  enabled: true\n  store:\n    path: \"\"\n",
		"bad yaml":      "analysis: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_DisabledHistorySkipsStoreChecks(t *testing.T) {
	cfg, err := Load(writeFile(t, "history:\n  enabled: false\n  store:\n    path: \"\"\n"))
	require.NoError(t, err)
	assert.False(t, cfg.History.Enabled)
}

func TestLogLogger(t *testing.T) {
	var buf bytes.Buffer
	Log{Level: "warn", Format: "json"}.Logger(&buf).Info("hidden")
	assert.Empty(t, buf.String())

	Log{Level: "debug", Format: "json"}.Logger(&buf).Debug("shown", "k", 1)
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	Log{Level: "info", Format: "text"}.Logger(&buf).Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}
