package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateHome points HOME at a temp dir so a real ~/.funnelkit/config.json
// never leaks into a test. Callers cannot use t.Parallel().
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	home := isolateHome(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".funnelkit", "funnels.db"), cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.Equal(t, 100, cfg.DefaultRolloutPercent)
}

func TestLoad_LocalOverride(t *testing.T) {
	isolateHome(t)

	configPath := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, configPath, `{"db_path": "/srv/funnels.db", "log_format": "json", "default_rollout_percent": 25}`)

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "/srv/funnels.db", cfg.DBPath)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 25, cfg.DefaultRolloutPercent)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_MissingLocalFileIsIgnored(t *testing.T) {
	isolateHome(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_OverridePrecedence(t *testing.T) {
	home := isolateHome(t)

	writeFile(t, filepath.Join(home, ".funnelkit", "config.json"),
		`{"log_level": "debug", "output_format": "text", "db_path": "/global.db"}`)
	localPath := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, localPath, `{"output_format": "json", "db_path": "/local.db"}`)
	t.Setenv("FUNNELKIT_DB_PATH", "/env.db")

	cfg, err := Load(localPath)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "global beats default")
	assert.Equal(t, "json", cfg.OutputFormat, "local beats global")
	assert.Equal(t, "/env.db", cfg.DBPath, "env beats local")
}

func TestLoad_EnvOverride(t *testing.T) {
	isolateHome(t)
	t.Setenv("FUNNELKIT_LOG_LEVEL", "WARN")
	t.Setenv("FUNNELKIT_DEFAULT_ROLLOUT_PERCENT", "40")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 40, cfg.DefaultRolloutPercent)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := map[string]struct {
		content string
	}{
		"unknown log level": {
			content: `{"log_level": "trace"}`,
		},
		"unknown log format": {
			content: `{"log_format": "logfmt"}`,
		},
		"unknown output format": {
			content: `{"output_format": "xml"}`,
		},
		"rollout above 100": {
			content: `{"default_rollout_percent": 150}`,
		},
		"negative rollout": {
			content: `{"default_rollout_percent": -1}`,
		},
		"empty db path": {
			content: `{"db_path": ""}`,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			isolateHome(t)
			configPath := filepath.Join(t.TempDir(), "config.json")
			writeFile(t, configPath, tc.content)

			_, err := Load(configPath)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
		})
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	isolateHome(t)
	configPath := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, configPath, `{"log_level": `)

	_, err := Load(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load local config")
}

func TestExpandHomePath(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input    string
		contains string
	}{
		"tilde prefix": {
			input:    "~/.funnelkit/funnels.db",
			contains: ".funnelkit/funnels.db",
		},
		"absolute path": {
			input:    "/absolute/path",
			contains: "/absolute/path",
		},
		"relative path": {
			input:    "./relative/path",
			contains: "./relative/path",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			result := expandHomePath(tc.input)
			assert.Contains(t, result, tc.contains)
			assert.NotContains(t, result, "~")
		})
	}
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  string
	}{
		"db path":         {input: "FUNNELKIT_DB_PATH", want: "db_path"},
		"rollout percent": {input: "FUNNELKIT_DEFAULT_ROLLOUT_PERCENT", want: "default_rollout_percent"},
		"already lower":   {input: "FUNNELKIT_log_level", want: "log_level"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, envTransform(tc.input))
		})
	}
}

func TestConfiguration_ValuesMatchKnownKeys(t *testing.T) {
	t.Parallel()

	cfg := &Configuration{DBPath: "/x.db", LogLevel: "info", LogFormat: "json", OutputFormat: "auto", DefaultRolloutPercent: 10}
	values := cfg.Values()
	assert.Len(t, values, len(KnownKeys))
	for key := range KnownKeys {
		assert.Contains(t, values, key)
	}
}
