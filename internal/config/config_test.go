// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabasePathConfiguration(t *testing.T) {
	tests := []struct {
		name           string
		configContent  string
		envVar         string
		expectedInPath string
	}{
		{
			name: "default_next_to_config",
			configContent: `
host = "localhost"
port = 8080`,
			expectedInPath: "sqlited.db",
		},
		{
			name: "explicit_in_config",
			configContent: `
host = "localhost"
port = 8080
databasePath = "/custom/path.db"`,
			expectedInPath: "/custom/path.db",
		},
		{
			name: "env_var_override",
			configContent: `
host = "localhost"
port = 8080
databasePath = "/config/path.db"`,
			envVar:         "/env/override.db",
			expectedInPath: "/env/override.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.toml")
			err := os.WriteFile(configPath, []byte(tt.configContent), 0644)
			require.NoError(t, err)

			if tt.envVar != "" {
				os.Setenv("SQLITED__DATABASE_PATH", tt.envVar)
				defer os.Unsetenv("SQLITED__DATABASE_PATH")
			}

			cfg, err := New(configPath)
			require.NoError(t, err)

			dbPath := cfg.GetDatabasePath()
			if filepath.IsAbs(tt.expectedInPath) {
				assert.Equal(t, tt.expectedInPath, dbPath)
			} else {
				assert.Contains(t, dbPath, tt.expectedInPath)
			}
		})
	}
}

func TestBackwardCompatibility(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
host = "localhost"
port = 8080`

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := New(configPath)
	require.NoError(t, err)

	dbPath := cfg.GetDatabasePath()
	expectedPath := filepath.Join(tmpDir, "sqlited.db")
	assert.Equal(t, expectedPath, dbPath)
}

func TestEnvironmentVariablePrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
host = "localhost"
port = 8080
databasePath = "/config/file/path.db"`

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	os.Setenv("SQLITED__DATABASE_PATH", "/env/var/path.db")
	defer os.Unsetenv("SQLITED__DATABASE_PATH")

	cfg, err := New(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/env/var/path.db", cfg.GetDatabasePath())
}

func TestRetryDelayDefault(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`host = "localhost"`), 0644))

	cfg, err := New(configPath)
	require.NoError(t, err)

	assert.Equal(t, 2000, cfg.RetryDelayMs)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 7337, cfg.Port)
}

func TestListenAddr(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
host = "0.0.0.0"
port = 9999`), 0644))

	cfg, err := New(configPath)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9999", cfg.ListenAddr())
}
