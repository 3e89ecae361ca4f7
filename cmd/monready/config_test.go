/*
 * Copyright 2025 Monready Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "monready.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"database_dsn": "postgres://localhost/monready",
		"notify": {"base_url": "https://inv.example.com/", "api_token": "tok"}
	}`)

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "nats://localhost:4222", cfg.NATSURL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.True(t, cfg.Engine.RequireEnvironment)
	assert.Equal(t, "https://inv.example.com", cfg.Notify.BaseURL)
	assert.NotZero(t, cfg.Notify.Timeout)
}

func TestLoadConfigParsesDurations(t *testing.T) {
	path := writeConfig(t, `{
		"database_dsn": "postgres://localhost/monready",
		"debounce_window": "90s",
		"engine": {"require_environment": false}
	}`)

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, time.Duration(cfg.DebounceWindow))
	assert.False(t, cfg.Engine.RequireEnvironment)
}

func TestLoadConfigMissingDSN(t *testing.T) {
	path := writeConfig(t, `{}`)

	_, err := loadConfig(path)
	assert.ErrorIs(t, err, errMissingDatabase)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("MONREADY_API_TOKEN", "env-token")
	t.Setenv("MONREADY_API_KEY", "env-key")

	path := writeConfig(t, `{
		"database_dsn": "postgres://localhost/monready",
		"api_key": "file-key",
		"notify": {"api_token": "file-token"}
	}`)

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Notify.APIToken)
	assert.Equal(t, "env-key", cfg.APIKey)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
