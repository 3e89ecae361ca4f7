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

package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monready/monready/pkg/logger"
	"github.com/monready/monready/pkg/models"
)

func TestRefreshPostsToUpdateEndpoint(t *testing.T) {
	var gotPath, gotAuth, gotMethod string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method

		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	cfg := Config{BaseURL: srv.URL + "/", APIToken: "secret"}
	require.NoError(t, cfg.Validate())

	client := NewClient(cfg, logger.NewTestLogger())

	err := client.Refresh(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/inventory_sources/42/update/", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestRefreshNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	cfg := Config{BaseURL: srv.URL, APIToken: "secret"}
	require.NoError(t, cfg.Validate())

	client := NewClient(cfg, logger.NewTestLogger())

	err := client.Refresh(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnexpectedStatusCode)
	assert.Contains(t, err.Error(), "403")
}

func TestRefreshMissingConfiguration(t *testing.T) {
	client := NewClient(Config{}, logger.NewTestLogger())

	err := client.Refresh(context.Background(), 42)
	assert.ErrorIs(t, err, models.ErrConfigurationMissing)

	client = NewClient(Config{BaseURL: "http://localhost", APIToken: "secret"}, logger.NewTestLogger())

	err = client.Refresh(context.Background(), 0)
	assert.ErrorIs(t, err, models.ErrConfigurationMissing)
}

func TestConfigValidateDefaults(t *testing.T) {
	cfg := Config{BaseURL: "https://inv.example.com///", APIToken: "t"}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://inv.example.com", cfg.BaseURL)
	assert.NotZero(t, cfg.Timeout)
}
