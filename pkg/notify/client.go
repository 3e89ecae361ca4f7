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

// Package notify triggers inventory-source refreshes on the downstream
// inventory system.
package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/monready/monready/pkg/logger"
	"github.com/monready/monready/pkg/models"
)

const defaultTimeout = 30 * time.Second

var errUnexpectedStatusCode = errors.New("unexpected status code")

type Config struct {
	BaseURL            string          `json:"base_url"`
	APIToken           string          `json:"api_token"`
	PrimarySourceID    int64           `json:"primary_source_id"`
	RemoveSourceID     int64           `json:"remove_source_id"`
	Timeout            models.Duration `json:"timeout"`
	InsecureSkipVerify bool            `json:"insecure_skip_verify"`
}

func (c *Config) Validate() error {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	if time.Duration(c.Timeout) == 0 {
		c.Timeout = models.Duration(defaultTimeout)
	}

	return nil
}

// Client posts refresh requests to the inventory system. A missing base URL
// or token surfaces as a configuration error at dispatch time, never as a
// failure of the triggering write.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        logger.Logger
}

func NewClient(cfg Config, log logger.Logger) *Client {
	//nolint:gosec // deployments with private CAs opt in explicitly
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.Timeout),
		},
		log: log,
	}
}

// Refresh triggers an update of one inventory source. A timeout counts as a
// failure, not as unknown; the job layer decides whether to retry.
func (c *Client) Refresh(ctx context.Context, sourceID int64) error {
	if c.cfg.BaseURL == "" || c.cfg.APIToken == "" || sourceID == 0 {
		c.log.Warn().Int64("source_id", sourceID).Msg("refresh skipped: base url, token or source id unset")
		return fmt.Errorf("%w: inventory refresh endpoint", models.ErrConfigurationMissing)
	}

	url := fmt.Sprintf("%s/inventory_sources/%d/update/", c.cfg.BaseURL, sourceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, http.NoBody)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("inventory refresh for source %d: %w", sourceID, err)
	}

	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Warn().Err(cerr).Msg("failed to close refresh response body")
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("inventory refresh for source %d: %w: %d", sourceID, errUnexpectedStatusCode, resp.StatusCode)
	}

	c.log.Info().
		Int64("source_id", sourceID).
		Int("status", resp.StatusCode).
		Msg("inventory refresh triggered")

	return nil
}
