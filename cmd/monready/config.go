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
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/monready/monready/pkg/engine"
	"github.com/monready/monready/pkg/logger"
	"github.com/monready/monready/pkg/models"
	"github.com/monready/monready/pkg/notify"
	"github.com/monready/monready/pkg/vocab"
)

var errMissingDatabase = errors.New("database_dsn is required")

type serviceConfig struct {
	ListenAddr     string                    `json:"listen_addr"`
	APIKey         string                    `json:"api_key"`
	DatabaseDSN    string                    `json:"database_dsn"`
	RedisAddr      string                    `json:"redis_addr"`
	RedisPassword  string                    `json:"redis_password"`
	RedisDB        int                       `json:"redis_db"`
	NATSURL        string                    `json:"nats_url"`
	BatchSize      int                       `json:"batch_size"`
	DebounceWindow models.Duration           `json:"debounce_window"`
	Engine         engine.Config             `json:"engine"`
	Notify         notify.Config             `json:"notify"`
	Vocabularies   map[string][]vocab.Choice `json:"vocabularies"`
	Logger         *logger.Config            `json:"logger"`
}

func loadConfig(path string) (*serviceConfig, error) {
	cfg := &serviceConfig{Engine: engine.DefaultConfig()}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *serviceConfig) validate() error {
	if c.DatabaseDSN == "" {
		return errMissingDatabase
	}

	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}

	if c.NATSURL == "" {
		c.NATSURL = "nats://localhost:4222"
	}

	if c.RedisAddr == "" {
		c.RedisAddr = "localhost:6379"
	}

	// Credentials may come from the environment instead of the file.
	if token := os.Getenv("MONREADY_API_TOKEN"); token != "" {
		c.Notify.APIToken = token
	}

	if key := os.Getenv("MONREADY_API_KEY"); key != "" {
		c.APIKey = key
	}

	return c.Notify.Validate()
}
