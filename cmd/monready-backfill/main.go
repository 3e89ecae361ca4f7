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

// Command monready-backfill repopulates derived monitoring attributes for
// all monitoring-enabled entities. It writes through the store directly and
// never triggers downstream refreshes, so it is safe to run over a large
// estate.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/monready/monready/pkg/backfill"
	"github.com/monready/monready/pkg/engine"
	"github.com/monready/monready/pkg/logger"
	"github.com/monready/monready/pkg/models"
	"github.com/monready/monready/pkg/store"
	"github.com/monready/monready/pkg/vocab"
)

type backfillConfig struct {
	DatabaseDSN  string                    `json:"database_dsn"`
	Engine       engine.Config             `json:"engine"`
	Vocabularies map[string][]vocab.Choice `json:"vocabularies"`
	Logger       *logger.Config            `json:"logger"`
}

func main() {
	configPath := flag.String("config", "/etc/monready/monready.json", "Path to config file")
	chunkSize := flag.Int("chunk-size", 200, "Store iterator chunk size")
	limit := flag.Int("limit", 0, "Max entities to process (0 = no limit)")
	devicesOnly := flag.Bool("devices-only", false, "Only process devices")
	vmsOnly := flag.Bool("vms-only", false, "Only process virtual machines")
	flag.Parse()

	cfg := &backfillConfig{Engine: engine.DefaultConfig()}

	data, err := os.ReadFile(*configPath)
	if err != nil {
		log.Fatalf("Failed to read config: %v", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		log.Fatalf("Failed to parse config: %v", err)
	}

	zl, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.NewPostgresStore(ctx, cfg.DatabaseDSN, zl)
	if err != nil {
		log.Fatalf("Failed to connect to entity store: %v", err)
	}
	defer st.Close()

	var kinds []models.EntityKind

	switch {
	case *devicesOnly && *vmsOnly:
		log.Fatal("--devices-only and --vms-only are mutually exclusive")
	case *devicesOnly:
		kinds = []models.EntityKind{models.KindDevice}
	case *vmsOnly:
		kinds = []models.EntityKind{models.KindVM}
	}

	resolver := vocab.NewResolver(vocab.NewStaticStore(cfg.Vocabularies), zl)
	eng := engine.New(cfg.Engine, resolver, zl)
	runner := backfill.NewRunner(eng, st, zl)

	res, err := runner.Run(ctx, backfill.Options{
		ChunkSize: *chunkSize,
		Limit:     *limit,
		Kinds:     kinds,
	})
	if err != nil {
		log.Fatalf("Backfill failed after %d entities: %v", res.Processed, err)
	}

	fmt.Printf("Done. processed=%d, updated=%d, errors=%d\n", res.Processed, res.Updated, res.Errors)
}
