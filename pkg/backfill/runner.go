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

// Package backfill repopulates derived attributes for every
// monitoring-enabled entity in bulk.
package backfill

import (
	"context"

	"github.com/monready/monready/pkg/engine"
	"github.com/monready/monready/pkg/logger"
	"github.com/monready/monready/pkg/models"
	"github.com/monready/monready/pkg/store"
)

const (
	defaultChunkSize = 200
	progressEvery    = 50
)

// Options controls one backfill run.
type Options struct {
	// ChunkSize is the page size for store iteration.
	ChunkSize int
	// Limit caps the number of processed entities; 0 means no cap.
	Limit int
	// Kinds restricts processing to the given entity kinds; nil means all.
	Kinds []models.EntityKind
}

// Result reports a finished run.
type Result struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	Errors    int `json:"errors"`
}

// Runner drives the engine over all monitoring-enabled entities in stable
// id order. It persists directly through the store and deliberately never
// touches the change router or scheduler: a backfill repopulating thousands
// of entities must not turn into a cascade storm.
type Runner struct {
	engine *engine.Engine
	store  store.Store
	log    logger.Logger
}

func NewRunner(eng *engine.Engine, st store.Store, log logger.Logger) *Runner {
	return &Runner{engine: eng, store: st, log: log}
}

// Run processes entities in chunks, force-refreshing source-derived fields.
// Per-entity failures are counted and skipped.
func (r *Runner) Run(ctx context.Context, opts Options) (Result, error) {
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	var res Result

	afterID := int64(0)

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		snaps, err := r.store.ListMonitored(ctx, opts.Kinds, afterID, chunkSize)
		if err != nil {
			return res, err
		}

		if len(snaps) == 0 {
			break
		}

		for _, snap := range snaps {
			if opts.Limit > 0 && res.Processed >= opts.Limit {
				return res, nil
			}

			afterID = snap.Entity.ID
			res.Processed++

			updated, err := r.processOne(ctx, snap)
			if err != nil {
				res.Errors++

				r.log.Warn().
					Err(err).
					Int64("entity_id", snap.Entity.ID).
					Str("kind", string(snap.Entity.Kind)).
					Msg("backfill skipped entity")
			} else if updated {
				res.Updated++
			}

			if res.Processed%progressEvery == 0 {
				r.log.Info().
					Int("processed", res.Processed).
					Int("updated", res.Updated).
					Int("errors", res.Errors).
					Msg("backfill progress")
			}
		}

		if len(snaps) < chunkSize {
			break
		}
	}

	r.log.Info().
		Int("processed", res.Processed).
		Int("updated", res.Updated).
		Int("errors", res.Errors).
		Msg("backfill finished")

	return res, nil
}

func (r *Runner) processOne(ctx context.Context, snap *models.EntitySnapshot) (bool, error) {
	changed := r.engine.Populate(ctx, snap, engine.PopulateOptions{OverwriteSource: true})
	if !changed {
		return false, nil
	}

	if err := r.store.SaveAttributes(ctx, snap.Entity); err != nil {
		return false, err
	}

	return true, nil
}
