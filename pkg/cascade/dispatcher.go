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

// Package cascade re-runs the readiness pipeline for every managed entity
// referencing a changed platform or site.
package cascade

import (
	"context"

	"github.com/monready/monready/pkg/engine"
	"github.com/monready/monready/pkg/logger"
	"github.com/monready/monready/pkg/models"
)

const defaultBatchSize = 200

// SnapshotLister enumerates monitoring-enabled entities referencing a
// source entity, in stable id order, afterID exclusive.
type SnapshotLister interface {
	ListBySource(ctx context.Context, ref models.SourceRef, afterID int64, limit int) ([]*models.EntitySnapshot, error)
}

// Applier runs the populate-persist-route pipeline for one snapshot.
// *engine.Pipeline satisfies it.
type Applier interface {
	Apply(ctx context.Context, snap *models.EntitySnapshot, opts engine.PopulateOptions) (bool, error)
}

// Result reports how a cascade run went. Per-entity failures are counted,
// never raised.
type Result struct {
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
}

// Dispatcher walks the entities affected by a source change in bounded
// batches. It runs outside the triggering write and may overlap with
// further writes to the same entities; the engine's fill and override rules
// keep repeated application commutative.
type Dispatcher struct {
	lister    SnapshotLister
	applier   Applier
	batchSize int
	log       logger.Logger
}

func NewDispatcher(lister SnapshotLister, applier Applier, batchSize int, log logger.Logger) *Dispatcher {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &Dispatcher{
		lister:    lister,
		applier:   applier,
		batchSize: batchSize,
		log:       log,
	}
}

// OnSourceChanged recomputes every monitoring-enabled entity referencing
// the changed source. Source-derived fields are force-refreshed so the new
// upstream values win over stale copies.
func (d *Dispatcher) OnSourceChanged(ctx context.Context, ref models.SourceRef) (Result, error) {
	var res Result

	afterID := int64(0)

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		snaps, err := d.lister.ListBySource(ctx, ref, afterID, d.batchSize)
		if err != nil {
			return res, err
		}

		if len(snaps) == 0 {
			break
		}

		for _, snap := range snaps {
			afterID = snap.Entity.ID

			changed, err := d.applier.Apply(ctx, snap, engine.PopulateOptions{OverwriteSource: true})
			if err != nil {
				res.Errors++

				d.log.Warn().
					Err(err).
					Int64("entity_id", snap.Entity.ID).
					Str("kind", string(snap.Entity.Kind)).
					Msg("cascade skipped entity")

				continue
			}

			if changed {
				res.Updated++
			}
		}

		if len(snaps) < d.batchSize {
			break
		}
	}

	d.log.Info().
		Str("source_kind", string(ref.Kind)).
		Int64("source_id", ref.ID).
		Int("updated", res.Updated).
		Int("errors", res.Errors).
		Msg("cascade finished")

	return res, nil
}
