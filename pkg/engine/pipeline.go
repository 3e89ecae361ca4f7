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

//go:generate mockgen -destination=mock_engine.go -package=engine github.com/monready/monready/pkg/engine EntityStore,RefreshScheduler

package engine

import (
	"context"
	"fmt"

	"github.com/monready/monready/pkg/logger"
	"github.com/monready/monready/pkg/models"
	"github.com/monready/monready/pkg/route"
)

// EntityStore persists a mutated attribute map. The store validates before
// committing and returns an error wrapping models.ErrValidationFailed when
// the map violates a schema constraint.
type EntityStore interface {
	SaveAttributes(ctx context.Context, entity *models.ManagedEntity) error
}

// RefreshScheduler requests a debounced downstream refresh for a channel
// identified by its source id.
type RefreshScheduler interface {
	Request(ctx context.Context, sourceID int64)
}

// Pipeline runs the full write path for one entity: populate, persist, then
// route. Routing is evaluated strictly after the persist succeeds so the
// decision only ever observes durable state.
type Pipeline struct {
	engine *Engine
	store  EntityStore
	router *route.Router
	sched  RefreshScheduler
	log    logger.Logger
}

func NewPipeline(eng *Engine, store EntityStore, router *route.Router, sched RefreshScheduler, log logger.Logger) *Pipeline {
	return &Pipeline{engine: eng, store: store, router: router, sched: sched, log: log}
}

// Apply populates the snapshot's entity, persists it when anything changed,
// and requests a downstream refresh when the status transition warrants
// one. Persist errors propagate to the caller; refresh dispatch never does.
func (p *Pipeline) Apply(ctx context.Context, snap *models.EntitySnapshot, opts PopulateOptions) (bool, error) {
	entity := snap.Entity
	oldStatus := models.SyncStatus(entity.Attributes.String(models.AttrStatus))

	changed := p.engine.Populate(ctx, snap, opts)

	if changed {
		if err := p.store.SaveAttributes(ctx, entity); err != nil {
			p.log.Error().
				Err(err).
				Int64("entity_id", entity.ID).
				Str("kind", string(entity.Kind)).
				Interface("attributes", entity.Attributes).
				Msg("persisting derived attributes failed")

			return false, fmt.Errorf("entity %s/%d: %w", entity.Kind, entity.ID, err)
		}
	}

	newStatus := models.SyncStatus(entity.Attributes.String(models.AttrStatus))
	enabled := models.Truthy(entity.Attributes.Value(models.AttrMonitoringEnabled))

	action := p.router.Decide(entity.Kind, oldStatus, newStatus, enabled)
	if action != route.ActionNone {
		p.log.Info().
			Int64("entity_id", entity.ID).
			Str("kind", string(entity.Kind)).
			Str("old_status", string(oldStatus)).
			Str("new_status", string(newStatus)).
			Str("action", action.String()).
			Msg("status transition routed")

		p.sched.Request(ctx, p.router.SourceID(action))
	}

	return changed, nil
}
