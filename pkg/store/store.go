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

// Package store provides access to managed entities and their related
// source entities, with validating persistence of attribute maps.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/monready/monready/pkg/models"
)

// Store is the entity-store surface the readiness core depends on. All
// listings are in stable ascending id order with afterID exclusive, so
// callers can page without skipping under concurrent writes.
type Store interface {
	// Snapshot returns an entity with its platform, site and role resolved.
	Snapshot(ctx context.Context, kind models.EntityKind, id int64) (*models.EntitySnapshot, error)

	// SaveAttributes persists the entity's attribute map. It validates
	// first and returns an error wrapping models.ErrValidationFailed
	// without writing when the map is invalid.
	SaveAttributes(ctx context.Context, entity *models.ManagedEntity) error

	// ListBySource returns monitoring-enabled entities referencing the
	// given platform or site.
	ListBySource(ctx context.Context, ref models.SourceRef, afterID int64, limit int) ([]*models.EntitySnapshot, error)

	// ListMonitored returns monitoring-enabled entities of the given kinds;
	// nil kinds means all.
	ListMonitored(ctx context.Context, kinds []models.EntityKind, afterID int64, limit int) ([]*models.EntitySnapshot, error)
}

var knownStatuses = map[string]struct{}{
	string(models.StatusMissingData):   {},
	string(models.StatusNotSynced):     {},
	string(models.StatusSynced):        {},
	string(models.StatusRemovePending): {},
}

// ValidateAttributes enforces the schema constraints on an attribute map:
// present values must be non-empty scalars or string lists, and the status
// attribute must hold a known value.
func ValidateAttributes(attrs models.AttributeMap) error {
	var bad []string

	for key, value := range attrs {
		switch v := value.(type) {
		case string, bool, float64, int, int64:
		case []string:
			for _, s := range v {
				if strings.TrimSpace(s) == "" {
					bad = append(bad, key)
					break
				}
			}
		case []interface{}:
			for _, x := range v {
				if s, ok := x.(string); !ok || strings.TrimSpace(s) == "" {
					bad = append(bad, key)
					break
				}
			}
		case nil:
		default:
			bad = append(bad, key)
		}
	}

	if status := attrs.String(models.AttrStatus); status != "" {
		if _, ok := knownStatuses[status]; !ok {
			bad = append(bad, models.AttrStatus)
		}
	}

	if len(bad) > 0 {
		return fmt.Errorf("%w: invalid attributes %v", models.ErrValidationFailed, bad)
	}

	return nil
}

func matchesSource(entity *models.ManagedEntity, ref models.SourceRef) bool {
	switch ref.Kind {
	case models.SourcePlatform:
		return entity.PlatformID == ref.ID
	case models.SourceSite:
		return entity.SiteID == ref.ID
	default:
		return false
	}
}
