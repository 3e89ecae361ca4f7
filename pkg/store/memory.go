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

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/monready/monready/pkg/models"
)

type entityKey struct {
	kind models.EntityKind
	id   int64
}

// MemoryStore is an in-process Store for tests and single-node use.
type MemoryStore struct {
	mu        sync.RWMutex
	entities  map[entityKey]*models.ManagedEntity
	platforms map[int64]*models.SourceEntity
	sites     map[int64]*models.SourceEntity
	roles     map[int64]*models.Role

	// Validate replaces the default attribute validation when set; tests
	// use it to force validation failures.
	Validate func(models.AttributeMap) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entities:  make(map[entityKey]*models.ManagedEntity),
		platforms: make(map[int64]*models.SourceEntity),
		sites:     make(map[int64]*models.SourceEntity),
		roles:     make(map[int64]*models.Role),
	}
}

func (s *MemoryStore) AddEntity(entity *models.ManagedEntity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *entity
	copied.Attributes = entity.Attributes.Clone()
	s.entities[entityKey{entity.Kind, entity.ID}] = &copied
}

func (s *MemoryStore) AddPlatform(p *models.SourceEntity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.platforms[p.ID] = p
}

func (s *MemoryStore) AddSite(site *models.SourceEntity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sites[site.ID] = site
}

func (s *MemoryStore) AddRole(role *models.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roles[role.ID] = role
}

func (s *MemoryStore) Snapshot(_ context.Context, kind models.EntityKind, id int64) (*models.EntitySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, ok := s.entities[entityKey{kind, id}]
	if !ok {
		return nil, fmt.Errorf("entity %s/%d: %w", kind, id, models.ErrNotFound)
	}

	return s.snapshotLocked(entity), nil
}

func (s *MemoryStore) SaveAttributes(_ context.Context, entity *models.ManagedEntity) error {
	validate := s.Validate
	if validate == nil {
		validate = ValidateAttributes
	}

	if err := validate(entity.Attributes); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.entities[entityKey{entity.Kind, entity.ID}]
	if !ok {
		return fmt.Errorf("entity %s/%d: %w", entity.Kind, entity.ID, models.ErrNotFound)
	}

	stored.Attributes = entity.Attributes.Clone()

	return nil
}

func (s *MemoryStore) ListBySource(_ context.Context, ref models.SourceRef, afterID int64, limit int) ([]*models.EntitySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listLocked(afterID, limit, func(e *models.ManagedEntity) bool {
		return matchesSource(e, ref) && models.Truthy(e.Attributes.Value(models.AttrMonitoringEnabled))
	}), nil
}

func (s *MemoryStore) ListMonitored(_ context.Context, kinds []models.EntityKind, afterID int64, limit int) ([]*models.EntitySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listLocked(afterID, limit, func(e *models.ManagedEntity) bool {
		if !models.Truthy(e.Attributes.Value(models.AttrMonitoringEnabled)) {
			return false
		}

		if len(kinds) == 0 {
			return true
		}

		for _, kind := range kinds {
			if e.Kind == kind {
				return true
			}
		}

		return false
	}), nil
}

func (s *MemoryStore) listLocked(afterID int64, limit int, match func(*models.ManagedEntity) bool) []*models.EntitySnapshot {
	var selected []*models.ManagedEntity

	for _, entity := range s.entities {
		if entity.ID > afterID && match(entity) {
			selected = append(selected, entity)
		}
	}

	sort.Slice(selected, func(i, j int) bool { return selected[i].ID < selected[j].ID })

	if limit > 0 && len(selected) > limit {
		selected = selected[:limit]
	}

	snaps := make([]*models.EntitySnapshot, 0, len(selected))
	for _, entity := range selected {
		snaps = append(snaps, s.snapshotLocked(entity))
	}

	return snaps
}

func (s *MemoryStore) snapshotLocked(entity *models.ManagedEntity) *models.EntitySnapshot {
	copied := *entity
	copied.Attributes = entity.Attributes.Clone()

	snap := &models.EntitySnapshot{Entity: &copied}

	if entity.PlatformID != 0 {
		snap.Platform = s.platforms[entity.PlatformID]
	}

	if entity.SiteID != 0 {
		snap.Site = s.sites[entity.SiteID]
	}

	if entity.RoleID != 0 {
		snap.Role = s.roles[entity.RoleID]
	}

	return snap
}
