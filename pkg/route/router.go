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

// Package route decides whether a status transition warrants a downstream
// inventory refresh, and through which notification channel.
package route

import (
	"github.com/monready/monready/pkg/logger"
	"github.com/monready/monready/pkg/models"
)

// Action is the routing outcome for a single entity write.
type Action int

const (
	ActionNone Action = iota
	ActionNotifyPrimary
	ActionNotifyRemoval
)

func (a Action) String() string {
	switch a {
	case ActionNotifyPrimary:
		return "notify_primary"
	case ActionNotifyRemoval:
		return "notify_removal"
	default:
		return "none"
	}
}

// Config holds the two downstream inventory source ids. A zero id means the
// channel is not configured.
type Config struct {
	PrimarySourceID int64 `json:"primary_source_id"`
	RemoveSourceID  int64 `json:"remove_source_id"`
}

// Router maps observed status transitions to refresh actions. Decide must
// only be called after the entity write is durably committed; acting
// pre-commit risks notifying on a status a concurrent reader cannot see.
type Router struct {
	cfg Config
	log logger.Logger
}

func NewRouter(cfg Config, log logger.Logger) *Router {
	return &Router{cfg: cfg, log: log}
}

// Decide inspects the before/after status for an entity write. Equal
// statuses short-circuit to ActionNone; that is the common case for edits
// unrelated to monitoring.
func (r *Router) Decide(kind models.EntityKind, oldStatus, newStatus models.SyncStatus, enabled bool) Action {
	if oldStatus == newStatus {
		return ActionNone
	}

	if !enabled || newStatus == models.StatusRemovePending {
		if r.cfg.RemoveSourceID == 0 {
			r.log.Warn().
				Str("kind", string(kind)).
				Str("new_status", string(newStatus)).
				Msg("remove source id not configured, skipping removal refresh")

			return ActionNone
		}

		return ActionNotifyRemoval
	}

	switch newStatus {
	case models.StatusNotSynced, models.StatusMissingData, models.StatusSynced:
		if r.cfg.PrimarySourceID == 0 {
			r.log.Warn().
				Str("kind", string(kind)).
				Str("new_status", string(newStatus)).
				Msg("primary source id not configured, skipping refresh")

			return ActionNone
		}

		return ActionNotifyPrimary
	}

	r.log.Debug().
		Str("kind", string(kind)).
		Str("old_status", string(oldStatus)).
		Str("new_status", string(newStatus)).
		Msg("refresh skipped for transition")

	return ActionNone
}

// SourceID returns the configured source id for an action, or 0 for
// ActionNone.
func (r *Router) SourceID(a Action) int64 {
	switch a {
	case ActionNotifyPrimary:
		return r.cfg.PrimarySourceID
	case ActionNotifyRemoval:
		return r.cfg.RemoveSourceID
	default:
		return 0
	}
}
