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

package models

// SyncStatus is the monitoring readiness state stored on a managed entity.
type SyncStatus string

const (
	// StatusMissingData means required derived attributes are incomplete.
	StatusMissingData SyncStatus = "Missing Data"
	// StatusNotSynced means the record is complete but the downstream system
	// has not confirmed it yet.
	StatusNotSynced SyncStatus = "Not Synced"
	// StatusSynced is set by the downstream system and preserved across
	// recomputation while the record stays complete.
	StatusSynced SyncStatus = "Synced"
	// StatusRemovePending marks an entity whose monitoring was disabled and
	// that is eligible for downstream removal.
	StatusRemovePending SyncStatus = "Remove Pending"
)

// Badge is the three-valued completeness summary exposed by the inventory
// export endpoint.
type Badge string

const (
	BadgeOK      Badge = "ok"
	BadgeCaution Badge = "caution"
	BadgeFail    Badge = "fail"
)

// BadgeFor computes the export badge from completeness and status.
func BadgeFor(status SyncStatus, complete bool) Badge {
	switch {
	case complete && status == StatusSynced:
		return BadgeOK
	case complete:
		return BadgeCaution
	default:
		return BadgeFail
	}
}
