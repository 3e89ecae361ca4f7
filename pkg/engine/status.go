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

package engine

import "github.com/monready/monready/pkg/models"

// NextStatus derives the readiness status from monitoring enablement,
// derived-attribute completeness and the previous status. It is a pure
// function: repeated calls with the same inputs yield the same status.
//
// Disabling monitoring always forces Remove Pending. Re-enabling with
// incomplete data yields Missing Data. Re-enabling with complete data keeps
// Synced only if the previous status was already Synced; everything else
// becomes Not Synced until the downstream system confirms it.
func NextStatus(enabled, complete bool, previous models.SyncStatus) models.SyncStatus {
	if !enabled {
		return models.StatusRemovePending
	}

	if !complete {
		return models.StatusMissingData
	}

	if previous == models.StatusSynced {
		return models.StatusSynced
	}

	return models.StatusNotSynced
}
