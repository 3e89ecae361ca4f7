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

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/monready/monready/pkg/models"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		complete bool
		previous models.SyncStatus
		want     models.SyncStatus
	}{
		{
			name:     "disabled forces remove pending",
			enabled:  false,
			complete: true,
			previous: models.StatusSynced,
			want:     models.StatusRemovePending,
		},
		{
			name:     "disabled and incomplete still remove pending",
			enabled:  false,
			complete: false,
			previous: models.StatusMissingData,
			want:     models.StatusRemovePending,
		},
		{
			name:     "incomplete yields missing data",
			enabled:  true,
			complete: false,
			previous: "",
			want:     models.StatusMissingData,
		},
		{
			name:     "incomplete demotes synced",
			enabled:  true,
			complete: false,
			previous: models.StatusSynced,
			want:     models.StatusMissingData,
		},
		{
			name:     "complete first time is not synced",
			enabled:  true,
			complete: true,
			previous: "",
			want:     models.StatusNotSynced,
		},
		{
			name:     "complete after missing data is not synced",
			enabled:  true,
			complete: true,
			previous: models.StatusMissingData,
			want:     models.StatusNotSynced,
		},
		{
			name:     "synced is preserved while complete",
			enabled:  true,
			complete: true,
			previous: models.StatusSynced,
			want:     models.StatusSynced,
		},
		{
			name:     "re-enabled from remove pending is not synced",
			enabled:  true,
			complete: true,
			previous: models.StatusRemovePending,
			want:     models.StatusNotSynced,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextStatus(tt.enabled, tt.complete, tt.previous)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextStatusIsIdempotent(t *testing.T) {
	first := NextStatus(true, true, models.StatusMissingData)
	second := NextStatus(true, true, first)

	assert.Equal(t, models.StatusNotSynced, first)
	assert.Equal(t, models.StatusNotSynced, second)
}
