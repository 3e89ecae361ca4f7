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

package cascade

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monready/monready/pkg/engine"
	"github.com/monready/monready/pkg/logger"
	"github.com/monready/monready/pkg/models"
	"github.com/monready/monready/pkg/store"
)

type applierFunc func(ctx context.Context, snap *models.EntitySnapshot, opts engine.PopulateOptions) (bool, error)

func (f applierFunc) Apply(ctx context.Context, snap *models.EntitySnapshot, opts engine.PopulateOptions) (bool, error) {
	return f(ctx, snap, opts)
}

func seedEntities(t *testing.T, st *store.MemoryStore, platformID int64, count int) {
	t.Helper()

	st.AddPlatform(&models.SourceEntity{ID: platformID, Slug: "linux"})

	for i := 1; i <= count; i++ {
		st.AddEntity(&models.ManagedEntity{
			ID:         int64(i),
			Kind:       models.KindDevice,
			Name:       "dev",
			PlatformID: platformID,
			Attributes: models.AttributeMap{models.AttrMonitoringEnabled: "true"},
		})
	}
}

func TestDispatcherWalksAllBatches(t *testing.T) {
	st := store.NewMemoryStore()
	seedEntities(t, st, 1, 7)

	var seen []int64

	applier := applierFunc(func(_ context.Context, snap *models.EntitySnapshot, opts engine.PopulateOptions) (bool, error) {
		assert.True(t, opts.OverwriteSource)
		seen = append(seen, snap.Entity.ID)

		return true, nil
	})

	d := NewDispatcher(st, applier, 3, logger.NewTestLogger())

	res, err := d.OnSourceChanged(context.Background(), models.SourceRef{Kind: models.SourcePlatform, ID: 1})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7}, seen)
	assert.Equal(t, 7, res.Updated)
	assert.Zero(t, res.Errors)
}

func TestDispatcherCountsErrorsAndContinues(t *testing.T) {
	st := store.NewMemoryStore()
	seedEntities(t, st, 1, 4)

	applier := applierFunc(func(_ context.Context, snap *models.EntitySnapshot, _ engine.PopulateOptions) (bool, error) {
		if snap.Entity.ID == 2 {
			return false, errors.New("save failed")
		}

		return true, nil
	})

	d := NewDispatcher(st, applier, 10, logger.NewTestLogger())

	res, err := d.OnSourceChanged(context.Background(), models.SourceRef{Kind: models.SourcePlatform, ID: 1})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Updated)
	assert.Equal(t, 1, res.Errors)
}

func TestDispatcherSkipsUnrelatedAndDisabled(t *testing.T) {
	st := store.NewMemoryStore()
	seedEntities(t, st, 1, 2)

	// Different platform.
	st.AddEntity(&models.ManagedEntity{
		ID:         10,
		Kind:       models.KindDevice,
		Name:       "other",
		PlatformID: 9,
		Attributes: models.AttributeMap{models.AttrMonitoringEnabled: "true"},
	})

	// Monitoring disabled.
	st.AddEntity(&models.ManagedEntity{
		ID:         11,
		Kind:       models.KindDevice,
		Name:       "off",
		PlatformID: 1,
		Attributes: models.AttributeMap{},
	})

	var seen []int64

	applier := applierFunc(func(_ context.Context, snap *models.EntitySnapshot, _ engine.PopulateOptions) (bool, error) {
		seen = append(seen, snap.Entity.ID)
		return false, nil
	})

	d := NewDispatcher(st, applier, 10, logger.NewTestLogger())

	res, err := d.OnSourceChanged(context.Background(), models.SourceRef{Kind: models.SourcePlatform, ID: 1})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, seen)
	assert.Zero(t, res.Updated)
}

func TestDispatcherStopsOnCanceledContext(t *testing.T) {
	st := store.NewMemoryStore()
	seedEntities(t, st, 1, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	applier := applierFunc(func(context.Context, *models.EntitySnapshot, engine.PopulateOptions) (bool, error) {
		t.Fatal("apply must not run after cancel")
		return false, nil
	})

	d := NewDispatcher(st, applier, 10, logger.NewTestLogger())

	_, err := d.OnSourceChanged(ctx, models.SourceRef{Kind: models.SourcePlatform, ID: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
