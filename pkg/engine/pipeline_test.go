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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/monready/monready/pkg/logger"
	"github.com/monready/monready/pkg/models"
	"github.com/monready/monready/pkg/route"
)

func newTestPipeline(t *testing.T, cfg route.Config) (*Pipeline, *MockEntityStore, *MockRefreshScheduler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := logger.NewTestLogger()

	store := NewMockEntityStore(ctrl)
	sched := NewMockRefreshScheduler(ctrl)
	router := route.NewRouter(cfg, log)
	eng := newTestEngine(t, DefaultConfig(), templateVocab())

	return NewPipeline(eng, store, router, sched, log), store, sched
}

func TestPipelinePersistsAndRoutes(t *testing.T) {
	pipeline, store, sched := newTestPipeline(t, route.Config{
		PrimarySourceID: 10,
		RemoveSourceID:  20,
	})

	snap := testSnapshot()

	store.EXPECT().SaveAttributes(gomock.Any(), snap.Entity).Return(nil)
	sched.EXPECT().Request(gomock.Any(), int64(10))

	changed, err := pipeline.Apply(context.Background(), snap, PopulateOptions{})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, string(models.StatusNotSynced), snap.Entity.Attributes.String(models.AttrStatus))
}

func TestPipelineRoutesRemovalChannel(t *testing.T) {
	pipeline, store, sched := newTestPipeline(t, route.Config{
		PrimarySourceID: 10,
		RemoveSourceID:  20,
	})

	snap := testSnapshot()
	snap.Entity.Attributes[models.AttrMonitoringEnabled] = "false"
	snap.Entity.Attributes[models.AttrStatus] = string(models.StatusSynced)

	store.EXPECT().SaveAttributes(gomock.Any(), snap.Entity).Return(nil)
	sched.EXPECT().Request(gomock.Any(), int64(20))

	changed, err := pipeline.Apply(context.Background(), snap, PopulateOptions{})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, string(models.StatusRemovePending), snap.Entity.Attributes.String(models.AttrStatus))
}

func TestPipelineNoChangeNoPersistNoRoute(t *testing.T) {
	pipeline, store, sched := newTestPipeline(t, route.Config{
		PrimarySourceID: 10,
		RemoveSourceID:  20,
	})

	snap := testSnapshot()

	store.EXPECT().SaveAttributes(gomock.Any(), snap.Entity).Return(nil)
	sched.EXPECT().Request(gomock.Any(), int64(10))

	_, err := pipeline.Apply(context.Background(), snap, PopulateOptions{})
	require.NoError(t, err)

	// Unrelated re-save: nothing derived changes, nothing is routed.
	changed, err := pipeline.Apply(context.Background(), snap, PopulateOptions{})
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestPipelinePersistErrorSkipsRouting(t *testing.T) {
	pipeline, store, _ := newTestPipeline(t, route.Config{
		PrimarySourceID: 10,
		RemoveSourceID:  20,
	})

	snap := testSnapshot()
	wantErr := errors.New("column too narrow")

	store.EXPECT().SaveAttributes(gomock.Any(), snap.Entity).Return(wantErr)

	changed, err := pipeline.Apply(context.Background(), snap, PopulateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
	assert.False(t, changed)
}
