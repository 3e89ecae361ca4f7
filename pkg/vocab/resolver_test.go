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

package vocab

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/monready/monready/pkg/logger"
)

func newTestResolver(defs map[string][]Choice) *Resolver {
	return NewResolver(NewStaticStore(defs), logger.NewTestLogger())
}

func templateChoices() map[string][]Choice {
	return map[string][]Choice{
		"mon_template": {
			{ID: "101", Label: "Linux SNMP Template"},
			{ID: "102", Label: "Windows Agent Template"},
		},
	}
}

func TestResolveScalarByIDAndLabel(t *testing.T) {
	r := newTestResolver(templateChoices())
	ctx := context.Background()

	assert.Equal(t, "101", r.ResolveScalar(ctx, "mon_template", "101"))
	assert.Equal(t, "101", r.ResolveScalar(ctx, "mon_template", "Linux SNMP Template"))
	assert.Equal(t, "101", r.ResolveScalar(ctx, "mon_template", "linux snmp template"))
	assert.Equal(t, "102", r.ResolveScalar(ctx, "mon_template", "  Windows Agent Template  "))
}

func TestResolveScalarUnknownTokenDropped(t *testing.T) {
	r := newTestResolver(templateChoices())

	assert.Empty(t, r.ResolveScalar(context.Background(), "mon_template", "no such template"))
	assert.Empty(t, r.ResolveScalar(context.Background(), "mon_template", nil))
}

func TestResolveListDedupesAndDrops(t *testing.T) {
	r := newTestResolver(templateChoices())

	got := r.Resolve(context.Background(), "mon_template", "101,Linux SNMP Template\nWindows Agent Template,bogus", true)
	assert.Equal(t, []string{"101", "102"}, got)
}

func TestResolveListScalarKeepsFirst(t *testing.T) {
	r := newTestResolver(templateChoices())

	got := r.Resolve(context.Background(), "mon_template", []string{"102", "101"}, false)
	assert.Equal(t, "102", got)
}

func TestResolvePassThroughWithoutDefinition(t *testing.T) {
	r := newTestResolver(nil)

	got := r.Resolve(context.Background(), "mon_template", "anything goes", false)
	assert.Equal(t, "anything goes", got)

	gotList := r.Resolve(context.Background(), "mon_extra_templates", []string{"a", "b"}, true)
	assert.Equal(t, []string{"a", "b"}, gotList)
}

func TestLabelFor(t *testing.T) {
	r := newTestResolver(templateChoices())

	assert.Equal(t, "Linux SNMP Template", r.LabelFor(context.Background(), "mon_template", "101"))
	assert.Empty(t, r.LabelFor(context.Background(), "mon_template", "999"))
	assert.Empty(t, r.LabelFor(context.Background(), "undefined_field", "101"))
}

func TestInvalidateRebuildsTable(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)
	r := NewResolver(store, logger.NewTestLogger())
	ctx := context.Background()

	first := &Definition{Field: "mon_template", Choices: []Choice{{ID: "101", Label: "Old"}}}
	second := &Definition{Field: "mon_template", Choices: []Choice{{ID: "101", Label: "New"}}}

	gomock.InOrder(
		store.EXPECT().Definition(gomock.Any(), "mon_template").Return(first, nil),
		store.EXPECT().Definition(gomock.Any(), "mon_template").Return(second, nil),
	)

	require.Equal(t, "Old", r.LabelFor(ctx, "mon_template", "101"))

	// Cached: no second store call yet.
	require.Equal(t, "Old", r.LabelFor(ctx, "mon_template", "101"))

	r.Invalidate("mon_template")
	assert.Equal(t, "New", r.LabelFor(ctx, "mon_template", "101"))
}

func TestStoreErrorDegradesToPassThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)
	r := NewResolver(store, logger.NewTestLogger())

	store.EXPECT().
		Definition(gomock.Any(), "mon_template").
		Return(nil, errors.New("upstream down"))

	got := r.Resolve(context.Background(), "mon_template", "raw value", false)
	assert.Equal(t, "raw value", got)

	// The empty table is cached; the store is not hammered per lookup.
	got = r.Resolve(context.Background(), "mon_template", "raw value", false)
	assert.Equal(t, "raw value", got)
}

func TestInvalidateAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)
	r := NewResolver(store, logger.NewTestLogger())
	ctx := context.Background()

	def := &Definition{Field: "mon_template", Choices: []Choice{{ID: "101", Label: "L"}}}

	store.EXPECT().Definition(gomock.Any(), "mon_template").Return(def, nil).Times(2)

	require.Equal(t, "101", r.ResolveScalar(ctx, "mon_template", "L"))

	r.InvalidateAll()

	require.Equal(t, "101", r.ResolveScalar(ctx, "mon_template", "L"))
}
