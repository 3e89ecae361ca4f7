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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monready/monready/pkg/logger"
	"github.com/monready/monready/pkg/models"
)

type stubPublisher struct {
	ref  models.SourceRef
	slug string
	err  error

	calls int
}

func (s *stubPublisher) PublishSourceChanged(_ context.Context, ref models.SourceRef, slug string) error {
	s.calls++
	s.ref = ref
	s.slug = slug

	return s.err
}

func postWebhook(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/source-changed", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	return rec
}

func TestWebhookPublishesChange(t *testing.T) {
	pub := &stubPublisher{}
	h := NewWebhook(pub, logger.NewTestLogger())

	rec := postWebhook(t, h, `{"kind": "platform", "id": 3, "slug": "linux"}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, models.SourceRef{Kind: models.SourcePlatform, ID: 3}, pub.ref)
	assert.Equal(t, "linux", pub.slug)
}

func TestWebhookRejectsBadPayloads(t *testing.T) {
	pub := &stubPublisher{}
	h := NewWebhook(pub, logger.NewTestLogger())

	tests := []string{
		`not json`,
		`{"kind": "role", "id": 3}`,
		`{"kind": "site"}`,
		`{"kind": "site", "id": -1}`,
	}

	for _, body := range tests {
		rec := postWebhook(t, h, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	assert.Zero(t, pub.calls)
}

func TestWebhookMethodNotAllowed(t *testing.T) {
	h := NewWebhook(&stubPublisher{}, logger.NewTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/source-changed", http.NoBody)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWebhookPublishFailure(t *testing.T) {
	pub := &stubPublisher{err: errors.New("stream down")}
	h := NewWebhook(pub, logger.NewTestLogger())

	rec := postWebhook(t, h, `{"kind": "site", "id": 2}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
