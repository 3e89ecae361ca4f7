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
	"encoding/json"
	"net/http"

	"github.com/monready/monready/pkg/logger"
	"github.com/monready/monready/pkg/models"
)

// SourcePublisher emits a source-change event. *EventPublisher implements
// it against JetStream.
type SourcePublisher interface {
	PublishSourceChanged(ctx context.Context, ref models.SourceRef, slug string) error
}

// webhookRequest is the payload the source-of-truth system posts after a
// platform or site write commits.
type webhookRequest struct {
	Kind models.SourceKind `json:"kind"`
	ID   int64             `json:"id"`
	Slug string            `json:"slug,omitempty"`
}

// Webhook accepts source-change notifications over HTTP and turns them into
// events on the stream. Accepting is cheap and durable; the cascade itself
// runs from the consumer.
type Webhook struct {
	publisher SourcePublisher
	log       logger.Logger
}

func NewWebhook(publisher SourcePublisher, log logger.Logger) *Webhook {
	return &Webhook{publisher: publisher, log: log}
}

func (h *Webhook) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req webhookRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.ID <= 0 || (req.Kind != models.SourcePlatform && req.Kind != models.SourceSite) {
		http.Error(w, "kind must be platform or site with a positive id", http.StatusBadRequest)
		return
	}

	ref := models.SourceRef{Kind: req.Kind, ID: req.ID}

	if err := h.publisher.PublishSourceChanged(r.Context(), ref, req.Slug); err != nil {
		h.log.Error().
			Err(err).
			Str("source_kind", string(req.Kind)).
			Int64("source_id", req.ID).
			Msg("failed to publish source change")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusAccepted)
}
