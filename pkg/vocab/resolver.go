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

// Package vocab resolves raw attribute values against controlled
// vocabularies supplied by an external store.
package vocab

import (
	"context"
	"strings"
	"sync"

	"github.com/monready/monready/pkg/logger"
	"github.com/monready/monready/pkg/models"
)

// lookup is the cached per-field table: exact and case-folded token
// resolution plus the reverse id to label direction.
type lookup struct {
	byToken map[string]string
	folded  map[string]string
	labels  map[string]string
}

func (l *lookup) empty() bool {
	return l == nil || len(l.byToken) == 0
}

func (l *lookup) resolve(token string) (string, bool) {
	if id, ok := l.byToken[token]; ok {
		return id, true
	}

	id, ok := l.folded[strings.ToLower(token)]

	return id, ok
}

// Resolver normalizes raw values against vocabulary definitions. Lookup
// tables are built once per field and cached; the cache is safe for
// concurrent readers and invalidated only explicitly.
type Resolver struct {
	store Store
	log   logger.Logger

	mu    sync.RWMutex
	cache map[string]*lookup
}

func NewResolver(store Store, log logger.Logger) *Resolver {
	return &Resolver{
		store: store,
		log:   log,
		cache: make(map[string]*lookup),
	}
}

// Resolve normalizes raw into canonical vocabulary ids. Unrecognized tokens
// are dropped; the completeness check downstream flags the resulting
// absence. A field with no vocabulary definition passes raw through
// unchanged.
func (r *Resolver) Resolve(ctx context.Context, field string, raw interface{}, expectsList bool) interface{} {
	table := r.tableFor(ctx, field)
	if table.empty() {
		return raw
	}

	if expectsList {
		ids := r.resolveTokens(table, models.AsList(raw))
		if len(ids) == 0 {
			return []string(nil)
		}

		return ids
	}

	ids := r.resolveTokens(table, models.AsList(raw))
	if len(ids) == 0 {
		return nil
	}

	return ids[0]
}

// ResolveScalar is Resolve with scalar semantics and a string result; ""
// means no token resolved.
func (r *Resolver) ResolveScalar(ctx context.Context, field string, raw interface{}) string {
	v := r.Resolve(ctx, field, raw, false)

	s, _ := v.(string)

	return s
}

// LabelFor returns the display label for a canonical id, or "" when the id
// or the vocabulary itself is unknown.
func (r *Resolver) LabelFor(ctx context.Context, field, id string) string {
	table := r.tableFor(ctx, field)
	if table.empty() {
		return ""
	}

	return table.labels[id]
}

// Invalidate drops the cached table for one field so the next lookup
// rebuilds it from the store.
func (r *Resolver) Invalidate(field string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.cache, field)
}

// InvalidateAll drops every cached table.
func (r *Resolver) InvalidateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = make(map[string]*lookup)
}

func (r *Resolver) resolveTokens(table *lookup, tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))

	for _, token := range tokens {
		id, ok := table.resolve(token)
		if !ok {
			continue
		}

		if _, dup := seen[id]; dup {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}

func (r *Resolver) tableFor(ctx context.Context, field string) *lookup {
	r.mu.RLock()
	table, ok := r.cache[field]
	r.mu.RUnlock()

	if ok {
		return table
	}

	table = r.buildTable(ctx, field)

	r.mu.Lock()
	r.cache[field] = table
	r.mu.Unlock()

	return table
}

func (r *Resolver) buildTable(ctx context.Context, field string) *lookup {
	def, err := r.store.Definition(ctx, field)
	if err != nil {
		// Pass-through on an unavailable vocabulary: unresolved values
		// surface later as Missing Data, not as a write failure.
		r.log.Warn().Err(err).Str("field", field).Msg("vocabulary unavailable, resolution degraded to pass-through")
		return &lookup{}
	}

	if def == nil || len(def.Choices) == 0 {
		return &lookup{}
	}

	table := &lookup{
		byToken: make(map[string]string, len(def.Choices)*2),
		folded:  make(map[string]string, len(def.Choices)*2),
		labels:  make(map[string]string, len(def.Choices)),
	}

	for _, choice := range def.Choices {
		id := strings.TrimSpace(choice.ID)
		label := strings.TrimSpace(choice.Label)

		if id == "" {
			continue
		}

		table.byToken[id] = id
		table.folded[strings.ToLower(id)] = id

		if label != "" {
			// First definition wins for duplicate labels, matching the
			// ordered nature of the external choice set.
			if _, exists := table.byToken[label]; !exists {
				table.byToken[label] = id
			}

			if _, exists := table.folded[strings.ToLower(label)]; !exists {
				table.folded[strings.ToLower(label)] = id
			}

			table.labels[id] = label
		}
	}

	return table
}
