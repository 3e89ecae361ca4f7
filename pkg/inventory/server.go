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

package inventory

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/monready/monready/pkg/logger"
	"github.com/monready/monready/pkg/models"
	"github.com/monready/monready/pkg/store"
)

const listPageSize = 500

// Summary is the per-badge count header of an export response.
type Summary struct {
	Count   int `json:"count"`
	OK      int `json:"ok"`
	Caution int `json:"caution"`
	Fail    int `json:"fail"`
}

// Response is the export payload: a summary plus the eligible hosts.
type Response struct {
	Summary Summary `json:"summary"`
	Hosts   []*Host `json:"hosts"`
}

// Server exposes the inventory export endpoint, plus any extra handlers
// mounted behind the same API key check.
type Server struct {
	store   store.Store
	builder *Builder
	apiKey  string
	extra   map[string]http.Handler
	log     logger.Logger
}

func NewServer(st store.Store, builder *Builder, apiKey string, log logger.Logger) *Server {
	return &Server{
		store:   st,
		builder: builder,
		apiKey:  apiKey,
		extra:   make(map[string]http.Handler),
		log:     log,
	}
}

// Mount registers an additional handler behind the API key check. Call
// before Handler.
func (s *Server) Mount(path string, h http.Handler) {
	s.extra[path] = h
}

// Handler returns the HTTP handler serving GET /api/inventory and the
// mounted extras.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/inventory", s.apiKeyMiddleware(http.HandlerFunc(s.handleInventory)))

	for path, h := range s.extra {
		mux.Handle(path, s.apiKeyMiddleware(h))
	}

	return mux
}

func (s *Server) apiKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestKey := r.Header.Get("X-API-Key")
		if requestKey == "" {
			requestKey = r.URL.Query().Get("api_key")
		}

		if requestKey == "" || (s.apiKey != "" && requestKey != s.apiKey) {
			s.log.Warn().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote", r.RemoteAddr).
				Msg("unauthorized inventory access attempt")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	hosts, err := s.collectHosts(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to build inventory export")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	if badge := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("badge"))); badge != "" {
		switch models.Badge(badge) {
		case models.BadgeOK, models.BadgeCaution, models.BadgeFail:
			filtered := hosts[:0]

			for _, host := range hosts {
				if host.Badge == models.Badge(badge) {
					filtered = append(filtered, host)
				}
			}

			hosts = filtered
		default:
			http.Error(w, "invalid badge filter", http.StatusBadRequest)
			return
		}
	}

	resp := Response{Hosts: hosts}
	resp.Summary.Count = len(hosts)

	for _, host := range hosts {
		switch host.Badge {
		case models.BadgeOK:
			resp.Summary.OK++
		case models.BadgeCaution:
			resp.Summary.Caution++
		case models.BadgeFail:
			resp.Summary.Fail++
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error().Err(err).Msg("failed to encode inventory response")
	}
}

func (s *Server) collectHosts(ctx context.Context) ([]*Host, error) {
	var hosts []*Host

	afterID := int64(0)

	for {
		snaps, err := s.store.ListMonitored(ctx, nil, afterID, listPageSize)
		if err != nil {
			return nil, err
		}

		if len(snaps) == 0 {
			break
		}

		for _, snap := range snaps {
			afterID = snap.Entity.ID
			hosts = append(hosts, s.builder.Build(ctx, snap))
		}

		if len(snaps) < listPageSize {
			break
		}
	}

	if hosts == nil {
		hosts = []*Host{}
	}

	return hosts, nil
}
