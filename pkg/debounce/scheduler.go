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

// Package debounce collapses bursts of refresh requests into at most one
// dispatched notification per channel per window.
package debounce

import (
	"context"
	"fmt"
	"time"

	"github.com/monready/monready/pkg/logger"
)

const (
	// DefaultWindow is the debounce window applied when none is configured.
	DefaultWindow = 60 * time.Second
	// MinWindow is the enforced floor; shorter configured windows are
	// raised to it.
	MinWindow = 5 * time.Second

	dispatchTimeout = 45 * time.Second
)

// DispatchFunc performs the actual outbound refresh call for a source id.
// Transient failures are retried by the surrounding job layer, not here.
type DispatchFunc func(ctx context.Context, sourceID int64) error

// Scheduler debounces refresh requests per channel. The marker in the
// shared TokenStore is never released early: a failed or timed-out dispatch
// does not reopen the window.
type Scheduler struct {
	store    TokenStore
	window   time.Duration
	dispatch DispatchFunc
	log      logger.Logger

	// run executes the deferred dispatch; replaced in tests to run inline.
	run func(func())
}

func NewScheduler(store TokenStore, window time.Duration, dispatch DispatchFunc, log logger.Logger) *Scheduler {
	if window <= 0 {
		window = DefaultWindow
	}

	if window < MinWindow {
		window = MinWindow
	}

	return &Scheduler{
		store:    store,
		window:   window,
		dispatch: dispatch,
		log:      log,
		run:      func(fn func()) { go fn() },
	}
}

// Window returns the effective debounce window.
func (s *Scheduler) Window() time.Duration {
	return s.window
}

// Request atomically test-and-sets the channel marker. The first request in
// a window enqueues exactly one deferred dispatch; every later request in
// the same window is dropped. Request never returns an error: failures on
// this path are logged and terminal, because the triggering write has
// already committed.
func (s *Scheduler) Request(ctx context.Context, sourceID int64) {
	if sourceID == 0 {
		s.log.Warn().Msg("refresh requested without a configured source id")
		return
	}

	key := markerKey(sourceID)

	won, err := s.store.SetIfAbsent(ctx, key, s.window)
	if err != nil {
		s.log.Error().Err(err).Int64("source_id", sourceID).Msg("debounce marker store unavailable, refresh dropped")
		return
	}

	if !won {
		s.log.Debug().Int64("source_id", sourceID).Msg("refresh debounced")
		return
	}

	s.log.Info().
		Int64("source_id", sourceID).
		Dur("window", s.window).
		Msg("refresh dispatch scheduled")

	s.run(func() {
		// Detached from the caller: the write path must not wait on the
		// outbound call.
		dispatchCtx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		if err := s.dispatch(dispatchCtx, sourceID); err != nil {
			s.log.Error().Err(err).Int64("source_id", sourceID).Msg("refresh dispatch failed")
		}
	})
}

func markerKey(sourceID int64) string {
	return fmt.Sprintf("monready:refresh:%d:debounce", sourceID)
}
