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

package debounce

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore holds the per-channel in-flight markers. SetIfAbsent must be
// atomic across concurrent callers: exactly one caller wins per key per
// window, backed by a store shared by every process that can trigger a
// refresh.
type TokenStore interface {
	SetIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// RedisTokenStore implements TokenStore with SET NX EX.
type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) SetIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, "1", ttl).Result()
}

// MemoryTokenStore is a process-local TokenStore for tests and single-node
// deployments.
type MemoryTokenStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

// SetNow replaces the clock; tests use this to step through windows.
func (s *MemoryTokenStore) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.now = now
}

func (s *MemoryTokenStore) SetIfAbsent(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if expiry, ok := s.expires[key]; ok && now.Before(expiry) {
		return false, nil
	}

	s.expires[key] = now.Add(ttl)

	return true, nil
}
