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

//go:generate mockgen -destination=mock_vocab.go -package=vocab github.com/monready/monready/pkg/vocab Store

package vocab

import "context"

// Choice is a single (id, label) pair in a controlled vocabulary.
type Choice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Definition is an ordered controlled-vocabulary definition for one field.
type Definition struct {
	Field   string   `json:"field"`
	List    bool     `json:"list,omitempty"`
	Choices []Choice `json:"choices"`
}

// Store supplies named vocabulary definitions. A nil definition with a nil
// error means no vocabulary exists for the field, which is not an error.
type Store interface {
	Definition(ctx context.Context, field string) (*Definition, error)
}

// StaticStore serves definitions loaded from configuration.
type StaticStore struct {
	defs map[string]*Definition
}

// NewStaticStore builds a StaticStore from per-field choice lists.
func NewStaticStore(defs map[string][]Choice) *StaticStore {
	m := make(map[string]*Definition, len(defs))

	for field, choices := range defs {
		m[field] = &Definition{Field: field, Choices: choices}
	}

	return &StaticStore{defs: m}
}

func (s *StaticStore) Definition(_ context.Context, field string) (*Definition, error) {
	return s.defs[field], nil
}
