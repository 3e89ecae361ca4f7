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

package models

import "errors"

var (
	// ErrValidationFailed is returned when persisting a mutated attribute
	// map violates a schema constraint. The write is aborted and the stored
	// state is unchanged.
	ErrValidationFailed = errors.New("entity validation failed")

	// ErrConfigurationMissing is returned when a required channel id or
	// credential is unset. It is never raised into the write path.
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrNotFound is returned by stores for unknown entity ids.
	ErrNotFound = errors.New("not found")
)
