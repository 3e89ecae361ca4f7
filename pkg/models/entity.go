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

// EntityKind distinguishes physical devices from virtual machines.
type EntityKind string

const (
	KindDevice EntityKind = "device"
	KindVM     EntityKind = "vm"
)

// SourceKind identifies which source-of-truth entity a reference points at.
type SourceKind string

const (
	SourcePlatform SourceKind = "platform"
	SourceSite     SourceKind = "site"
)

// SourceRef identifies a single platform or site.
type SourceRef struct {
	Kind SourceKind `json:"kind"`
	ID   int64      `json:"id"`
}

// ManagedEntity is a device or virtual machine eligible for monitoring. The
// entity store owns the record; the readiness engine reads identity and
// relations and mutates the attribute map in place before a write commits.
type ManagedEntity struct {
	ID          int64        `json:"id"`
	Kind        EntityKind   `json:"kind"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	PrimaryIP   string       `json:"primary_ip,omitempty"`
	PlatformID  int64        `json:"platform_id,omitempty"`
	SiteID      int64        `json:"site_id,omitempty"`
	RoleID      int64        `json:"role_id,omitempty"`
	Status      string       `json:"status,omitempty"`
	Attributes  AttributeMap `json:"attributes"`
}

// SourceEntity is a platform or site whose attributes feed derived values.
type SourceEntity struct {
	ID         int64        `json:"id"`
	Slug       string       `json:"slug"`
	Name       string       `json:"name,omitempty"`
	Attributes AttributeMap `json:"attributes,omitempty"`
}

// Role carries the SLA report code either as a dedicated field or inside its
// attribute map; the field wins when both are set.
type Role struct {
	ID            int64        `json:"id"`
	Slug          string       `json:"slug"`
	SLAReportCode string       `json:"sla_report_code,omitempty"`
	Attributes    AttributeMap `json:"attributes,omitempty"`
}

// EntitySnapshot is a fully-resolved read-only view of an entity and its
// related source entities. The engine operates on snapshots only and never
// reaches back into the store.
type EntitySnapshot struct {
	Entity   *ManagedEntity `json:"entity"`
	Platform *SourceEntity  `json:"platform,omitempty"`
	Site     *SourceEntity  `json:"site,omitempty"`
	Role     *Role          `json:"role,omitempty"`
}
