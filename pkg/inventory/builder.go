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

// Package inventory renders the readiness records of monitoring-enabled
// entities for the downstream inventory system.
package inventory

import (
	"context"

	"github.com/monready/monready/pkg/engine"
	"github.com/monready/monready/pkg/models"
	"github.com/monready/monready/pkg/vocab"
)

// TemplateRef is an (id, name) pair for a monitoring template.
type TemplateRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Interface describes the monitoring interface of a host.
type Interface struct {
	TypeID    string `json:"type_id,omitempty"`
	TypeLabel string `json:"type_label,omitempty"`
	IP        string `json:"ip,omitempty"`
}

// Tags is the tag block attached to each exported host.
type Tags struct {
	Environment string `json:"environment,omitempty"`
	OS          string `json:"os,omitempty"`
	Site        string `json:"site,omitempty"`
	SLACode     string `json:"sla_code,omitempty"`
	Status      string `json:"entity_status,omitempty"`
}

// Host is the full derived attribute set for one entity, plus its
// completeness badge.
type Host struct {
	Kind            models.EntityKind `json:"type"`
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	VisibleName     string            `json:"visible_name,omitempty"`
	PrimaryTemplate TemplateRef       `json:"primary_template"`
	ExtraTemplates  []TemplateRef     `json:"extra_templates"`
	Interface       Interface         `json:"interface"`
	ProxyID         string            `json:"proxy_id,omitempty"`
	GroupID         string            `json:"group_id,omitempty"`
	Tags            Tags              `json:"tags"`
	SyncStatus      models.SyncStatus `json:"sync_status"`
	Complete        bool              `json:"complete"`
	Missing         []string          `json:"missing,omitempty"`
	Badge           models.Badge      `json:"badge"`
}

// Builder turns entity snapshots into export host documents.
type Builder struct {
	engine   *engine.Engine
	resolver *vocab.Resolver
}

func NewBuilder(eng *engine.Engine, resolver *vocab.Resolver) *Builder {
	return &Builder{engine: eng, resolver: resolver}
}

// Build renders one snapshot. It reads the stored derived attributes only
// and never mutates; the export view always reflects the last persisted
// state.
func (b *Builder) Build(ctx context.Context, snap *models.EntitySnapshot) *Host {
	entity := snap.Entity
	attrs := entity.Attributes

	status := models.SyncStatus(attrs.String(models.AttrStatus))
	if status == "" {
		status = models.StatusNotSynced
	}

	missing := b.engine.MissingRequired(attrs)
	complete := len(missing) == 0

	host := &Host{
		Kind:        entity.Kind,
		ID:          entity.ID,
		Name:        entity.Name,
		VisibleName: attrs.String(models.AttrVisibleName),
		PrimaryTemplate: TemplateRef{
			ID:   attrs.String(models.AttrTemplateID),
			Name: b.templateName(ctx, attrs),
		},
		ExtraTemplates: b.extraTemplates(ctx, attrs),
		Interface: Interface{
			TypeID:    attrs.String(models.AttrInterfaceTypeID),
			TypeLabel: interfaceLabel(attrs),
			IP:        attrs.String(models.AttrInterfaceIP),
		},
		ProxyID: attrs.String(models.AttrProxyID),
		GroupID: attrs.String(models.AttrGroupID),
		Tags: Tags{
			Environment: attrs.String(models.AttrEnvironment),
			OS:          attrs.String(models.AttrPlatformSlug),
			Site:        attrs.String(models.AttrSiteSlug),
			SLACode:     attrs.String(models.AttrSLACode),
			Status:      entity.Status,
		},
		SyncStatus: status,
		Complete:   complete,
		Missing:    missing,
		Badge:      models.BadgeFor(status, complete),
	}

	return host
}

func (b *Builder) templateName(ctx context.Context, attrs models.AttributeMap) string {
	if name := attrs.String(models.AttrTemplateName); name != "" {
		return name
	}

	return b.resolver.LabelFor(ctx, engine.FieldTemplate, attrs.String(models.AttrTemplateID))
}

func (b *Builder) extraTemplates(ctx context.Context, attrs models.AttributeMap) []TemplateRef {
	ids := attrs.List(models.AttrExtraTemplates)
	refs := make([]TemplateRef, 0, len(ids))

	for _, id := range ids {
		refs = append(refs, TemplateRef{
			ID:   id,
			Name: b.resolver.LabelFor(ctx, engine.FieldExtraTemplates, id),
		})
	}

	return refs
}

func interfaceLabel(attrs models.AttributeMap) string {
	id := attrs.String(models.AttrInterfaceTypeID)

	if label := attrs.String(models.AttrInterfaceTypeName); label != "" {
		return label
	}

	return engine.InterfaceTypeLabel(id)
}
