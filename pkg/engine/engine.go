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

// Package engine computes the derived monitoring attributes and readiness
// status for managed entities from resolved source-entity snapshots.
package engine

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/monready/monready/pkg/logger"
	"github.com/monready/monready/pkg/models"
	"github.com/monready/monready/pkg/vocab"
)

// Vocabulary field names the engine resolves against.
const (
	FieldTemplate       = "mon_template"
	FieldExtraTemplates = "mon_extra_templates"
)

// interfaceTypeLabels maps template interface type ids to display labels.
var interfaceTypeLabels = map[string]string{
	"1": "Agent",
	"2": "SNMP",
	"3": "IPMI",
	"4": "JMX",
}

// requiredAttrs are the derived keys that must all be present for an entity
// to count as complete. The environment attribute is required separately,
// controlled by Config.RequireEnvironment.
var requiredAttrs = []string{
	models.AttrVisibleName,
	models.AttrInterfaceIP,
	models.AttrTemplateID,
	models.AttrInterfaceTypeID,
	models.AttrPlatformSlug,
	models.AttrSiteSlug,
	models.AttrProxyID,
	models.AttrGroupID,
	models.AttrSLACode,
}

type Config struct {
	// RequireEnvironment keeps the environment attribute in the
	// completeness check. Deployments without an environment vocabulary can
	// disable it explicitly.
	RequireEnvironment bool `json:"require_environment"`
}

func DefaultConfig() Config {
	return Config{RequireEnvironment: true}
}

// PopulateOptions controls a single Populate call.
type PopulateOptions struct {
	// OverwriteSource refreshes source-derived fields even when they
	// already hold a value. Entity-local fields (visible name, interface
	// IP) keep fill-if-empty semantics regardless.
	OverwriteSource bool
}

// Engine derives monitoring attributes for an entity snapshot. It mutates
// the snapshot's attribute map in place and has no other side effects; the
// caller persists.
type Engine struct {
	cfg      Config
	resolver *vocab.Resolver
	log      logger.Logger
}

func New(cfg Config, resolver *vocab.Resolver, log logger.Logger) *Engine {
	return &Engine{cfg: cfg, resolver: resolver, log: log}
}

// Populate applies the derivation rules to the snapshot's entity and
// reports whether any attribute value changed. Running it twice in a row
// always returns false the second time.
func (e *Engine) Populate(ctx context.Context, snap *models.EntitySnapshot, opts PopulateOptions) bool {
	entity := snap.Entity
	if entity.Attributes == nil {
		entity.Attributes = models.AttributeMap{}
	}

	attrs := entity.Attributes
	m := &mutator{attrs: attrs, overwrite: opts.OverwriteSource}

	// Disabled monitoring manages only the status; every other derived
	// attribute is left untouched so re-enabling resumes where it left off.
	if !models.Truthy(attrs.Value(models.AttrMonitoringEnabled)) {
		m.setStatus(models.StatusRemovePending)
		return m.changed
	}

	// Visible name: synthesized once, never overwritten.
	if !models.Present(attrs.Value(models.AttrVisibleName)) {
		if name := visibleName(entity); name != "" {
			attrs[models.AttrVisibleName] = name
			m.changed = true
		}
	}

	// Interface IP falls back to the entity's primary address.
	m.putIfEmpty(models.AttrInterfaceIP, entity.PrimaryIP)

	var platformAttrs, siteAttrs models.AttributeMap

	if snap.Platform != nil {
		platformAttrs = snap.Platform.Attributes
	}

	if snap.Site != nil {
		siteAttrs = snap.Site.Attributes
	}

	// Primary template from the platform, resolved through the vocabulary.
	rawTemplate := platformAttrs.Value(models.SourceAttrTemplate)
	templateID := e.resolver.ResolveScalar(ctx, FieldTemplate, rawTemplate)

	if templateID == "" {
		// Pass-through when no template vocabulary is configured.
		templateID = scalarString(rawTemplate)
	}

	m.putFromSource(models.AttrTemplateID, templateID)
	m.putFromSource(models.AttrTemplateName, e.resolver.LabelFor(ctx, FieldTemplate, templateID))

	// Template interface: an explicit platform value wins, otherwise the
	// type is inferred from the template name.
	ifaceID := scalarString(platformAttrs.Value(models.SourceAttrInterfaceTypeID))
	if ifaceID == "" {
		label := attrs.String(models.AttrTemplateName)
		if label == "" {
			label = e.resolver.LabelFor(ctx, FieldTemplate, templateID)
		}

		ifaceID = inferInterfaceType(label)
	}

	m.putFromSource(models.AttrInterfaceTypeID, ifaceID)
	m.putFromSource(models.AttrInterfaceTypeName, InterfaceTypeLabel(ifaceID))

	if snap.Platform != nil {
		m.putFromSource(models.AttrPlatformSlug, snap.Platform.Slug)
	}

	if snap.Site != nil {
		m.putFromSource(models.AttrSiteSlug, snap.Site.Slug)
	}

	// Placement comes from the site, the SLA code from the role.
	m.putFromSource(models.AttrProxyID, scalarString(siteAttrs.Value(models.SourceAttrProxyID)))
	m.putFromSource(models.AttrGroupID, scalarString(siteAttrs.Value(models.SourceAttrGroupID)))
	m.putFromSource(models.AttrSLACode, slaCode(snap.Role))

	// Legacy extra-templates list is renormalized in place.
	if current, ok := attrs[models.AttrExtraTemplates]; ok {
		normalized := e.resolver.Resolve(ctx, FieldExtraTemplates, current, true)
		if !models.ValueEqual(current, normalized) {
			attrs[models.AttrExtraTemplates] = normalized
			m.changed = true
		}
	}

	previous := models.SyncStatus(attrs.String(models.AttrStatus))
	m.setStatus(NextStatus(true, e.complete(attrs), previous))

	return m.changed
}

// Complete reports whether all required derived attributes are present.
func (e *Engine) Complete(attrs models.AttributeMap) bool {
	return e.complete(attrs)
}

// MissingRequired lists the required attribute keys that are absent.
func (e *Engine) MissingRequired(attrs models.AttributeMap) []string {
	var missing []string

	for _, key := range requiredAttrs {
		if !models.Present(attrs.Value(key)) {
			missing = append(missing, key)
		}
	}

	if e.cfg.RequireEnvironment && !models.Present(attrs.Value(models.AttrEnvironment)) {
		missing = append(missing, models.AttrEnvironment)
	}

	return missing
}

func (e *Engine) complete(attrs models.AttributeMap) bool {
	return len(e.MissingRequired(attrs)) == 0
}

// InterfaceTypeLabel returns the display label for a template interface
// type id, or "" for an unknown id.
func InterfaceTypeLabel(id string) string {
	return interfaceTypeLabels[id]
}

func visibleName(entity *models.ManagedEntity) string {
	if entity.Name == "" {
		return ""
	}

	if entity.Description != "" {
		return entity.Name + " - " + entity.Description
	}

	return entity.Name
}

func slaCode(role *models.Role) string {
	if role == nil {
		return ""
	}

	if role.SLAReportCode != "" {
		return role.SLAReportCode
	}

	return scalarString(role.Attributes.Value(models.SourceAttrSLACode))
}

func inferInterfaceType(templateName string) string {
	if templateName == "" {
		return ""
	}

	low := strings.ToLower(templateName)

	switch {
	case strings.Contains(low, "snmp"):
		return "2"
	case strings.Contains(low, "ipmi"):
		return "3"
	case strings.Contains(low, "jmx"):
		return "4"
	default:
		return "1"
	}
}

// scalarString coerces loose attribute encodings (strings, JSON numbers) to
// a trimmed scalar string; anything else is treated as absent.
func scalarString(v interface{}) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case float64:
		if value == math.Trunc(value) {
			return strconv.FormatInt(int64(value), 10)
		}

		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	default:
		return ""
	}
}

// mutator applies the fill-if-empty and overwrite-from-source write rules
// and tracks whether anything changed.
type mutator struct {
	attrs     models.AttributeMap
	overwrite bool
	changed   bool
}

// putIfEmpty sets key only when it is currently absent and the value is
// non-empty. Once set it is never touched again.
func (m *mutator) putIfEmpty(key, value string) {
	if models.Present(m.attrs.Value(key)) {
		return
	}

	if value == "" {
		return
	}

	m.attrs[key] = value
	m.changed = true
}

// putFromSource fills an empty key, and additionally refreshes a populated
// key when overwrite is set. An empty source value never clears a key.
func (m *mutator) putFromSource(key, value string) {
	current := m.attrs.Value(key)
	if models.Present(current) && !m.overwrite {
		return
	}

	if value == "" {
		return
	}

	if s, _ := current.(string); s != value {
		m.attrs[key] = value
		m.changed = true
	}
}

func (m *mutator) setStatus(status models.SyncStatus) {
	if m.attrs.String(models.AttrStatus) != string(status) {
		m.attrs[models.AttrStatus] = string(status)
		m.changed = true
	}
}
