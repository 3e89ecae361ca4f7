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

import "strings"

// Canonical attribute keys on a managed entity. One key per attribute; legacy
// prefixed aliases are migrated by the entity store, never read here.
const (
	AttrMonitoringEnabled = "mon_enabled"
	AttrVisibleName       = "mon_visible_name"
	AttrInterfaceIP       = "mon_interface_ip"
	AttrTemplateID        = "mon_template_id"
	AttrTemplateName      = "mon_template_name"
	AttrInterfaceTypeID   = "mon_interface_type_id"
	AttrInterfaceTypeName = "mon_interface_type_name"
	AttrPlatformSlug      = "mon_platform"
	AttrSiteSlug          = "mon_site"
	AttrProxyID           = "mon_proxy_id"
	AttrGroupID           = "mon_group_id"
	AttrSLACode           = "mon_sla_code"
	AttrExtraTemplates    = "mon_extra_templates"
	AttrEnvironment       = "mon_environment"
	AttrStatus            = "mon_status"
)

// Attribute keys read from platform, site and role attribute maps.
const (
	SourceAttrTemplate        = "mon_template"
	SourceAttrInterfaceTypeID = "mon_interface_type_id"
	SourceAttrProxyID         = "mon_proxy_id"
	SourceAttrGroupID         = "mon_group_id"
	SourceAttrSLACode         = "sla_report_code"
)

// AttributeMap holds per-entity attributes. Values are scalar strings or
// lists of strings; empty values count as absent.
type AttributeMap map[string]interface{}

// Value returns the raw value for key, or nil when unset.
func (m AttributeMap) Value(key string) interface{} {
	if m == nil {
		return nil
	}

	return m[key]
}

// String returns the scalar value for key, or "" when the value is absent or
// not a scalar.
func (m AttributeMap) String(key string) string {
	s, _ := m.Value(key).(string)
	return s
}

// List returns the value for key coerced to a string list. Scalars become a
// single-element list; absent values return nil.
func (m AttributeMap) List(key string) []string {
	return AsList(m.Value(key))
}

// Clone returns a shallow copy with list values duplicated, so mutating the
// copy never aliases the original.
func (m AttributeMap) Clone() AttributeMap {
	if m == nil {
		return nil
	}

	out := make(AttributeMap, len(m))

	for k, v := range m {
		if list, ok := v.([]string); ok {
			out[k] = append([]string(nil), list...)
			continue
		}

		out[k] = v
	}

	return out
}

// Present reports whether v counts as a present attribute value. Nil, empty
// strings, empty lists and empty maps are all absent.
func Present(v interface{}) bool {
	switch value := v.(type) {
	case nil:
		return false
	case string:
		return value != ""
	case []string:
		return len(value) > 0
	case []interface{}:
		return len(value) > 0
	case map[string]interface{}:
		return len(value) > 0
	default:
		return true
	}
}

// Truthy interprets the loose boolean encodings found in attribute data.
func Truthy(v interface{}) bool {
	switch value := v.(type) {
	case bool:
		return value
	case nil:
		return false
	case string:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "1", "true", "yes", "y", "enabled", "enable":
			return true
		}

		return false
	case float64:
		return value != 0
	case int:
		return value != 0
	default:
		return false
	}
}

// AsList coerces an attribute value to a string list. Delimited scalars are
// split on commas and newlines; blank tokens are dropped.
func AsList(v interface{}) []string {
	switch value := v.(type) {
	case nil:
		return nil
	case []string:
		out := make([]string, 0, len(value))

		for _, s := range value {
			if t := strings.TrimSpace(s); t != "" {
				out = append(out, t)
			}
		}

		return out
	case []interface{}:
		out := make([]string, 0, len(value))

		for _, x := range value {
			if s, ok := x.(string); ok {
				if t := strings.TrimSpace(s); t != "" {
					out = append(out, t)
				}
			}
		}

		return out
	case string:
		parts := strings.Split(strings.ReplaceAll(value, "\n", ","), ",")
		out := make([]string, 0, len(parts))

		for _, p := range parts {
			if t := strings.TrimSpace(p); t != "" {
				out = append(out, t)
			}
		}

		return out
	default:
		return nil
	}
}

// ValueEqual compares two attribute values, treating string lists
// element-wise and every empty encoding as equal to absent.
func ValueEqual(a, b interface{}) bool {
	if !Present(a) && !Present(b) {
		return true
	}

	al, aIsList := listValue(a)
	bl, bIsList := listValue(b)

	if aIsList || bIsList {
		if !aIsList || !bIsList || len(al) != len(bl) {
			return false
		}

		for i := range al {
			if al[i] != bl[i] {
				return false
			}
		}

		return true
	}

	return a == b
}

func listValue(v interface{}) ([]string, bool) {
	switch value := v.(type) {
	case []string:
		return value, true
	case []interface{}:
		return AsList(value), true
	default:
		return nil, false
	}
}
