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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruthy(t *testing.T) {
	truthy := []interface{}{true, "1", "true", "True", " yes ", "enabled", float64(1), 2}
	falsy := []interface{}{nil, false, "", "0", "false", "no", "disabled-ish", float64(0), 0, []string{"true"}}

	for _, v := range truthy {
		assert.True(t, Truthy(v), "%#v", v)
	}

	for _, v := range falsy {
		assert.False(t, Truthy(v), "%#v", v)
	}
}

func TestPresent(t *testing.T) {
	assert.False(t, Present(nil))
	assert.False(t, Present(""))
	assert.False(t, Present([]string{}))
	assert.False(t, Present([]interface{}{}))
	assert.False(t, Present(map[string]interface{}{}))

	assert.True(t, Present("x"))
	assert.True(t, Present([]string{"x"}))
	assert.True(t, Present(float64(0)))
	assert.True(t, Present(false))
}

func TestAsList(t *testing.T) {
	assert.Nil(t, AsList(nil))
	assert.Equal(t, []string{"a", "b"}, AsList("a, b"))
	assert.Equal(t, []string{"a", "b", "c"}, AsList("a\nb,c"))
	assert.Equal(t, []string{"a"}, AsList(" a , , "))
	assert.Equal(t, []string{"a", "b"}, AsList([]string{" a", "", "b "}))
	assert.Equal(t, []string{"a"}, AsList([]interface{}{"a", 3, ""}))
	assert.Nil(t, AsList(42))
}

func TestValueEqual(t *testing.T) {
	assert.True(t, ValueEqual(nil, ""))
	assert.True(t, ValueEqual("", []string{}))
	assert.True(t, ValueEqual("x", "x"))
	assert.True(t, ValueEqual([]string{"a", "b"}, []interface{}{"a", "b"}))

	assert.False(t, ValueEqual("x", "y"))
	assert.False(t, ValueEqual("x", []string{"x"}))
	assert.False(t, ValueEqual([]string{"a"}, []string{"a", "b"}))
	assert.False(t, ValueEqual([]string{"a", "b"}, []string{"b", "a"}))
}

func TestAttributeMapClone(t *testing.T) {
	m := AttributeMap{
		"scalar": "x",
		"list":   []string{"a", "b"},
	}

	clone := m.Clone()
	clone["scalar"] = "y"
	clone["list"].([]string)[0] = "z"

	assert.Equal(t, "x", m.String("scalar"))
	assert.Equal(t, []string{"a", "b"}, m.List("list"))

	var nilMap AttributeMap
	assert.Nil(t, nilMap.Clone())
	assert.Nil(t, nilMap.Value("anything"))
}

func TestBadgeFor(t *testing.T) {
	assert.Equal(t, BadgeOK, BadgeFor(StatusSynced, true))
	assert.Equal(t, BadgeCaution, BadgeFor(StatusNotSynced, true))
	assert.Equal(t, BadgeCaution, BadgeFor(StatusRemovePending, true))
	assert.Equal(t, BadgeFail, BadgeFor(StatusSynced, false))
	assert.Equal(t, BadgeFail, BadgeFor(StatusMissingData, false))
}
