// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package registry

import (
	"testing"

	"github.com/platform-engineering-labs/formae/pkg/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/resources/base"
)

func testDefinition(resourceType, pluginType string) Definition {
	return Definition{
		Config: base.ResourceConfig{
			ResourceType: resourceType,
			PathGet:      resourceType,
			PathPut:      resourceType,
			PathPost:     resourceType + "s",
			ParentType:   "project",
		},
		Descriptor: plugin.ResourceDescriptor{Type: pluginType},
	}
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(testDefinition("network-ipam", "Contrail::Network::IPAM")))

	def, ok := r.Lookup("network-ipam")
	require.True(t, ok)
	assert.Equal(t, "network-ipams", def.Config.PathPost)

	def, ok = r.LookupPluginType("Contrail::Network::IPAM")
	require.True(t, ok)
	assert.Equal(t, "network-ipam", def.Config.ResourceType)

	_, ok = r.Lookup("Contrail::Network::IPAM")
	assert.False(t, ok, "formae type names are not Contrail type names")

	_, ok = r.Lookup("widget")
	assert.False(t, ok)
	_, ok = r.LookupPluginType("Contrail::Widget")
	assert.False(t, ok)
}

func TestRegistry_RejectsInvalidAndDuplicate(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(testDefinition("security-group", "")))

	assert.Error(t, r.Register(testDefinition("security-group", "")))

	invalid := testDefinition("floating-ip", "")
	invalid.Config.PathPost = ""
	assert.Error(t, r.Register(invalid))

	assert.Equal(t, []string{"security-group"}, r.ResourceTypes())
}

func TestRegistry_ResourceTypesSorted(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(testDefinition("virtual-network", "")))
	require.NoError(t, r.Register(testDefinition("floating-ip", "")))
	require.NoError(t, r.Register(testDefinition("network-ipam", "")))

	assert.Equal(t, []string{"floating-ip", "network-ipam", "virtual-network"}, r.ResourceTypes())
}
