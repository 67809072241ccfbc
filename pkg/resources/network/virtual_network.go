// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package network

import (
	"github.com/platform-engineering-labs/formae/pkg/model"
	"github.com/platform-engineering-labs/formae/pkg/plugin"

	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/registry"
	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/resources/base"
)

const (
	ResourceTypeVirtualNetwork = "Contrail::Network::VirtualNetwork"
)

// VirtualNetwork config, schema and descriptor
var (
	VirtualNetworkConfig = base.ResourceConfig{
		ResourceType: "virtual-network",
		PathGet:      "virtual-network",
		PathPut:      "virtual-network",
		PathPost:     "virtual-networks",
		ParentType:   "project",
	}

	VirtualNetworkDescriptor = plugin.ResourceDescriptor{
		Type:         ResourceTypeVirtualNetwork,
		Discoverable: true,
	}

	VirtualNetworkSchema = model.Schema{
		Identifier:   "uuid",
		Discoverable: true,
		Fields: []string{
			"name", "project", "domain",
			"display_name", "router_external", "is_shared",
			"network_ipam_refs", "virtual_network_properties",
		},
		Hints: map[string]model.FieldHint{
			"name": {
				Required:   true,
				CreateOnly: true,
			},
			// fq_name is the identity; moving a network between projects is a recreate
			"project": {
				CreateOnly: true,
			},
			"domain": {
				CreateOnly: true,
			},
			"display_name": {
				Required: false,
			},
			"router_external": {
				Required: false,
			},
			"is_shared": {
				Required: false,
			},
			"network_ipam_refs": {
				Required: false,
			},
			"virtual_network_properties": {
				Required: false,
			},
		},
	}
)

// Register the VirtualNetwork resource type
func init() {
	registry.Register(registry.Definition{
		Config:     VirtualNetworkConfig,
		Descriptor: VirtualNetworkDescriptor,
		Schema:     VirtualNetworkSchema,
	})
}
