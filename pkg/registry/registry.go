// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/platform-engineering-labs/formae/pkg/model"
	"github.com/platform-engineering-labs/formae/pkg/plugin"

	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/resources/base"
)

// Definition registers one Contrail resource type
type Definition struct {
	// Config holds the Contrail type name, path templates and parent type
	Config base.ResourceConfig
	// Descriptor and Schema describe the type to formae. Descriptor.Type is the formae type name.
	Descriptor plugin.ResourceDescriptor
	Schema     model.Schema
}

// Registry maps Contrail type names to their definitions
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]Definition
	pluginTypes map[string]string
}

var registry = New()

// New creates an empty registry
func New() *Registry {
	return &Registry{
		definitions: make(map[string]Definition),
		pluginTypes: make(map[string]string),
	}
}

// Register adds a resource type to the registry
func (r *Registry) Register(def Definition) error {
	if err := def.Config.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.definitions[def.Config.ResourceType]; ok {
		return fmt.Errorf("resource type already registered: %s", def.Config.ResourceType)
	}
	r.definitions[def.Config.ResourceType] = def
	if def.Descriptor.Type != "" {
		r.pluginTypes[def.Descriptor.Type] = def.Config.ResourceType
	}
	return nil
}

// Lookup returns the definition for a Contrail type name (e.g. "virtual-network")
func (r *Registry) Lookup(resourceType string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.definitions[resourceType]
	return def, ok
}

// LookupPluginType returns the definition for a formae type name (e.g. "Contrail::Network::VirtualNetwork")
func (r *Registry) LookupPluginType(pluginType string) (Definition, bool) {
	r.mu.RLock()
	resourceType, ok := r.pluginTypes[pluginType]
	r.mu.RUnlock()
	if !ok {
		return Definition{}, false
	}
	return r.Lookup(resourceType)
}

// ResourceTypes returns all registered Contrail type names, sorted
func (r *Registry) ResourceTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

// Register adds a resource type to the default registry.
// Called by resource packages in their init() functions; panics on an invalid definition.
func Register(def Definition) {
	if err := registry.Register(def); err != nil {
		panic(err)
	}
}

// Default returns the process-wide registry populated by init()
func Default() *Registry {
	return registry
}

// Lookup returns the definition for a Contrail type name from the default registry
func Lookup(resourceType string) (Definition, bool) {
	return registry.Lookup(resourceType)
}

// LookupPluginType returns the definition for a formae type name from the default registry
func LookupPluginType(pluginType string) (Definition, bool) {
	return registry.LookupPluginType(pluginType)
}

// ResourceTypes returns all Contrail type names in the default registry
func ResourceTypes() []string {
	return registry.ResourceTypes()
}

// GetAllDescriptors returns all registered resource descriptors
func GetAllDescriptors() []plugin.ResourceDescriptor {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	descriptors := make([]plugin.ResourceDescriptor, 0, len(registry.definitions))
	for _, def := range registry.definitions {
		descriptors = append(descriptors, def.Descriptor)
	}
	return descriptors
}

// GetSchema retrieves the schema for a formae type name
func GetSchema(pluginType string) (model.Schema, bool) {
	def, ok := registry.LookupPluginType(pluginType)
	if !ok {
		return model.Schema{}, false
	}
	return def.Schema, true
}
