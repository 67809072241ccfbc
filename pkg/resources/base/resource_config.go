// pkg/resources/base/resource_config.go
package base

import "fmt"

// ResourceConfig defines how a Contrail resource type maps onto API paths
type ResourceConfig struct {
	// ResourceType is the Contrail type name (e.g. "virtual-network")
	ResourceType string
	// PathGet is used to read a single resource: GET /{PathGet}/{uuid}
	PathGet string
	// PathPut is used to update and delete: PUT|DELETE /{PathPut}/{uuid}
	PathPut string
	// PathPost is the collection path used to create: POST /{PathPost}
	PathPost string
	// ParentType is sent in the create/update envelope (e.g. "project")
	ParentType string
}

// Validate checks that every path template is set
func (c ResourceConfig) Validate() error {
	switch {
	case c.ResourceType == "":
		return fmt.Errorf("resource type cannot be empty")
	case c.PathGet == "":
		return fmt.Errorf("%s: get path cannot be empty", c.ResourceType)
	case c.PathPut == "":
		return fmt.Errorf("%s: put path cannot be empty", c.ResourceType)
	case c.PathPost == "":
		return fmt.Errorf("%s: post path cannot be empty", c.ResourceType)
	}
	return nil
}

// GetURL returns the path to read a resource
func (c ResourceConfig) GetURL(uuid string) string {
	return fmt.Sprintf("/%s/%s", c.PathGet, uuid)
}

// ResourceURL returns the path to update or delete a resource
func (c ResourceConfig) ResourceURL(uuid string) string {
	return fmt.Sprintf("/%s/%s", c.PathPut, uuid)
}

// CollectionURL returns the path to create or list resources
func (c ResourceConfig) CollectionURL() string {
	return fmt.Sprintf("/%s", c.PathPost)
}
