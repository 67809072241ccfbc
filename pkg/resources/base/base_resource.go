// pkg/resources/base/base_resource.go
package base

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	contrailtransport "github.com/platform-engineering-labs/formae-plugin-contrail/pkg/transport/contrail"
)

const (
	MsgResourceUpdated   = "Resource updated"
	MsgResourceDeleted   = "Resource deleted"
	MsgResourceQueried   = "Resource queried"
	MsgResourceNotExists = "Resource does not exists"
	MsgUpdateFailed      = "Failed to update resource"
)

// Resource is a handle on one typed Contrail resource, identified by its FQName.
// The UUID and definition are resolved lazily and cached for the lifetime of the handle.
// A handle is not safe for concurrent use.
type Resource struct {
	Config ResourceConfig
	FQName FQName
	Client TransportClient

	uuid       string
	definition map[string]interface{}
}

// NewResource creates a handle for the resource named fqname
func NewResource(client TransportClient, cfg ResourceConfig, fqname FQName) *Resource {
	return &Resource{Config: cfg, FQName: fqname, Client: client}
}

// NewResourceWithUUID creates a handle whose UUID is already known
func NewResourceWithUUID(client TransportClient, cfg ResourceConfig, fqname FQName, uuid string) *Resource {
	r := NewResource(client, cfg, fqname)
	r.uuid = uuid
	return r
}

// UUID returns the resource UUID, or "" if the resource does not exist.
// Once resolved, the UUID is never looked up again.
func (r *Resource) UUID(ctx context.Context) (string, error) {
	if r.uuid != "" {
		return r.uuid, nil
	}

	request := ResolveUUIDRequest(r.Config.ResourceType, r.FQName)
	response, err := ResolveUUID(ctx, r.Client, r.Config.ResourceType, r.FQName)
	if err != nil {
		return "", NewError(exceptionResult(err, http.MethodPost, PathFQNameToID, request))
	}

	if response.StatusCode == http.StatusOK {
		if uuid, ok := response.Body["uuid"].(string); ok && uuid != "" {
			r.uuid = uuid
			log.Debug().Str("type", r.Config.ResourceType).Str("fq_name", r.FQName.String()).Str("uuid", uuid).Msg("Resolved resource UUID")
		}
	}
	return r.uuid, nil
}

// Definition returns the resource as stored by the API, or nil if it cannot be read.
// A successfully read definition is cached.
func (r *Resource) Definition(ctx context.Context) (map[string]interface{}, error) {
	if r.definition != nil {
		return r.definition, nil
	}

	uuid, err := r.UUID(ctx)
	if err != nil {
		return nil, err
	}
	if uuid == "" {
		return nil, nil
	}

	path := r.Config.GetURL(uuid)
	response, err := r.Client.Do(ctx, contrailtransport.RequestOptions{
		Method: http.MethodGet,
		Path:   path,
	})
	if err != nil {
		return nil, NewError(exceptionResult(err, http.MethodGet, path, nil))
	}

	if response.StatusCode == http.StatusOK {
		r.definition = response.Body
	}
	return r.definition, nil
}

// Exists reports whether the resource has a UUID
func (r *Resource) Exists(ctx context.Context) (bool, error) {
	uuid, err := r.UUID(ctx)
	if err != nil {
		return false, err
	}
	return uuid != "", nil
}

// Envelope wraps a definition into the create/update payload:
// {<type>: {parent_type, fq_name, ...definition}}. Keys in definition win.
func (r *Resource) Envelope(definition map[string]interface{}) map[string]interface{} {
	inner := map[string]interface{}{
		"parent_type": r.Config.ParentType,
		"fq_name":     r.FQName.Slice(),
	}
	for k, v := range definition {
		inner[k] = v
	}
	return map[string]interface{}{r.Config.ResourceType: inner}
}

// Apply creates the resource (POST on the collection) or updates it (PUT on the resource)
func (r *Resource) Apply(ctx context.Context, definition map[string]interface{}) (Result, error) {
	request := r.Envelope(definition)

	exists, err := r.Exists(ctx)
	if err != nil {
		return Result{}, err
	}

	method, path := http.MethodPost, r.Config.CollectionURL()
	if exists {
		method, path = http.MethodPut, r.Config.ResourceURL(r.uuid)
	}

	response, err := r.Client.Do(ctx, contrailtransport.RequestOptions{
		Method: method,
		Path:   path,
		Body:   request,
	})
	if err != nil {
		// The failure detail does not reach the caller, only the log.
		log.Error().Err(err).Str("method", method).Str("path", path).Msg("Failed to apply resource")
		failed := NewResult()
		failed.Failed = true
		return Result{}, NewError(failed)
	}

	result := Result{
		Method:     method,
		Path:       path,
		Request:    request,
		Response:   response.Body,
		StatusCode: response.StatusCode,
	}
	if response.StatusCode != http.StatusOK {
		result.Failed = true
		result.Msg = MsgUpdateFailed
		return Result{}, NewError(result)
	}

	result.Changed = true
	result.Msg = MsgResourceUpdated
	return result, nil
}

// Delete removes the resource if it exists.
// The result never reports a change, even when a DELETE was issued.
func (r *Resource) Delete(ctx context.Context) (Result, error) {
	exists, err := r.Exists(ctx)
	if err != nil {
		return Result{}, err
	}

	if !exists {
		result := NewResult()
		result.Msg = MsgResourceNotExists
		return result, nil
	}

	method, path := http.MethodDelete, r.Config.ResourceURL(r.uuid)
	response, err := r.Client.Do(ctx, contrailtransport.RequestOptions{
		Method: method,
		Path:   path,
	})
	if err != nil {
		return Result{}, NewError(exceptionResult(err, method, path, nil))
	}

	return Result{
		Msg:        MsgResourceDeleted,
		Method:     method,
		Path:       path,
		Response:   response.Body,
		StatusCode: response.StatusCode,
	}, nil
}

func exceptionResult(err error, method, path string, request map[string]interface{}) Result {
	return Result{
		Failed:     true,
		Msg:        fmt.Sprintf("Exception: %v", err),
		Method:     method,
		Path:       path,
		Request:    request,
		StatusCode: NoStatusCode,
	}
}
