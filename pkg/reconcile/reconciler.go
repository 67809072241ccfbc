// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package reconcile

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/registry"
	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/resources/base"
	contrailtransport "github.com/platform-engineering-labs/formae-plugin-contrail/pkg/transport/contrail"
)

// Request identifies a resource and the state it should be driven to
type Request struct {
	Type       string
	Name       string
	Project    string
	Domain     string
	State      State
	Definition map[string]interface{}
}

// FQName returns the fully-qualified name of the requested resource
func (r Request) FQName() base.FQName {
	return base.FQName{Domain: r.Domain, Project: r.Project, Name: r.Name}
}

// Reconciler drives Contrail resources to a desired state.
// It holds no per-resource state; every call builds a fresh handle.
type Reconciler struct {
	Client   base.TransportClient
	Registry *registry.Registry
}

// New creates a Reconciler over the default registry
func New(client base.TransportClient) *Reconciler {
	return &Reconciler{Client: client, Registry: registry.Default()}
}

// Reconcile resolves the resource named by req and drives it to req.State.
// Failures raised by the resource handle come back as the returned Result with a nil error;
// a non-nil error means a failure that has no Result form.
func (r *Reconciler) Reconcile(ctx context.Context, req Request) (base.Result, error) {
	if !req.State.Valid() {
		return invalidState(req.State), nil
	}
	def, ok := r.Registry.Lookup(req.Type)
	if !ok {
		return base.Failure(fmt.Sprintf("Unknown resource type: %s", req.Type)), nil
	}

	log.Debug().Str("type", req.Type).Str("fq_name", req.FQName().String()).Str("state", string(req.State)).Msg("Reconciling resource")

	handle := base.NewResource(r.Client, def.Config, req.FQName())
	return unwrap(dispatch(ctx, handle, req.State, req.Definition))
}

// ReconcileByUUID reconciles a resource known only by its UUID. The name is
// resolved through id-to-fqname and the UUID seeds the handle cache.
func (r *Reconciler) ReconcileByUUID(ctx context.Context, resourceType, uuid string, state State, definition map[string]interface{}) (base.Result, error) {
	if !state.Valid() {
		return invalidState(state), nil
	}
	def, ok := r.Registry.Lookup(resourceType)
	if !ok {
		return base.Failure(fmt.Sprintf("Unknown resource type: %s", resourceType)), nil
	}

	request := map[string]interface{}{"uuid": uuid}
	response, err := base.ResolveFQName(ctx, r.Client, uuid)
	if err != nil {
		return exception(err, http.MethodPost, base.PathIDToFQName, request), nil
	}

	notFound := base.Result{
		Failed:     true,
		Msg:        base.MsgResourceNotExists,
		Method:     http.MethodPost,
		Path:       base.PathIDToFQName,
		Request:    request,
		Response:   response.Body,
		StatusCode: response.StatusCode,
	}
	if response.StatusCode != http.StatusOK {
		return notFound, nil
	}
	foundType, fqname, err := base.FQNameFromContent(response.Body)
	if err != nil || foundType != def.Config.ResourceType {
		return notFound, nil
	}

	handle := base.NewResourceWithUUID(r.Client, def.Config, fqname, uuid)
	return unwrap(dispatch(ctx, handle, state, definition))
}

// List returns the UUIDs of every resource in the type's collection
func (r *Reconciler) List(ctx context.Context, resourceType string) ([]string, error) {
	def, ok := r.Registry.Lookup(resourceType)
	if !ok {
		return nil, fmt.Errorf("unknown resource type: %s", resourceType)
	}

	path := def.Config.CollectionURL()
	response, err := r.Client.Do(ctx, contrailtransport.RequestOptions{
		Method: http.MethodGet,
		Path:   path,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", def.Config.PathPost, err)
	}
	if response.StatusCode != http.StatusOK {
		return nil, contrailtransport.NewError(
			contrailtransport.ClassifyHTTPStatus(response.StatusCode),
			fmt.Sprintf("failed to list %s: status %d: %v", def.Config.PathPost, response.StatusCode, response.Body["message"]),
			nil,
		)
	}

	entries, _ := response.Body[def.Config.PathPost].([]interface{})
	uuids := make([]string, 0, len(entries))
	for _, entry := range entries {
		item, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		if id, ok := item["uuid"].(string); ok && id != "" {
			uuids = append(uuids, id)
		}
	}
	return uuids, nil
}

// Query reports the resource definition, or a failure if it does not exist
func Query(ctx context.Context, handle *base.Resource) (base.Result, error) {
	exists, err := handle.Exists(ctx)
	if err != nil {
		return base.Result{}, err
	}
	if !exists {
		return base.Failure(base.MsgResourceNotExists), nil
	}

	definition, err := handle.Definition(ctx)
	if err != nil {
		return base.Result{}, err
	}

	result := base.NewResult()
	result.Msg = base.MsgResourceQueried
	result.Response = definition
	return result, nil
}

// Present creates or updates the resource with definition
func Present(ctx context.Context, handle *base.Resource, definition map[string]interface{}) (base.Result, error) {
	return handle.Apply(ctx, definition)
}

// Absent deletes the resource if it exists
func Absent(ctx context.Context, handle *base.Resource) (base.Result, error) {
	return handle.Delete(ctx)
}

func dispatch(ctx context.Context, handle *base.Resource, state State, definition map[string]interface{}) (base.Result, error) {
	switch state {
	case StateQuery, StateStatus:
		return Query(ctx, handle)
	case StatePresent:
		return Present(ctx, handle, definition)
	case StateAbsent:
		return Absent(ctx, handle)
	default:
		return invalidState(state), nil
	}
}

func invalidState(state State) base.Result {
	return base.Failure(fmt.Sprintf("Invalid module state: %s", state))
}

// unwrap turns a handle failure into the final Result
func unwrap(result base.Result, err error) (base.Result, error) {
	var rerr *base.Error
	if errors.As(err, &rerr) {
		return rerr.Result, nil
	}
	return result, err
}

func exception(err error, method, path string, request map[string]interface{}) base.Result {
	return base.Result{
		Failed:     true,
		Msg:        fmt.Sprintf("Exception: %v", err),
		Method:     method,
		Path:       path,
		Request:    request,
		StatusCode: base.NoStatusCode,
	}
}
