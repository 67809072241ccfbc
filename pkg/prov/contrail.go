// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package prov

import (
	"context"
	"fmt"

	"github.com/platform-engineering-labs/formae/pkg/plugin/resource"
	"github.com/rs/zerolog/log"

	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/config"
	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/reconcile"
	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/registry"
	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/resources"
	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/resources/base"
)

// Contrail provisions any registered Contrail resource type through the reconciler.
// Create and Update drive the resource to present, Read queries it and Delete drives it to absent.
type Contrail struct {
	Definition registry.Definition
	Reconciler *reconcile.Reconciler
	Config     *config.Config
}

var _ Provisioner = &Contrail{}

// New creates a provisioner for def
func New(def registry.Definition, client base.TransportClient, cfg *config.Config) *Contrail {
	if cfg == nil {
		cfg = &config.Config{Domain: config.DefaultDomain}
	}
	return &Contrail{
		Definition: def,
		Reconciler: reconcile.New(client),
		Config:     cfg,
	}
}

func (p *Contrail) resourceType() string {
	return p.Definition.Config.ResourceType
}

// Create creates the resource, or updates it if one with the same fq_name exists
func (p *Contrail) Create(ctx context.Context, request *resource.CreateRequest) (*resource.CreateResult, error) {
	props, err := resources.ParseProperties(request.Properties)
	if err != nil {
		return &resource.CreateResult{
			ProgressResult: resources.NewFailureResultWithMessage(resource.OperationCreate, resource.OperationErrorCodeInvalidRequest, "", err.Error()),
		}, nil
	}

	fqname, definition, err := resources.SplitProperties(props, p.Config.Domain, p.Config.Project)
	if err != nil {
		return &resource.CreateResult{
			ProgressResult: resources.NewFailureResultWithMessage(resource.OperationCreate, resource.OperationErrorCodeInvalidRequest, "", err.Error()),
		}, nil
	}

	result, err := p.Reconciler.Reconcile(ctx, reconcile.Request{
		Type:       p.resourceType(),
		Name:       fqname.Name,
		Project:    fqname.Project,
		Domain:     fqname.Domain,
		State:      reconcile.StatePresent,
		Definition: definition,
	})
	if progress := failure(resource.OperationCreate, "", result, err); progress != nil {
		return &resource.CreateResult{ProgressResult: progress}, nil
	}

	id := resources.CreatedUUID(p.resourceType(), result)
	if id == "" {
		id, err = p.lookupUUID(ctx, fqname)
		if err != nil {
			return &resource.CreateResult{
				ProgressResult: resources.NewFailureResultWithMessage(resource.OperationCreate, resource.OperationErrorCodeServiceInternalError, "", err.Error()),
			}, nil
		}
	}

	log.Info().Str("type", p.resourceType()).Str("fq_name", fqname.String()).Str("uuid", id).Msg("Created resource")
	return &resource.CreateResult{ProgressResult: p.readBack(ctx, resource.OperationCreate, id)}, nil
}

// Read retrieves the current state of the resource identified by its UUID
func (p *Contrail) Read(ctx context.Context, request *resource.ReadRequest) (*resource.ReadResult, error) {
	if err := resources.ValidateNativeID(request.NativeID); err != nil {
		return &resource.ReadResult{ErrorCode: resource.OperationErrorCodeInvalidRequest}, nil
	}

	props, result, err := p.query(ctx, request.NativeID)
	if err != nil {
		return &resource.ReadResult{ErrorCode: resource.OperationErrorCodeServiceInternalError}, nil
	}
	if result.Failed {
		return &resource.ReadResult{ErrorCode: resources.ResultErrorCode(result)}, nil
	}

	propsJSON, err := resources.MarshalProperties(props)
	if err != nil {
		return &resource.ReadResult{ErrorCode: resource.OperationErrorCodeGeneralServiceException}, nil
	}
	return &resource.ReadResult{Properties: propsJSON}, nil
}

// Update applies the desired properties to an existing resource
func (p *Contrail) Update(ctx context.Context, request *resource.UpdateRequest) (*resource.UpdateResult, error) {
	if err := resources.ValidateNativeID(request.NativeID); err != nil {
		return &resource.UpdateResult{
			ProgressResult: resources.NewFailureResultWithMessage(resource.OperationUpdate, resource.OperationErrorCodeInvalidRequest, "", err.Error()),
		}, nil
	}

	id := request.NativeID

	props, err := resources.ParseProperties(request.DesiredProperties)
	if err != nil {
		return &resource.UpdateResult{
			ProgressResult: resources.NewFailureResultWithMessage(resource.OperationUpdate, resource.OperationErrorCodeInvalidRequest, id, err.Error()),
		}, nil
	}

	// fq_name parts are create-only; the UUID decides which resource is updated
	definition := make(map[string]interface{}, len(props))
	for k, v := range props {
		switch k {
		case resources.PropName, resources.PropProject, resources.PropDomain, resources.PropUUID:
		default:
			definition[k] = v
		}
	}

	result, err := p.Reconciler.ReconcileByUUID(ctx, p.resourceType(), id, reconcile.StatePresent, definition)
	if progress := failure(resource.OperationUpdate, id, result, err); progress != nil {
		return &resource.UpdateResult{ProgressResult: progress}, nil
	}

	return &resource.UpdateResult{ProgressResult: p.readBack(ctx, resource.OperationUpdate, id)}, nil
}

// Delete removes the resource. A resource that is already gone counts as deleted.
func (p *Contrail) Delete(ctx context.Context, request *resource.DeleteRequest) (*resource.DeleteResult, error) {
	if err := resources.ValidateNativeID(request.NativeID); err != nil {
		return &resource.DeleteResult{
			ProgressResult: resources.NewFailureResultWithMessage(resource.OperationDelete, resource.OperationErrorCodeInvalidRequest, "", err.Error()),
		}, nil
	}

	id := request.NativeID

	result, err := p.Reconciler.ReconcileByUUID(ctx, p.resourceType(), id, reconcile.StateAbsent, nil)
	if err == nil && result.Failed && resources.ResultErrorCode(result) == resource.OperationErrorCodeNotFound {
		return &resource.DeleteResult{
			ProgressResult: &resource.ProgressResult{
				Operation:       resource.OperationDelete,
				OperationStatus: resource.OperationStatusSuccess,
				NativeID:        id,
			},
		}, nil
	}
	if progress := failure(resource.OperationDelete, id, result, err); progress != nil {
		return &resource.DeleteResult{ProgressResult: progress}, nil
	}

	// The DELETE itself is not checked by the handle
	if result.StatusCode != base.NoStatusCode && result.StatusCode != 200 && result.StatusCode != 404 {
		return &resource.DeleteResult{
			ProgressResult: resources.NewFailureResultWithMessage(resource.OperationDelete, resources.ResultErrorCode(result), id, resources.ResultMessage(result)),
		}, nil
	}

	return &resource.DeleteResult{
		ProgressResult: &resource.ProgressResult{
			Operation:       resource.OperationDelete,
			OperationStatus: resource.OperationStatusSuccess,
			NativeID:        id,
		},
	}, nil
}

// Status reports success; all Contrail operations complete synchronously
func (p *Contrail) Status(ctx context.Context, request *resource.StatusRequest) (*resource.StatusResult, error) {
	return &resource.StatusResult{
		ProgressResult: &resource.ProgressResult{
			Operation:       resource.OperationCheckStatus,
			OperationStatus: resource.OperationStatusSuccess,
			RequestID:       request.RequestID,
		},
	}, nil
}

// List discovers all resources of this type
func (p *Contrail) List(ctx context.Context, request *resource.ListRequest) (*resource.ListResult, error) {
	uuids, err := p.Reconciler.List(ctx, p.resourceType())
	if err != nil {
		return &resource.ListResult{}, fmt.Errorf("failed to list %s: %w", p.Definition.Config.PathPost, err)
	}
	return &resource.ListResult{NativeIDs: uuids}, nil
}

func (p *Contrail) query(ctx context.Context, id string) (map[string]interface{}, base.Result, error) {
	result, err := p.Reconciler.ReconcileByUUID(ctx, p.resourceType(), id, reconcile.StateQuery, nil)
	if err != nil || result.Failed {
		return nil, result, err
	}
	// id-to-fqname resolved but the GET did not; the resource went away in between
	if result.Response == nil {
		return nil, base.Failure(base.MsgResourceNotExists), nil
	}
	props, err := resources.DefinitionToProperties(p.resourceType(), result.Response, p.Definition.Schema.Fields)
	if err != nil {
		return nil, result, err
	}
	return props, result, nil
}

// readBack queries the resource after a write so the returned properties match the API
func (p *Contrail) readBack(ctx context.Context, op resource.Operation, id string) *resource.ProgressResult {
	props, result, err := p.query(ctx, id)
	if err != nil {
		return resources.NewFailureResultWithMessage(op, resource.OperationErrorCodeGeneralServiceException, id, err.Error())
	}
	if result.Failed {
		return resources.NewFailureResultWithMessage(op, resources.ResultErrorCode(result), id, resources.ResultMessage(result))
	}

	propsJSON, err := resources.MarshalProperties(props)
	if err != nil {
		return resources.NewFailureResultWithMessage(op, resource.OperationErrorCodeGeneralServiceException, id, err.Error())
	}

	return &resource.ProgressResult{
		Operation:          op,
		OperationStatus:    resource.OperationStatusSuccess,
		NativeID:           id,
		ResourceProperties: []byte(propsJSON),
	}
}

func (p *Contrail) lookupUUID(ctx context.Context, fqname base.FQName) (string, error) {
	handle := base.NewResource(p.Reconciler.Client, p.Definition.Config, fqname)
	id, err := handle.UUID(ctx)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("%s %s not found after create", p.resourceType(), fqname)
	}
	return id, nil
}

// failure converts a failed reconciliation into a ProgressResult, or returns nil on success
func failure(op resource.Operation, nativeID string, result base.Result, err error) *resource.ProgressResult {
	if err != nil {
		return resources.NewFailureResultWithMessage(op, resource.OperationErrorCodeServiceInternalError, nativeID, err.Error())
	}
	if !result.Failed {
		return nil
	}
	log.Warn().Str("operation", fmt.Sprint(op)).Str("native_id", nativeID).Str("msg", result.Msg).Int("status_code", result.StatusCode).Msg("Contrail operation failed")
	return resources.NewFailureResultWithMessage(op, resources.ResultErrorCode(result), nativeID, resources.ResultMessage(result))
}
