// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package prov

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/platform-engineering-labs/formae/pkg/plugin/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/config"
	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/registry"
	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/resources/network"
	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/testutil"
	contrailtransport "github.com/platform-engineering-labs/formae-plugin-contrail/pkg/transport/contrail"
)

func newTestProvisioner(t *testing.T) (*Contrail, *testutil.FakeContrail) {
	t.Helper()

	fake := testutil.NewFakeContrail(t)
	client, err := contrailtransport.NewClient(&gophercloud.ProviderClient{}, fake.URL())
	require.NoError(t, err)

	def, ok := registry.LookupPluginType(network.ResourceTypeVirtualNetwork)
	require.True(t, ok)

	cfg := &config.Config{APIURL: fake.URL(), Domain: "default-domain", Project: "vCenter"}
	return New(def, client, cfg), fake
}

func decode(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var props map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &props))
	return props
}

func TestContrail_Create(t *testing.T) {
	p, fake := newTestProvisioner(t)

	result, err := p.Create(context.Background(), &resource.CreateRequest{
		ResourceType: network.ResourceTypeVirtualNetwork,
		Properties:   json.RawMessage(`{"name":"VPCB1","display_name":"VPC B1","is_shared":false}`),
	})
	require.NoError(t, err)
	require.NotNil(t, result.ProgressResult)
	require.Equal(t, resource.OperationStatusSuccess, result.ProgressResult.OperationStatus, result.ProgressResult.StatusMessage)
	assert.NotEmpty(t, result.ProgressResult.NativeID)

	props := decode(t, string(result.ProgressResult.ResourceProperties))
	assert.Equal(t, "VPCB1", props["name"])
	assert.Equal(t, "vCenter", props["project"])
	assert.Equal(t, "default-domain", props["domain"])
	assert.Equal(t, "VPC B1", props["display_name"])
	assert.Equal(t, result.ProgressResult.NativeID, props["uuid"])

	stored, ok := fake.Object(result.ProgressResult.NativeID)
	require.True(t, ok)
	assert.Equal(t, "project", stored["parent_type"])
	assert.NotContains(t, stored, "name")
}

func TestContrail_CreateInvalid(t *testing.T) {
	p, fake := newTestProvisioner(t)

	for _, raw := range []string{`not json`, `{"display_name":"no name"}`} {
		result, err := p.Create(context.Background(), &resource.CreateRequest{Properties: json.RawMessage(raw)})
		require.NoError(t, err)
		assert.Equal(t, resource.OperationStatusFailure, result.ProgressResult.OperationStatus)
		assert.Equal(t, resource.OperationErrorCodeInvalidRequest, result.ProgressResult.ErrorCode)
	}
	assert.Empty(t, fake.Requests())
}

func TestContrail_Read(t *testing.T) {
	p, fake := newTestProvisioner(t)
	id := fake.Seed("virtual-network", []string{"default-domain", "vCenter", "VPCB1"}, map[string]interface{}{
		"router_external": true,
		"id_perms":        map[string]interface{}{"enable": true},
	})

	result, err := p.Read(context.Background(), &resource.ReadRequest{NativeID: id})
	require.NoError(t, err)
	require.Empty(t, result.ErrorCode)

	props := decode(t, result.Properties)
	assert.Equal(t, "VPCB1", props["name"])
	assert.Equal(t, true, props["router_external"])
	assert.NotContains(t, props, "id_perms", "fields outside the schema are dropped")
}

func TestContrail_ReadMissing(t *testing.T) {
	p, _ := newTestProvisioner(t)

	result, err := p.Read(context.Background(), &resource.ReadRequest{NativeID: "0000-missing"})
	require.NoError(t, err)
	assert.Equal(t, resource.OperationErrorCodeNotFound, result.ErrorCode)

	result, err = p.Read(context.Background(), &resource.ReadRequest{})
	require.NoError(t, err)
	assert.Equal(t, resource.OperationErrorCodeInvalidRequest, result.ErrorCode)
}

func TestContrail_ReadDeletedAfterResolve(t *testing.T) {
	id := "7d1e0b5c-3f8a-4c2e-9b61-0a4f2d9e8c11"
	transport := testutil.NewRecordingTransport().
		On("POST", "/id-to-fqname", 200, map[string]interface{}{
			"type":    "virtual-network",
			"fq_name": []interface{}{"default-domain", "vCenter", "VPCB1"},
		}).
		On("GET", "/virtual-network/"+id, 404, map[string]interface{}{"message": "virtual-network " + id + " not found"})

	def, ok := registry.LookupPluginType(network.ResourceTypeVirtualNetwork)
	require.True(t, ok)
	p := New(def, transport, &config.Config{Domain: "default-domain", Project: "vCenter"})

	result, err := p.Read(context.Background(), &resource.ReadRequest{NativeID: id})
	require.NoError(t, err)
	assert.Equal(t, resource.OperationErrorCodeNotFound, result.ErrorCode)
	assert.Len(t, transport.CallsTo("GET", "/virtual-network/"+id), 1)
}

func TestContrail_Update(t *testing.T) {
	p, fake := newTestProvisioner(t)
	id := fake.Seed("virtual-network", []string{"default-domain", "vCenter", "VPCB1"}, map[string]interface{}{"display_name": "old"})

	result, err := p.Update(context.Background(), &resource.UpdateRequest{
		NativeID:          id,
		DesiredProperties: json.RawMessage(`{"name":"VPCB1","display_name":"new"}`),
	})
	require.NoError(t, err)
	require.Equal(t, resource.OperationStatusSuccess, result.ProgressResult.OperationStatus, result.ProgressResult.StatusMessage)
	assert.Equal(t, id, result.ProgressResult.NativeID)

	props := decode(t, string(result.ProgressResult.ResourceProperties))
	assert.Equal(t, "new", props["display_name"])
	assert.Equal(t, 1, fake.CountRequests("PUT", "/virtual-network/"+id))
}

func TestContrail_UpdateMissing(t *testing.T) {
	p, _ := newTestProvisioner(t)

	result, err := p.Update(context.Background(), &resource.UpdateRequest{
		NativeID:          "0000-missing",
		DesiredProperties: json.RawMessage(`{"display_name":"new"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, resource.OperationStatusFailure, result.ProgressResult.OperationStatus)
	assert.Equal(t, resource.OperationErrorCodeNotFound, result.ProgressResult.ErrorCode)
}

func TestContrail_Delete(t *testing.T) {
	p, fake := newTestProvisioner(t)
	id := fake.Seed("virtual-network", []string{"default-domain", "vCenter", "VPCB1"}, nil)

	result, err := p.Delete(context.Background(), &resource.DeleteRequest{NativeID: id})
	require.NoError(t, err)
	assert.Equal(t, resource.OperationStatusSuccess, result.ProgressResult.OperationStatus)
	_, ok := fake.Object(id)
	assert.False(t, ok)

	// already gone
	result, err = p.Delete(context.Background(), &resource.DeleteRequest{NativeID: id})
	require.NoError(t, err)
	assert.Equal(t, resource.OperationStatusSuccess, result.ProgressResult.OperationStatus)
	assert.Equal(t, 1, fake.CountRequests("DELETE", "/virtual-network/"+id))
}

func TestContrail_StatusAndList(t *testing.T) {
	p, fake := newTestProvisioner(t)
	first := fake.Seed("virtual-network", []string{"default-domain", "vCenter", "a"}, nil)
	second := fake.Seed("virtual-network", []string{"default-domain", "admin", "b"}, nil)

	status, err := p.Status(context.Background(), &resource.StatusRequest{RequestID: "req-1"})
	require.NoError(t, err)
	assert.Equal(t, resource.OperationStatusSuccess, status.ProgressResult.OperationStatus)
	assert.Equal(t, "req-1", status.ProgressResult.RequestID)

	list, err := p.List(context.Background(), &resource.ListRequest{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first, second}, list.NativeIDs)
}

func TestContrail_Unauthorized(t *testing.T) {
	p, fake := newTestProvisioner(t)
	fake.RequireToken = "expected"

	result, err := p.Create(context.Background(), &resource.CreateRequest{Properties: json.RawMessage(`{"name":"VPCB1"}`)})
	require.NoError(t, err)
	assert.Equal(t, resource.OperationStatusFailure, result.ProgressResult.OperationStatus)
	assert.Equal(t, resource.OperationErrorCodeAccessDenied, result.ProgressResult.ErrorCode)
}
