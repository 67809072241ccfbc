// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package base

import (
	"context"
	"fmt"
	"net/http"

	contrailtransport "github.com/platform-engineering-labs/formae-plugin-contrail/pkg/transport/contrail"
)

const (
	PathFQNameToID = "/fqname-to-id"
	PathIDToFQName = "/id-to-fqname"
)

// TransportClient interface for API calls
type TransportClient interface {
	Do(ctx context.Context, opts contrailtransport.RequestOptions) (*contrailtransport.Response, error)
}

// ResolveUUIDRequest builds the fqname-to-id request body
func ResolveUUIDRequest(resourceType string, fqname FQName) map[string]interface{} {
	return map[string]interface{}{
		"type":    resourceType,
		"fq_name": fqname.Slice(),
	}
}

// ResolveUUID maps a fully-qualified name to a UUID. On success content["uuid"] holds it.
// No caching happens here.
func ResolveUUID(ctx context.Context, client TransportClient, resourceType string, fqname FQName) (*contrailtransport.Response, error) {
	return client.Do(ctx, contrailtransport.RequestOptions{
		Method: http.MethodPost,
		Path:   PathFQNameToID,
		Body:   ResolveUUIDRequest(resourceType, fqname),
	})
}

// ResolveFQName maps a UUID back to its type and fully-qualified name.
// On success content["type"] and content["fq_name"] identify the resource.
func ResolveFQName(ctx context.Context, client TransportClient, uuid string) (*contrailtransport.Response, error) {
	return client.Do(ctx, contrailtransport.RequestOptions{
		Method: http.MethodPost,
		Path:   PathIDToFQName,
		Body:   map[string]interface{}{"uuid": uuid},
	})
}

// FQNameFromContent extracts the type and name from a successful id-to-fqname response
func FQNameFromContent(content map[string]interface{}) (string, FQName, error) {
	resourceType, _ := content["type"].(string)
	if resourceType == "" {
		return "", FQName{}, fmt.Errorf("type missing from response")
	}
	fqname, err := ParseFQName(content["fq_name"])
	if err != nil {
		return "", FQName{}, err
	}
	return resourceType, fqname, nil
}
