// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package resources

import (
	"encoding/json"
	"fmt"

	"github.com/platform-engineering-labs/formae/pkg/plugin/resource"

	"github.com/platform-engineering-labs/formae-plugin-contrail/pkg/resources/base"
	contrailtransport "github.com/platform-engineering-labs/formae-plugin-contrail/pkg/transport/contrail"
)

// Property names that make up the fq_name, plus the identifier
const (
	PropName    = "name"
	PropProject = "project"
	PropDomain  = "domain"
	PropUUID    = "uuid"
)

// ParseProperties unmarshals JSON properties from a request into a map.
// Returns an error if the properties cannot be parsed.
func ParseProperties(data []byte) (map[string]interface{}, error) {
	var props map[string]interface{}
	if err := json.Unmarshal(data, &props); err != nil {
		return nil, fmt.Errorf("failed to parse resource properties: %w", err)
	}
	return props, nil
}

// ValidateNativeID checks that the NativeID is present and not empty.
func ValidateNativeID(nativeID string) error {
	if nativeID == "" {
		return fmt.Errorf("nativeID is required")
	}
	return nil
}

// MarshalProperties marshals a properties map to a JSON string.
func MarshalProperties(props map[string]interface{}) (string, error) {
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return "", fmt.Errorf("failed to marshal properties: %w", err)
	}
	return string(propsJSON), nil
}

// NewFailureResultWithMessage creates a standardized failure ProgressResult with a status message.
func NewFailureResultWithMessage(op resource.Operation, errCode resource.OperationErrorCode, nativeID string, message string) *resource.ProgressResult {
	return &resource.ProgressResult{
		Operation:       op,
		OperationStatus: resource.OperationStatusFailure,
		ErrorCode:       errCode,
		NativeID:        nativeID,
		StatusMessage:   message,
	}
}

// SplitProperties separates the fq_name parts from the definition payload.
// Project and domain fall back to the given defaults.
func SplitProperties(props map[string]interface{}, defaultDomain, defaultProject string) (base.FQName, map[string]interface{}, error) {
	fqname := base.FQName{
		Domain:  stringProp(props, PropDomain, defaultDomain),
		Project: stringProp(props, PropProject, defaultProject),
		Name:    stringProp(props, PropName, ""),
	}
	if fqname.Name == "" {
		return base.FQName{}, nil, fmt.Errorf("property %q is required", PropName)
	}
	if fqname.Project == "" {
		return base.FQName{}, nil, fmt.Errorf("property %q is required (set it or configure a default project)", PropProject)
	}

	definition := make(map[string]interface{}, len(props))
	for k, v := range props {
		switch k {
		case PropName, PropProject, PropDomain, PropUUID:
		default:
			definition[k] = v
		}
	}
	return fqname, definition, nil
}

// DefinitionToProperties flattens a GET response ({<type>: {...}}) into
// resource properties, keeping only the given fields.
func DefinitionToProperties(resourceType string, definition map[string]interface{}, fields []string) (map[string]interface{}, error) {
	inner, ok := definition[resourceType].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("response has no %s object", resourceType)
	}

	props := map[string]interface{}{}
	if id, ok := inner["uuid"].(string); ok {
		props[PropUUID] = id
	}
	if fqname, err := base.ParseFQName(inner["fq_name"]); err == nil {
		props[PropDomain] = fqname.Domain
		props[PropProject] = fqname.Project
		props[PropName] = fqname.Name
	}
	for _, field := range fields {
		if _, set := props[field]; set {
			continue
		}
		if v, ok := inner[field]; ok {
			props[field] = v
		}
	}
	return props, nil
}

// CreatedUUID extracts the UUID from a create/update response, if present
func CreatedUUID(resourceType string, result base.Result) string {
	inner, ok := result.Response[resourceType].(map[string]interface{})
	if !ok {
		return ""
	}
	id, _ := inner["uuid"].(string)
	return id
}

// ResultErrorCode maps a failed Result to a formae error code
func ResultErrorCode(result base.Result) resource.OperationErrorCode {
	if result.StatusCode == base.NoStatusCode {
		if result.Msg == base.MsgResourceNotExists {
			return resource.OperationErrorCodeNotFound
		}
		return resource.OperationErrorCodeServiceInternalError
	}
	if result.StatusCode == 200 && result.Msg == base.MsgResourceNotExists {
		return resource.OperationErrorCodeNotFound
	}
	return contrailtransport.ToResourceErrorCode(contrailtransport.ClassifyHTTPStatus(result.StatusCode))
}

// ResultMessage renders a failed Result for a status message
func ResultMessage(result base.Result) string {
	msg := result.Msg
	if msg == "" {
		msg = "contrail operation failed"
	}
	if detail, ok := result.Response["message"].(string); ok && detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, detail)
	}
	if result.Method != "" {
		msg = fmt.Sprintf("%s (%s %s, status %d)", msg, result.Method, result.Path, result.StatusCode)
	}
	return msg
}
