// pkg/transport/contrail/errors_test.go
package contrail

import (
	"errors"
	"testing"

	"github.com/platform-engineering-labs/formae/pkg/plugin/resource"
)

func TestClassifyHTTPStatus(t *testing.T) {
	tests := []struct {
		statusCode int
		want       ErrorCode
	}{
		{400, ErrorCodeInvalidInput},
		{401, ErrorCodeUnauthorized},
		{403, ErrorCodeUnauthorized},
		{404, ErrorCodeResourceNotFound},
		{409, ErrorCodeAlreadyExists},
		{429, ErrorCodeThrottling},
		{500, ErrorCodeInternalError},
		{200, ErrorCodeNone},
		{202, ErrorCodeNone},
		{-1, ErrorCodeUnknown},
	}

	for _, tt := range tests {
		got := ClassifyHTTPStatus(tt.statusCode)
		if got != tt.want {
			t.Errorf("ClassifyHTTPStatus(%d) = %v, want %v", tt.statusCode, got, tt.want)
		}
	}
}

func TestToResourceErrorCode(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want resource.OperationErrorCode
	}{
		{ErrorCodeInvalidInput, resource.OperationErrorCodeInvalidRequest},
		{ErrorCodeUnauthorized, resource.OperationErrorCodeAccessDenied},
		{ErrorCodeResourceNotFound, resource.OperationErrorCodeNotFound},
		{ErrorCodeAlreadyExists, resource.OperationErrorCodeAlreadyExists},
		{ErrorCodeThrottling, resource.OperationErrorCodeThrottling},
		{ErrorCodeUnknown, resource.OperationErrorCodeServiceInternalError},
	}

	for _, tt := range tests {
		got := ToResourceErrorCode(tt.code)
		if got != tt.want {
			t.Errorf("ToResourceErrorCode(%v) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("connection reset by peer")
	err := NewError(ErrorCodeUnknown, "request failed", underlying)

	if !errors.Is(err, underlying) {
		t.Errorf("errors.Is(err, underlying) = false, want true")
	}
	if got, want := err.Error(), "UNKNOWN: request failed"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
