// pkg/transport/contrail/client_test.go
package contrail

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&gophercloud.ProviderClient{}, server.URL)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(nil, "http://contrail:8082")
	assert.Error(t, err)

	_, err = NewClient(&gophercloud.ProviderClient{}, "")
	assert.Error(t, err)

	client, err := NewClient(&gophercloud.ProviderClient{}, "http://contrail:8082")
	require.NoError(t, err)
	assert.Equal(t, "http://contrail:8082/", client.Endpoint())
}

func TestDo_SendsJSONBodyAndHeaders(t *testing.T) {
	var gotMethod, gotPath, gotContentType string
	var gotBody map[string]interface{}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(`{"uuid": "abc-123"}`))
	})

	status, content, err := client.SendRequest(context.Background(), "POST", "/fqname-to-id", map[string]interface{}{
		"type":    "virtual-network",
		"fq_name": []string{"default-domain", "vCenter", "VPCB1"},
	})
	require.NoError(t, err)

	assert.Equal(t, 200, status)
	assert.Equal(t, "abc-123", content["uuid"])
	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, "/fqname-to-id", gotPath)
	assert.Equal(t, ContentType, gotContentType)
	assert.Equal(t, "virtual-network", gotBody["type"])
	assert.Equal(t, []interface{}{"default-domain", "vCenter", "VPCB1"}, gotBody["fq_name"])
}

func TestDo_NilBodySentAsEmptyObject(t *testing.T) {
	var raw []byte
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.Do(context.Background(), RequestOptions{Method: "GET", Path: "/virtual-network/abc"})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestDo_ResponseNormalization(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantBody   map[string]interface{}
	}{
		{
			name:       "json object",
			status:     200,
			body:       `{"virtual-network": {"name": "VPCB1"}}`,
			wantStatus: 200,
			wantBody:   map[string]interface{}{"virtual-network": map[string]interface{}{"name": "VPCB1"}},
		},
		{
			name:       "non-json success body",
			status:     200,
			body:       `all good`,
			wantStatus: 200,
			wantBody:   map[string]interface{}{"message": "all good"},
		},
		{
			name:       "empty success body",
			status:     200,
			body:       ``,
			wantStatus: 200,
			wantBody:   map[string]interface{}{"message": ""},
		},
		{
			name:       "not found",
			status:     404,
			body:       `Name ['default-domain', 'vCenter', 'nope'] not found`,
			wantStatus: 404,
			wantBody:   map[string]interface{}{"message": "Name ['default-domain', 'vCenter', 'nope'] not found"},
		},
		{
			name:       "conflict with json body is decoded",
			status:     409,
			body:       `{"error": "exists"}`,
			wantStatus: 409,
			wantBody:   map[string]interface{}{"error": "exists"},
		},
		{
			name:       "server error with text body",
			status:     500,
			body:       `Internal Server Error`,
			wantStatus: 500,
			wantBody:   map[string]interface{}{"message": "Internal Server Error"},
		},
		{
			name:       "bad request with json array body",
			status:     400,
			body:       `["bad"]`,
			wantStatus: 400,
			wantBody:   map[string]interface{}{"message": `["bad"]`},
		},
		{
			name:       "created is not 200",
			status:     201,
			body:       `{"uuid": "x"}`,
			wantStatus: 201,
			wantBody:   map[string]interface{}{"message": `{"uuid": "x"}`},
		},
		{
			name:       "unauthorized",
			status:     401,
			body:       `token expired`,
			wantStatus: 401,
			wantBody:   map[string]interface{}{"message": AuthFailureMessage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			resp, err := client.Do(context.Background(), RequestOptions{Method: "GET", Path: "/virtual-network/abc"})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantBody, resp.Body)
		})
	}
}

func TestClassifyError_ConnectionFailures(t *testing.T) {
	client := &Client{}

	resp, err := client.classifyError(assertErr("connection refused: upstream said 401"))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
	assert.Equal(t, AuthFailureMessage, resp.Body["message"])

	resp, err = client.classifyError(assertErr("dial tcp 10.0.0.1:8082: connection refused"))
	assert.Nil(t, resp)
	var transportErr *Error
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, ErrorCodeUnknown, transportErr.Code)
}

func TestDo_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient(&gophercloud.ProviderClient{}, url)
	require.NoError(t, err)

	_, _, err = client.SendRequest(context.Background(), "GET", "/virtual-networks", nil)
	var transportErr *Error
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, ErrorCodeUnknown, transportErr.Code)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
