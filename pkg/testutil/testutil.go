// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	contrailtransport "github.com/platform-engineering-labs/formae-plugin-contrail/pkg/transport/contrail"
)

var (
	// Live controller configuration - read from environment variables
	ContrailAPIURL = os.Getenv("CONTRAIL_API_URL")
	TestDomain     = getEnvOrDefault("CONTRAIL_TEST_DOMAIN", "default-domain")
	TestProject    = getEnvOrDefault("CONTRAIL_TEST_PROJECT", "admin")
)

// getEnvOrDefault returns the environment variable value or the default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsContrailConfigured returns true if a live Contrail API is configured
func IsContrailConfigured() bool {
	return ContrailAPIURL != ""
}

// SkipIfContrailNotConfigured skips the test if no live Contrail API is configured
func SkipIfContrailNotConfigured(t interface{ Skip(...any) }) {
	if !IsContrailConfigured() {
		t.Skip("Skipping test: Contrail API not configured. Set CONTRAIL_API_URL (and OS_* credentials if Keystone is enabled).")
	}
}

// TargetConfig builds a target config JSON pointing at apiURL
func TargetConfig(apiURL, domain, project string) json.RawMessage {
	raw, _ := json.Marshal(map[string]string{
		"apiURL":  apiURL,
		"domain":  domain,
		"project": project,
	})
	return raw
}

// Call is one request seen by a RecordingTransport
type Call struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

type reply struct {
	status int
	body   map[string]interface{}
	err    error
}

// RecordingTransport is a scripted transport client. Replies are matched on
// method and path; unmatched requests get a 404.
type RecordingTransport struct {
	mu      sync.Mutex
	replies map[string]reply
	calls   []Call
}

// NewRecordingTransport creates an empty RecordingTransport
func NewRecordingTransport() *RecordingTransport {
	return &RecordingTransport{replies: make(map[string]reply)}
}

// On scripts the reply for method and path
func (t *RecordingTransport) On(method, path string, status int, body map[string]interface{}) *RecordingTransport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies[routeKey(method, path)] = reply{status: status, body: body}
	return t
}

// OnError scripts a transport failure for method and path
func (t *RecordingTransport) OnError(method, path string, err error) *RecordingTransport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies[routeKey(method, path)] = reply{err: err}
	return t
}

// Do records the request and returns the scripted reply
func (t *RecordingTransport) Do(ctx context.Context, opts contrailtransport.RequestOptions) (*contrailtransport.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls = append(t.calls, Call{Method: opts.Method, Path: opts.Path, Body: opts.Body})

	r, ok := t.replies[routeKey(opts.Method, opts.Path)]
	if !ok {
		return &contrailtransport.Response{
			StatusCode: 404,
			Body:       map[string]interface{}{"message": fmt.Sprintf("no reply scripted for %s %s", opts.Method, opts.Path)},
		}, nil
	}
	if r.err != nil {
		return nil, r.err
	}
	return &contrailtransport.Response{StatusCode: r.status, Body: r.body}, nil
}

// Calls returns every recorded request
func (t *RecordingTransport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Call(nil), t.calls...)
}

// CallsTo returns the recorded requests for method and path
func (t *RecordingTransport) CallsTo(method, path string) []Call {
	var matched []Call
	for _, c := range t.Calls() {
		if c.Method == method && c.Path == path {
			matched = append(matched, c)
		}
	}
	return matched
}

func routeKey(method, path string) string {
	return method + " " + path
}
