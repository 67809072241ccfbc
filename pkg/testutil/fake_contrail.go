// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
)

// FakeContrail is an in-memory Contrail API server.
// Collections are served at /{type}s and single resources at /{type}/{uuid}.
type FakeContrail struct {
	Server *httptest.Server

	// RequireToken, when set, makes every request without a matching X-Auth-Token fail with 401
	RequireToken string

	mu       sync.Mutex
	types    map[string]bool
	objects  map[string]*fakeObject
	requests []Call
}

type fakeObject struct {
	resourceType string
	fqName       []string
	body         map[string]interface{}
}

// NewFakeContrail starts a fake API serving virtual-network and the given extra types
func NewFakeContrail(t *testing.T, extraTypes ...string) *FakeContrail {
	t.Helper()

	f := &FakeContrail{
		types:   map[string]bool{"virtual-network": true},
		objects: make(map[string]*fakeObject),
	}
	for _, typ := range extraTypes {
		f.types[typ] = true
	}

	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL of the server
func (f *FakeContrail) URL() string {
	return f.Server.URL
}

// Seed stores a resource and returns its UUID
func (f *FakeContrail) Seed(resourceType string, fqName []string, body map[string]interface{}) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.NewString()
	if body == nil {
		body = map[string]interface{}{}
	}
	f.objects[id] = &fakeObject{resourceType: resourceType, fqName: fqName, body: body}
	return id
}

// Object returns the stored body of a resource
func (f *FakeContrail) Object(id string) (map[string]interface{}, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	obj, ok := f.objects[id]
	if !ok {
		return nil, false
	}
	return obj.body, true
}

// Requests returns every request received, with decoded bodies
func (f *FakeContrail) Requests() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.requests...)
}

// CountRequests returns how many requests matched method and path
func (f *FakeContrail) CountRequests(method, path string) int {
	count := 0
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			count++
		}
	}
	return count
}

func (f *FakeContrail) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]interface{}
	_ = json.Unmarshal(raw, &body)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, Call{Method: r.Method, Path: r.URL.Path, Body: body})

	if f.RequireToken != "" && r.Header.Get("X-Auth-Token") != f.RequireToken {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/fqname-to-id":
		f.fqnameToID(w, body)
	case r.Method == http.MethodPost && r.URL.Path == "/id-to-fqname":
		f.idToFQName(w, body)
	case len(segments) == 1 && f.types[strings.TrimSuffix(segments[0], "s")]:
		f.collection(w, r.Method, strings.TrimSuffix(segments[0], "s"), body)
	case len(segments) == 2 && f.types[segments[0]]:
		f.item(w, r.Method, segments[0], segments[1], body)
	default:
		http.Error(w, "Not Found", http.StatusNotFound)
	}
}

func (f *FakeContrail) fqnameToID(w http.ResponseWriter, body map[string]interface{}) {
	resourceType, _ := body["type"].(string)
	fqName := toStrings(body["fq_name"])
	if id := f.find(resourceType, fqName); id != "" {
		writeJSON(w, map[string]interface{}{"uuid": id})
		return
	}
	http.Error(w, fmt.Sprintf("Name %v not found", fqName), http.StatusNotFound)
}

func (f *FakeContrail) idToFQName(w http.ResponseWriter, body map[string]interface{}) {
	id, _ := body["uuid"].(string)
	obj, ok := f.objects[id]
	if !ok {
		http.Error(w, fmt.Sprintf("UUID %s not found", id), http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]interface{}{"type": obj.resourceType, "fq_name": obj.fqName})
}

func (f *FakeContrail) collection(w http.ResponseWriter, method, resourceType string, body map[string]interface{}) {
	switch method {
	case http.MethodGet:
		items := []interface{}{}
		for id, obj := range f.objects {
			if obj.resourceType != resourceType {
				continue
			}
			items = append(items, map[string]interface{}{
				"uuid":    id,
				"fq_name": obj.fqName,
				"href":    fmt.Sprintf("%s/%s/%s", f.Server.URL, resourceType, id),
			})
		}
		writeJSON(w, map[string]interface{}{resourceType + "s": items})
	case http.MethodPost:
		inner, _ := body[resourceType].(map[string]interface{})
		if inner == nil {
			http.Error(w, fmt.Sprintf("Missing %s in request body", resourceType), http.StatusBadRequest)
			return
		}
		fqName := toStrings(inner["fq_name"])
		if f.find(resourceType, fqName) != "" {
			http.Error(w, fmt.Sprintf("Name %v already exists", fqName), http.StatusConflict)
			return
		}
		id := uuid.NewString()
		f.objects[id] = &fakeObject{resourceType: resourceType, fqName: fqName, body: inner}
		writeJSON(w, map[string]interface{}{resourceType: f.summary(resourceType, id)})
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (f *FakeContrail) item(w http.ResponseWriter, method, resourceType, id string, body map[string]interface{}) {
	obj, ok := f.objects[id]
	if !ok || obj.resourceType != resourceType {
		http.Error(w, fmt.Sprintf("%s %s not found", resourceType, id), http.StatusNotFound)
		return
	}

	switch method {
	case http.MethodGet:
		full := map[string]interface{}{}
		for k, v := range obj.body {
			full[k] = v
		}
		full["uuid"] = id
		full["fq_name"] = obj.fqName
		writeJSON(w, map[string]interface{}{resourceType: full})
	case http.MethodPut:
		inner, _ := body[resourceType].(map[string]interface{})
		for k, v := range inner {
			obj.body[k] = v
		}
		writeJSON(w, map[string]interface{}{resourceType: f.summary(resourceType, id)})
	case http.MethodDelete:
		delete(f.objects, id)
		w.WriteHeader(http.StatusOK)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (f *FakeContrail) summary(resourceType, id string) map[string]interface{} {
	return map[string]interface{}{
		"uuid":    id,
		"fq_name": f.objects[id].fqName,
		"href":    fmt.Sprintf("%s/%s/%s", f.Server.URL, resourceType, id),
	}
}

func (f *FakeContrail) find(resourceType string, fqName []string) string {
	for id, obj := range f.objects {
		if obj.resourceType == resourceType && strings.Join(obj.fqName, ":") == strings.Join(fqName, ":") {
			return id
		}
	}
	return ""
}

func toStrings(v interface{}) []string {
	arr, _ := v.([]interface{})
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
