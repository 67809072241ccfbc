// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package base

import "encoding/json"

// NoStatusCode marks a Result for which no API response was received.
const NoStatusCode = -1

// Result is the outcome of any operation against the Contrail API.
// Success and failure share the same shape; only Failed tells them apart.
type Result struct {
	Changed bool
	Failed  bool
	Msg     string

	// API exchange that produced the result
	Method     string
	Path       string
	Request    map[string]interface{}
	Response   map[string]interface{}
	StatusCode int
}

// NewResult returns an empty result with no API exchange attached
func NewResult() Result {
	return Result{StatusCode: NoStatusCode}
}

// Failure returns a failed result carrying only a message
func Failure(msg string) Result {
	r := NewResult()
	r.Failed = true
	r.Msg = msg
	return r
}

// APIExchange is the serialized form of the request/response pair
type APIExchange struct {
	Method     string                 `json:"method"`
	Path       string                 `json:"path"`
	Request    map[string]interface{} `json:"request"`
	Response   map[string]interface{} `json:"response"`
	StatusCode int                    `json:"status_code"`
}

type resultJSON struct {
	Changed bool        `json:"changed"`
	Failed  bool        `json:"failed"`
	Msg     string      `json:"msg"`
	API     APIExchange `json:"api"`
}

// API returns the API exchange with unset payloads normalized to empty objects
func (r Result) API() APIExchange {
	return APIExchange{
		Method:     r.Method,
		Path:       r.Path,
		Request:    orEmpty(r.Request),
		Response:   orEmpty(r.Response),
		StatusCode: r.StatusCode,
	}
}

// MarshalJSON renders {changed, failed, msg, api: {method, path, request, response, status_code}}
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		Changed: r.Changed,
		Failed:  r.Failed,
		Msg:     r.Msg,
		API:     r.API(),
	})
}

// UnmarshalJSON reads the form produced by MarshalJSON
func (r *Result) UnmarshalJSON(data []byte) error {
	aux := resultJSON{API: APIExchange{StatusCode: NoStatusCode}}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Result{
		Changed:    aux.Changed,
		Failed:     aux.Failed,
		Msg:        aux.Msg,
		Method:     aux.API.Method,
		Path:       aux.API.Path,
		Request:    aux.API.Request,
		Response:   aux.API.Response,
		StatusCode: aux.API.StatusCode,
	}
	return nil
}

// Error carries a failed Result. It is the only error type resource operations return.
type Error struct {
	Result Result
}

// NewError wraps a failed result
func NewError(result Result) *Error {
	return &Error{Result: result}
}

func (e *Error) Error() string {
	if e.Result.Msg == "" {
		return "contrail operation failed"
	}
	return e.Result.Msg
}

func orEmpty(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	return m
}
