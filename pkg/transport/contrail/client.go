// pkg/transport/contrail/client.go
package contrail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/rs/zerolog/log"
)

// ContentType is sent on every request. The Contrail API rejects requests without it.
const ContentType = "application/json;charset=UTF-8"

// AuthFailureMessage replaces the body of any authentication failure.
const AuthFailureMessage = "Authentication failure"

// Client sends JSON requests to a Contrail API server
type Client struct {
	service *gophercloud.ServiceClient
}

// RequestOptions defines options for an API request
type RequestOptions struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

// Response represents an API response.
// Body is always set. Error payloads that are a JSON object are decoded; anything else,
// and every non-200 success or redirect, is wrapped as {"message": <text>}.
type Response struct {
	StatusCode int
	Body       map[string]interface{}
}

// NewClient creates a Contrail API client on top of an (optionally authenticated)
// gophercloud provider. The provider injects the X-Auth-Token header.
func NewClient(provider *gophercloud.ProviderClient, endpoint string) (*Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider client is nil")
	}
	if endpoint == "" {
		return nil, fmt.Errorf("API endpoint is required")
	}

	return &Client{
		service: &gophercloud.ServiceClient{
			ProviderClient: provider,
			Endpoint:       gophercloud.NormalizeURL(endpoint),
		},
	}, nil
}

// Endpoint returns the normalized API base URL
func (c *Client) Endpoint() string {
	return c.service.Endpoint
}

// Do executes an API request
func (c *Client) Do(ctx context.Context, opts RequestOptions) (*Response, error) {
	body := opts.Body
	if body == nil {
		body = map[string]interface{}{}
	}

	url := c.service.ServiceURL(strings.TrimPrefix(opts.Path, "/"))
	resp, err := c.service.Request(ctx, opts.Method, url, &gophercloud.RequestOpts{
		JSONBody:         body,
		OkCodes:          []int{http.StatusOK},
		KeepResponseBody: true,
		MoreHeaders:      map[string]string{"Content-Type": ContentType},
	})
	if err != nil {
		response, classifyErr := c.classifyError(err)
		if classifyErr != nil {
			log.Debug().Str("method", opts.Method).Str("path", opts.Path).Err(classifyErr).Msg("Contrail request failed")
			return nil, classifyErr
		}
		log.Debug().Str("method", opts.Method).Str("path", opts.Path).Int("status", response.StatusCode).Msg("Contrail request rejected")
		return response, nil
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewError(ErrorCodeUnknown, fmt.Sprintf("failed to read response body: %v", err), err)
	}

	log.Debug().Str("method", opts.Method).Str("path", opts.Path).Int("status", resp.StatusCode).Msg("Contrail request")
	return c.parseResponse(resp.StatusCode, raw), nil
}

// SendRequest executes an API request and returns the status code and parsed content
func (c *Client) SendRequest(ctx context.Context, method, path string, body map[string]interface{}) (int, map[string]interface{}, error) {
	resp, err := c.Do(ctx, RequestOptions{Method: method, Path: path, Body: body})
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, resp.Body, nil
}

// parseResponse converts a successful raw body to a Response.
// Bodies that are not a JSON object are wrapped rather than rejected.
func (c *Client) parseResponse(statusCode int, raw []byte) *Response {
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err == nil && obj != nil {
		return &Response{StatusCode: statusCode, Body: obj}
	}
	return &Response{StatusCode: statusCode, Body: messageBody(string(raw))}
}

// classifyError turns non-200 responses and authentication failures into a Response.
// Error statuses keep a JSON object body as-is. Anything else is returned as a transport Error.
func (c *Client) classifyError(err error) (*Response, error) {
	var codeErr gophercloud.ErrUnexpectedResponseCode
	if errors.As(err, &codeErr) {
		if codeErr.Actual == http.StatusUnauthorized {
			return authFailure(), nil
		}
		if codeErr.Actual >= http.StatusBadRequest {
			var obj map[string]interface{}
			if err := json.Unmarshal(codeErr.Body, &obj); err == nil && obj != nil {
				return &Response{StatusCode: codeErr.Actual, Body: obj}, nil
			}
		}
		return &Response{StatusCode: codeErr.Actual, Body: messageBody(string(codeErr.Body))}, nil
	}

	if strings.Contains(err.Error(), "401") {
		return authFailure(), nil
	}

	return nil, &Error{
		Code:       ErrorCodeUnknown,
		Message:    err.Error(),
		Underlying: err,
	}
}

func authFailure() *Response {
	return &Response{StatusCode: http.StatusUnauthorized, Body: messageBody(AuthFailureMessage)}
}

func messageBody(text string) map[string]interface{} {
	return map[string]interface{}{"message": text}
}
