package linode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noelruault/lazylinode/internal/config"
	"github.com/noelruault/lazylinode/internal/logging"
)

// UserAgent identifies this client to the API.
const UserAgent = "lazylinode"

// Client issues requests against the REST API
type Client struct {
	APIRoot    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new API client from the application configuration
func NewClient(cfg *config.Config) *Client {
	return &Client{
		APIRoot: strings.TrimRight(cfg.APIRoot, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// NewClientWithHTTPClient creates a client that sends through hc
func NewClientWithHTTPClient(apiRoot, token string, hc *http.Client) *Client {
	return &Client{
		APIRoot:    strings.TrimRight(apiRoot, "/"),
		token:      token,
		httpClient: hc,
	}
}

// HasToken reports whether requests will be authenticated
func (c *Client) HasToken() bool {
	return c.token != ""
}

// request is the descriptor assembled by RequestOptions.
type request struct {
	method string
	path   string
	params *ListParams
	filter *Filter
	body   []byte
	err    error
}

// RequestOption sets one part of an outbound request.
type RequestOption func(*request)

// WithMethod sets the HTTP verb.
func WithMethod(method string) RequestOption {
	return func(r *request) { r.method = method }
}

// WithURL sets the path below the API root.
func WithURL(path string) RequestOption {
	return func(r *request) { r.path = path }
}

// WithParams sets the page query parameters.
func WithParams(params *ListParams) RequestOption {
	return func(r *request) { r.params = params }
}

// WithFilter sets the X-Filter expression.
func WithFilter(filter *Filter) RequestOption {
	return func(r *request) { r.filter = filter }
}

// WithData validates payload against schema and sets it as the JSON body.
// A payload that fails validation makes the request fail before dispatch.
func WithData(payload any, schema *Schema) RequestOption {
	return func(r *request) {
		if schema != nil {
			if err := schema.Validate(payload); err != nil {
				r.err = err
				return
			}
		}
		data, err := json.Marshal(payload)
		if err != nil {
			r.err = fmt.Errorf("failed to encode request body: %w", err)
			return
		}
		r.body = data
	}
}

// Do builds a request from opts, sends it once and decodes the response
// body into out when out is non-nil.
func (c *Client) Do(ctx context.Context, out any, opts ...RequestOption) error {
	r := &request{method: http.MethodGet}
	for _, opt := range opts {
		opt(r)
	}
	if r.err != nil {
		return r.err
	}
	if r.path == "" {
		return errors.New("request has no URL")
	}

	target := c.APIRoot + r.path
	if q := r.params.values().Encode(); q != "" {
		target += "?" + q
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", UserAgent)
	httpReq.Header.Set("X-Request-ID", requestID)
	if r.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}
	filter, err := r.filter.header()
	if err != nil {
		return fmt.Errorf("failed to encode filter: %w", err)
	}
	if filter != "" {
		httpReq.Header.Set("X-Filter", filter)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logging.L.Debug("api request failed", "method", r.method, "path", r.path, "request_id", requestID, "err", err)
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	logging.L.Debug("api request", "method", r.method, "path", r.path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", r.method, r.path, err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	var envelope struct {
		Errors APIErrors `json:"errors"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || len(envelope.Errors) == 0 {
		reason := strings.TrimSpace(string(data))
		if reason == "" {
			reason = http.StatusText(status)
		}
		return &ResponseError{StatusCode: status, Errors: APIErrors{{Reason: reason}}}
	}
	return &ResponseError{StatusCode: status, Errors: envelope.Errors}
}

// call is the typed form of Do.
func call[T any](ctx context.Context, c *Client, opts ...RequestOption) (*T, error) {
	var out T
	if err := c.Do(ctx, &out, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}
