// Package gateway is the typed client for the storefront REST API.
//
// All response decoding is tolerant: the upstream wraps lists in varying
// envelopes and delivers ids and numbers as strings or numbers
// interchangeably, so decoding normalizes once here and the rest of the
// client consumes one consistent shape.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"storefront-client/internal/bus"
	"storefront-client/internal/model"
	"storefront-client/internal/transport"
)

// userAgent identifies this client to upstream servers.
// The storefront CDN rate-limits requests without a User-Agent.
const userAgent = "shopctl/1.0"

const defaultTimeout = 30 * time.Second

// Options configures a gateway client.
type Options struct {
	BaseURL string

	// DefaultPackSizeID is sent for cart mutations whose line does not name
	// a pack. The upstream rejects cart writes without one.
	DefaultPackSizeID model.Ident

	Timeout time.Duration
	Events  *bus.Bus
	Logger  *slog.Logger

	// HTTPClient overrides the default transport. Used by tests.
	HTTPClient *http.Client
}

// Client talks to one storefront instance.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	defaultPackID model.Ident
	events        *bus.Bus
	logger        *slog.Logger
}

// New creates a gateway client.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: transport.NewBrowserTransport(timeout),
			Timeout:   timeout,
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	defaultPack := opts.DefaultPackSizeID
	if defaultPack.IsZero() {
		defaultPack = "2"
	}
	return &Client{
		httpClient:    httpClient,
		baseURL:       opts.BaseURL,
		defaultPackID: defaultPack,
		events:        opts.Events,
		logger:        logger,
	}, nil
}

// DefaultPackSizeID returns the pack id used when none is specified.
func (c *Client) DefaultPackSizeID() model.Ident { return c.defaultPackID }

// publish emits a change event if a bus is attached.
func (c *Client) publish(topic bus.Topic) {
	if c.events != nil {
		c.events.Publish(topic)
	}
}

// do executes one request and decodes the response into out (when non-nil).
// The bearer credential is attached only for authenticated sessions; guest
// requests carry no Authorization header at all.
func (c *Client) do(ctx context.Context, session model.Session, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewUpstreamError("storefront", err)
	}
	defer resp.Body.Close()

	if rl := transport.ParseRateLimit(resp.Header); rl != nil && rl.Exhausted() {
		c.logger.Warn("rate limit exhausted",
			"path", path, "reset", rl.Reset.Format(time.RFC3339))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.NewUpstreamError("storefront", err)
	}

	if resp.StatusCode >= 400 {
		return c.parseErrorResponse(resp.StatusCode, path, respBody)
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// apiErrorBody is the upstream error shape, best-effort parsed.
type apiErrorBody struct {
	Message string `json:"message"`
	ErrText string `json:"error"`
}

func (b apiErrorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.ErrText
}

// parseErrorResponse converts an upstream error to an APIError.
func (c *Client) parseErrorResponse(statusCode int, path string, body []byte) error {
	var apiErr apiErrorBody
	json.Unmarshal(body, &apiErr) // Best effort parse

	switch statusCode {
	case 404:
		return model.NewNotFoundError(path)
	case 401, 403:
		return model.NewUnauthorizedError("storefront authentication failed")
	case 400, 422:
		msg := apiErr.text()
		if msg == "" {
			msg = "invalid request"
		}
		return model.NewValidationError("request", msg)
	case 429:
		return model.NewRateLimitError("storefront")
	default:
		return model.NewUpstreamError("storefront",
			fmt.Errorf("status %d: %s", statusCode, apiErr.text()))
	}
}

// decodeList extracts a list from whichever envelope the endpoint used:
// a bare array, {"data": [...]}, or paginated {"data": {"data": [...]}}.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '[' {
		var out []T
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("parsing list: %w", err)
		}
		return out, nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("parsing list envelope: %w", err)
	}
	if len(env.Data) == 0 {
		return nil, nil
	}
	return decodeList[T](env.Data)
}

// getList fetches path and decodes the enveloped list.
func getList[T any](ctx context.Context, c *Client, session model.Session, path string, query url.Values) ([]T, error) {
	var raw json.RawMessage
	if err := c.do(ctx, session, http.MethodGet, path, query, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[T](raw)
}

// decodeObject extracts a single object, unwrapping a {"data": {...}}
// envelope when present.
func decodeObject[T any](raw json.RawMessage, out *T) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if raw[0] == '{' {
		if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 &&
			bytes.TrimSpace(env.Data)[0] == '{' {
			raw = env.Data
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parsing object: %w", err)
	}
	return nil
}
