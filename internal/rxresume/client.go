// Package rxresume is an HTTP client for a Reactive-Resume-compatible
// resume-building service. It holds short-lived credentials in memory,
// translates between the upstream v5 schema and the normalized shape used by
// the tool layer, and performs a single automatic re-authentication retry on
// a 401 response.
package rxresume

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	logutil "github.com/spigell/rxresume-mcp/internal/logger"
)

const (
	contentType = "application/json"
	userAgent   = "spigell/rxresume-mcp (spigelly@gmail.com)"

	apiHealthPath = "/api/health"

	// Max bytes of an upstream error body echoed into debug logs.
	maxLoggedBody = 256
)

type Client struct {
	baseURL string
	logger  *zap.Logger

	HTTPClient *http.Client
	UserAgent  string

	// legacy selects the v4 cookie-session schema. The default is the v5
	// OpenAPI shape.
	legacy bool

	// Credential state. An API key, when set, takes priority over any
	// bearer-token session.
	apiKey  string
	session session
}

// session is the bearer-token credential state for the legacy auth flow.
// It lives only in process memory and is discarded when the client is
// replaced.
type session struct {
	token        string
	refreshToken string
	cookies      []string
}

type Option func(*Client)

// WithLegacyAPI switches the client to the legacy v4 schema, skipping the
// v5 field translation.
func WithLegacyAPI() Option {
	return func(c *Client) {
		c.legacy = true
	}
}

func New(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		// Calls are strictly sequential and awaited by the MCP host, so no
		// client-side timeout is imposed.
		HTTPClient: &http.Client{},
		UserAgent:  userAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetAPIKey stores the key used for all subsequent requests. It suppresses
// bearer-token headers even if a session was previously established.
func (c *Client) SetAPIKey(key string) {
	c.apiKey = strings.TrimSpace(key)
}

// APIError is a non-2xx upstream response.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("upstream error: %s", e.Status)
	}
	return fmt.Sprintf("upstream error: %s: %s", e.Status, body)
}

// CheckConnection probes the upstream health endpoint and returns its raw
// response text.
func (c *Client) CheckConnection(ctx context.Context) (string, error) {
	var out string
	if err := c.do(ctx, http.MethodGet, apiHealthPath, nil, nil, &out); err != nil {
		return "", err
	}

	return out, nil
}

// do issues a single request and decodes the response into target. On a 401
// it attempts exactly one silent token refresh and, only on success, retries
// the original request exactly once. A second failure, or any refresh
// failure, surfaces the original error to the caller.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, target any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	resp, err := c.roundTrip(ctx, method, path, q, payload)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && c.apiKey == "" && c.session.refreshToken != "" {
		origErr := readAPIError(resp)
		c.logger.Debug("bearer session rejected, attempting silent refresh",
			zap.String("path", path),
			zap.String("body", logutil.TruncateForLog(origErr.Body, maxLoggedBody)),
		)

		if rerr := c.Refresh(ctx); rerr != nil {
			c.logger.Debug("silent token refresh failed", zap.Error(rerr))
			return origErr
		}

		c.logger.Debug("retrying request with refreshed token", zap.String("path", path))
		if resp, err = c.roundTrip(ctx, method, path, q, payload); err != nil {
			return err
		}
	}

	return decodeResponse(resp, target)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, q url.Values, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	c.setHeaders(req)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	c.logger.Debug("make request", zap.String("method", method), zap.String("url", req.URL.String()))

	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)
	req.Header.Set("User-Agent", c.UserAgent)

	// API key takes precedence over a bearer session.
	switch {
	case c.apiKey != "":
		req.Header.Set("X-Api-Key", c.apiKey)
	case c.session.token != "":
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.session.token))
	}

	if len(c.session.cookies) > 0 {
		req.Header.Set("Cookie", strings.Join(c.session.cookies, "; "))
	}
}

// decodeResponse reads the full body, turns a non-2xx status into an
// *APIError, and decodes JSON payloads into target. Non-JSON payloads are
// only assignable to a *string target.
func decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(data),
		}
	}

	if target == nil {
		return nil
	}

	if raw, ok := target.(*string); ok {
		*raw = string(data)
		return nil
	}

	if !isJSON(resp) {
		return fmt.Errorf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decoding upstream response: %w", err)
	}

	return nil
}

func readAPIError(resp *http.Response) *APIError {
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	return &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(data),
	}
}

func isJSON(resp *http.Response) bool {
	mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return false
	}

	return mt == contentType || strings.HasSuffix(mt, "+json")
}
