package supabase

// Package supabase adapts the upstream identity provider's auth REST API
// (GoTrue-style) to the ports.IdentityProvider interface. Every operation is a
// single upstream HTTP call with a bounded timeout and no local retry.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout       = 15 * time.Second
	defaultSignUpTimeout = 30 * time.Second

	// maxErrorBodyBytes caps how much of an unparseable upstream error body
	// gets read for logging.
	maxErrorBodyBytes = 1000
)

// Options configures the upstream client.
type Options struct {
	// BaseURL is the provider project URL, e.g. "https://xyz.supabase.co".
	BaseURL string
	// APIKey is the provider anon API key sent on every request.
	APIKey string
	// Timeout bounds most upstream calls. Zero uses the default (15s).
	Timeout time.Duration
	// SignUpTimeout bounds the signup call, which is slower upstream.
	// Zero uses the default (30s).
	SignUpTimeout time.Duration
	// HTTPClient overrides the transport (useful for tests).
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client is a thin HTTP client for the upstream auth API. Safe for
// concurrent use; read-only after construction.
type Client struct {
	baseURL       string
	apiKey        string
	httpClient    *http.Client
	logger        *slog.Logger
	timeout       time.Duration
	signUpTimeout time.Duration
}

// New creates an upstream client.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	signUpTimeout := opts.SignUpTimeout
	if signUpTimeout <= 0 {
		signUpTimeout = defaultSignUpTimeout
	}
	return &Client{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		apiKey:        opts.APIKey,
		httpClient:    httpClient,
		logger:        logger,
		timeout:       timeout,
		signUpTimeout: signUpTimeout,
	}
}

// upstreamResponse carries a decoded upstream reply.
type upstreamResponse struct {
	Status int
	// Body is the decoded JSON object; nil when the body was empty or not JSON.
	Body map[string]any
	// RawBody holds a truncated copy of an undecodable body for logging.
	RawBody string
}

// requestParams groups the inputs of a single upstream call.
type requestParams struct {
	Method  string
	Path    string // path + query, e.g. "/auth/v1/token?grant_type=password"
	Payload any    // JSON-encoded when non-nil
	Bearer  string // optional Authorization bearer token
	Timeout time.Duration
}

// do performs one upstream call. Transport-level failures (timeout,
// connection refused, canceled context) are returned as errors; any HTTP
// response, success or not, is returned as an upstreamResponse.
func (c *Client) do(ctx context.Context, p requestParams) (upstreamResponse, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if p.Payload != nil {
		encoded, err := json.Marshal(p.Payload)
		if err != nil {
			return upstreamResponse{}, fmt.Errorf("encode request payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, p.Method, c.baseURL+p.Path, body)
	if err != nil {
		return upstreamResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if p.Bearer != "" {
		req.Header.Set("Authorization", "Bearer "+p.Bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return upstreamResponse{}, err
	}
	defer resp.Body.Close()

	out := upstreamResponse{Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return out, nil
	}
	if len(raw) == 0 {
		return out, nil
	}

	var decoded map[string]any
	if jsonErr := json.Unmarshal(raw, &decoded); jsonErr != nil {
		if len(raw) > maxErrorBodyBytes {
			raw = raw[:maxErrorBodyBytes]
		}
		out.RawBody = string(raw)
		return out, nil
	}
	out.Body = decoded
	return out, nil
}

// isTimeout reports whether a transport error was a deadline expiry rather
// than a connection-level failure.
func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// CheckHealth probes the provider's REST root with the API key. Used by the
// health endpoint to report upstream connectivity.
func (c *Client) CheckHealth(ctx context.Context) error {
	resp, err := c.do(ctx, requestParams{Method: http.MethodGet, Path: "/rest/v1/"})
	if err != nil {
		return fmt.Errorf("upstream health probe: %w", err)
	}
	if resp.Status >= http.StatusBadRequest {
		return fmt.Errorf("upstream health probe: HTTP %d", resp.Status)
	}
	return nil
}
