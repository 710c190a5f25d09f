package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/getmockd/crudcontract/pkg/logging"
	"github.com/getmockd/crudcontract/pkg/util"
)

// maxLoggedBody bounds the response body included in error logs.
const maxLoggedBody = 2 << 10

// HTTP sends requests over the network to a base URL.
type HTTP struct {
	baseURL *url.URL
	client  *http.Client
	headers http.Header
	log     *slog.Logger
}

// HTTPOption configures an HTTP transport.
type HTTPOption func(*HTTP)

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(t *HTTP) {
		if c != nil {
			t.client = c
		}
	}
}

// WithTimeout sets the timeout of the underlying client.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(t *HTTP) {
		t.client.Timeout = timeout
	}
}

// WithLogger sets the logger used for error responses.
func WithLogger(log *slog.Logger) HTTPOption {
	return func(t *HTTP) {
		if log != nil {
			t.log = log
		}
	}
}

// WithHeader adds a header sent with every request unless the request sets it.
func WithHeader(name, value string) HTTPOption {
	return func(t *HTTP) {
		t.headers.Set(name, value)
	}
}

// NewHTTP creates a transport for baseURL, which must be an absolute http or
// https URL.
func NewHTTP(baseURL string, opts ...HTTPOption) (*HTTP, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing host", baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	t := &HTTP{
		baseURL: u,
		client:  &http.Client{Timeout: 30 * time.Second},
		headers: make(http.Header),
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = logging.Component(t.log, "transport")
	return t, nil
}

// BaseURL returns the base URL requests are sent to.
func (t *HTTP) BaseURL() string {
	return t.baseURL.String()
}

// Send implements Transport.
func (t *HTTP) Send(ctx context.Context, req *Request) (*Response, error) {
	path, err := ExpandPath(req.Path, req.PathParams)
	if err != nil {
		return nil, err
	}
	target := t.baseURL.String() + path

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for name, values := range t.headers {
		httpReq.Header[name] = append([]string(nil), values...)
	}
	for name, values := range req.Headers {
		httpReq.Header.Del(name)
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}

	start := time.Now()
	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, &ConnectionError{Method: req.Method, URL: target, Err: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}
	if resp.IsError() {
		t.log.WarnContext(ctx, "request returned error status",
			"method", req.Method,
			"url", target,
			"status", resp.StatusCode,
			"duration", time.Since(start),
			"body", util.TruncateBody(string(respBody), maxLoggedBody),
		)
	} else {
		t.log.DebugContext(ctx, "request completed",
			"method", req.Method,
			"url", target,
			"status", resp.StatusCode,
			"duration", time.Since(start),
		)
	}
	return resp, nil
}

