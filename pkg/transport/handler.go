package transport

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
)

// Handler delivers requests to an http.Handler in-process, without a network
// listener.
type Handler struct {
	h http.Handler
}

// NewHandler creates a transport for h.
func NewHandler(h http.Handler) *Handler {
	return &Handler{h: h}
}

// Send implements Transport.
func (t *Handler) Send(ctx context.Context, req *Request) (*Response, error) {
	path, err := ExpandPath(req.Path, req.PathParams)
	if err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, path, bytes.NewReader(req.Body))
	if err != nil {
		return nil, fmt.Errorf("invalid request %s %s: %w", method, path, err)
	}
	// Fields a server would set on an incoming request.
	httpReq.RequestURI = httpReq.URL.RequestURI()
	httpReq.Host = "crudcontract.local"
	httpReq.RemoteAddr = "127.0.0.1:0"
	for name, values := range req.Headers {
		httpReq.Header[name] = append([]string(nil), values...)
	}

	rec := httptest.NewRecorder()
	t.h.ServeHTTP(rec, httpReq)

	result := rec.Result()
	defer func() { _ = result.Body.Close() }()
	return &Response{
		StatusCode: result.StatusCode,
		Headers:    result.Header,
		Body:       rec.Body.Bytes(),
	}, nil
}
