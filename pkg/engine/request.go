package engine

import (
	"net/http"
	"strings"
)

// Request is a request as seen by the matching engine.
type Request struct {
	Method string
	// Path is the URL path. A query string, if present, is ignored.
	Path    string
	Headers http.Header
	Body    []byte
}

// Response is the engine's answer to a Request.
type Response struct {
	Status  int
	Headers map[string]string
	Body    []byte

	// StubID is the stub that produced the response, empty for the fallback.
	StubID string
}

// Matched reports whether a stub produced the response.
func (r *Response) Matched() bool {
	return r.StubID != ""
}

// Fallback is the response sent when no stub matches.
type Fallback struct {
	Status  int
	Headers map[string]string
	Body    []byte
}

// DefaultFallback is 404 with an empty body.
func DefaultFallback() Fallback {
	return Fallback{Status: http.StatusNotFound}
}

func (f Fallback) response() *Response {
	headers := make(map[string]string, len(f.Headers))
	for k, v := range f.Headers {
		headers[k] = v
	}
	var body []byte
	if len(f.Body) > 0 {
		body = append([]byte(nil), f.Body...)
	}
	return &Response{Status: f.Status, Headers: headers, Body: body}
}

func requestPath(p string) string {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	return p
}
