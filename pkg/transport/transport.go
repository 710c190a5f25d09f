package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Transport sends a request and returns the response. Implementations must
// return a non-nil error only when no response was received; HTTP error
// statuses are responses, not errors.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// Request is a transport-neutral HTTP request.
type Request struct {
	Method string

	// Path may contain {name} segments, replaced with PathParams values.
	Path       string
	PathParams map[string]string
	Headers    http.Header
	Body       []byte
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// IsError reports whether the status is 400 or above.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// ConnectionError is returned when a request could not be delivered.
type ConnectionError struct {
	Method string
	URL    string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// MissingParamError is returned when Path names a parameter absent from PathParams.
type MissingParamError struct {
	Path  string
	Param string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("path %q: no value for parameter {%s}", e.Path, e.Param)
}

// ExpandPath replaces every {name} segment of path with the escaped value of
// params[name].
func ExpandPath(path string, params map[string]string) (string, error) {
	if !strings.Contains(path, "{") {
		return path, nil
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if len(seg) < 3 || seg[0] != '{' || seg[len(seg)-1] != '}' {
			continue
		}
		name := seg[1 : len(seg)-1]
		value, ok := params[name]
		if !ok {
			return "", &MissingParamError{Path: path, Param: name}
		}
		segments[i] = url.PathEscape(value)
	}
	return strings.Join(segments, "/"), nil
}
