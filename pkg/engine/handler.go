package engine

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/getmockd/crudcontract/pkg/httputil"
)

// MaxRequestBodySize is the maximum allowed request body size for matching (10MB).
const MaxRequestBodySize = 10 << 20

// ServeHTTP implements http.Handler by passing the request through Handle.
func (e *Engine) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body []byte
	if r.Body != nil {
		// MaxBytesReader returns an error when the limit is exceeded, unlike
		// LimitReader which silently truncates.
		r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

		var err error
		body, err = io.ReadAll(r.Body)
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				e.log.Warn("request body too large", "path", r.URL.Path, "limit", MaxRequestBodySize)
				httputil.WriteError(w, http.StatusRequestEntityTooLarge, "body_too_large", "Request body exceeds maximum allowed size")
				return
			}
			e.log.Warn("failed to read request body", "path", r.URL.Path, "error", err)
		}
	}

	resp := e.Handle(r.Context(), &Request{
		Method:  r.Method,
		Path:    r.URL.Path,
		Headers: r.Header.Clone(),
		Body:    body,
	})
	writeResponse(w, resp)
}

func writeResponse(w http.ResponseWriter, resp *Response) {
	for name, value := range resp.Headers {
		w.Header().Set(name, value)
	}
	if len(resp.Body) > 0 {
		w.Header().Set("Content-Length", strconv.Itoa(len(resp.Body)))
	}
	w.WriteHeader(resp.Status)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}
