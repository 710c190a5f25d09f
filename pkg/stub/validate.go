package stub

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Normalize fills defaults in place: upper-case method, a generated ID,
// Started as the required state of scenario-bound stubs, a creation time and
// a 200 status when none is set.
func (s *Stub) Normalize() {
	s.Method = Method(strings.ToUpper(strings.TrimSpace(string(s.Method))))
	s.PathPattern = strings.TrimSpace(s.PathPattern)
	s.Scenario = strings.TrimSpace(s.Scenario)
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Scenario != "" {
		s.RequiredState = s.RequiredState.OrStarted()
	}
	if s.Response.Status == 0 {
		s.Response.Status = 200
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
}

// Validate checks the stub for configuration errors.
// It returns the first *InvalidStubError found.
func (s *Stub) Validate() error {
	if !s.Method.IsValid() {
		return &InvalidStubError{StubID: s.ID, Field: "method", Message: "unsupported method " + quote(string(s.Method))}
	}
	if s.PathPattern == "" {
		return &InvalidStubError{StubID: s.ID, Field: "path", Message: "path is required"}
	}
	if !strings.HasPrefix(s.PathPattern, "/") {
		return &InvalidStubError{StubID: s.ID, Field: "path", Message: "path must start with /"}
	}
	if strings.Contains(s.PathPattern, "?") {
		return &InvalidStubError{StubID: s.ID, Field: "path", Message: "path must not contain a query string"}
	}
	if err := validateSegments(s.ID, s.PathPattern); err != nil {
		return err
	}
	if s.Response.Status < 100 || s.Response.Status > 599 {
		return &InvalidStubError{StubID: s.ID, Field: "response.status", Message: "status must be between 100 and 599"}
	}
	if s.Scenario == "" {
		if !s.RequiredState.IsZero() {
			return &InvalidStubError{StubID: s.ID, Field: "requiredState", Message: "requiredState needs a scenario"}
		}
		if !s.NextState.IsZero() {
			return &InvalidStubError{StubID: s.ID, Field: "nextState", Message: "nextState needs a scenario"}
		}
	}
	if _, err := s.Response.Bytes(); err != nil {
		return &InvalidStubError{StubID: s.ID, Field: "response.jsonBody", Message: err.Error()}
	}
	return nil
}

// validateSegments rejects malformed {param} segments such as "{id" or "{}".
func validateSegments(id, path string) error {
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		open := strings.Count(seg, "{")
		closing := strings.Count(seg, "}")
		if open == 0 && closing == 0 {
			continue
		}
		if open != 1 || closing != 1 || !strings.HasPrefix(seg, "{") || !strings.HasSuffix(seg, "}") || len(seg) < 3 {
			return &InvalidStubError{StubID: id, Field: "path", Message: "malformed path parameter segment " + quote(seg)}
		}
	}
	return nil
}

func quote(s string) string {
	return `"` + s + `"`
}
