package expect

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/go-cmp/cmp"
	"github.com/ohler55/ojg/jp"

	"github.com/getmockd/crudcontract/pkg/transport"
)

// Status checks the response status code.
func Status(step string, resp *transport.Response, want int) error {
	if resp.StatusCode != want {
		return &AssertionMismatchError{
			Step:     step,
			Subject:  "status",
			Expected: want,
			Actual:   resp.StatusCode,
		}
	}
	return nil
}

// Record decodes body into a T and compares it field by field with want.
// Key order and unknown keys in body do not matter.
func Record[T any](step string, body []byte, want T) error {
	var got T
	if err := json.Unmarshal(body, &got); err != nil {
		return &AssertionMismatchError{
			Step:     step,
			Subject:  "body",
			Expected: want,
			Actual:   string(body),
			Diff:     fmt.Sprintf("body is not a valid record: %v", err),
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		return &AssertionMismatchError{
			Step:     step,
			Subject:  "body",
			Expected: want,
			Actual:   got,
			Diff:     diff,
		}
	}
	return nil
}

// Fields evaluates each JSONPath expression in want against body and compares
// the first result with the expected value. Expected values are compared
// after a JSON round trip, so 123 matches a decoded 123.0.
func Fields(step string, body []byte, want map[string]any) error {
	if len(want) == 0 {
		return nil
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return &AssertionMismatchError{
			Step:     step,
			Subject:  "body",
			Expected: "JSON document",
			Actual:   string(body),
		}
	}

	paths := make([]string, 0, len(want))
	for p := range want {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		expr, err := jp.ParseString(path)
		if err != nil {
			return fmt.Errorf("%s: invalid JSONPath %q: %w", step, path, err)
		}
		expected, err := normalize(want[path])
		if err != nil {
			return fmt.Errorf("%s: expected value for %s: %w", step, path, err)
		}

		results := expr.Get(data)
		if len(results) == 0 {
			return &AssertionMismatchError{
				Step:     step,
				Subject:  path,
				Expected: expected,
				Actual:   "<missing>",
			}
		}
		if !cmp.Equal(expected, results[0]) {
			return &AssertionMismatchError{
				Step:     step,
				Subject:  path,
				Expected: expected,
				Actual:   results[0],
				Diff:     cmp.Diff(expected, results[0]),
			}
		}
	}
	return nil
}

// normalize gives v the shape encoding/json decodes into an any.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
