package expect

import (
	"encoding/json"
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/getmockd/crudcontract/pkg/transport"
	"github.com/getmockd/crudcontract/pkg/util"
)

// Conditions evaluates boolean expressions against a response, for example
// `status == 200 && email endsWith "@example.com"`. The expression sees
// `status`, the decoded `body`, and each top-level field of a JSON object
// body by name. A body that is not JSON is exposed as a string; a condition
// that cannot be evaluated against it is reported as a mismatch.
func Conditions(step string, resp *transport.Response, conditions []string) error {
	if len(conditions) == 0 {
		return nil
	}
	env, decodeErr := conditionEnv(resp)

	undecodable := func(cond string) error {
		return &AssertionMismatchError{
			Step:     step,
			Subject:  "condition " + cond,
			Expected: "a JSON body",
			Actual:   fmt.Sprintf("%q (%v)", util.TruncateBody(string(resp.Body), maxShownBody), decodeErr),
		}
	}

	for _, cond := range conditions {
		program, err := expr.Compile(cond, expr.Env(env), expr.AsBool())
		if err != nil {
			if decodeErr != nil {
				return undecodable(cond)
			}
			return fmt.Errorf("%s: compile %q: %w", step, cond, err)
		}
		out, err := expr.Run(program, env)
		if err != nil {
			if decodeErr != nil {
				return undecodable(cond)
			}
			return fmt.Errorf("%s: eval %q: %w", step, cond, err)
		}
		if ok, _ := out.(bool); !ok {
			return &AssertionMismatchError{
				Step:     step,
				Subject:  "condition " + cond,
				Expected: true,
				Actual:   false,
			}
		}
	}
	return nil
}

// maxShownBody bounds the body quoted in an undecodable-body mismatch.
const maxShownBody = 256

func conditionEnv(resp *transport.Response) (map[string]any, error) {
	var body any
	var decodeErr error
	if len(resp.Body) > 0 {
		if decodeErr = json.Unmarshal(resp.Body, &body); decodeErr != nil {
			body = string(resp.Body)
		}
	}
	env := map[string]any{}
	if obj, ok := body.(map[string]any); ok {
		for k, v := range obj {
			env[k] = v
		}
	}
	env["status"] = resp.StatusCode
	env["body"] = body
	return env, decodeErr
}
