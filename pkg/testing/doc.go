// Package testing provides a stateful mock harness for Go tests.
//
// Import it under an alias to avoid clashing with the standard testing package:
//
//	import harness "github.com/getmockd/crudcontract/pkg/testing"
//
//	func TestSignup(t *testing.T) {
//	    h := harness.New(t)
//
//	    h.Stub("POST", "/users").
//	        InScenario("User C.R.U.D. Lifecycle").
//	        WillSetStateTo("User has been created").
//	        WithStatus(201).
//	        WithJSON(map[string]any{"id": 123}).
//	        Register()
//
//	    resp, err := http.Post(h.URL()+"/users", "application/json", body)
//	    // ...
//
//	    h.AssertCalledTimes(t, "POST", "/users", 1)
//	    h.AssertState(t, "User C.R.U.D. Lifecycle", "User has been created")
//	    h.CallsTo("POST", "/users")[0].AssertJSONField(t, "$.email", "test@example.com")
//	}
//
// Every harness resets its engine and stops its server when the test
// completes. Ambiguity detection is always on: if any request matched two
// stubs with equal specificity, the test fails during cleanup.
//
// Calls can be made in process through Users or Transport, or over HTTP
// through URL and Client.
package testing
