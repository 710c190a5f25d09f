// Package stub defines the request-matching rules served by the mock engine.
//
// A Stub matches a method and path pattern, optionally only while its scenario
// is in a required state, and answers with a canned Response. A stub that
// declares NextState moves its scenario forward when it fires.
//
// Within the repository a stub is identified by its Key
// (scenario, method, path pattern, required state); registering a second stub
// with the same key fails with *DuplicateStubError.
package stub
