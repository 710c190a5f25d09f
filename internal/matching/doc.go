// Package matching scores requests against stub definitions.
//
// Path matching supports exact paths, {name} parameter segments and *
// wildcards. More specific patterns score higher, so an exact path always
// wins over a parameterised one, which wins over a wildcard. Score constants
// are defined in scores.go.
//
// When no stub answers a request, Breakdown and CollectNearMisses explain
// which stubs came closest and which field (method, path or scenario state)
// ruled each of them out.
package matching
