package matching

import (
	"strconv"
	"strings"
)

// MatchPath checks if the request path matches the pattern.
// Returns a score > 0 if matched, 0 if not matched.
// Supports:
//   - Exact match: "/users/123" matches "/users/123"
//   - Named params: "/users/{id}" matches "/users/123"
//   - Wildcard: "/users/*" matches "/users/123/roles"
func MatchPath(pattern, path string) int {
	// Exact match
	if pattern == path {
		return ScorePathExact
	}

	// Named parameters (e.g., /users/{id})
	if strings.Contains(pattern, "{") && strings.Contains(pattern, "}") {
		if matchNamedParams(pattern, path) {
			return ScorePathNamedParams
		}
	}

	// Trailing wildcard (e.g., /users/*)
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if strings.HasPrefix(path, prefix+"/") || path == prefix {
			return ScorePathWildcard
		}
	}

	// General wildcard matching
	if strings.Contains(pattern, "*") {
		if matchWildcard(pattern, path) {
			return ScorePathWildcard
		}
	}

	return 0
}

// matchNamedParams checks if path matches a pattern with named parameters.
// Example: "/users/{id}" matches "/users/123"
func matchNamedParams(pattern, path string) bool {
	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")

	// Must have same number of segments
	if len(patternParts) != len(pathParts) {
		return false
	}

	for i, patternPart := range patternParts {
		// Named parameter matches any value
		if strings.HasPrefix(patternPart, "{") && strings.HasSuffix(patternPart, "}") {
			continue
		}
		// Literal parts must match exactly
		if patternPart != pathParts[i] {
			return false
		}
	}

	return true
}

// matchWildcard performs simple wildcard pattern matching.
// * matches any sequence of characters. Literal text before the first * is
// anchored to the start of the path and text after the last * to its end.
func matchWildcard(pattern, path string) bool {
	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return pattern == path
	}

	first, last := parts[0], parts[len(parts)-1]
	if !strings.HasPrefix(path, first) {
		return false
	}
	pos := len(first)

	for _, part := range parts[1 : len(parts)-1] {
		if part == "" {
			continue
		}
		idx := strings.Index(path[pos:], part)
		if idx == -1 {
			return false
		}
		pos += idx + len(part)
	}

	return strings.HasSuffix(path, last) && len(path)-len(last) >= pos
}

// MatchPathVariable extracts path variables from a path pattern.
// Supports both {name} style params and * wildcards.
// Examples:
//   - pattern "/users/{id}" with path "/users/123" returns {"id": "123"}
//   - pattern "/users/*" with path "/users/456" returns {"0": "456"}
//   - pattern "/users/*/roles/*" with path "/users/7/roles/admin" returns {"0": "7", "1": "admin"}
func MatchPathVariable(pattern, path string) map[string]string {
	result := make(map[string]string)

	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")

	wildcardIndex := 0

	for i, patternPart := range patternParts {
		if i >= len(pathParts) {
			break
		}

		// Named parameter: {name}
		if strings.HasPrefix(patternPart, "{") && strings.HasSuffix(patternPart, "}") {
			paramName := patternPart[1 : len(patternPart)-1]
			result[paramName] = pathParts[i]
			continue
		}

		// Wildcard: * - capture remaining segment(s)
		if patternPart == "*" {
			// For trailing wildcard, capture the rest of the path
			if i == len(patternParts)-1 {
				// Join remaining path parts
				remaining := strings.Join(pathParts[i:], "/")
				result[strconv.Itoa(wildcardIndex)] = remaining
			} else {
				result[strconv.Itoa(wildcardIndex)] = pathParts[i]
			}
			wildcardIndex++
			continue
		}
	}

	return result
}

// MaxPathScore returns the score a pattern earns when it matches.
func MaxPathScore(pattern string) int {
	if strings.Contains(pattern, "{") {
		return ScorePathNamedParams
	}
	if strings.Contains(pattern, "*") {
		return ScorePathWildcard
	}
	return ScorePathExact
}

// MatchMethod reports whether the request method satisfies the expected one.
func MatchMethod(expected, actual string) bool {
	return strings.EqualFold(expected, actual)
}
