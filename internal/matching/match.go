package matching

import (
	"github.com/getmockd/crudcontract/pkg/scenario"
	"github.com/getmockd/crudcontract/pkg/stub"
)

// Score returns the specificity of s for a request, or 0 when the method or
// path does not match. Scenario state is not consulted; callers filter on it
// before scoring. Scenario-bound stubs earn ScoreState on top so that a stub
// active in the current state outranks an unscoped stub for the same path.
func Score(s *stub.Stub, method, path string) int {
	if s == nil || !MatchMethod(string(s.Method), method) {
		return 0
	}
	pathScore := MatchPath(s.PathPattern, path)
	if pathScore == 0 {
		return 0
	}
	score := ScoreMethod + pathScore
	if s.Scenario != "" {
		score += ScoreState
	}
	return score
}

// StateMatches reports whether a scenario-bound stub is active in current.
// Unscoped stubs are always active.
func StateMatches(s *stub.Stub, current scenario.State) bool {
	if s.Scenario == "" {
		return true
	}
	return s.RequiredState.OrStarted() == current.OrStarted()
}
