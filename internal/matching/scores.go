package matching

// Match score constants for path matching.
// Higher scores indicate more specific matches.
const (
	// ScorePathExact is the score for an exact path match.
	ScorePathExact = 15

	// ScorePathNamedParams is the score for a path with named parameters match.
	ScorePathNamedParams = 12

	// ScorePathWildcard is the score for a wildcard path match.
	ScorePathWildcard = 10
)

// Match score constants for method and scenario state matching.
const (
	// ScoreMethod is the score for a method match.
	ScoreMethod = 10

	// ScoreState is the score for a scenario-bound stub whose required state
	// equals the scenario's current state.
	ScoreState = 5
)
