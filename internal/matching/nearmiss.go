package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getmockd/crudcontract/pkg/scenario"
	"github.com/getmockd/crudcontract/pkg/stub"
)

// FieldResult describes whether a single stub field matched the request.
type FieldResult struct {
	Field    string `json:"field"`
	Matched  bool   `json:"matched"`
	Score    int    `json:"score"`
	MaxScore int    `json:"maxScore"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
}

// NearMiss is a stub that partially matched an incoming request.
type NearMiss struct {
	StubID           string        `json:"stubId"`
	StubName         string        `json:"stubName,omitempty"`
	Score            int           `json:"score"`
	MaxPossibleScore int           `json:"maxPossibleScore"`
	MatchPercentage  int           `json:"matchPercentage"`
	Fields           []FieldResult `json:"fields"`
	Reason           string        `json:"reason"`
}

// Breakdown evaluates every field of the stub against the request without
// short-circuiting. states holds the current state of each declared scenario;
// a scenario missing from it is treated as Started.
func Breakdown(s *stub.Stub, method, path string, states map[string]scenario.State) *NearMiss {
	if s == nil {
		return &NearMiss{}
	}

	result := &NearMiss{StubID: s.ID, StubName: s.Name}

	// Method
	methodMatched := MatchMethod(string(s.Method), method)
	methodScore := 0
	if methodMatched {
		methodScore = ScoreMethod
	}
	result.Fields = append(result.Fields, FieldResult{
		Field:    "method",
		Matched:  methodMatched,
		Score:    methodScore,
		MaxScore: ScoreMethod,
		Expected: string(s.Method),
		Actual:   method,
	})
	result.Score += methodScore
	result.MaxPossibleScore += ScoreMethod

	// Path
	pathScore := MatchPath(s.PathPattern, path)
	maxScore := MaxPathScore(s.PathPattern)
	result.Fields = append(result.Fields, FieldResult{
		Field:    "path",
		Matched:  pathScore > 0,
		Score:    pathScore,
		MaxScore: maxScore,
		Expected: s.PathPattern,
		Actual:   path,
	})
	result.Score += pathScore
	result.MaxPossibleScore += maxScore

	// Scenario state
	if s.Scenario != "" {
		current := states[s.Scenario].OrStarted()
		matched := StateMatches(s, current)
		score := 0
		if matched {
			score = ScoreState
		}
		result.Fields = append(result.Fields, FieldResult{
			Field:    "state",
			Matched:  matched,
			Score:    score,
			MaxScore: ScoreState,
			Expected: string(s.RequiredState.OrStarted()),
			Actual:   string(current),
		})
		result.Score += score
		result.MaxPossibleScore += ScoreState
	}

	if result.MaxPossibleScore > 0 {
		result.MatchPercentage = (result.Score * 100) / result.MaxPossibleScore
	}
	result.Reason = GenerateReason(result.Fields)

	return result
}

// CollectNearMisses evaluates all stubs against the request and returns the
// top N by partial match score. Only stubs with at least one matched field
// are included. It is only called for unmatched requests.
func CollectNearMisses(stubs []*stub.Stub, method, path string, states map[string]scenario.State, topN int) []NearMiss {
	if topN <= 0 {
		topN = 3
	}

	var candidates []NearMiss
	for _, s := range stubs {
		nm := Breakdown(s, method, path, states)
		if nm.Score == 0 {
			continue
		}
		candidates = append(candidates, *nm)
	}

	// Score descending, then percentage descending; stable keeps registration order.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].MatchPercentage > candidates[j].MatchPercentage
	})

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	return candidates
}

// GenerateReason creates a human-readable explanation of why a stub
// partially matched but ultimately failed.
func GenerateReason(fields []FieldResult) string {
	if len(fields) == 0 {
		return "no fields to compare"
	}

	var matched []string
	var firstMismatch *FieldResult

	for i := range fields {
		if fields[i].Matched {
			matched = append(matched, fields[i].Field)
		} else if firstMismatch == nil {
			firstMismatch = &fields[i]
		}
	}

	if firstMismatch == nil {
		return "all specified fields matched"
	}
	if len(matched) == 0 {
		return formatMismatch(firstMismatch)
	}
	return joinFields(matched) + " matched, but " + formatMismatch(firstMismatch)
}

func formatMismatch(f *FieldResult) string {
	switch f.Field {
	case "method":
		return fmt.Sprintf("method expected %q, got %q", f.Expected, f.Actual)
	case "path":
		return fmt.Sprintf("path expected %q, got %q", f.Expected, f.Actual)
	case "state":
		return fmt.Sprintf("scenario state expected %q, got %q", f.Expected, f.Actual)
	default:
		return f.Field + " did not match"
	}
}

// joinFields joins field names with commas and "and".
func joinFields(fields []string) string {
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return fields[0]
	case 2:
		return fields[0] + " and " + fields[1]
	default:
		return strings.Join(fields[:len(fields)-1], ", ") + ", and " + fields[len(fields)-1]
	}
}
