package services

import (
	"fmt"

	"github.com/praxis-labs/irrigo/internal/core/domain"
	"github.com/praxis-labs/irrigo/internal/logger"
)

// FilterPatterns scopes a question's patterns to the target policy
// area by strict tag equality. The result preserves original order and
// duplicate pattern ids. The function is pure: identical inputs give
// identical results, and calls for different questions never
// interfere.
//
// A pattern with no area tag at all is a hard error, not a silent
// exclusion: the missing tag indicates an upstream data defect
// distinct from a legitimate non-match. Zero matches after filtering
// is a legitimate state (sparse per-area pattern coverage) and is
// logged as a warning, never raised.
func FilterPatterns(q domain.Question, targetPolicyArea string) ([]domain.Pattern, error) {
	matched := make([]domain.Pattern, 0, len(q.Patterns))
	for i, pat := range q.Patterns {
		if !pat.HasPolicyArea() {
			return nil, &domain.ConstructionError{
				Kind:   "pattern",
				Field:  "policy_area_id",
				Reason: formatUntaggedPattern(q.QuestionID, i, pat.PatternID),
			}
		}
		if pat.PolicyArea == targetPolicyArea {
			matched = append(matched, pat)
		}
	}

	if len(matched) == 0 {
		logger.Warn("no patterns for question %s after filtering: target area %s, question area %s, %d pattern(s) total",
			q.QuestionID, targetPolicyArea, q.PolicyArea, len(q.Patterns))
	}
	return matched, nil
}

func formatUntaggedPattern(questionID string, idx int, patternID string) string {
	if patternID == "" {
		return fmt.Sprintf("pattern #%d of question %s carries no policy_area_id tag", idx, questionID)
	}
	return fmt.Sprintf("pattern %s (#%d) of question %s carries no policy_area_id tag", patternID, idx, questionID)
}
