package cli

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// closest returns the candidate nearest to input, or "" when none is close
// enough to be a plausible typo.
func closest(input string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(strings.ToLower(input), strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	limit := max(1, utf8.RuneCountInString(input)/2)
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}

// unknownNameError reports a name missing from candidates, suggesting the
// nearest one when there is one.
func unknownNameError(kind, input string, candidates []string) error {
	if s := closest(input, candidates); s != "" {
		return fmt.Errorf("unknown %s %q (did you mean %q?)", kind, input, s)
	}
	return fmt.Errorf("unknown %s %q", kind, input)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
