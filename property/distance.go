package property

import "strings"

// Distance computes the Levenshtein distance (edit distance) between two
// strings: the minimum number of single-character insertions, deletions,
// or substitutions required to transform one into the other.
//
// Time complexity: O(len(a) * len(b))
// Space complexity: O(min(len(a), len(b))).
func Distance(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) == 0 {
		return len(b)
	}

	if len(b) == 0 {
		return len(a)
	}

	// Ensure a is the shorter string for space optimization
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			curr[i] = min(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Similarity computes a normalized similarity score between 0 and 1.
// 1.0 means identical strings, 0.0 means completely different.
func Similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}

	maxLen := max(len(a), len(b))

	return 1.0 - float64(Distance(a, b))/float64(maxLen)
}

// Nearest picks the candidate most similar to name, compared case
// insensitively. Reports false when no candidate scores above the
// similarity floor, so wildly wrong names get no suggestion.
func Nearest(name string, candidates []string) (string, bool) {
	const floor = 0.5

	lower := strings.ToLower(name)

	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		if score := Similarity(lower, strings.ToLower(c)); score > bestScore {
			best, bestScore = c, score
		}
	}

	if bestScore < floor {
		return "", false
	}

	return best, true
}
