package services

import "strings"

// levenshtein computes the edit distance between two strings.
// Two rows are kept instead of the full matrix.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Keep a as the shorter string.
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

// levenshteinNormalized returns 1 - distance/maxLen, in [0,1].
func levenshteinNormalized(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	maxLen := max(len(a), len(b))
	return 1.0 - float64(levenshtein(a, b))/float64(maxLen)
}

// nameSimilarity compares two resource names case-insensitively.
// A name contained in the other scores at least 0.75; otherwise the
// normalised edit distance is used. Empty names never match.
func nameSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}

	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(longer, shorter) {
		return max(0.75, float64(len(shorter))/float64(len(longer)))
	}
	return levenshteinNormalized(a, b)
}

// tagOverlap scores how much two tag sets agree: the mean of the key
// Jaccard index and the share of keys whose values are equal.
func tagOverlap(a, b map[string]string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	shared, equal := 0, 0
	for k, va := range a {
		vb, ok := b[k]
		if !ok {
			continue
		}
		shared++
		if va == vb {
			equal++
		}
	}
	union := len(a) + len(b) - shared
	if union == 0 {
		return 0
	}

	jaccard := float64(shared) / float64(union)
	valueRatio := float64(equal) / float64(union)
	return (jaccard + valueRatio) / 2
}
