package location

import "strings"

// similarity returns a 0..1 ratio between two strings, case-insensitive:
// twice the length of their longest common subsequence over the sum of
// lengths. 1.0 means equal, 0.0 means nothing in common.
func similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0
	}

	// LCS length via a rolling single-row table.
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	return 2 * float64(prev[lb]) / float64(la+lb)
}

// bestMatch returns the candidate most similar to target, provided the score
// reaches the threshold.
func bestMatch(target string, candidates []string, threshold float64) (string, float64) {
	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		if score := similarity(target, c); score > bestScore && score >= threshold {
			best = c
			bestScore = score
		}
	}
	return best, bestScore
}
