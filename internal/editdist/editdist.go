// Package editdist provides rune-aware Levenshtein edit distance, used to
// re-rank the final stage of candidate search with exact precision.
package editdist

// Distance returns the Levenshtein distance between a and b: the minimum
// number of single-rune insertions, deletions, or substitutions required to
// turn one into the other.
func Distance(a, b string) int {
	ar := []rune(a)
	br := []rune(b)
	if len(ar) == 0 {
		return len(br)
	}
	if len(br) == 0 {
		return len(ar)
	}

	// Two rolling rows instead of the full matrix.
	prev := make([]int, len(br)+1)
	curr := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}

	for i, ac := range ar {
		curr[0] = i + 1
		for j, bc := range br {
			cost := 1
			if ac == bc {
				cost = 0
			}
			curr[j+1] = minOf(
				prev[j+1]+1,  // deletion
				curr[j]+1,    // insertion
				prev[j]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(br)]
}

// Normalized returns Distance(a,b) divided by the longer rune length,
// in [0,1]. 0 means identical; 1 means nothing in common at equal length.
func Normalized(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	longest := max(la, lb, 1)
	return float64(Distance(a, b)) / float64(longest)
}

func minOf(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
