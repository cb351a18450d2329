package recall

// Distance returns the Levenshtein edit distance between a and b, counting single-rune
// insertions, deletions and substitutions. The full matrix is filled on every call.
func Distance(a, b string) int {
	ar := []rune(a)
	br := []rune(b)
	if len(ar) == 0 {
		return len(br)
	}
	if len(br) == 0 {
		return len(ar)
	}

	matrix := make([][]int, len(br)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(ar)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(ar); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(br); i++ {
		for j := 1; j <= len(ar); j++ {
			if br[i-1] == ar[j-1] {
				matrix[i][j] = matrix[i-1][j-1]
				continue
			}
			matrix[i][j] = min(
				matrix[i-1][j-1]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j]+1,
			)
		}
	}
	return matrix[len(br)][len(ar)]
}
