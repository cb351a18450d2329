package recall

// Closest returns the index of the pool entry nearest to query whose distance is at most
// threshold. Among equally near candidates the first in pool order wins. ok is false when the
// pool is empty, the query is empty, or no candidate is within threshold.
func Closest(query string, pool []string, threshold int) (index int, ok bool) {
	index = -1
	if query == "" {
		return index, false
	}
	best := 0
	for i, candidate := range pool {
		distance := Distance(query, candidate)
		if distance > threshold {
			continue
		}
		if index == -1 || distance < best {
			index = i
			best = distance
		}
	}
	return index, index != -1
}

// ClosestString returns the pool entry chosen by Closest.
func ClosestString(query string, pool []string, threshold int) (string, bool) {
	index, ok := Closest(query, pool, threshold)
	if !ok {
		return "", false
	}
	return pool[index], true
}
