package strategy

import "sort"

// UnknownValue is returned by Mode for an empty input
const UnknownValue = "Unknown"

// Mode returns the most frequent value. Ties go to the lexicographically
// smallest value.
func Mode(values []string) string {
	if len(values) == 0 {
		return UnknownValue
	}

	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	return maxKey(counts)
}

// maxKey picks the key with the highest count, smallest key on ties
func maxKey[N int | int64](counts map[string]N) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best
}
