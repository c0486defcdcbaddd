package wordcount

// Multiset maps a word to how many times it occurs.
type Multiset map[string]int

// Count builds the multiset of the given tokens.
func Count(tokens []string) Multiset {
	counts := make(Multiset, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}

	return counts
}

// Total sums every occurrence in the multiset.
func (m Multiset) Total() int {
	total := 0
	for _, n := range m {
		total += n
	}

	return total
}

// NetNew counts the occurrences in other that are not matched by an
// occurrence of the same word in base. Words only present in base contribute
// nothing, so the result is never negative.
func NetNew(base, other Multiset) int {
	count := 0
	for word, n := range other {
		seen, ok := base[word]
		if !ok {
			count += n
			continue
		}

		if change := n - seen; change > 0 {
			count += change
		}
	}

	return count
}
