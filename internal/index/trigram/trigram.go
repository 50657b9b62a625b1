// Package trigram provides character trigram sets for short-query matching,
// where fingerprint distance alone is too coarse to separate candidates.
package trigram

import "github.com/melodex-audio/melodex/internal/normalize"

// Set is the set of character trigrams of a normalized name.
type Set map[string]struct{}

// Of builds the trigram set of an indexed name. The normalized text is padded
// with two leading spaces and one trailing space, so a name of n runes always
// yields n trigrams and both ends carry a word boundary.
func Of(name string) Set {
	text := normalize.Name(name)
	if text == "" {
		return Set{}
	}
	padded := append([]rune{' ', ' '}, []rune(text)...)
	padded = append(padded, ' ')
	return windows(padded)
}

// QueryOf builds the trigram set of a query. Unlike Of it skips the trailing
// boundary pad: a query is often a prefix of the name it is after, and a
// trailing-boundary trigram would never be contained in that name.
func QueryOf(query string) Set {
	text := normalize.Name(query)
	if text == "" {
		return Set{}
	}
	return windows(append([]rune{' ', ' '}, []rune(text)...))
}

func windows(padded []rune) Set {
	set := make(Set, len(padded)-2)
	for i := 0; i+3 <= len(padded); i++ {
		set[string(padded[i:i+3])] = struct{}{}
	}
	return set
}

// Jaccard returns |a ∩ b| / |a ∪ b| in [0,1]. Two empty sets score 0.
func Jaccard(a, b Set) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for t := range small {
		if _, ok := large[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// Containment returns |query ∩ item| / |query| in [0,1]: the fraction of the
// query's trigrams present in the item. It rewards items that contain the
// query as a fragment, which Jaccard penalizes for long item names.
func Containment(query, item Set) float64 {
	if len(query) == 0 || len(item) == 0 {
		return 0
	}
	inter := 0
	for t := range query {
		if _, ok := item[t]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(query))
}
