package fingerprint

import "sort"

// Item is what callers feed into an index build.
type Item struct {
	ID         string
	Name       string
	Popularity float64
}

// Match is one index hit, ordered by ascending Distance.
type Match struct {
	ID         string
	Name       string
	Popularity float64
	Distance   float64
}

type indexed struct {
	id         string
	name       string
	popularity float64
	print      Print
}

// Index holds precomputed prints for a set of items. It is immutable after
// NewIndex; concurrent readers need no locking.
type Index struct {
	items []indexed
}

// NewIndex fingerprints every item. Items whose name normalizes to nothing
// are skipped, they could never match any query.
func NewIndex(items []Item) *Index {
	idx := &Index{items: make([]indexed, 0, len(items))}
	for _, it := range items {
		p := New(it.Name)
		if p.Empty() {
			continue
		}
		idx.items = append(idx.items, indexed{
			id:         it.ID,
			name:       it.Name,
			popularity: it.Popularity,
			print:      p,
		})
	}
	return idx
}

// Len returns the number of indexed items.
func (ix *Index) Len() int { return len(ix.items) }

// Candidates scans the whole index against query and returns up to limit
// matches ordered by ascending distance, ties broken by id for stable output.
func (ix *Index) Candidates(query Print, limit int) []Match {
	if query.Empty() || limit <= 0 {
		return nil
	}
	matches := make([]Match, 0, len(ix.items))
	for _, it := range ix.items {
		matches = append(matches, Match{
			ID:         it.id,
			Name:       it.name,
			Popularity: it.popularity,
			Distance:   query.Distance(it.print),
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].ID < matches[j].ID
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
