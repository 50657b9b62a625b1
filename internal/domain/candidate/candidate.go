package candidate

import (
	"sort"

	"github.com/melodex-audio/melodex/internal/domain"
)

// Candidate is a single ranked search hit within one content type.
type Candidate struct {
	id          string
	contentType domain.ContentType
	name        string
	popularity  float64
	score       float64
	editDist    float64
	hasEditDist bool
}

// New creates a ranked candidate without an edit-distance component.
func New(id string, ct domain.ContentType, name string, popularity, score float64) Candidate {
	return Candidate{
		id: id, contentType: ct, name: name,
		popularity: popularity, score: score,
	}
}

// WithEditDistance returns a copy carrying the normalized edit distance to
// the query and the given re-ranked score.
func (c Candidate) WithEditDistance(dist, score float64) Candidate {
	c.editDist = dist
	c.hasEditDist = true
	c.score = score
	return c
}

// ID returns the catalog item identifier.
func (c *Candidate) ID() string { return c.id }

// ContentType returns the candidate's content type.
func (c *Candidate) ContentType() domain.ContentType { return c.contentType }

// Name returns the indexed display name.
func (c *Candidate) Name() string { return c.name }

// Popularity returns the item popularity in [0,1].
func (c *Candidate) Popularity() float64 { return c.popularity }

// Score returns the composite score.
func (c *Candidate) Score() float64 { return c.score }

// EditDistance returns the normalized edit distance to the query,
// and whether it was computed.
func (c *Candidate) EditDistance() (float64, bool) { return c.editDist, c.hasEditDist }

// Sort orders candidates by composite score descending, breaking ties by
// ascending normalized edit distance where present, then by ascending ID.
func Sort(items []Candidate) {
	sort.SliceStable(items, func(i, j int) bool {
		return Less(items[i], items[j])
	})
}

// Less reports whether a ranks before b.
func Less(a, b Candidate) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.hasEditDist && b.hasEditDist && a.editDist != b.editDist {
		return a.editDist < b.editDist
	}
	return a.id < b.id
}
