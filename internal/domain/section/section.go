// Package section defines the closed set of streamed search response parts.
//
// A search response is an ordered sequence of sections terminated by exactly
// one Done. The set is sealed: consumers type-switch over the variants, and
// adding a kind is a compile-time-visible change everywhere sections are
// handled.
package section

import (
	"time"

	"github.com/melodex-audio/melodex/internal/domain"
)

// Section is one self-contained unit of the streamed search response.
type Section interface {
	isSection()
}

// Hit is a resolved search result carried by Primary and Results sections.
type Hit struct {
	Item  domain.CatalogItem
	Score float64
}

// Primary is a high-confidence single match for one content type.
type Primary struct {
	Match      domain.ContentType
	Item       Hit
	Confidence float64
}

// PopularBy carries popular tracks by the target artist.
type PopularBy struct {
	TargetID   string
	TargetType domain.ContentType
	Items      []TrackSummary
}

// AlbumsBy carries albums by the target artist.
type AlbumsBy struct {
	TargetID string
	Items    []AlbumSummary
}

// TracksFrom carries the track listing of the target album.
type TracksFrom struct {
	TargetID string
	Items    []TrackSummary
}

// RelatedArtists carries artists related to the target.
type RelatedArtists struct {
	TargetID string
	Items    []ArtistSummary
}

// Results carries the top non-target candidates.
type Results struct {
	Items []Hit
}

// MoreResults carries lower-relevance overflow candidates.
type MoreResults struct {
	Items []Hit
}

// Done terminates the stream. Emitted exactly once, always last.
type Done struct {
	TotalTime time.Duration
}

func (Primary) isSection()        {}
func (PopularBy) isSection()      {}
func (AlbumsBy) isSection()       {}
func (TracksFrom) isSection()     {}
func (RelatedArtists) isSection() {}
func (Results) isSection()        {}
func (MoreResults) isSection()    {}
func (Done) isSection()           {}
