package melodex

import (
	"github.com/melodex-audio/melodex/internal/domain"
	"github.com/melodex-audio/melodex/internal/domain/section"
)

// ContentType is the kind of catalog entry a hit refers to.
type ContentType string

// Content type constants.
const (
	ContentTypeArtist ContentType = "artist"
	ContentTypeAlbum  ContentType = "album"
	ContentTypeTrack  ContentType = "track"
)

// Item is one catalog entry. Which metadata fields are set depends on Type.
type Item struct {
	ID         string
	Type       ContentType
	Name       string
	Popularity float64

	ArtistIDs   []string
	ArtistNames []string
	AlbumID     string
	AlbumName   string
	DurationMS  int64
	TrackNumber int
	ReleaseYear int
	TrackCount  int
}

// Hit is one ranked search result.
type Hit struct {
	Item  Item
	Score float64
}

func itemFromDomain(it domain.CatalogItem) Item {
	return Item{
		ID:          it.ID,
		Type:        ContentType(it.Type),
		Name:        it.Name,
		Popularity:  it.Popularity,
		ArtistIDs:   it.ArtistIDs,
		ArtistNames: it.ArtistNames,
		AlbumID:     it.AlbumID,
		AlbumName:   it.AlbumName,
		DurationMS:  it.DurationMS,
		TrackNumber: it.TrackNumber,
		ReleaseYear: it.ReleaseYear,
		TrackCount:  it.TrackCount,
	}
}

func hitsFromSections(hits []section.Hit) []Hit {
	out := make([]Hit, len(hits))
	for i, h := range hits {
		out[i] = Hit{Item: itemFromDomain(h.Item), Score: h.Score}
	}
	return out
}
