package section

import "github.com/melodex-audio/melodex/internal/domain"

// TrackSummary is the lightweight track shape used in enrichment sections.
type TrackSummary struct {
	ID          string
	Name        string
	DurationMS  int64
	TrackNumber int
	AlbumID     string
	AlbumName   string
	ArtistNames []string
}

// AlbumSummary is the lightweight album shape used in enrichment sections.
type AlbumSummary struct {
	ID          string
	Name        string
	ReleaseYear int
	TrackCount  int
	ArtistNames []string
}

// ArtistSummary is the lightweight artist shape used in enrichment sections.
type ArtistSummary struct {
	ID   string
	Name string
}

// TrackSummaryOf converts a catalog track item.
func TrackSummaryOf(item domain.CatalogItem) TrackSummary {
	return TrackSummary{
		ID:          item.ID,
		Name:        item.Name,
		DurationMS:  item.DurationMS,
		TrackNumber: item.TrackNumber,
		AlbumID:     item.AlbumID,
		AlbumName:   item.AlbumName,
		ArtistNames: item.ArtistNames,
	}
}

// AlbumSummaryOf converts a catalog album item.
func AlbumSummaryOf(item domain.CatalogItem) AlbumSummary {
	return AlbumSummary{
		ID:          item.ID,
		Name:        item.Name,
		ReleaseYear: item.ReleaseYear,
		TrackCount:  item.TrackCount,
		ArtistNames: item.ArtistNames,
	}
}

// ArtistSummaryOf converts a catalog artist item.
func ArtistSummaryOf(item domain.CatalogItem) ArtistSummary {
	return ArtistSummary{ID: item.ID, Name: item.Name}
}

// TrackSummariesOf converts a slice of track items, preserving order.
func TrackSummariesOf(items []domain.CatalogItem) []TrackSummary {
	out := make([]TrackSummary, 0, len(items))
	for _, it := range items {
		out = append(out, TrackSummaryOf(it))
	}
	return out
}

// AlbumSummariesOf converts a slice of album items, preserving order.
func AlbumSummariesOf(items []domain.CatalogItem) []AlbumSummary {
	out := make([]AlbumSummary, 0, len(items))
	for _, it := range items {
		out = append(out, AlbumSummaryOf(it))
	}
	return out
}

// ArtistSummariesOf converts a slice of artist items, preserving order.
func ArtistSummariesOf(items []domain.CatalogItem) []ArtistSummary {
	out := make([]ArtistSummary, 0, len(items))
	for _, it := range items {
		out = append(out, ArtistSummaryOf(it))
	}
	return out
}
