package chi

import (
	"encoding/json"
	"fmt"

	"github.com/melodex-audio/melodex/internal/domain"
	"github.com/melodex-audio/melodex/internal/domain/section"
)

// Wire shapes of the streamed sections. Every envelope carries a "section"
// discriminator so clients can dispatch without sniffing fields.
type itemJSON struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Popularity  float64  `json:"popularity,omitempty"`
	ArtistIDs   []string `json:"artist_ids,omitempty"`
	ArtistNames []string `json:"artist_names,omitempty"`
	AlbumID     string   `json:"album_id,omitempty"`
	AlbumName   string   `json:"album_name,omitempty"`
	DurationMS  int64    `json:"duration_ms,omitempty"`
	TrackNumber int      `json:"track_number,omitempty"`
	ReleaseYear int      `json:"release_year,omitempty"`
	TrackCount  int      `json:"track_count,omitempty"`
}

type hitJSON struct {
	Item  itemJSON `json:"item"`
	Score float64  `json:"score"`
}

type trackSummaryJSON struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	DurationMS  int64    `json:"duration_ms,omitempty"`
	TrackNumber int      `json:"track_number,omitempty"`
	AlbumID     string   `json:"album_id,omitempty"`
	AlbumName   string   `json:"album_name,omitempty"`
	ArtistNames []string `json:"artist_names,omitempty"`
}

type albumSummaryJSON struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ReleaseYear int      `json:"release_year,omitempty"`
	TrackCount  int      `json:"track_count,omitempty"`
	ArtistNames []string `json:"artist_names,omitempty"`
}

type artistSummaryJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// encodeSection marshals one section into its wire envelope and reports the
// envelope kind for metrics. Unknown variants are a programming error.
func encodeSection(sec section.Section) ([]byte, string, error) {
	var (
		kind    string
		payload any
	)

	switch s := sec.(type) {
	case section.Primary:
		kind = "primary"
		payload = struct {
			Section    string  `json:"section"`
			Match      string  `json:"match"`
			Item       hitJSON `json:"item"`
			Confidence float64 `json:"confidence"`
		}{kind, string(s.Match), hitToJSON(s.Item), s.Confidence}

	case section.PopularBy:
		kind = "popular_by"
		payload = struct {
			Section    string             `json:"section"`
			TargetID   string             `json:"target_id"`
			TargetType string             `json:"target_type"`
			Items      []trackSummaryJSON `json:"items"`
		}{kind, s.TargetID, string(s.TargetType), trackSummariesToJSON(s.Items)}

	case section.AlbumsBy:
		kind = "albums_by"
		items := make([]albumSummaryJSON, 0, len(s.Items))
		for _, a := range s.Items {
			items = append(items, albumSummaryJSON{
				ID: a.ID, Name: a.Name, ReleaseYear: a.ReleaseYear,
				TrackCount: a.TrackCount, ArtistNames: a.ArtistNames,
			})
		}
		payload = struct {
			Section  string             `json:"section"`
			TargetID string             `json:"target_id"`
			Items    []albumSummaryJSON `json:"items"`
		}{kind, s.TargetID, items}

	case section.TracksFrom:
		kind = "tracks_from"
		payload = struct {
			Section  string             `json:"section"`
			TargetID string             `json:"target_id"`
			Items    []trackSummaryJSON `json:"items"`
		}{kind, s.TargetID, trackSummariesToJSON(s.Items)}

	case section.RelatedArtists:
		kind = "related_artists"
		items := make([]artistSummaryJSON, 0, len(s.Items))
		for _, a := range s.Items {
			items = append(items, artistSummaryJSON{ID: a.ID, Name: a.Name})
		}
		payload = struct {
			Section  string              `json:"section"`
			TargetID string              `json:"target_id"`
			Items    []artistSummaryJSON `json:"items"`
		}{kind, s.TargetID, items}

	case section.Results:
		kind = "results"
		payload = struct {
			Section string    `json:"section"`
			Items   []hitJSON `json:"items"`
		}{kind, hitsToJSON(s.Items)}

	case section.MoreResults:
		kind = "more_results"
		payload = struct {
			Section string    `json:"section"`
			Items   []hitJSON `json:"items"`
		}{kind, hitsToJSON(s.Items)}

	case section.Done:
		kind = "done"
		payload = struct {
			Section     string `json:"section"`
			TotalTimeMS int64  `json:"total_time_ms"`
		}{kind, s.TotalTime.Milliseconds()}

	default:
		return nil, "", fmt.Errorf("unknown section type %T", sec)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("marshal %s section: %w", kind, err)
	}
	return data, kind, nil
}

func itemToJSON(item domain.CatalogItem) itemJSON {
	return itemJSON{
		ID:          item.ID,
		Type:        string(item.Type),
		Name:        item.Name,
		Popularity:  item.Popularity,
		ArtistIDs:   item.ArtistIDs,
		ArtistNames: item.ArtistNames,
		AlbumID:     item.AlbumID,
		AlbumName:   item.AlbumName,
		DurationMS:  item.DurationMS,
		TrackNumber: item.TrackNumber,
		ReleaseYear: item.ReleaseYear,
		TrackCount:  item.TrackCount,
	}
}

func hitToJSON(h section.Hit) hitJSON {
	return hitJSON{Item: itemToJSON(h.Item), Score: h.Score}
}

func hitsToJSON(hits []section.Hit) []hitJSON {
	out := make([]hitJSON, 0, len(hits))
	for _, h := range hits {
		out = append(out, hitToJSON(h))
	}
	return out
}

func trackSummariesToJSON(tracks []section.TrackSummary) []trackSummaryJSON {
	out := make([]trackSummaryJSON, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, trackSummaryJSON{
			ID:          t.ID,
			Name:        t.Name,
			DurationMS:  t.DurationMS,
			TrackNumber: t.TrackNumber,
			AlbumID:     t.AlbumID,
			AlbumName:   t.AlbumName,
			ArtistNames: t.ArtistNames,
		})
	}
	return out
}
