package catalog

import (
	"encoding/json"
	"strconv"

	"github.com/melodex-audio/melodex/internal/domain"
)

// Hash field names of an item hash. List-valued fields are JSON arrays;
// names can contain any separator a flat encoding would pick.
const (
	fieldName        = "name"
	fieldPopularity  = "popularity"
	fieldArtistIDs   = "artist_ids"
	fieldArtistNames = "artist_names"
	fieldAlbumID     = "album_id"
	fieldAlbumName   = "album_name"
	fieldDurationMS  = "duration_ms"
	fieldTrackNumber = "track_number"
	fieldReleaseYear = "release_year"
	fieldTrackCount  = "track_count"
)

// parseItem converts a flat item hash into a domain CatalogItem. Malformed
// numeric fields degrade to zero values rather than failing the read.
func parseItem(id string, ct domain.ContentType, m map[string]string) domain.CatalogItem {
	return domain.CatalogItem{
		ID:          id,
		Type:        ct,
		Name:        m[fieldName],
		Popularity:  parseFloat(m[fieldPopularity]),
		ArtistIDs:   parseList(m[fieldArtistIDs]),
		ArtistNames: parseList(m[fieldArtistNames]),
		AlbumID:     m[fieldAlbumID],
		AlbumName:   m[fieldAlbumName],
		DurationMS:  parseInt64(m[fieldDurationMS]),
		TrackNumber: int(parseInt64(m[fieldTrackNumber])),
		ReleaseYear: int(parseInt64(m[fieldReleaseYear])),
		TrackCount:  int(parseInt64(m[fieldTrackCount])),
	}
}

// buildHashFields converts a CatalogItem into a flat map for HSET. Used by
// seeding tooling and tests; zero-valued fields are omitted.
func buildHashFields(item domain.CatalogItem) map[string]string {
	m := map[string]string{fieldName: item.Name}
	if item.Popularity != 0 {
		m[fieldPopularity] = strconv.FormatFloat(item.Popularity, 'f', -1, 64)
	}
	if len(item.ArtistIDs) > 0 {
		m[fieldArtistIDs] = encodeList(item.ArtistIDs)
	}
	if len(item.ArtistNames) > 0 {
		m[fieldArtistNames] = encodeList(item.ArtistNames)
	}
	if item.AlbumID != "" {
		m[fieldAlbumID] = item.AlbumID
	}
	if item.AlbumName != "" {
		m[fieldAlbumName] = item.AlbumName
	}
	if item.DurationMS != 0 {
		m[fieldDurationMS] = strconv.FormatInt(item.DurationMS, 10)
	}
	if item.TrackNumber != 0 {
		m[fieldTrackNumber] = strconv.Itoa(item.TrackNumber)
	}
	if item.ReleaseYear != 0 {
		m[fieldReleaseYear] = strconv.Itoa(item.ReleaseYear)
	}
	if item.TrackCount != 0 {
		m[fieldTrackCount] = strconv.Itoa(item.TrackCount)
	}
	return m
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt64(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

func encodeList(items []string) string {
	data, err := json.Marshal(items)
	if err != nil {
		return ""
	}
	return string(data)
}
