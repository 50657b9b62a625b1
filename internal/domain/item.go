package domain

// ContentType is the kind of catalog entry a search result refers to.
type ContentType string

// Content type constants.
const (
	ContentTypeArtist ContentType = "artist"
	ContentTypeAlbum  ContentType = "album"
	ContentTypeTrack  ContentType = "track"
)

// IsValid checks if the content type is one of the supported values.
func (t ContentType) IsValid() bool {
	return t == ContentTypeArtist || t == ContentTypeAlbum || t == ContentTypeTrack
}

// ContentTypes returns all content types in their canonical emission order
// (artist, album, track).
func ContentTypes() []ContentType {
	return []ContentType{ContentTypeArtist, ContentTypeAlbum, ContentTypeTrack}
}

// CatalogItem is a read-only view of one catalog entry as supplied by the
// catalog collaborator. The search core never mutates it.
type CatalogItem struct {
	ID         string
	Type       ContentType
	Name       string
	Popularity float64 // normalized to [0,1]

	// Enrichment metadata. Which fields are set depends on Type.
	ArtistIDs   []string
	ArtistNames []string
	AlbumID     string
	AlbumName   string
	DurationMS  int64
	TrackNumber int
	ReleaseYear int
	TrackCount  int
}

// PrimaryArtistID returns the first credited artist, or "" when none.
func (i CatalogItem) PrimaryArtistID() string {
	if len(i.ArtistIDs) == 0 {
		return ""
	}
	return i.ArtistIDs[0]
}

// SearchableItem is the tuple the index builder consumes: just enough to
// fingerprint a catalog entry and weigh it by popularity.
type SearchableItem struct {
	ID         string
	Type       ContentType
	Name       string
	Popularity float64
}
