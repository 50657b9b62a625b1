package enrich

import (
	"context"

	"github.com/melodex-audio/melodex/internal/domain"
)

// Catalog reads catalog items and their relations for enrichment.
// A limit <= 0 means no cap.
type Catalog interface {
	GetItem(ctx context.Context, id string, ct domain.ContentType) (domain.CatalogItem, error)
	PopularTracksByArtist(ctx context.Context, artistID string, limit int) ([]domain.CatalogItem, error)
	AlbumsByArtist(ctx context.Context, artistID string, limit int) ([]domain.CatalogItem, error)
	RelatedArtists(ctx context.Context, artistID string, limit int) ([]domain.CatalogItem, error)
	TracksFromAlbum(ctx context.Context, albumID string, limit int) ([]domain.CatalogItem, error)
}
