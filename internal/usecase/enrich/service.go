// Package enrich builds the contextual sections that surround a confirmed
// search target: popular tracks, discography, related artists, track
// listings.
package enrich

import (
	"context"

	"go.uber.org/zap"

	"github.com/melodex-audio/melodex/internal/domain"
	"github.com/melodex-audio/melodex/internal/domain/section"
	"github.com/melodex-audio/melodex/internal/logger"
)

// Limits caps how many items each enrichment section carries.
type Limits struct {
	PopularTracks  int
	Albums         int
	RelatedArtists int
	AlbumTracks    int
}

// DefaultLimits returns the production defaults.
func DefaultLimits() Limits {
	return Limits{
		PopularTracks:  10,
		Albums:         10,
		RelatedArtists: 6,
		AlbumTracks:    50,
	}
}

// Service resolves enrichment sections from the catalog. Enrichment is best
// effort: a failing or empty relation drops its section, never the request.
type Service struct {
	catalog Catalog
	limits  Limits
}

// New creates an enrichment service.
func New(catalog Catalog, limits Limits) *Service {
	return &Service{catalog: catalog, limits: limits}
}

// SectionsFor returns the enrichment sections for a confirmed target item,
// in their emission order. Tracks have no enrichment; the primary hit
// already carries everything worth showing.
func (s *Service) SectionsFor(ctx context.Context, item domain.CatalogItem) []section.Section {
	switch item.Type {
	case domain.ContentTypeArtist:
		return s.artistSections(ctx, item)
	case domain.ContentTypeAlbum:
		return s.albumSections(ctx, item)
	default:
		return nil
	}
}

func (s *Service) artistSections(ctx context.Context, artist domain.CatalogItem) []section.Section {
	var out []section.Section

	if tracks := s.fetch(ctx, "popular tracks", artist.ID, func() ([]domain.CatalogItem, error) {
		return s.catalog.PopularTracksByArtist(ctx, artist.ID, s.limits.PopularTracks)
	}); len(tracks) > 0 {
		out = append(out, section.PopularBy{
			TargetID:   artist.ID,
			TargetType: domain.ContentTypeArtist,
			Items:      section.TrackSummariesOf(tracks),
		})
	}

	if albums := s.fetch(ctx, "albums", artist.ID, func() ([]domain.CatalogItem, error) {
		return s.catalog.AlbumsByArtist(ctx, artist.ID, s.limits.Albums)
	}); len(albums) > 0 {
		out = append(out, section.AlbumsBy{
			TargetID: artist.ID,
			Items:    section.AlbumSummariesOf(albums),
		})
	}

	if related := s.fetch(ctx, "related artists", artist.ID, func() ([]domain.CatalogItem, error) {
		return s.catalog.RelatedArtists(ctx, artist.ID, s.limits.RelatedArtists)
	}); len(related) > 0 {
		out = append(out, section.RelatedArtists{
			TargetID: artist.ID,
			Items:    section.ArtistSummariesOf(related),
		})
	}

	return out
}

func (s *Service) albumSections(ctx context.Context, album domain.CatalogItem) []section.Section {
	var out []section.Section

	if tracks := s.fetch(ctx, "album tracks", album.ID, func() ([]domain.CatalogItem, error) {
		return s.catalog.TracksFromAlbum(ctx, album.ID, s.limits.AlbumTracks)
	}); len(tracks) > 0 {
		out = append(out, section.TracksFrom{
			TargetID: album.ID,
			Items:    section.TrackSummariesOf(tracks),
		})
	}

	// Related artists of the album's primary credited artist.
	artistID := album.PrimaryArtistID()
	if artistID == "" {
		return out
	}
	if related := s.fetch(ctx, "related artists", artistID, func() ([]domain.CatalogItem, error) {
		return s.catalog.RelatedArtists(ctx, artistID, s.limits.RelatedArtists)
	}); len(related) > 0 {
		out = append(out, section.RelatedArtists{
			TargetID: artistID,
			Items:    section.ArtistSummariesOf(related),
		})
	}

	return out
}

// fetch runs one relation lookup, logging and swallowing failures.
func (s *Service) fetch(
	ctx context.Context, relation, targetID string,
	load func() ([]domain.CatalogItem, error),
) []domain.CatalogItem {
	items, err := load()
	if err != nil {
		logger.FromContext(ctx).Warn("enrichment lookup failed",
			zap.String("relation", relation),
			zap.String("target_id", targetID),
			zap.Error(err),
		)
		return nil
	}
	return items
}
