// Package catalog reads the music catalog out of Redis: item hashes plus
// relation sorted sets (top tracks, discographies, related artists, track
// listings).
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/melodex-audio/melodex/internal/db"
	"github.com/melodex-audio/melodex/internal/domain"
)

// store is the consumer interface for catalog access (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	ZAdd(ctx context.Context, key string, items []db.ZItem) error
	ZRange(ctx context.Context, key string, limit int) ([]string, error)
	ZRevRange(ctx context.Context, key string, limit int) ([]string, error)
}

// Repo implements the catalog contracts of the enrich, search, and ingest
// usecases.
type Repo struct {
	store  store
	prefix string
}

// New creates a catalog repository. prefix namespaces every key.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) itemKey(ct domain.ContentType, id string) string {
	return r.prefix + "item:" + string(ct) + ":" + id
}

// GetItem returns one catalog item. A missing hash maps to ErrNotFound.
func (r *Repo) GetItem(ctx context.Context, id string, ct domain.ContentType) (domain.CatalogItem, error) {
	key := r.itemKey(ct, id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domain.CatalogItem{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return domain.CatalogItem{}, fmt.Errorf("item %s: %w", key, domain.ErrNotFound)
	}
	return parseItem(id, ct, m), nil
}

// PopularTracksByArtist returns the artist's most popular tracks, best first.
func (r *Repo) PopularTracksByArtist(ctx context.Context, artistID string, limit int) ([]domain.CatalogItem, error) {
	ids, err := r.store.ZRevRange(ctx, r.prefix+"artist:"+artistID+":top-tracks", limit)
	if err != nil {
		return nil, fmt.Errorf("top tracks of %s: %w", artistID, err)
	}
	return r.resolve(ctx, domain.ContentTypeTrack, ids)
}

// AlbumsByArtist returns the artist's albums, newest first.
func (r *Repo) AlbumsByArtist(ctx context.Context, artistID string, limit int) ([]domain.CatalogItem, error) {
	ids, err := r.store.ZRevRange(ctx, r.prefix+"artist:"+artistID+":albums", limit)
	if err != nil {
		return nil, fmt.Errorf("albums of %s: %w", artistID, err)
	}
	return r.resolve(ctx, domain.ContentTypeAlbum, ids)
}

// RelatedArtists returns artists related to the given one, strongest first.
func (r *Repo) RelatedArtists(ctx context.Context, artistID string, limit int) ([]domain.CatalogItem, error) {
	ids, err := r.store.ZRevRange(ctx, r.prefix+"artist:"+artistID+":related", limit)
	if err != nil {
		return nil, fmt.Errorf("related artists of %s: %w", artistID, err)
	}
	return r.resolve(ctx, domain.ContentTypeArtist, ids)
}

// TracksFromAlbum returns the album's tracks in listing order.
func (r *Repo) TracksFromAlbum(ctx context.Context, albumID string, limit int) ([]domain.CatalogItem, error) {
	ids, err := r.store.ZRange(ctx, r.prefix+"album:"+albumID+":tracks", limit)
	if err != nil {
		return nil, fmt.Errorf("tracks of album %s: %w", albumID, err)
	}
	return r.resolve(ctx, domain.ContentTypeTrack, ids)
}

// ListSearchable scans every item hash and returns the searchable view.
func (r *Repo) ListSearchable(ctx context.Context) ([]domain.SearchableItem, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"item:*")
	if err != nil {
		return nil, fmt.Errorf("scan items: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	items := make([]domain.SearchableItem, 0, len(hashes))
	for i, m := range hashes {
		if len(m) == 0 {
			continue
		}
		ct, id, ok := r.splitItemKey(keys[i])
		if !ok {
			continue
		}
		full := parseItem(id, ct, m)
		items = append(items, domain.SearchableItem{
			ID:         full.ID,
			Type:       full.Type,
			Name:       full.Name,
			Popularity: full.Popularity,
		})
	}
	return items, nil
}

// splitItemKey parses "<prefix>item:<type>:<id>". IDs may contain colons;
// the type segment may not.
func (r *Repo) splitItemKey(key string) (domain.ContentType, string, bool) {
	rest, ok := strings.CutPrefix(key, r.prefix+"item:")
	if !ok {
		return "", "", false
	}
	typePart, id, ok := strings.Cut(rest, ":")
	if !ok || id == "" {
		return "", "", false
	}
	ct := domain.ContentType(typePart)
	if !ct.IsValid() {
		return "", "", false
	}
	return ct, id, true
}

// UpsertItems writes item hashes in one pipelined round-trip. Items with an
// invalid type or empty ID are rejected up front.
func (r *Repo) UpsertItems(ctx context.Context, items []domain.CatalogItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := make([]db.HashSetItem, 0, len(items))
	for _, it := range items {
		if !it.Type.IsValid() || it.ID == "" {
			return fmt.Errorf("invalid item type=%q id=%q", it.Type, it.ID)
		}
		batch = append(batch, db.HashSetItem{
			Key:    r.itemKey(it.Type, it.ID),
			Fields: buildHashFields(it),
		})
	}
	if err := r.store.HSetMulti(ctx, batch); err != nil {
		return fmt.Errorf("upsert items: %w", err)
	}
	return nil
}

// Relation holds one ordered relation of an item, e.g. an artist's top
// tracks. Score carries the ordering: popularity, release year, or track
// number depending on the relation.
type Relation struct {
	Kind    string // "top-tracks", "albums", "related", "tracks"
	OwnerID string
	Members []db.ZItem
}

// SetRelation replaces nothing and adds members to one relation sorted set.
func (r *Repo) SetRelation(ctx context.Context, rel Relation) error {
	var key string
	switch rel.Kind {
	case "top-tracks", "albums", "related":
		key = r.prefix + "artist:" + rel.OwnerID + ":" + rel.Kind
	case "tracks":
		key = r.prefix + "album:" + rel.OwnerID + ":tracks"
	default:
		return fmt.Errorf("unknown relation kind %q", rel.Kind)
	}
	if err := r.store.ZAdd(ctx, key, rel.Members); err != nil {
		return fmt.Errorf("set relation %s of %s: %w", rel.Kind, rel.OwnerID, err)
	}
	return nil
}

func (r *Repo) resolve(ctx context.Context, ct domain.ContentType, ids []string) ([]domain.CatalogItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.itemKey(ct, id)
	}
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load %s items: %w", ct, err)
	}

	items := make([]domain.CatalogItem, 0, len(ids))
	for i, m := range hashes {
		// Relation members can outlive their item hash; skip the strays.
		if len(m) == 0 {
			continue
		}
		items = append(items, parseItem(ids[i], ct, m))
	}
	return items, nil
}
