package melodex

import (
	"context"
	"testing"

	"github.com/melodex-audio/melodex/internal/domain"
	"github.com/melodex-audio/melodex/internal/domain/section"
)

func TestNewRequiresAddrs(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error without database address")
	}
}

func TestOptionsApply(t *testing.T) {
	cfg := &clientConfig{}
	for _, o := range []Option{
		WithRedis("localhost:6379", "localhost:6380"),
		WithAuth("svc", "secret"),
		WithDatabase(2),
		WithKeyPrefix("test:"),
		WithUpdateChannel("test:updates"),
		ExactEngine(),
		WithPopularityWeight(0.3),
	} {
		o(cfg)
	}

	if len(cfg.addrs) != 2 {
		t.Errorf("addrs = %v, want two", cfg.addrs)
	}
	if cfg.username != "svc" || cfg.password != "secret" {
		t.Errorf("auth = %q/%q", cfg.username, cfg.password)
	}
	if cfg.database != 2 {
		t.Errorf("database = %d, want 2", cfg.database)
	}
	if cfg.keyPrefix != "test:" {
		t.Errorf("keyPrefix = %q", cfg.keyPrefix)
	}
	if cfg.updateChannel != "test:updates" {
		t.Errorf("updateChannel = %q", cfg.updateChannel)
	}
	if cfg.engine != "exact" {
		t.Errorf("engine = %q, want exact", cfg.engine)
	}
	if cfg.weights.PopularityWeight != 0.3 {
		t.Errorf("PopularityWeight = %v, want 0.3", cfg.weights.PopularityWeight)
	}
}

func TestHitsFromSections(t *testing.T) {
	hits := hitsFromSections([]section.Hit{{
		Item: domain.CatalogItem{
			ID:          "tr1",
			Type:        domain.ContentTypeTrack,
			Name:        "Karma Police",
			Popularity:  0.8,
			ArtistIDs:   []string{"ar2"},
			ArtistNames: []string{"Radiohead"},
			AlbumID:     "al2",
			AlbumName:   "OK Computer",
			DurationMS:  261000,
			TrackNumber: 6,
		},
		Score: 0.92,
	}})

	if len(hits) != 1 {
		t.Fatalf("hits = %v, want one", hits)
	}
	h := hits[0]
	if h.Score != 0.92 {
		t.Errorf("Score = %v, want 0.92", h.Score)
	}
	if h.Item.ID != "tr1" || h.Item.Type != ContentTypeTrack || h.Item.Name != "Karma Police" {
		t.Errorf("item = %+v", h.Item)
	}
	if h.Item.AlbumName != "OK Computer" || h.Item.TrackNumber != 6 {
		t.Errorf("metadata = %+v", h.Item)
	}
	if len(h.Item.ArtistNames) != 1 || h.Item.ArtistNames[0] != "Radiohead" {
		t.Errorf("artist names = %v", h.Item.ArtistNames)
	}
}
