// Command melodex-seed loads a JSON catalog dump into Redis and notifies
// running servers so they rebuild their index.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/melodex-audio/melodex/internal/config"
	"github.com/melodex-audio/melodex/internal/db"
	dbRedis "github.com/melodex-audio/melodex/internal/db/redis"
	"github.com/melodex-audio/melodex/internal/domain"
	logpkg "github.com/melodex-audio/melodex/internal/logger"
	"github.com/melodex-audio/melodex/internal/repository/catalog"
)

// upsertBatchSize bounds one pipelined HSET round-trip.
const upsertBatchSize = 500

type seedItem struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Popularity  float64  `json:"popularity"`
	ArtistIDs   []string `json:"artist_ids,omitempty"`
	ArtistNames []string `json:"artist_names,omitempty"`
	AlbumID     string   `json:"album_id,omitempty"`
	AlbumName   string   `json:"album_name,omitempty"`
	DurationMS  int64    `json:"duration_ms,omitempty"`
	TrackNumber int      `json:"track_number,omitempty"`
	ReleaseYear int      `json:"release_year,omitempty"`
	TrackCount  int      `json:"track_count,omitempty"`
}

type seedMember struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

type seedRelation struct {
	Kind    string       `json:"kind"` // top-tracks, albums, related, tracks
	OwnerID string       `json:"owner_id"`
	Members []seedMember `json:"members"`
}

type seedFile struct {
	Items     []seedItem     `json:"items"`
	Relations []seedRelation `json:"relations"`
}

func main() {
	var (
		file   = flag.String("file", "", "path to the catalog JSON file (required)")
		notify = flag.Bool("notify", true, "publish a catalog-update notification after loading")
	)
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger, *file, *notify); err != nil {
		logger.Fatal("Seed failed", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger, path string, notify bool) error {
	seed, err := readSeedFile(path)
	if err != nil {
		return err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		return fmt.Errorf("create database store: %w", err)
	}
	defer store.Close()

	ctx := logpkg.ContextWithLogger(context.Background(), logger)
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	repo := catalog.New(store, cfg.Storage.KeyPrefix)

	items := make([]domain.CatalogItem, len(seed.Items))
	for i, it := range seed.Items {
		items[i] = domain.CatalogItem{
			ID:          it.ID,
			Type:        domain.ContentType(it.Type),
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
	for start := 0; start < len(items); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(items))
		if err := repo.UpsertItems(ctx, items[start:end]); err != nil {
			return fmt.Errorf("upsert items [%d:%d]: %w", start, end, err)
		}
	}

	for _, rel := range seed.Relations {
		members := make([]db.ZItem, len(rel.Members))
		for i, m := range rel.Members {
			members[i] = db.ZItem{Member: m.ID, Score: m.Score}
		}
		if err := repo.SetRelation(ctx, catalog.Relation{
			Kind:    rel.Kind,
			OwnerID: rel.OwnerID,
			Members: members,
		}); err != nil {
			return err
		}
	}

	logger.Info("Catalog loaded",
		zap.String("file", path),
		zap.Int("items", len(seed.Items)),
		zap.Int("relations", len(seed.Relations)),
	)

	if notify {
		if err := store.Publish(ctx, cfg.Storage.UpdateChannel, "seed"); err != nil {
			return fmt.Errorf("publish update notification: %w", err)
		}
		logger.Info("Update notification published",
			zap.String("channel", cfg.Storage.UpdateChannel))
	}
	return nil
}

func readSeedFile(path string) (seedFile, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return seedFile{}, fmt.Errorf("read seed file: %w", err)
	}
	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return seedFile{}, fmt.Errorf("parse seed file: %w", err)
	}
	if len(seed.Items) == 0 {
		return seedFile{}, fmt.Errorf("seed file %s has no items", path)
	}
	return seed, nil
}
