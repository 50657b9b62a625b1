// Package melodex embeds the music search core in a Go program: it connects
// to Redis, builds the ranking index from the catalog, and answers queries
// without going through the HTTP server.
package melodex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/melodex-audio/melodex/internal/db"
	dbRedis "github.com/melodex-audio/melodex/internal/db/redis"
	"github.com/melodex-audio/melodex/internal/domain"
	"github.com/melodex-audio/melodex/internal/repository/catalog"
	enrichuc "github.com/melodex-audio/melodex/internal/usecase/enrich"
	ingestuc "github.com/melodex-audio/melodex/internal/usecase/ingest"
	rankuc "github.com/melodex-audio/melodex/internal/usecase/rank"
	searchuc "github.com/melodex-audio/melodex/internal/usecase/search"
	targetuc "github.com/melodex-audio/melodex/internal/usecase/target"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the melodex SDK entry point.
type Client struct {
	store     db.Store
	searchSvc *searchuc.Service
	ingestSvc *ingestuc.Service
	engine    rankuc.Engine
}

// New creates a melodex Client, connects to the database, and builds the
// search index from the catalog.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		engine:        rankuc.EngineFingerprint,
		keyPrefix:     "melodex:",
		updateChannel: "melodex:catalog-updates",
		weights:       rankuc.DefaultWeights(),
	}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("melodex: database address required (use WithRedis)")
	}

	engine, err := rankuc.NewEngine(cfg.engine, cfg.weights)
	if err != nil {
		return nil, fmt.Errorf("melodex: %w", err)
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.database,
	})
	if err != nil {
		return nil, fmt.Errorf("melodex: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("melodex: database not ready: %w", err)
	}

	repo := catalog.New(store, cfg.keyPrefix)
	enrichSvc := enrichuc.New(repo, enrichuc.DefaultLimits())
	identify := targetuc.NewScoreGap(targetuc.DefaultConfig())
	searchSvc := searchuc.New(engine, identify, enrichSvc, repo, searchuc.DefaultLimits())
	ingestSvc := ingestuc.New(repo, engine, store, cfg.updateChannel)

	if err := ingestSvc.Rebuild(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("melodex: build index: %w", err)
	}

	return &Client{
		store:     store,
		searchSvc: searchSvc,
		ingestSvc: ingestSvc,
		engine:    engine,
	}, nil
}

// Close releases the database connection.
func (c *Client) Close() {
	c.store.Close()
}

// Search runs a ranked query and returns flat hits. types filters the result
// to the given content kinds; empty means all. limit caps the result size;
// zero or negative falls back to the default top-results limit.
func (c *Client) Search(ctx context.Context, query string, types []ContentType, limit int) ([]Hit, error) {
	cts := make([]domain.ContentType, 0, len(types))
	for _, t := range types {
		ct := domain.ContentType(t)
		if !ct.IsValid() {
			return nil, fmt.Errorf("melodex: unknown content type %q", t)
		}
		cts = append(cts, ct)
	}

	hits, err := c.searchSvc.Search(ctx, query, cts, limit)
	if err != nil {
		return nil, err
	}
	return hitsFromSections(hits), nil
}

// Rebuild reloads the catalog and replaces the search index. Clients normally
// rely on catalog-update notifications instead; Rebuild is for callers that
// wrote the catalog themselves and want the index current right away.
func (c *Client) Rebuild(ctx context.Context) error {
	return c.ingestSvc.Rebuild(ctx)
}

// Watch blocks, rebuilding the index on every catalog-update notification,
// until the context is canceled.
func (c *Client) Watch(ctx context.Context) error {
	return c.ingestSvc.Watch(ctx)
}

// Ready reports whether the index has been built and queries can be served.
func (c *Client) Ready() bool {
	return c.engine.Ready()
}
