// Package search runs the full query pipeline: rank, identify targets,
// enrich, and stream response sections.
package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/melodex-audio/melodex/internal/domain"
	"github.com/melodex-audio/melodex/internal/domain/candidate"
	"github.com/melodex-audio/melodex/internal/domain/section"
	"github.com/melodex-audio/melodex/internal/logger"
)

// Limits sizes the non-target result sections.
type Limits struct {
	TopResults   int
	OtherResults int
}

// DefaultLimits returns the production defaults.
func DefaultLimits() Limits {
	return Limits{TopResults: 10, OtherResults: 20}
}

// Service orchestrates one search request end to end.
type Service struct {
	engine   Engine
	identify Identifier
	enrich   Enricher
	items    ItemResolver
	limits   Limits
}

// New creates a search service.
func New(engine Engine, identify Identifier, enrich Enricher, items ItemResolver, limits Limits) *Service {
	return &Service{
		engine:   engine,
		identify: identify,
		enrich:   enrich,
		items:    items,
		limits:   limits,
	}
}

// Stream executes the search and returns a channel of response sections.
// Ranking failures surface synchronously; after that, every outcome flows
// through the channel, terminated by exactly one Done unless the context is
// canceled first. The channel is closed when the response is complete.
func (s *Service) Stream(ctx context.Context, query string) (<-chan section.Section, error) {
	started := time.Now()

	ranked, err := s.engine.Search(ctx, query, s.limits.TopResults+s.limits.OtherResults)
	if err != nil {
		return nil, fmt.Errorf("rank query: %w", err)
	}

	out := make(chan section.Section)
	go func() {
		defer close(out)
		s.assemble(ctx, out, started, query, ranked)
	}()
	return out, nil
}

// assemble emits sections in response order: Primary sections in fixed
// content-type order, enrichment as it resolves, merged non-target results,
// then Done.
func (s *Service) assemble(
	ctx context.Context, out chan<- section.Section,
	started time.Time, query string,
	ranked map[domain.ContentType][]candidate.Candidate,
) {
	log := logger.FromContext(ctx)

	type confirmedTarget struct {
		item domain.CatalogItem
	}
	var targets []confirmedTarget
	targetIDs := make(map[string]struct{})

	for _, ct := range domain.ContentTypes() {
		list := ranked[ct]
		decision, ok := s.identify.Identify(query, list)
		if !ok {
			continue
		}
		item, err := s.items.GetItem(ctx, decision.ItemID(), ct)
		if err != nil {
			// The index can briefly run ahead of the catalog. Drop the
			// target and let its candidates fall through to Results.
			log.Warn("confirmed target not resolvable",
				zap.String("item_id", decision.ItemID()),
				zap.String("content_type", string(ct)),
				zap.Error(err),
			)
			continue
		}
		if !emit(ctx, out, section.Primary{
			Match:      ct,
			Item:       section.Hit{Item: item, Score: list[0].Score()},
			Confidence: decision.Confidence(),
		}) {
			return
		}
		targets = append(targets, confirmedTarget{item: item})
		targetIDs[decision.ItemID()] = struct{}{}
	}

	// Enrichment runs per target concurrently; sections stream out as each
	// target completes. All of them land between the Primary sections and
	// Done.
	var wg sync.WaitGroup
	for _, tgt := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, sec := range s.enrich.SectionsFor(ctx, tgt.item) {
				if !emit(ctx, out, sec) {
					return
				}
			}
		}()
	}

	s.emitResults(ctx, out, ranked, targetIDs)

	wg.Wait()
	if ctx.Err() != nil {
		return
	}
	emit(ctx, out, section.Done{TotalTime: time.Since(started)})
}

// emitResults merges the non-target candidates of all content types into
// Results and MoreResults. Empty sections are omitted.
func (s *Service) emitResults(
	ctx context.Context, out chan<- section.Section,
	ranked map[domain.ContentType][]candidate.Candidate,
	targetIDs map[string]struct{},
) {
	log := logger.FromContext(ctx)

	var merged []candidate.Candidate
	for _, list := range ranked {
		for _, c := range list {
			if _, isTarget := targetIDs[c.ID()]; isTarget {
				continue
			}
			merged = append(merged, c)
		}
	}
	candidate.Sort(merged)

	want := s.limits.TopResults + s.limits.OtherResults
	hits := make([]section.Hit, 0, min(len(merged), want))
	for _, c := range merged {
		if len(hits) == want {
			break
		}
		item, err := s.items.GetItem(ctx, c.ID(), c.ContentType())
		if err != nil {
			log.Warn("result item not resolvable",
				zap.String("item_id", c.ID()),
				zap.String("content_type", string(c.ContentType())),
				zap.Error(err),
			)
			continue
		}
		hits = append(hits, section.Hit{Item: item, Score: c.Score()})
	}

	top := hits
	if len(top) > s.limits.TopResults {
		top = hits[:s.limits.TopResults]
	}
	if len(top) > 0 {
		if !emit(ctx, out, section.Results{Items: top}) {
			return
		}
	}
	if len(hits) > s.limits.TopResults {
		emit(ctx, out, section.MoreResults{Items: hits[s.limits.TopResults:]})
	}
}

// Search is the non-streaming variant: merged ranked hits with resolved
// items, filtered to the given content types (empty means all).
func (s *Service) Search(
	ctx context.Context, query string, types []domain.ContentType, limit int,
) ([]section.Hit, error) {
	if limit <= 0 {
		limit = s.limits.TopResults
	}

	ranked, err := s.engine.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("rank query: %w", err)
	}

	wanted := make(map[domain.ContentType]struct{}, len(types))
	for _, ct := range types {
		wanted[ct] = struct{}{}
	}

	var merged []candidate.Candidate
	for ct, list := range ranked {
		if len(wanted) > 0 {
			if _, ok := wanted[ct]; !ok {
				continue
			}
		}
		merged = append(merged, list...)
	}
	candidate.Sort(merged)

	log := logger.FromContext(ctx)
	hits := make([]section.Hit, 0, min(len(merged), limit))
	for _, c := range merged {
		if len(hits) == limit {
			break
		}
		item, err := s.items.GetItem(ctx, c.ID(), c.ContentType())
		if err != nil {
			log.Warn("result item not resolvable",
				zap.String("item_id", c.ID()),
				zap.Error(err),
			)
			continue
		}
		hits = append(hits, section.Hit{Item: item, Score: c.Score()})
	}
	return hits, nil
}

// emit delivers one section unless the request is already gone.
func emit(ctx context.Context, out chan<- section.Section, sec section.Section) bool {
	select {
	case out <- sec:
		return true
	case <-ctx.Done():
		return false
	}
}
