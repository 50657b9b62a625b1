// Package ingest keeps the search index in step with the catalog: a full
// rebuild at startup, then one per catalog-update notification.
package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/melodex-audio/melodex/internal/domain"
	"github.com/melodex-audio/melodex/internal/logger"
	"github.com/melodex-audio/melodex/internal/metrics"
)

// Service drives index rebuilds from the catalog.
type Service struct {
	source     Source
	engine     Engine
	subscriber Subscriber
	channel    string
}

// New creates an ingest service. channel names the pub/sub channel carrying
// catalog-update notifications.
func New(source Source, engine Engine, subscriber Subscriber, channel string) *Service {
	return &Service{source: source, engine: engine, subscriber: subscriber, channel: channel}
}

// Rebuild lists the catalog and replaces the engine's index.
func (s *Service) Rebuild(ctx context.Context) error {
	items, err := s.source.ListSearchable(ctx)
	if err != nil {
		metrics.IndexRebuildsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("list searchable items: %w", err)
	}
	if err = s.engine.Rebuild(ctx, items); err != nil {
		metrics.IndexRebuildsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("rebuild index: %w", err)
	}

	counts := make(map[domain.ContentType]int, 3)
	for _, it := range items {
		counts[it.Type]++
	}
	for _, ct := range domain.ContentTypes() {
		metrics.IndexItems.WithLabelValues(string(ct)).Set(float64(counts[ct]))
	}
	metrics.IndexRebuildsTotal.WithLabelValues("ok").Inc()

	logger.FromContext(ctx).Info("index rebuilt",
		zap.Int("items", len(items)),
		zap.Int("artists", counts[domain.ContentTypeArtist]),
		zap.Int("albums", counts[domain.ContentTypeAlbum]),
		zap.Int("tracks", counts[domain.ContentTypeTrack]),
	)
	return nil
}

// Watch subscribes to catalog-update notifications and rebuilds on each one.
// It blocks until the context is canceled or the subscription closes; a
// failed rebuild is logged and the watch continues.
func (s *Service) Watch(ctx context.Context) error {
	updates, err := s.subscriber.Subscribe(ctx, s.channel)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", s.channel, err)
	}

	log := logger.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-updates:
			if !ok {
				return nil
			}
			log.Info("catalog update received", zap.String("message", msg))
			if err := s.Rebuild(ctx); err != nil {
				log.Error("rebuild after catalog update failed", zap.Error(err))
			}
		}
	}
}
