package ingest

import (
	"context"

	"github.com/melodex-audio/melodex/internal/domain"
)

// Source lists the searchable view of the catalog.
type Source interface {
	ListSearchable(ctx context.Context) ([]domain.SearchableItem, error)
}

// Engine is the index side of a rebuild.
type Engine interface {
	Rebuild(ctx context.Context, items []domain.SearchableItem) error
}

// Subscriber delivers catalog-update notifications. The returned channel is
// closed when the subscription ends.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan string, error)
}
