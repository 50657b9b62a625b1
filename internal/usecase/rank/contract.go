package rank

import (
	"context"

	"github.com/melodex-audio/melodex/internal/domain"
	"github.com/melodex-audio/melodex/internal/domain/candidate"
)

// Engine ranks catalog items against a free-text query. Implementations are
// safe for concurrent Search calls and for Rebuild running alongside them.
type Engine interface {
	// Search returns ranked candidates per content type, best first, at most
	// limitPerType entries each. A type with no matches maps to an empty
	// slice. ErrIndexUnavailable is returned before the first Rebuild.
	Search(ctx context.Context, query string, limitPerType int) (map[domain.ContentType][]candidate.Candidate, error)

	// Rebuild replaces the engine's index with the given items atomically.
	// In-flight searches keep reading the previous index.
	Rebuild(ctx context.Context, items []domain.SearchableItem) error

	// Ready reports whether at least one Rebuild has completed.
	Ready() bool

	// Name identifies the engine for logs and metrics.
	Name() string
}
