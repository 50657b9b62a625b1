package search

import (
	"context"

	"github.com/melodex-audio/melodex/internal/domain"
	"github.com/melodex-audio/melodex/internal/domain/candidate"
	"github.com/melodex-audio/melodex/internal/domain/section"
	"github.com/melodex-audio/melodex/internal/domain/target"
)

// Engine ranks catalog items against the query, per content type.
type Engine interface {
	Search(ctx context.Context, query string, limitPerType int) (map[domain.ContentType][]candidate.Candidate, error)
}

// Identifier decides whether a ranked list confirms an unambiguous target.
type Identifier interface {
	Identify(query string, ranked []candidate.Candidate) (target.Decision, bool)
}

// Enricher builds the contextual sections around a confirmed target.
type Enricher interface {
	SectionsFor(ctx context.Context, item domain.CatalogItem) []section.Section
}

// ItemResolver loads full catalog items for ranked candidate IDs.
type ItemResolver interface {
	GetItem(ctx context.Context, id string, ct domain.ContentType) (domain.CatalogItem, error)
}
