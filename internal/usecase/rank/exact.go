package rank

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"golang.org/x/sync/errgroup"

	"github.com/melodex-audio/melodex/internal/domain"
	"github.com/melodex-audio/melodex/internal/domain/candidate"
	"github.com/melodex-audio/melodex/internal/editdist"
	"github.com/melodex-audio/melodex/internal/normalize"
)

// exactDoc is the shape indexed into bleve.
type exactDoc struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// exactMeta carries the fields bleve does not need to index but the re-rank
// stage does.
type exactMeta struct {
	id         string
	name       string
	popularity float64
}

type exactSnapshot struct {
	index bleve.Index
	meta  map[string]exactMeta // keyed by bleve doc id
}

// ExactEngine ranks through an in-memory full-text index: per-token fuzzy
// and prefix matching with conjunction across tokens, then the same
// popularity and edit-distance re-rank the fingerprint engine applies.
// It trades the fingerprint engine's graceful typo degradation for strict
// token semantics, useful for catalogs with long, wordy titles.
type ExactEngine struct {
	weights  Weights
	snapshot atomic.Pointer[exactSnapshot]
}

// NewExactEngine creates the engine. It is not Ready until the first
// Rebuild completes.
func NewExactEngine(weights Weights) *ExactEngine {
	return &ExactEngine{weights: weights}
}

// Name implements Engine.
func (e *ExactEngine) Name() string { return "exact" }

// Ready implements Engine.
func (e *ExactEngine) Ready() bool { return e.snapshot.Load() != nil }

// Rebuild implements Engine. A fresh in-memory index is populated off to the
// side and swapped in; the previous one is closed once replaced.
func (e *ExactEngine) Rebuild(ctx context.Context, items []domain.SearchableItem) error {
	idx, err := bleve.NewMemOnly(buildExactMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	meta := make(map[string]exactMeta, len(items))
	batch := idx.NewBatch()
	for _, it := range items {
		if !it.Type.IsValid() {
			continue
		}
		name := normalize.Name(it.Name)
		if name == "" {
			continue
		}
		docID := string(it.Type) + ":" + it.ID
		if err = batch.Index(docID, exactDoc{Name: name, Type: string(it.Type)}); err != nil {
			_ = idx.Close()
			return fmt.Errorf("batch item %s: %w", docID, err)
		}
		meta[docID] = exactMeta{id: it.ID, name: it.Name, popularity: it.Popularity}
	}
	if err = ctx.Err(); err != nil {
		_ = idx.Close()
		return err
	}
	if err = idx.Batch(batch); err != nil {
		_ = idx.Close()
		return fmt.Errorf("index batch: %w", err)
	}

	old := e.snapshot.Swap(&exactSnapshot{index: idx, meta: meta})
	if old != nil {
		_ = old.index.Close()
	}
	return nil
}

// Search implements Engine.
func (e *ExactEngine) Search(
	ctx context.Context, searchQuery string, limitPerType int,
) (map[domain.ContentType][]candidate.Candidate, error) {
	snap := e.snapshot.Load()
	if snap == nil {
		return nil, domain.ErrIndexUnavailable
	}

	normQuery := normalize.Name(searchQuery)
	tokens := strings.Fields(normQuery)

	types := domain.ContentTypes()
	perType := make([][]candidate.Candidate, len(types))
	g, ctx := errgroup.WithContext(ctx)
	for i, ct := range types {
		g.Go(func() error {
			ranked, err := e.rankType(ctx, snap, ct, normQuery, tokens, limitPerType)
			if err != nil {
				return err
			}
			perType[i] = ranked
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make(map[domain.ContentType][]candidate.Candidate, len(types))
	for i, ct := range types {
		results[ct] = perType[i]
	}
	return results, nil
}

func (e *ExactEngine) rankType(
	ctx context.Context, snap *exactSnapshot, ct domain.ContentType,
	normQuery string, tokens []string, limitPerType int,
) ([]candidate.Candidate, error) {
	ranked := make([]candidate.Candidate, 0)
	if len(tokens) == 0 {
		return ranked, nil
	}

	typeQ := bleve.NewTermQuery(string(ct))
	typeQ.SetField("type")
	full := bleve.NewConjunctionQuery(tokenQuery(tokens), typeQ)

	req := bleve.NewSearchRequestOptions(full, e.weights.Stage3Limit, 0, false)
	res, err := snap.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", ct, err)
	}
	if len(res.Hits) == 0 {
		return ranked, nil
	}

	// Bleve scores are unbounded; scale against the best hit so downstream
	// thresholds see the same [0,1]-ish range both engines produce.
	maxScore := res.Hits[0].Score
	for _, hit := range res.Hits {
		if hit.Score > maxScore {
			maxScore = hit.Score
		}
	}

	w := e.weights
	for _, hit := range res.Hits {
		m, ok := snap.meta[hit.ID]
		if !ok {
			continue
		}
		score := hit.Score / maxScore * (1 + m.popularity*w.PopularityWeight)
		ned := editdist.Normalized(normQuery, normalize.Name(m.name))
		c := candidate.New(m.id, ct, m.name, m.popularity, score)
		ranked = append(ranked, c.WithEditDistance(ned, score*(1-ned*w.EditWeight)))
	}
	candidate.Sort(ranked)
	if len(ranked) > limitPerType {
		ranked = ranked[:limitPerType]
	}
	return ranked, nil
}

// tokenQuery gives every token fuzzy and prefix treatment, requiring all
// tokens to land somewhere in the name.
func tokenQuery(tokens []string) query.Query {
	perToken := make([]query.Query, 0, len(tokens))
	for _, tok := range tokens {
		matchQ := bleve.NewMatchQuery(tok)
		matchQ.SetField("name")
		matchQ.SetFuzziness(1)

		prefixQ := bleve.NewPrefixQuery(tok)
		prefixQ.SetField("name")

		perToken = append(perToken, bleve.NewDisjunctionQuery(matchQ, prefixQ))
	}
	if len(perToken) == 1 {
		return perToken[0]
	}
	return bleve.NewConjunctionQuery(perToken...)
}

func buildExactMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = standard.Name

	docMapping := bleve.NewDocumentMapping()

	nameField := bleve.NewTextFieldMapping()
	nameField.Analyzer = standard.Name
	nameField.Store = false
	docMapping.AddFieldMappingsAt("name", nameField)

	typeField := bleve.NewTextFieldMapping()
	typeField.Analyzer = keyword.Name
	typeField.Store = false
	docMapping.AddFieldMappingsAt("type", typeField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}
