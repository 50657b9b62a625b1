package rank

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/melodex-audio/melodex/internal/domain"
	"github.com/melodex-audio/melodex/internal/domain/candidate"
	"github.com/melodex-audio/melodex/internal/editdist"
	"github.com/melodex-audio/melodex/internal/index/fingerprint"
	"github.com/melodex-audio/melodex/internal/index/trigram"
	"github.com/melodex-audio/melodex/internal/normalize"
)

// fpSnapshot bundles the per-type fingerprint indexes with the trigram sets
// built from the same item list. Readers grab the whole snapshot once, so a
// concurrent Rebuild can never hand them indexes from different generations.
type fpSnapshot struct {
	indexes  map[domain.ContentType]*fingerprint.Index
	trigrams map[domain.ContentType]map[string]trigram.Set
}

// FingerprintEngine ranks via similarity fingerprints in three stages:
// a fingerprint scan with a popularity multiplier, a trigram-containment
// boost for short queries, and an edit-distance re-rank of the survivors.
type FingerprintEngine struct {
	weights  Weights
	snapshot atomic.Pointer[fpSnapshot]
}

// NewFingerprintEngine creates the engine. It is not Ready until the first
// Rebuild completes.
func NewFingerprintEngine(weights Weights) *FingerprintEngine {
	return &FingerprintEngine{weights: weights}
}

// Name implements Engine.
func (e *FingerprintEngine) Name() string { return "fingerprint" }

// Ready implements Engine.
func (e *FingerprintEngine) Ready() bool { return e.snapshot.Load() != nil }

// Rebuild implements Engine. It fingerprints every item off to the side and
// swaps the snapshot in a single store.
func (e *FingerprintEngine) Rebuild(ctx context.Context, items []domain.SearchableItem) error {
	next := &fpSnapshot{
		indexes:  make(map[domain.ContentType]*fingerprint.Index, 3),
		trigrams: make(map[domain.ContentType]map[string]trigram.Set, 3),
	}

	byType := make(map[domain.ContentType][]fingerprint.Item, 3)
	for _, it := range items {
		if !it.Type.IsValid() {
			continue
		}
		byType[it.Type] = append(byType[it.Type], fingerprint.Item{
			ID:         it.ID,
			Name:       it.Name,
			Popularity: it.Popularity,
		})
		sets := next.trigrams[it.Type]
		if sets == nil {
			sets = make(map[string]trigram.Set)
			next.trigrams[it.Type] = sets
		}
		sets[it.ID] = trigram.Of(it.Name)
	}

	for _, ct := range domain.ContentTypes() {
		if err := ctx.Err(); err != nil {
			return err
		}
		next.indexes[ct] = fingerprint.NewIndex(byType[ct])
		if next.trigrams[ct] == nil {
			next.trigrams[ct] = map[string]trigram.Set{}
		}
	}

	e.snapshot.Store(next)
	return nil
}

// Search implements Engine. Content types rank independently and in
// parallel; candidates never compete across types.
func (e *FingerprintEngine) Search(
	ctx context.Context, query string, limitPerType int,
) (map[domain.ContentType][]candidate.Candidate, error) {
	snap := e.snapshot.Load()
	if snap == nil {
		return nil, domain.ErrIndexUnavailable
	}

	normQuery := normalize.Name(query)
	queryPrint := fingerprint.New(normQuery)
	querySet := trigram.QueryOf(normQuery)
	shortQuery := len([]rune(normQuery)) <= e.weights.ShortQueryThreshold

	types := domain.ContentTypes()
	perType := make([][]candidate.Candidate, len(types))
	g, ctx := errgroup.WithContext(ctx)
	for i, ct := range types {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			perType[i] = e.rankType(snap, ct, normQuery, queryPrint, querySet, shortQuery, limitPerType)
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

func (e *FingerprintEngine) rankType(
	snap *fpSnapshot, ct domain.ContentType,
	normQuery string, queryPrint fingerprint.Print, querySet trigram.Set,
	shortQuery bool, limitPerType int,
) []candidate.Candidate {
	w := e.weights

	// Stage 1: fingerprint proximity times a popularity multiplier. The cut
	// happens after scoring, so popularity can pull an item over the line
	// ahead of a less popular one that sits nearer in fingerprint space.
	idx := snap.indexes[ct]
	matches := idx.Candidates(queryPrint, idx.Len())
	ranked := make([]candidate.Candidate, 0, len(matches))
	for _, m := range matches {
		score := 1 / (1 + m.Distance) * (1 + m.Popularity*w.PopularityWeight)
		ranked = append(ranked, candidate.New(m.ID, ct, m.Name, m.Popularity, score))
	}
	candidate.Sort(ranked)
	if len(ranked) > w.Stage1Limit {
		ranked = ranked[:w.Stage1Limit]
	}

	// Stage 2: trigram containment boost, short queries only. Fingerprints
	// lose discrimination when the query is a fragment of the name.
	if shortQuery {
		sets := snap.trigrams[ct]
		for i := range ranked {
			containment := trigram.Containment(querySet, sets[ranked[i].ID()])
			ranked[i] = candidate.New(
				ranked[i].ID(), ct, ranked[i].Name(), ranked[i].Popularity(),
				ranked[i].Score()+containment*w.TrigramBoostFactor,
			)
		}
	}
	candidate.Sort(ranked)
	if len(ranked) > w.Stage2Limit {
		ranked = ranked[:w.Stage2Limit]
	}

	// Stage 3: exact edit distance over every remaining candidate; the head
	// is cut only after the re-rank, so an item the earlier stages underrate
	// can still surface.
	for i := range ranked {
		ned := editdist.Normalized(normQuery, normalize.Name(ranked[i].Name()))
		ranked[i] = ranked[i].WithEditDistance(ned, ranked[i].Score()*(1-ned*w.EditWeight))
	}
	candidate.Sort(ranked)
	if len(ranked) > w.Stage3Limit {
		ranked = ranked[:w.Stage3Limit]
	}

	if len(ranked) > limitPerType {
		ranked = ranked[:limitPerType]
	}
	return ranked
}
