package search

import (
	"context"
	"errors"
	"testing"

	"github.com/melodex-audio/melodex/internal/domain"
	"github.com/melodex-audio/melodex/internal/domain/candidate"
	"github.com/melodex-audio/melodex/internal/domain/section"
	"github.com/melodex-audio/melodex/internal/domain/target"
)

type mockEngine struct {
	searchFn func(ctx context.Context, query string, limitPerType int) (map[domain.ContentType][]candidate.Candidate, error)
}

func (m *mockEngine) Search(ctx context.Context, query string, limitPerType int) (map[domain.ContentType][]candidate.Candidate, error) {
	return m.searchFn(ctx, query, limitPerType)
}

type mockIdentifier struct {
	identifyFn func(query string, ranked []candidate.Candidate) (target.Decision, bool)
}

func (m *mockIdentifier) Identify(query string, ranked []candidate.Candidate) (target.Decision, bool) {
	if m.identifyFn != nil {
		return m.identifyFn(query, ranked)
	}
	return target.Decision{}, false
}

type mockEnricher struct {
	sectionsFn func(ctx context.Context, item domain.CatalogItem) []section.Section
}

func (m *mockEnricher) SectionsFor(ctx context.Context, item domain.CatalogItem) []section.Section {
	if m.sectionsFn != nil {
		return m.sectionsFn(ctx, item)
	}
	return nil
}

type mockResolver struct {
	getItemFn func(ctx context.Context, id string, ct domain.ContentType) (domain.CatalogItem, error)
}

func (m *mockResolver) GetItem(ctx context.Context, id string, ct domain.ContentType) (domain.CatalogItem, error) {
	if m.getItemFn != nil {
		return m.getItemFn(ctx, id, ct)
	}
	return domain.CatalogItem{ID: id, Type: ct, Name: "item " + id}, nil
}

func rankedFixture() map[domain.ContentType][]candidate.Candidate {
	return map[domain.ContentType][]candidate.Candidate{
		domain.ContentTypeArtist: {
			candidate.New("ar1", domain.ContentTypeArtist, "Nirvana", 0.9, 0.9),
			candidate.New("ar2", domain.ContentTypeArtist, "Nirvana Cover Band", 0.1, 0.2),
		},
		domain.ContentTypeAlbum: {
			candidate.New("al1", domain.ContentTypeAlbum, "Nevermind", 0.9, 0.5),
		},
		domain.ContentTypeTrack: {},
	}
}

func collect(t *testing.T, ch <-chan section.Section) []section.Section {
	t.Helper()
	var out []section.Section
	for sec := range ch {
		out = append(out, sec)
	}
	return out
}

func artistOnlyIdentifier() *mockIdentifier {
	return &mockIdentifier{
		identifyFn: func(_ string, ranked []candidate.Candidate) (target.Decision, bool) {
			if len(ranked) > 0 && ranked[0].ContentType() == domain.ContentTypeArtist {
				return target.New(domain.ContentTypeArtist, ranked[0].ID(), 0.9), true
			}
			return target.Decision{}, false
		},
	}
}

func TestStreamFullResponse(t *testing.T) {
	engine := &mockEngine{
		searchFn: func(_ context.Context, _ string, _ int) (map[domain.ContentType][]candidate.Candidate, error) {
			return rankedFixture(), nil
		},
	}
	enricher := &mockEnricher{
		sectionsFn: func(_ context.Context, item domain.CatalogItem) []section.Section {
			return []section.Section{
				section.PopularBy{TargetID: item.ID, TargetType: item.Type},
			}
		},
	}
	svc := New(engine, artistOnlyIdentifier(), enricher, &mockResolver{}, DefaultLimits())

	ch, err := svc.Stream(context.Background(), "nirvana")
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	sections := collect(t, ch)
	if len(sections) == 0 {
		t.Fatal("no sections received")
	}

	primary, ok := sections[0].(section.Primary)
	if !ok {
		t.Fatalf("first section = %T, want Primary", sections[0])
	}
	if primary.Item.Item.ID != "ar1" || primary.Match != domain.ContentTypeArtist {
		t.Errorf("Primary = %+v, want artist ar1", primary)
	}

	var dones, enrichments, results int
	for _, sec := range sections {
		switch s := sec.(type) {
		case section.Done:
			dones++
			if sec != sections[len(sections)-1] {
				t.Error("Done is not the last section")
			}
		case section.PopularBy:
			enrichments++
			if s.TargetID != "ar1" {
				t.Errorf("enrichment for %q, want ar1", s.TargetID)
			}
		case section.Results:
			results++
			for _, hit := range s.Items {
				if hit.Item.ID == "ar1" {
					t.Error("confirmed target leaked into Results")
				}
			}
		}
	}
	if dones != 1 {
		t.Errorf("got %d Done sections, want exactly 1", dones)
	}
	if enrichments != 1 {
		t.Errorf("got %d enrichment sections, want 1", enrichments)
	}
	if results != 1 {
		t.Errorf("got %d Results sections, want 1", results)
	}
}

func TestStreamEngineErrorIsSynchronous(t *testing.T) {
	engine := &mockEngine{
		searchFn: func(_ context.Context, _ string, _ int) (map[domain.ContentType][]candidate.Candidate, error) {
			return nil, domain.ErrIndexUnavailable
		},
	}
	svc := New(engine, &mockIdentifier{}, &mockEnricher{}, &mockResolver{}, DefaultLimits())

	_, err := svc.Stream(context.Background(), "anything")
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Fatalf("err = %v, want ErrIndexUnavailable", err)
	}
}

func TestStreamNoTarget(t *testing.T) {
	engine := &mockEngine{
		searchFn: func(_ context.Context, _ string, _ int) (map[domain.ContentType][]candidate.Candidate, error) {
			return rankedFixture(), nil
		},
	}
	svc := New(engine, &mockIdentifier{}, &mockEnricher{}, &mockResolver{}, DefaultLimits())

	ch, err := svc.Stream(context.Background(), "mbiguous")
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	sections := collect(t, ch)
	for _, sec := range sections {
		if _, isPrimary := sec.(section.Primary); isPrimary {
			t.Error("Primary emitted without a confirmed target")
		}
	}
	if _, ok := sections[len(sections)-1].(section.Done); !ok {
		t.Errorf("last section = %T, want Done", sections[len(sections)-1])
	}
}

func TestStreamDropsUnresolvableTarget(t *testing.T) {
	engine := &mockEngine{
		searchFn: func(_ context.Context, _ string, _ int) (map[domain.ContentType][]candidate.Candidate, error) {
			return rankedFixture(), nil
		},
	}
	resolver := &mockResolver{
		getItemFn: func(_ context.Context, id string, ct domain.ContentType) (domain.CatalogItem, error) {
			if id == "ar1" {
				return domain.CatalogItem{}, domain.ErrNotFound
			}
			return domain.CatalogItem{ID: id, Type: ct}, nil
		},
	}
	enricher := &mockEnricher{
		sectionsFn: func(_ context.Context, _ domain.CatalogItem) []section.Section {
			t.Error("enrichment ran for a dropped target")
			return nil
		},
	}
	svc := New(engine, artistOnlyIdentifier(), enricher, resolver, DefaultLimits())

	ch, err := svc.Stream(context.Background(), "nirvana")
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	sections := collect(t, ch)
	for _, sec := range sections {
		if _, isPrimary := sec.(section.Primary); isPrimary {
			t.Error("Primary emitted for unresolvable target")
		}
	}
	if _, ok := sections[len(sections)-1].(section.Done); !ok {
		t.Errorf("last section = %T, want Done", sections[len(sections)-1])
	}
}

func TestStreamCancel(t *testing.T) {
	engine := &mockEngine{
		searchFn: func(_ context.Context, _ string, _ int) (map[domain.ContentType][]candidate.Candidate, error) {
			return rankedFixture(), nil
		},
	}
	svc := New(engine, &mockIdentifier{}, &mockEnricher{}, &mockResolver{}, DefaultLimits())

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := svc.Stream(ctx, "nirvana")
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	cancel()
	// The channel must close promptly; collect would hang otherwise and the
	// test would time out.
	collect(t, ch)
}

func TestSearchFiltersAndLimits(t *testing.T) {
	engine := &mockEngine{
		searchFn: func(_ context.Context, _ string, _ int) (map[domain.ContentType][]candidate.Candidate, error) {
			return rankedFixture(), nil
		},
	}
	svc := New(engine, &mockIdentifier{}, &mockEnricher{}, &mockResolver{}, DefaultLimits())

	hits, err := svc.Search(context.Background(), "nirvana", []domain.ContentType{domain.ContentTypeArtist}, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}
	if hits[0].Item.ID != "ar1" {
		t.Errorf("top hit = %q, want ar1", hits[0].Item.ID)
	}
	if hits[0].Item.Type != domain.ContentTypeArtist {
		t.Errorf("hit type = %s, want artist after filtering", hits[0].Item.Type)
	}
}

func TestSearchZeroLimitUsesDefault(t *testing.T) {
	engine := &mockEngine{
		searchFn: func(_ context.Context, _ string, _ int) (map[domain.ContentType][]candidate.Candidate, error) {
			return rankedFixture(), nil
		},
	}
	svc := New(engine, &mockIdentifier{}, &mockEnricher{}, &mockResolver{}, Limits{TopResults: 2, OtherResults: 5})

	hits, err := svc.Search(context.Background(), "nirvana", nil, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("got %d hits for zero limit, want the top-results default of 2", len(hits))
	}
}

func TestSearchSkipsUnresolvable(t *testing.T) {
	engine := &mockEngine{
		searchFn: func(_ context.Context, _ string, _ int) (map[domain.ContentType][]candidate.Candidate, error) {
			return rankedFixture(), nil
		},
	}
	resolver := &mockResolver{
		getItemFn: func(_ context.Context, id string, ct domain.ContentType) (domain.CatalogItem, error) {
			if id == "ar1" {
				return domain.CatalogItem{}, domain.ErrNotFound
			}
			return domain.CatalogItem{ID: id, Type: ct}, nil
		},
	}
	svc := New(engine, &mockIdentifier{}, &mockEnricher{}, resolver, DefaultLimits())

	hits, err := svc.Search(context.Background(), "nirvana", nil, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, h := range hits {
		if h.Item.ID == "ar1" {
			t.Error("unresolvable item present in hits")
		}
	}
	if len(hits) != 2 {
		t.Errorf("got %d hits, want 2", len(hits))
	}
}
