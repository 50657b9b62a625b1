package catalog

import (
	"context"

	"github.com/melodex-audio/melodex/internal/db"
)

// mockStore implements the consumer interface for tests. Seeded hashes and
// sorted sets stand in for Redis; fn fields override per test when set.
type mockStore struct {
	hashes map[string]map[string]string
	zsets  map[string][]string // already in the requested order

	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hsetMultiFn    func(ctx context.Context, items []db.HashSetItem) error
	zaddFn         func(ctx context.Context, key string, items []db.ZItem) error
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
	zrangeFn       func(ctx context.Context, key string, limit int) ([]string, error)
	zrevRangeFn    func(ctx context.Context, key string, limit int) ([]string, error)
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return m.hashes[key], nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i] = m.hashes[k]
	}
	return out, nil
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	if m.hashes == nil {
		m.hashes = make(map[string]map[string]string)
	}
	for _, it := range items {
		m.hashes[it.Key] = it.Fields
	}
	return nil
}

func (m *mockStore) ZAdd(ctx context.Context, key string, items []db.ZItem) error {
	if m.zaddFn != nil {
		return m.zaddFn(ctx, key, items)
	}
	if m.zsets == nil {
		m.zsets = make(map[string][]string)
	}
	for _, it := range items {
		m.zsets[key] = append(m.zsets[key], it.Member)
	}
	return nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	var keys []string
	for k := range m.hashes {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *mockStore) ZRange(ctx context.Context, key string, limit int) ([]string, error) {
	if m.zrangeFn != nil {
		return m.zrangeFn(ctx, key, limit)
	}
	return capped(m.zsets[key], limit), nil
}

func (m *mockStore) ZRevRange(ctx context.Context, key string, limit int) ([]string, error) {
	if m.zrevRangeFn != nil {
		return m.zrevRangeFn(ctx, key, limit)
	}
	return capped(m.zsets[key], limit), nil
}

func capped(members []string, limit int) []string {
	if limit > 0 && len(members) > limit {
		return members[:limit]
	}
	return members
}
