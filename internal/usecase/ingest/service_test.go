package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/melodex-audio/melodex/internal/domain"
)

type mockSource struct {
	listFn func(ctx context.Context) ([]domain.SearchableItem, error)
}

func (m *mockSource) ListSearchable(ctx context.Context) ([]domain.SearchableItem, error) {
	return m.listFn(ctx)
}

type mockEngine struct {
	rebuildFn func(ctx context.Context, items []domain.SearchableItem) error
}

func (m *mockEngine) Rebuild(ctx context.Context, items []domain.SearchableItem) error {
	if m.rebuildFn != nil {
		return m.rebuildFn(ctx, items)
	}
	return nil
}

type mockSubscriber struct {
	subscribeFn func(ctx context.Context, channel string) (<-chan string, error)
}

func (m *mockSubscriber) Subscribe(ctx context.Context, channel string) (<-chan string, error) {
	return m.subscribeFn(ctx, channel)
}

func TestRebuild(t *testing.T) {
	items := []domain.SearchableItem{
		{ID: "ar1", Type: domain.ContentTypeArtist, Name: "Nirvana"},
		{ID: "t1", Type: domain.ContentTypeTrack, Name: "Lithium"},
	}
	var got []domain.SearchableItem
	svc := New(
		&mockSource{listFn: func(context.Context) ([]domain.SearchableItem, error) { return items, nil }},
		&mockEngine{rebuildFn: func(_ context.Context, in []domain.SearchableItem) error {
			got = in
			return nil
		}},
		nil, "catalog-updates",
	)

	if err := svc.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("engine received %d items, want 2", len(got))
	}
}

func TestRebuildSourceError(t *testing.T) {
	wantErr := errors.New("store down")
	svc := New(
		&mockSource{listFn: func(context.Context) ([]domain.SearchableItem, error) { return nil, wantErr }},
		&mockEngine{}, nil, "catalog-updates",
	)
	if err := svc.Rebuild(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestWatchRebuildsOnNotification(t *testing.T) {
	updates := make(chan string, 1)
	rebuilt := make(chan struct{}, 2)

	svc := New(
		&mockSource{listFn: func(context.Context) ([]domain.SearchableItem, error) { return nil, nil }},
		&mockEngine{rebuildFn: func(context.Context, []domain.SearchableItem) error {
			rebuilt <- struct{}{}
			return nil
		}},
		&mockSubscriber{subscribeFn: func(_ context.Context, channel string) (<-chan string, error) {
			if channel != "catalog-updates" {
				t.Errorf("subscribed to %q, want catalog-updates", channel)
			}
			return updates, nil
		}},
		"catalog-updates",
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- svc.Watch(ctx) }()

	updates <- "changed"
	select {
	case <-rebuilt:
	case <-time.After(time.Second):
		t.Fatal("no rebuild after notification")
	}

	close(updates)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch returned %v after subscription closed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after subscription closed")
	}
}

func TestWatchSubscribeError(t *testing.T) {
	wantErr := errors.New("no pubsub")
	svc := New(nil, nil,
		&mockSubscriber{subscribeFn: func(context.Context, string) (<-chan string, error) {
			return nil, wantErr
		}},
		"catalog-updates",
	)
	if err := svc.Watch(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}
