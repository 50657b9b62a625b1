package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	HashStore
	SortedSetStore
	Subscriber
	Publisher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashSetItem holds a single key+fields pair for pipelined HSET.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// HashStore provides hash-based key-value operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// ZItem is one member+score pair of a sorted set.
type ZItem struct {
	Member string
	Score  float64
}

// SortedSetStore provides sorted-set operations. Range limits <= 0 mean the
// whole set.
type SortedSetStore interface {
	ZAdd(ctx context.Context, key string, items []ZItem) error
	ZRange(ctx context.Context, key string, limit int) ([]string, error)
	ZRevRange(ctx context.Context, key string, limit int) ([]string, error)
}

// Subscriber provides pub/sub message delivery. The returned channel closes
// when the context ends or the connection drops.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan string, error)
}

// Publisher sends pub/sub notifications.
type Publisher interface {
	Publish(ctx context.Context, channel, message string) error
}
