package redis

import (
	"context"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/melodex-audio/melodex/internal/db"
)

// ZAdd adds members with scores to a sorted set.
func (s *Store) ZAdd(ctx context.Context, key string, items []db.ZItem) error {
	if len(items) == 0 {
		return nil
	}
	cmd := s.b().Zadd().Key(key).ScoreMember()
	for _, it := range items {
		cmd = cmd.ScoreMember(it.Score, it.Member)
	}
	if err := s.do(ctx, cmd.Build()).Error(); err != nil {
		return &db.Error{Op: db.OpZAdd, Err: err}
	}
	return nil
}

// ZRange returns members in ascending score order, up to limit.
func (s *Store) ZRange(ctx context.Context, key string, limit int) ([]string, error) {
	cmd := s.b().Zrange().Key(key).Min("0").Max(strconv.Itoa(rangeStop(limit))).Build()
	return s.zrangeResult(ctx, cmd)
}

// ZRevRange returns members in descending score order, up to limit.
func (s *Store) ZRevRange(ctx context.Context, key string, limit int) ([]string, error) {
	cmd := s.b().Zrange().Key(key).Min("0").Max(strconv.Itoa(rangeStop(limit))).Rev().Build()
	return s.zrangeResult(ctx, cmd)
}

func (s *Store) zrangeResult(ctx context.Context, cmd rueidis.Completed) ([]string, error) {
	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRange, Err: err}
	}
	return members, nil
}

func rangeStop(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit - 1
}
