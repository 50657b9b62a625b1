package redis

import (
	"context"

	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"github.com/melodex-audio/melodex/internal/db"
	"github.com/melodex-audio/melodex/internal/logger"
)

// Subscribe listens on a pub/sub channel and forwards message payloads. The
// returned channel closes when the context ends or the connection drops.
func (s *Store) Subscribe(ctx context.Context, channel string) (<-chan string, error) {
	out := make(chan string, 16)

	go func() {
		defer close(out)
		err := s.client.Receive(ctx, s.b().Subscribe().Channel(channel).Build(),
			func(msg rueidis.PubSubMessage) {
				select {
				case out <- msg.Message:
				case <-ctx.Done():
				}
			})
		if err != nil && ctx.Err() == nil {
			logger.FromContext(ctx).Warn("subscription closed",
				zap.String("channel", channel),
				zap.Error(err),
			)
		}
	}()

	return out, nil
}

// Publish sends a notification on a pub/sub channel.
func (s *Store) Publish(ctx context.Context, channel, message string) error {
	cmd := s.b().Publish().Channel(channel).Message(message).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpPublish, Err: err}
	}
	return nil
}
