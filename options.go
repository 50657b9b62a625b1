package melodex

import rankuc "github.com/melodex-audio/melodex/internal/usecase/rank"

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs         []string
	username      string
	password      string
	database      int
	keyPrefix     string
	updateChannel string
	engine        string
	weights       rankuc.Weights
}

// WithRedis sets the Redis addresses to connect to.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) {
		c.addrs = addrs
	}
}

// WithAuth sets the database credentials.
func WithAuth(username, password string) Option {
	return func(c *clientConfig) {
		c.username = username
		c.password = password
	}
}

// WithDatabase selects a logical Redis database.
func WithDatabase(n int) Option {
	return func(c *clientConfig) {
		c.database = n
	}
}

// WithKeyPrefix overrides the key namespace (default "melodex:").
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) {
		c.keyPrefix = prefix
	}
}

// WithUpdateChannel overrides the pub/sub channel Watch listens on.
func WithUpdateChannel(channel string) Option {
	return func(c *clientConfig) {
		c.updateChannel = channel
	}
}

// ExactEngine selects the inverted-index engine instead of the default
// fingerprint engine.
func ExactEngine() Option {
	return func(c *clientConfig) {
		c.engine = rankuc.EngineExact
	}
}

// WithPopularityWeight scales how strongly item popularity lifts the ranking
// score. Zero (the default) disables popularity entirely.
func WithPopularityWeight(w float64) Option {
	return func(c *clientConfig) {
		c.weights.PopularityWeight = w
	}
}
