package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the melodex API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Search   SearchConfig   `yaml:"search"`
	Enrich   EnrichConfig   `yaml:"enrich"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds key namespacing and update-channel settings.
type StorageConfig struct {
	KeyPrefix     string `yaml:"key_prefix"`
	UpdateChannel string `yaml:"update_channel"`
}

// SearchConfig holds engine selection and ranking settings.
type SearchConfig struct {
	Engine              string  `yaml:"engine"` // fingerprint, exact
	PopularityWeight    float64 `yaml:"popularity_weight"`
	ShortQueryThreshold int     `yaml:"short_query_threshold"`
	TrigramBoostFactor  float64 `yaml:"trigram_boost_factor"`
	Stage1Limit         int     `yaml:"stage1_limit"`
	Stage2Limit         int     `yaml:"stage2_limit"`
	Stage3Limit         int     `yaml:"stage3_limit"`
	EditWeight          float64 `yaml:"edit_weight"`
	MinAbsoluteScore    float64 `yaml:"min_absolute_score"`
	MinScoreGapRatio    float64 `yaml:"min_score_gap_ratio"`
	ExactMatchBoost     float64 `yaml:"exact_match_boost"`
	TopResults          int     `yaml:"top_results_limit"`
	OtherResults        int     `yaml:"other_results_limit"`
}

// EnrichConfig holds enrichment section limits.
type EnrichConfig struct {
	PopularTracksLimit  int `yaml:"popular_tracks_limit"`
	AlbumsLimit         int `yaml:"albums_limit"`
	RelatedArtistsLimit int `yaml:"related_artists_limit"`
	AlbumTracksLimit    int `yaml:"album_tracks_limit"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Streams stay open well past a typical request.
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "melodex:"
	}
	if c.Storage.UpdateChannel == "" {
		c.Storage.UpdateChannel = "melodex:catalog-updates"
	}
	if c.Search.Engine == "" {
		c.Search.Engine = "fingerprint"
	}
	if c.Search.ShortQueryThreshold <= 0 {
		c.Search.ShortQueryThreshold = 10
	}
	if c.Search.TrigramBoostFactor <= 0 {
		c.Search.TrigramBoostFactor = 0.5
	}
	if c.Search.Stage1Limit <= 0 {
		c.Search.Stage1Limit = 500
	}
	if c.Search.Stage2Limit <= 0 {
		c.Search.Stage2Limit = 200
	}
	if c.Search.Stage3Limit <= 0 {
		c.Search.Stage3Limit = 50
	}
	if c.Search.EditWeight <= 0 {
		c.Search.EditWeight = 0.8
	}
	if c.Search.MinAbsoluteScore <= 0 {
		c.Search.MinAbsoluteScore = 0.5
	}
	if c.Search.MinScoreGapRatio <= 0 {
		c.Search.MinScoreGapRatio = 0.15
	}
	if c.Search.ExactMatchBoost <= 0 {
		c.Search.ExactMatchBoost = 0.2
	}
	if c.Search.TopResults <= 0 {
		c.Search.TopResults = 10
	}
	if c.Search.OtherResults <= 0 {
		c.Search.OtherResults = 20
	}
	if c.Enrich.PopularTracksLimit <= 0 {
		c.Enrich.PopularTracksLimit = 10
	}
	if c.Enrich.AlbumsLimit <= 0 {
		c.Enrich.AlbumsLimit = 10
	}
	if c.Enrich.RelatedArtistsLimit <= 0 {
		c.Enrich.RelatedArtistsLimit = 6
	}
	if c.Enrich.AlbumTracksLimit <= 0 {
		c.Enrich.AlbumTracksLimit = 50
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.Search.Engine {
	case "fingerprint", "exact":
		// ok
	default:
		return fmt.Errorf("search.engine must be \"fingerprint\" or \"exact\", got %q", c.Search.Engine)
	}
	if c.Search.Stage2Limit > c.Search.Stage1Limit {
		return fmt.Errorf("search.stage2_limit %d exceeds stage1_limit %d",
			c.Search.Stage2Limit, c.Search.Stage1Limit)
	}
	if c.Search.Stage3Limit > c.Search.Stage2Limit {
		return fmt.Errorf("search.stage3_limit %d exceeds stage2_limit %d",
			c.Search.Stage3Limit, c.Search.Stage2Limit)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
