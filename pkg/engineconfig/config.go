// Package engineconfig loads the static, process-wide engine
// configuration from YAML, the way the teacher's util/version.go and
// friends hold process-wide constants, but sourced from a file instead
// of compiled in (SPEC_FULL.md §4.9/§6).
package engineconfig

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/elfringham/iresearch/core/search"
)

// Config is the engine's static configuration, loaded once at process
// start (SPEC_FULL.md §6).
type Config struct {
	DefaultScoredTermsLimit int           `yaml:"default_scored_terms_limit"`
	DefaultMergePolicy      string        `yaml:"default_merge_policy"`
	LdescCacheSize          int           `yaml:"ldesc_cache_size"`
	QueryCacheTTL           time.Duration `yaml:"query_cache_ttl"`
	PostgresDSN             string        `yaml:"postgres_dsn"`
	RedisAddr               string        `yaml:"redis_addr"`
	KafkaBrokers            []string      `yaml:"kafka_brokers"`
	KafkaTopic              string        `yaml:"kafka_topic"`
}

// Defaults matches the documented defaults in SPEC_FULL.md §6; missing
// YAML keys fall back to these rather than to Go zero values.
func Defaults() Config {
	return Config{
		DefaultScoredTermsLimit: 128,
		DefaultMergePolicy:      "MAX",
		LdescCacheSize:          64,
		QueryCacheTTL:           30 * time.Second,
		RedisAddr:               "localhost:6379",
		KafkaTopic:              "ires-documents",
	}
}

// rawConfig mirrors Config but reads query_cache_ttl as a duration
// string ("30s"), since yaml.v3 does not decode time.Duration natively.
type rawConfig struct {
	DefaultScoredTermsLimit *int     `yaml:"default_scored_terms_limit"`
	DefaultMergePolicy      *string  `yaml:"default_merge_policy"`
	LdescCacheSize          *int     `yaml:"ldesc_cache_size"`
	QueryCacheTTL           *string  `yaml:"query_cache_ttl"`
	PostgresDSN             *string  `yaml:"postgres_dsn"`
	RedisAddr               *string  `yaml:"redis_addr"`
	KafkaBrokers            []string `yaml:"kafka_brokers"`
	KafkaTopic              *string  `yaml:"kafka_topic"`
}

// Load reads and parses the YAML file at path over Defaults(). Unknown
// keys are ignored (forward-compatible); a key absent from the file
// keeps its default value rather than being zeroed.
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("engineconfig: reading %s: %w", path, err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("engineconfig: parsing %s: %w", path, err)
	}

	if raw.DefaultScoredTermsLimit != nil {
		cfg.DefaultScoredTermsLimit = *raw.DefaultScoredTermsLimit
	}
	if raw.DefaultMergePolicy != nil {
		cfg.DefaultMergePolicy = *raw.DefaultMergePolicy
	}
	if raw.LdescCacheSize != nil {
		cfg.LdescCacheSize = *raw.LdescCacheSize
	}
	if raw.QueryCacheTTL != nil {
		d, err := time.ParseDuration(*raw.QueryCacheTTL)
		if err != nil {
			return Config{}, fmt.Errorf("engineconfig: query_cache_ttl: %w", err)
		}
		cfg.QueryCacheTTL = d
	}
	if raw.PostgresDSN != nil {
		cfg.PostgresDSN = *raw.PostgresDSN
	}
	if raw.RedisAddr != nil {
		cfg.RedisAddr = *raw.RedisAddr
	}
	if raw.KafkaBrokers != nil {
		cfg.KafkaBrokers = raw.KafkaBrokers
	}
	if raw.KafkaTopic != nil {
		cfg.KafkaTopic = *raw.KafkaTopic
	}
	return cfg, nil
}

// MergePolicy resolves the configured default_merge_policy string to a
// search.MergePolicy, falling back to MAX for an unrecognized value
// (SPEC_FULL.md §4.6's "multi-term filters default to MAX").
func (c Config) MergePolicy() search.MergePolicy {
	switch c.DefaultMergePolicy {
	case "SUM":
		return search.MergeSum
	case "MIN":
		return search.MergeMin
	case "NOOP":
		return search.MergeNoop
	default:
		return search.MergeMax
	}
}
