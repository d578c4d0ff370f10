// Package config loads engine settings from a TOML file, a .env file, and
// the environment.
//
// # Precedence
//
// Later sources override earlier ones:
//
//  1. [Default] values
//  2. the TOML file (an explicit path, or [DefaultPath] when it exists)
//  3. variables from .env in the working directory (missing file ignored)
//  4. SUPPLYCHAIN_* environment variables
//
// Command-line flags override the result in the CLI.
//
// # File Format
//
//	algorithm = "layered"
//	level = 1
//
//	[layout]
//	direction = "top-to-bottom"
//	routing = "orthogonal"
//	maximum_duration = "5s"
//
//	[cache]
//	backend = "badger"
//
//	[redis]
//	addr = "localhost:6379"
//
// Unknown keys are rejected so that typos do not pass silently.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/supplychain/pkg/errors"
	"github.com/matzehuels/supplychain/pkg/layout"
	"github.com/matzehuels/supplychain/pkg/source"
)

// Environment variables.
const (
	EnvPrefix         = "SUPPLYCHAIN_"
	EnvSource         = EnvPrefix + "SOURCE"
	EnvRedisAddr      = EnvPrefix + "REDIS_ADDR"
	EnvRedisPassword  = EnvPrefix + "REDIS_PASSWORD"
	EnvMongoURI       = EnvPrefix + "MONGO_URI"
	EnvNeo4jURI       = EnvPrefix + "NEO4J_URI"
	EnvNeo4jUser      = EnvPrefix + "NEO4J_USER"
	EnvNeo4jPassword  = EnvPrefix + "NEO4J_PASSWORD"
	EnvCacheDir       = EnvPrefix + "CACHE_DIR"
	EnvCacheBackend   = EnvPrefix + "CACHE_BACKEND"
	EnvServerAddr     = EnvPrefix + "ADDR"
	EnvWorkerParallel = EnvPrefix + "WORKER_CONCURRENCY"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheFile   = "file"
	CacheBadger = "badger"
	CacheRedis  = "redis"
)

// Defaults.
const (
	DefaultCacheBackend = CacheFile
	DefaultCacheTTL     = 24 * time.Hour
	DefaultRedisAddr    = "localhost:6379"
	DefaultRedisPrefix  = "supplychain:"
	DefaultServerAddr   = ":8080"
	DefaultConcurrency  = 1
)

// Config is the complete settings tree.
type Config struct {
	// Source is the default dataset path or URI.
	Source    string         `toml:"source"`
	Algorithm string         `toml:"algorithm"`
	Level     int            `toml:"level"`
	Layout    layout.Options `toml:"layout"`

	Cache  CacheConfig  `toml:"cache"`
	Redis  RedisConfig  `toml:"redis"`
	Mongo  MongoConfig  `toml:"mongo"`
	Neo4j  Neo4jConfig  `toml:"neo4j"`
	Server ServerConfig `toml:"server"`
	Worker WorkerConfig `toml:"worker"`
	Export ExportConfig `toml:"export"`
}

// CacheConfig selects the layout and artifact cache.
type CacheConfig struct {
	Backend string        `toml:"backend"`
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
}

// RedisConfig addresses the Redis server used by the redis cache backend
// and the layout worker.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// MongoConfig configures MongoDB sources.
type MongoConfig struct {
	URI         string `toml:"uri"`
	Database    string `toml:"database"`
	Items       string `toml:"items"`
	Connections string `toml:"connections"`
}

// Neo4jConfig configures Neo4j sources.
type Neo4jConfig struct {
	URI            string `toml:"uri"`
	User           string `toml:"user"`
	Password       string `toml:"password"`
	Database       string `toml:"database"`
	ItemLabel      string `toml:"item_label"`
	ParentRelation string `toml:"parent_relation"`
}

// ServerConfig configures `serve`.
type ServerConfig struct {
	Addr  string `toml:"addr"`
	Watch bool   `toml:"watch"`
}

// WorkerConfig configures `worker`.
type WorkerConfig struct {
	Concurrency int `toml:"concurrency"`
}

// ExportConfig sets export defaults.
type ExportConfig struct {
	Scale        float64 `toml:"scale"`
	Margins      float64 `toml:"margins"`
	InlineImages bool    `toml:"inline_images"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Algorithm: "layered",
		Layout:    layout.DefaultOptions(),
		Cache:     CacheConfig{Backend: DefaultCacheBackend, TTL: DefaultCacheTTL},
		Redis:     RedisConfig{Addr: DefaultRedisAddr, Prefix: DefaultRedisPrefix},
		Server:    ServerConfig{Addr: DefaultServerAddr},
		Worker:    WorkerConfig{Concurrency: DefaultConcurrency},
		Export:    ExportConfig{InlineImages: true},
	}
}

// DefaultPath returns ~/.config/supplychain/config.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "supplychain", "config.toml")
}

// DefaultCacheDir returns ~/.cache/supplychain.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "supplychain")
	}
	return filepath.Join(dir, "supplychain")
}

// Load builds the configuration. An empty path reads [DefaultPath] if it
// exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			if err := cfg.decodeFile(path); err != nil {
				return nil, err
			}
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "load .env")
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidInput, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overrides settings from environment variables looked up with
// lookup (usually os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str(EnvSource, &c.Source)
	str(EnvRedisAddr, &c.Redis.Addr)
	str(EnvRedisPassword, &c.Redis.Password)
	str(EnvMongoURI, &c.Mongo.URI)
	str(EnvNeo4jURI, &c.Neo4j.URI)
	str(EnvNeo4jUser, &c.Neo4j.User)
	str(EnvNeo4jPassword, &c.Neo4j.Password)
	str(EnvCacheDir, &c.Cache.Dir)
	str(EnvCacheBackend, &c.Cache.Backend)
	str(EnvServerAddr, &c.Server.Addr)

	if v, ok := lookup(EnvWorkerParallel); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", EnvWorkerParallel)
		}
		c.Worker.Concurrency = n
	}
	return nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if !slices.Contains([]string{CacheNone, CacheFile, CacheBadger, CacheRedis}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	if err := errors.ValidateLevel(c.Level); err != nil {
		return err
	}
	if err := c.Layout.WithDefaults().Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "layout")
	}
	if c.Worker.Concurrency < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "worker concurrency must be at least 1, got %d", c.Worker.Concurrency)
	}
	if c.Source != "" {
		if err := errors.ValidateSource(c.Source); err != nil {
			return err
		}
	}
	return nil
}

// DefaultSource returns the dataset to use when none is given: Source,
// then the MongoDB URI, then the Neo4j URI.
func (c *Config) DefaultSource() string {
	for _, s := range []string{c.Source, c.Mongo.URI, c.Neo4j.URI} {
		if s != "" {
			return s
		}
	}
	return ""
}

// SourceOptions returns the database source options.
func (c *Config) SourceOptions() source.Options {
	return source.Options{
		Database:              c.Mongo.Database,
		ItemsCollection:       c.Mongo.Items,
		ConnectionsCollection: c.Mongo.Connections,
		ItemLabel:             c.Neo4j.ItemLabel,
		ParentRelation:        c.Neo4j.ParentRelation,
		Neo4jUser:             c.Neo4j.User,
		Neo4jPassword:         c.Neo4j.Password,
		Neo4jDatabase:         c.Neo4j.Database,
	}
}

// CacheDir returns the configured cache directory or [DefaultCacheDir].
func (c *Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	return DefaultCacheDir()
}
