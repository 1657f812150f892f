// Package config loads the shapviz configuration file.
//
// Configuration lives in a TOML file discovered at
// $XDG_CONFIG_HOME/shapviz/config.toml (falling back to
// ~/.config/shapviz/config.toml), or at an explicitly given path. All
// values are optional; flags override file values, and a missing file
// yields the defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/jmaspons/shapviz/pkg/errors"
)

// Config is the parsed configuration file.
type Config struct {
	Cache CacheConfig `toml:"cache"`
	Store StoreConfig `toml:"store"`
	Plot  PlotConfig  `toml:"plot"`
	API   APIConfig   `toml:"api"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	// Backend is "file", "redis", or "none". Empty means "file".
	Backend string `toml:"backend"`

	// Dir is the file cache directory. Empty means the default under the
	// user cache directory.
	Dir string `toml:"dir"`

	// RedisAddr is the host:port of the Redis backend.
	RedisAddr string `toml:"redis_addr"`
}

// StoreConfig selects and configures the explanation store.
type StoreConfig struct {
	// Backend is "file" or "mongo". Empty means "file".
	Backend string `toml:"backend"`

	// Dir is the file store directory. Empty means the default under the
	// user data directory.
	Dir string `toml:"dir"`

	// MongoURI, MongoDatabase, and MongoCollection configure the mongo
	// backend. Database and collection default to "shapviz" and
	// "explanations".
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// PlotConfig carries default plot options applied when flags are absent.
type PlotConfig struct {
	MaxFeatures int     `toml:"max_features"`
	Width       float64 `toml:"width"`
}

// APIConfig configures the HTTP server.
type APIConfig struct {
	// Addr is the listen address. Empty means ":8080".
	Addr string `toml:"addr"`
}

// Defaults applied when the file leaves fields empty.
const (
	DefaultCacheBackend = "file"
	DefaultStoreBackend = "file"
	DefaultMongoDB      = "shapviz"
	DefaultMongoColl    = "explanations"
	DefaultAddr         = ":8080"
)

// Path returns the default configuration file location, honoring
// $XDG_CONFIG_HOME.
func Path() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "shapviz", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "shapviz", "config.toml")
}

// Load reads the configuration from path. An empty path uses [Path]. A
// missing file is not an error: Load returns the zero configuration with
// defaults applied.
func Load(path string) (Config, error) {
	explicit := path != ""
	if path == "" {
		path = Path()
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "malformed config file %s", path)
			}
		case os.IsNotExist(err) && !explicit:
			// Fall through to defaults.
		case os.IsNotExist(err):
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		default:
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to read config file %s", path)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Cache.Backend == "" {
		c.Cache.Backend = DefaultCacheBackend
	}
	if c.Store.Backend == "" {
		c.Store.Backend = DefaultStoreBackend
	}
	if c.Store.MongoDatabase == "" {
		c.Store.MongoDatabase = DefaultMongoDB
	}
	if c.Store.MongoCollection == "" {
		c.Store.MongoCollection = DefaultMongoColl
	}
	if c.API.Addr == "" {
		c.API.Addr = DefaultAddr
	}
}

// CacheDir returns the configured cache directory, or the platform
// default under the user cache directory.
func (c *Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return ".shapviz-cache"
	}
	return filepath.Join(base, "shapviz")
}

// StoreDir returns the configured store directory, or the platform
// default next to the cache.
func (c *Config) StoreDir() string {
	if c.Store.Dir != "" {
		return c.Store.Dir
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return ".shapviz-store"
	}
	return filepath.Join(base, "shapviz", "store")
}

// Validate rejects unknown backend names early, before they reach
// backend construction.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case "file", "mongo":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend == "mongo" && c.Store.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "mongo store requires mongo_uri")
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "redis cache requires redis_addr")
	}
	return nil
}
