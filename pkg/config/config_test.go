package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmaspons/shapviz/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[cache]
backend = "redis"
redis_addr = "localhost:6379"

[store]
backend = "mongo"
mongo_uri = "mongodb://localhost:27017"

[plot]
max_features = 8
width = 640

[api]
addr = ":9000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("cache config = %+v", cfg.Cache)
	}
	if cfg.Store.Backend != "mongo" || cfg.Store.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("store config = %+v", cfg.Store)
	}
	if cfg.Store.MongoDatabase != DefaultMongoDB || cfg.Store.MongoCollection != DefaultMongoColl {
		t.Errorf("mongo defaults not applied: %+v", cfg.Store)
	}
	if cfg.Plot.MaxFeatures != 8 || cfg.Plot.Width != 640 {
		t.Errorf("plot config = %+v", cfg.Plot)
	}
	if cfg.API.Addr != ":9000" {
		t.Errorf("api addr = %q", cfg.API.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Cache.Backend != DefaultCacheBackend {
		t.Errorf("cache backend = %q, want %q", cfg.Cache.Backend, DefaultCacheBackend)
	}
	if cfg.Store.Backend != DefaultStoreBackend {
		t.Errorf("store backend = %q, want %q", cfg.Store.Backend, DefaultStoreBackend)
	}
	if cfg.API.Addr != DefaultAddr {
		t.Errorf("api addr = %q, want %q", cfg.API.Addr, DefaultAddr)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ghost.toml")
	if _, err := Load(path); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("got %v, want ErrCodeFileNotFound", err)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, `cache = not valid toml`)
	if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("got %v, want ErrCodeInvalidConfig", err)
	}
}

func TestPathHonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	want := filepath.Join(dir, "shapviz", "config.toml")
	if got := Path(); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown cache backend", Config{Cache: CacheConfig{Backend: "memcached"}, Store: StoreConfig{Backend: "file"}}},
		{"unknown store backend", Config{Cache: CacheConfig{Backend: "file"}, Store: StoreConfig{Backend: "postgres"}}},
		{"mongo without uri", Config{Cache: CacheConfig{Backend: "file"}, Store: StoreConfig{Backend: "mongo"}}},
		{"redis without addr", Config{Cache: CacheConfig{Backend: "redis"}, Store: StoreConfig{Backend: "file"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("got %v, want ErrCodeInvalidConfig", err)
			}
		})
	}
}
