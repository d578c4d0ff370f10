package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/supplychain/pkg/cache"
	"github.com/matzehuels/supplychain/pkg/errors"
	"github.com/matzehuels/supplychain/pkg/layout"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
source = "chain.yaml"
level = 2

[layout]
direction = "top-to-bottom"
maximum_duration = "5s"

[cache]
backend = "badger"

[redis]
addr = "redis:6379"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source != "chain.yaml" || cfg.Level != 2 {
		t.Errorf("Source, Level = %q, %d", cfg.Source, cfg.Level)
	}
	if cfg.Layout.Direction != layout.TopToBottom {
		t.Errorf("Direction = %q, want %q", cfg.Layout.Direction, layout.TopToBottom)
	}
	if cfg.Layout.MaximumDuration != 5*time.Second {
		t.Errorf("MaximumDuration = %v, want 5s", cfg.Layout.MaximumDuration)
	}
	if cfg.Layout.Routing != layout.DefaultRouting {
		t.Errorf("Routing = %q, want default", cfg.Layout.Routing)
	}
	if cfg.Cache.Backend != CacheBadger || cfg.Redis.Addr != "redis:6379" {
		t.Errorf("Cache, Redis = %+v, %+v", cfg.Cache, cfg.Redis)
	}
	if cfg.Redis.Prefix != DefaultRedisPrefix {
		t.Errorf("Redis.Prefix = %q, want default", cfg.Redis.Prefix)
	}
}

func TestLoadRejects(t *testing.T) {
	t.Chdir(t.TempDir())
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", `colour = "red"`},
		{"bad backend", "[cache]\nbackend = \"memcached\""},
		{"bad direction", "[layout]\ndirection = \"diagonal\""},
		{"negative level", "level = -1"},
		{"syntax", "level = "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Load() error = %v, want invalid input", err)
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load(missing explicit path) error = nil")
	}
}

func TestDotEnvAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	env := "SUPPLYCHAIN_MONGO_URI=mongodb://db:27017\nSUPPLYCHAIN_WORKER_CONCURRENCY=4\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv.Load sets process variables; make sure they are removed.
	t.Setenv(EnvMongoURI, "")
	t.Setenv(EnvWorkerParallel, "")
	os.Unsetenv(EnvMongoURI)
	os.Unsetenv(EnvWorkerParallel)
	t.Setenv(EnvRedisAddr, "env:6379")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Mongo.URI != "mongodb://db:27017" {
		t.Errorf("Mongo.URI = %q", cfg.Mongo.URI)
	}
	if cfg.Worker.Concurrency != 4 {
		t.Errorf("Worker.Concurrency = %d, want 4", cfg.Worker.Concurrency)
	}
	if cfg.Redis.Addr != "env:6379" {
		t.Errorf("Redis.Addr = %q, want env:6379", cfg.Redis.Addr)
	}
	if got := cfg.DefaultSource(); got != "mongodb://db:27017" {
		t.Errorf("DefaultSource() = %q", got)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	cfg := Default()
	lookup := func(k string) (string, bool) {
		if k == EnvWorkerParallel {
			return "many", true
		}
		return "", false
	}
	if err := cfg.ApplyEnv(lookup); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ApplyEnv() error = %v, want invalid input", err)
	}
}

func TestOpenCache(t *testing.T) {
	cfg := Default()
	cfg.Cache.Dir = t.TempDir()

	for _, backend := range []string{CacheNone, CacheFile, CacheBadger} {
		cfg.Cache.Backend = backend
		c, err := cfg.OpenCache()
		if err != nil {
			t.Fatalf("OpenCache(%s) error = %v", backend, err)
		}
		switch backend {
		case CacheNone:
			if _, ok := c.(cache.NullCache); !ok {
				t.Errorf("OpenCache(none) = %T", c)
			}
		case CacheFile:
			if _, ok := c.(*cache.FileCache); !ok {
				t.Errorf("OpenCache(file) = %T", c)
			}
		case CacheBadger:
			if _, ok := c.(*cache.BadgerCache); !ok {
				t.Errorf("OpenCache(badger) = %T", c)
			}
		}
		c.Close()
	}
}
