// Package config loads menupress server and CLI configuration.
//
// Configuration is a TOML file, by default ~/.config/menupress/config.toml,
// overridable with the MENUPRESS_CONFIG environment variable or an explicit
// path. Every field has a working default so a missing file is not an
// error; the zero configuration runs with an in-memory store and a local
// file cache.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	appName        = "menupress"
	configFileName = "config.toml"

	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "MENUPRESS_CONFIG"
)

// Cache backends.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// Store backends.
const (
	StoreBackendMemory = "memory"
	StoreBackendMongo  = "mongo"
)

// Config stores menupress settings.
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"` // file, redis, none
	Dir           string `toml:"dir"`     // file backend; empty means XDG default
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend       string `toml:"backend"` // memory, mongo
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ServerConfig configures the API server.
type ServerConfig struct {
	ListenAddr      string   `toml:"listen_addr"`
	RequestTimeout  duration `toml:"request_timeout"`
	ShutdownTimeout duration `toml:"shutdown_timeout"`
}

// duration wraps time.Duration with TOML string decoding ("30s", "2m").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			Backend:   CacheBackendFile,
			RedisAddr: "localhost:6379",
		},
		Store: StoreConfig{
			Backend:       StoreBackendMemory,
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: appName,
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			RequestTimeout:  duration{60 * time.Second},
			ShutdownTimeout: duration{10 * time.Second},
		},
	}
}

// Path returns the config file path, honoring EnvConfigPath.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, configFileName), nil
}

// Load reads the configuration file at path, or the default location when
// path is empty. A missing file yields Default().
func Load(path string) (Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return Default(), err
		}
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate checks that backend selectors name known backends.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheBackendFile, CacheBackendRedis, CacheBackendNone:
	default:
		return fmt.Errorf("unknown cache backend %q (must be file, redis, or none)", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case StoreBackendMemory, StoreBackendMongo:
	default:
		return fmt.Errorf("unknown store backend %q (must be memory or mongo)", c.Store.Backend)
	}
	if c.Store.Backend == StoreBackendMongo && c.Store.MongoURI == "" {
		return fmt.Errorf("mongo store requires mongo_uri")
	}
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	return nil
}
