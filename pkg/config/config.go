// Package config loads gridwire settings from a TOML file.
//
// Every field has a default, so a missing file (at the default location) is
// not an error. Paths follow the XDG base directory layout:
//
//	$XDG_CONFIG_HOME/gridwire/config.toml   settings
//	$XDG_DATA_HOME/gridwire/                module store, sessions
//	$XDG_CACHE_HOME/gridwire/               render artifact cache
//
// A complete file looks like:
//
//	[grid]
//	cell = 40
//	columns = 20
//	rows = 15
//
//	[wire]
//	tolerance = 5.0
//
//	[library]
//	dirs = ["~/gridwire/lib"]
//	store = "sqlite"           # file | sqlite | redis
//	path = "~/.local/share/gridwire/modules.db"
//
//	[cache]
//	backend = "file"           # file | redis | none
//	dir = "~/.cache/gridwire"
//	ttl = "168h"
//
//	[redis]
//	addr = "localhost:6379"
//
//	[mongo]
//	uri = "mongodb://localhost:27017"
//	database = "gridwire"
//
//	[server]
//	addr = ":8080"
//
//	[session]
//	store = "file"             # file | mongo
//	dir = "~/.local/share/gridwire/sessions"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	gwerrors "github.com/matzehuels/gridwire/pkg/errors"
)

const appName = "gridwire"

// Backend names.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the full settings tree.
type Config struct {
	Grid    GridConfig    `toml:"grid"`
	Wire    WireConfig    `toml:"wire"`
	Library LibraryConfig `toml:"library"`
	Cache   CacheConfig   `toml:"cache"`
	Redis   RedisConfig   `toml:"redis"`
	Mongo   MongoConfig   `toml:"mongo"`
	Server  ServerConfig  `toml:"server"`
	Session SessionConfig `toml:"session"`
}

// GridConfig sizes the drawing board.
type GridConfig struct {
	Cell    int `toml:"cell"`
	Columns int `toml:"columns"`
	Rows    int `toml:"rows"`
}

// WireConfig tunes wire hit-testing.
type WireConfig struct {
	Tolerance float64 `toml:"tolerance"`
}

// LibraryConfig locates component definitions.
type LibraryConfig struct {
	Dirs  []string `toml:"dirs,omitempty"`
	Store string   `toml:"store"`
	Path  string   `toml:"path"`
}

// CacheConfig selects the render artifact cache.
type CacheConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	TTL     string `toml:"ttl"`
}

// RedisConfig is shared by the Redis cache and module store.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password,omitempty"`
	DB       int    `toml:"db"`
}

// MongoConfig configures the MongoDB session store.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// ServerConfig configures the HTTP editing API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// SessionConfig selects where saved sessions live.
type SessionConfig struct {
	Store string `toml:"store"`
	Dir   string `toml:"dir"`
}

// =============================================================================
// Loading
// =============================================================================

// Default returns a config with every default applied.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// Load reads path over the defaults. An empty path means DefaultPath; a
// missing file at the default path yields the defaults, a missing explicit
// file is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	c := &Config{}
	if _, err := toml.DecodeFile(path, c); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return nil, gwerrors.Wrap(gwerrors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, gwerrors.Wrap(gwerrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes c as TOML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// ApplyDefaults fills zero fields.
func (c *Config) ApplyDefaults() {
	if c.Grid.Cell <= 0 {
		c.Grid.Cell = 40
	}
	if c.Grid.Columns <= 0 {
		c.Grid.Columns = 20
	}
	if c.Grid.Rows <= 0 {
		c.Grid.Rows = 15
	}
	if c.Wire.Tolerance <= 0 {
		c.Wire.Tolerance = 5
	}

	data, _ := DataDir()
	cache, _ := CacheDir()

	if c.Library.Store == "" {
		c.Library.Store = BackendFile
	}
	if c.Library.Path == "" {
		switch c.Library.Store {
		case BackendSQLite:
			c.Library.Path = filepath.Join(data, "modules.db")
		default:
			c.Library.Path = filepath.Join(data, "modules")
		}
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = BackendFile
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = cache
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = "168h"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Mongo.URI == "" {
		c.Mongo.URI = "mongodb://localhost:27017"
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = appName
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Session.Store == "" {
		c.Session.Store = BackendFile
	}
	if c.Session.Dir == "" {
		c.Session.Dir = filepath.Join(data, "sessions")
	}

	c.Library.Path = expandHome(c.Library.Path)
	c.Cache.Dir = expandHome(c.Cache.Dir)
	c.Session.Dir = expandHome(c.Session.Dir)
	for i, d := range c.Library.Dirs {
		c.Library.Dirs[i] = expandHome(d)
	}
}

// Validate rejects unknown backends and unusable values.
func (c *Config) Validate() error {
	if c.Grid.Cell <= 0 || c.Grid.Columns <= 0 || c.Grid.Rows <= 0 {
		return gwerrors.New(gwerrors.ErrCodeInvalidConfig, "grid: cell, columns and rows must be positive")
	}
	if !slices.Contains([]string{BackendFile, BackendSQLite, BackendRedis}, c.Library.Store) {
		return gwerrors.New(gwerrors.ErrCodeInvalidConfig, "library.store: unknown backend %q", c.Library.Store)
	}
	if !slices.Contains([]string{BackendNone, BackendFile, BackendRedis}, c.Cache.Backend) {
		return gwerrors.New(gwerrors.ErrCodeInvalidConfig, "cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if _, err := c.CacheTTL(); err != nil {
		return gwerrors.Wrap(gwerrors.ErrCodeInvalidConfig, err, "cache.ttl")
	}
	if !slices.Contains([]string{BackendFile, BackendMongo}, c.Session.Store) {
		return gwerrors.New(gwerrors.ErrCodeInvalidConfig, "session.store: unknown backend %q", c.Session.Store)
	}
	return nil
}

// CacheTTL parses Cache.TTL.
func (c *Config) CacheTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", d)
	}
	return d, nil
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns $XDG_CONFIG_HOME/gridwire/config.toml.
func DefaultPath() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DataDir returns $XDG_DATA_HOME/gridwire.
func DataDir() (string, error) { return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")) }

// CacheDir returns $XDG_CACHE_HOME/gridwire.
func CacheDir() (string, error) { return xdgDir("XDG_CACHE_HOME", ".cache") }

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
