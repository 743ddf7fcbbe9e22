package server

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dekarrin/presburger/server/cache"
)

// CacheType is the type of automaton-cache backing store.
type CacheType string

func (ct CacheType) String() string {
	return string(ct)
}

const (
	CacheNone   CacheType = "none"
	CacheMemory CacheType = "inmem"
	CacheSQLite CacheType = "sqlite"
)

// ParseCacheType parses a string found in a config file or connection
// string into a CacheType.
func ParseCacheType(s string) (CacheType, error) {
	switch strings.ToLower(s) {
	case CacheMemory.String():
		return CacheMemory, nil
	case CacheSQLite.String():
		return CacheSQLite, nil
	default:
		return CacheNone, fmt.Errorf("cache type not one of 'inmem' or 'sqlite': %q", s)
	}
}

// Cache contains configuration settings for the automaton cache store.
type Cache struct {
	// Type selects the backing implementation. Defaults to CacheMemory.
	Type CacheType

	// DataDir is the directory the sqlite cache file lives in. Only used
	// when Type is CacheSQLite.
	DataDir string
}

// Connect performs all logic needed to construct the store for the
// configured cache backend.
func (c Cache) Connect() (cache.Store, error) {
	switch c.Type {
	case CacheMemory:
		return cache.NewInMemoryStore(), nil
	case CacheSQLite:
		if err := os.MkdirAll(c.DataDir, 0770); err != nil {
			return nil, fmt.Errorf("create cache data dir: %w", err)
		}
		return cache.NewSQLiteStore(c.DataDir)
	case CacheNone:
		return nil, fmt.Errorf("cannot connect to 'none' cache")
	default:
		return nil, fmt.Errorf("unknown cache type: %q", c.Type.String())
	}
}

// Validate returns an error if the Cache config is not usable.
func (c Cache) Validate() error {
	switch c.Type {
	case CacheMemory:
		return nil
	case CacheSQLite:
		if c.DataDir == "" {
			return fmt.Errorf("DataDir not set to path")
		}
		return nil
	case CacheNone:
		return fmt.Errorf("'none' cache type is not valid")
	default:
		return fmt.Errorf("unknown cache type: %q", c.Type.String())
	}
}

// Config is the configuration for an automaton server, loadable from a TOML
// file via LoadConfig or filled with defaults via FillDefaults.
type Config struct {
	// ListenAddress is the host:port the HTTP server listens on.
	ListenAddress string `toml:"listen_address"`

	// Cache configures the automaton cache backing store.
	Cache Cache `toml:"cache"`

	// DefaultSolutionCap is the number of solutions EnumerateSolutions is
	// asked for when a request does not specify one explicitly.
	DefaultSolutionCap int `toml:"default_solution_cap"`

	// CORSOrigins is the list of origins allowed to make cross-origin
	// requests against the server; empty means CORS is not enabled.
	CORSOrigins []string `toml:"cors_origins"`
}

// FillDefaults returns a new Config identical to cfg but with unset values
// set to their defaults.
func (cfg Config) FillDefaults() Config {
	newCfg := cfg

	if newCfg.ListenAddress == "" {
		newCfg.ListenAddress = ":8080"
	}
	if newCfg.Cache.Type == CacheNone {
		newCfg.Cache = Cache{Type: CacheMemory}
	}
	if newCfg.DefaultSolutionCap == 0 {
		newCfg.DefaultSolutionCap = 20
	}

	return newCfg
}

// Validate returns an error if the Config has invalid field values set.
// Call Validate on the return value of FillDefaults if defaults are
// intended to be used.
func (cfg Config) Validate() error {
	if cfg.ListenAddress == "" {
		return fmt.Errorf("listen_address: must not be empty")
	}
	if err := cfg.Cache.Validate(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if cfg.DefaultSolutionCap < 1 {
		return fmt.Errorf("default_solution_cap: must be at least 1")
	}
	return nil
}

// LoadConfig reads a TOML config file from path and fills in defaults for
// anything it leaves unset.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	return cfg.FillDefaults(), nil
}
