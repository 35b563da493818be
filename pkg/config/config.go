// Package config loads the optional gangsheet.toml configuration file.
//
// Every field has a working default, so a missing or partial file is never
// an error. The GANGSHEET_CONFIG environment variable overrides the file
// path.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/printforge/gangsheet/pkg/errors"
	"github.com/printforge/gangsheet/pkg/sheet"
	"github.com/printforge/gangsheet/pkg/units"
)

// EnvConfigPath names the environment variable that overrides the config
// file location.
const EnvConfigPath = "GANGSHEET_CONFIG"

// DefaultPath is where the config file is looked up when the environment
// variable is unset.
const DefaultPath = "gangsheet.toml"

// Store backend names accepted in the [store] section.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config is the full application configuration.
type Config struct {
	DefaultUnit string        `toml:"default_unit"`
	DefaultDPI  float64       `toml:"default_dpi"`
	Presets     []SheetPreset `toml:"presets"`
	Store       StoreConfig   `toml:"store"`
	Server      ServerConfig  `toml:"server"`
	Share       ShareConfig   `toml:"share"`
}

// SheetPreset is a sheet definition in the config file. Zero fields fall
// back to the built-in defaults at conversion time.
type SheetPreset struct {
	Name     string  `toml:"name"`
	Width    float64 `toml:"width"`
	Height   float64 `toml:"height"`
	Unit     string  `toml:"unit"`
	Price    float64 `toml:"price"`
	MaxItems int     `toml:"max_items"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend string `toml:"backend"` // file, redis, mongo, memory

	Dir string `toml:"dir"` // file backend

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// ShareConfig configures share link generation.
type ShareConfig struct {
	BaseURL string `toml:"base_url"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DefaultUnit: string(units.Inch),
		DefaultDPI:  sheet.DefaultExportDPI,
		Store: StoreConfig{
			Backend:     StoreFile,
			Dir:         ".gangsheet",
			RedisPrefix: "gangsheet:",
		},
		Server: ServerConfig{Addr: ":8080"},
		Share:  ShareConfig{BaseURL: "http://localhost:8080"},
	}
}

// Load reads the configuration from path, or from GANGSHEET_CONFIG /
// DefaultPath when path is empty. A missing file yields the defaults; a
// present but unparseable file is an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if path == "" {
		path = os.Getenv(EnvConfigPath)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return Config{}, errors.New(errors.ErrCodeInvalidInput, "config file %q not found", path)
		}
		return cfg, nil
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading config %q", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parsing config %q", path)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills fields a partial file left empty.
func (c *Config) applyDefaults() {
	def := Default()
	if c.DefaultUnit == "" {
		c.DefaultUnit = def.DefaultUnit
	}
	if c.DefaultDPI <= 0 {
		c.DefaultDPI = def.DefaultDPI
	}
	if c.Store.Backend == "" {
		c.Store.Backend = def.Store.Backend
	}
	if c.Store.Dir == "" {
		c.Store.Dir = def.Store.Dir
	}
	if c.Store.RedisPrefix == "" {
		c.Store.RedisPrefix = def.Store.RedisPrefix
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Share.BaseURL == "" {
		c.Share.BaseURL = def.Share.BaseURL
	}
}

// SheetPresets converts configured presets to sheet values, falling back to
// the built-in presets when none are configured.
func (c Config) SheetPresets() []sheet.Sheet {
	if len(c.Presets) == 0 {
		return sheet.Presets()
	}
	out := make([]sheet.Sheet, 0, len(c.Presets))
	for _, p := range c.Presets {
		u, err := units.Parse(p.Unit)
		if err != nil {
			u = units.Unit(c.DefaultUnit)
		}
		out = append(out, sheet.Sheet{
			Name:      p.Name,
			Width:     p.Width,
			Height:    p.Height,
			Unit:      u,
			Price:     p.Price,
			MaxItems:  p.MaxItems,
			ExportDPI: c.DefaultDPI,
		})
	}
	return out
}
