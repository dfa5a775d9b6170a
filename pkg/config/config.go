// Package config loads the optional sankey configuration file.
//
// The file is TOML with one table per concern:
//
//	[canvas]
//	width = 800
//	height_multiplier = 100
//
//	[layout]
//	node_width = 32
//	node_padding = 42
//	align = "justify"
//
//	[label]
//	policy = "wrap"
//
//	[style]
//	link_color = "#2763EC"
//
//	[cache]
//	backend = "redis"
//	[cache.redis]
//	addr = "localhost:6379"
//
// Every key is optional; missing keys keep their defaults. Unknown keys are
// rejected so typos do not pass silently. Command-line flags override
// values read from the file.
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/pipeline"
	"github.com/matzehuels/sankey/pkg/render/style"
	"github.com/matzehuels/sankey/pkg/sankey"
)

// FileName is the name of the config file inside the config directory.
const FileName = "config.toml"

// Cache backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Config is the parsed configuration file.
type Config struct {
	Canvas Canvas      `toml:"canvas"`
	Layout Layout      `toml:"layout"`
	Label  Label       `toml:"label"`
	Style  style.Style `toml:"style"`
	Cache  Cache       `toml:"cache"`
	Server Server      `toml:"server"`
}

// Canvas sizes the drawing surface.
type Canvas struct {
	Width            float64 `toml:"width"`
	HeightMultiplier float64 `toml:"height_multiplier"`
	HeightOffset     int     `toml:"height_offset"`
	MinHeight        float64 `toml:"min_height"`
}

// Layout tunes node placement.
type Layout struct {
	NodeWidth          float64 `toml:"node_width"`
	NodePadding        float64 `toml:"node_padding"`
	MinThickness       float64 `toml:"min_thickness"`
	ThicknessThreshold float64 `toml:"thickness_threshold"`
	Align              string  `toml:"align"`
	Iterations         int     `toml:"iterations"`
}

// Label selects the label fitting policy.
type Label struct {
	Policy string `toml:"policy"`
}

// Cache selects and configures the artifact cache.
type Cache struct {
	Backend string            `toml:"backend"`
	Dir     string            `toml:"dir"`
	Prefix  string            `toml:"prefix"`
	Redis   cache.RedisConfig `toml:"redis"`
	Mongo   cache.MongoConfig `toml:"mongo"`
}

// Server configures `sankey serve`.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	sp := sankey.DefaultSizePolicy()
	return &Config{
		Canvas: Canvas{
			Width:            sankey.DefaultWidth,
			HeightMultiplier: sp.HeightMultiplier,
			HeightOffset:     sp.HeightOffset,
			MinHeight:        sp.MinHeight,
		},
		Layout: Layout{
			NodeWidth:          pipeline.DefaultNodeWidth,
			NodePadding:        pipeline.DefaultNodePadding,
			MinThickness:       sp.MinThickness,
			ThicknessThreshold: sp.ThicknessThreshold,
			Align:              pipeline.DefaultAlign,
		},
		Label:  Label{Policy: "wrap"},
		Style:  style.Default(),
		Cache:  Cache{Backend: BackendFile},
		Server: Server{Addr: ":8080"},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sankey", FileName), nil
}

// Load reads the config file at path on top of [Default].
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return cfg, nil
}

// LoadOrDefault reads path if it exists and returns [Default] otherwise.
// An empty path checks [DefaultPath].
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}
	cfg, err := Load(path)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes TOML config data on top of [Default] and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values the pipeline does not validate itself.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendMemory, BackendNone:
	case BackendRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis.addr is required for the redis backend")
		}
	case BackendMongo:
		if c.Cache.Mongo.URI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.mongo.uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cache backend: %q (must be one of: file, memory, redis, mongo, none)", c.Cache.Backend)
	}
	opts := c.Options()
	return opts.ValidateForRender()
}

// Options returns pipeline options carrying the configured values.
func (c *Config) Options() pipeline.Options {
	st := c.Style
	heightOffset, minHeight := c.Canvas.HeightOffset, c.Canvas.MinHeight
	return pipeline.Options{
		Width:              c.Canvas.Width,
		HeightMultiplier:   c.Canvas.HeightMultiplier,
		HeightOffset:       &heightOffset,
		MinHeight:          &minHeight,
		NodeWidth:          c.Layout.NodeWidth,
		NodePadding:        c.Layout.NodePadding,
		MinThickness:       c.Layout.MinThickness,
		ThicknessThreshold: c.Layout.ThicknessThreshold,
		Align:              c.Layout.Align,
		Iterations:         c.Layout.Iterations,
		Policy:             c.Label.Policy,
		Style:              &st,
	}
}

// Keyer returns the artifact keyer, scoped by Cache.Prefix when set.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Cache.Prefix)
}

// OpenCache connects the configured backend. The file backend uses
// Cache.Dir, falling back to defaultDir.
func (c *Config) OpenCache(ctx context.Context, defaultDir string) (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendMemory:
		return cache.NewMemoryCache(), nil
	case BackendRedis:
		return cache.NewRedisCache(ctx, c.Cache.Redis)
	case BackendMongo:
		return cache.NewMongoCache(ctx, c.Cache.Mongo)
	default:
		dir := c.Cache.Dir
		if dir == "" {
			dir = defaultDir
		}
		return cache.NewFileCache(dir)
	}
}
