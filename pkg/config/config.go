// Package config loads erdviz settings from a TOML file.
//
// A missing file yields [Default]. Unknown keys and malformed TOML are
// configuration errors. After decoding, a few environment variables override
// file values:
//
//	ERDVIZ_PROJECT_ROOT  project_root
//	ERDVIZ_REDIS_URL     cache.redis_url
//
// Color rules follow the same precedence at render time: the variable named
// by colors_env wins over the colors key whenever it is set.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/erdviz/pkg/cache"
	"github.com/matzehuels/erdviz/pkg/errors"
	"github.com/matzehuels/erdviz/pkg/highlight"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "erdviz.toml"

// Environment variable overrides.
const (
	EnvProjectRoot = "ERDVIZ_PROJECT_ROOT"
	EnvRedisURL    = "ERDVIZ_REDIS_URL"
)

// Config holds every setting of the CLI and the server.
type Config struct {
	ProjectRoot   string   `toml:"project_root"`
	PackRoots     []string `toml:"pack_roots"`
	GemRoots      []string `toml:"gem_roots"`
	Codeowners    string   `toml:"codeowners"`
	OwnershipFile string   `toml:"ownership_file"`
	ModelGlobs    []string `toml:"model_globs"`
	Colors        string   `toml:"colors"`
	ColorsEnv     string   `toml:"colors_env"`

	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// RenderConfig holds diagram layout options.
type RenderConfig struct {
	RankDir   string `toml:"rankdir"`
	ShowTypes bool   `toml:"show_types"`
}

// CacheConfig selects the artifact cache backend. RedisURL wins over Dir.
type CacheConfig struct {
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration decodes TOML strings like "24h" or "90m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the settings used when no file exists.
func Default() *Config {
	return &Config{
		ProjectRoot: "/usr/src/app",
		PackRoots:   []string{"/usr/src/app/packs/"},
		GemRoots:    []string{"/usr/local/bundle/gems/"},
		Codeowners:  ".github/CODEOWNERS",
		ModelGlobs:  []string{"app/models/**/*.rb", "packs/*/app/models/**/*.rb"},
		ColorsEnv:   highlight.DefaultEnvKey,
		Render:      RenderConfig{RankDir: "LR"},
		Cache:       CacheConfig{TTL: Duration{cache.DefaultTTL}},
		Server:      ServerConfig{Addr: ":8080"},
	}
}

// Load reads path over the defaults. An empty path means DefaultFile.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}
	cfg := Default()

	md, err := toml.DecodeFile(path, cfg)
	switch {
	case os.IsNotExist(err):
		cfg = Default()
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "parse %s", path)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeConfiguration, "%s: unknown key %q", path, undecoded[0].String())
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvProjectRoot); v != "" {
		c.ProjectRoot = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
}

// Validate checks values that would otherwise fail late, at render time.
func (c *Config) Validate() error {
	if c.Colors != "" {
		if _, err := highlight.ParseRules(c.Colors); err != nil {
			return errors.Wrap(errors.ErrCodeConfiguration, err, "colors")
		}
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeConfiguration, "cache.ttl must not be negative")
	}
	switch c.Render.RankDir {
	case "", "LR", "RL", "TB", "BT":
	default:
		return errors.New(errors.ErrCodeConfiguration, "render.rankdir %q must be one of LR, RL, TB, BT", c.Render.RankDir)
	}
	return nil
}

// ColorSource returns the rule source for renders: the colors_env variable
// when set, else the colors key. The variable is read on every call.
func (c *Config) ColorSource() highlight.RuleSource {
	key := c.ColorsEnv
	if key == "" {
		key = highlight.DefaultEnvKey
	}
	fallback := c.Colors
	return &highlight.CachedSource{Raw: func() string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fallback
	}}
}
