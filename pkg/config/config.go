// Package config loads the optional rowfit.toml tunables file.
//
// Every value has a default, the file may be absent, and CLI flags
// override whatever the file says. The file exists so a benchmark suite
// can pin its tunables next to the data:
//
//	slack          = 20.0
//	max_iterations = 6
//	cache_dir      = ".rowfit-cache"
//	cache_ttl      = "720h"
//	redis_addr     = "localhost:6379"
//	history_uri    = "mongodb://localhost:27017"
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	rferrors "github.com/rowfit/rowfit/pkg/errors"
)

// DefaultFile is the config filename looked up in the working directory
// when no explicit path is given.
const DefaultFile = "rowfit.toml"

// DefaultCacheTTL keeps cached results for 30 days.
const DefaultCacheTTL = 30 * 24 * time.Hour

// Duration wraps time.Duration so TOML can carry values like "720h".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds the legalizer and storage tunables.
type Config struct {
	// Slack widens the refinement search radius beyond a cell's current
	// displacement, in layout units.
	Slack float64 `toml:"slack"`

	// MaxIterations caps the refinement loop.
	MaxIterations int `toml:"max_iterations"`

	// CacheDir is the file-cache directory. Empty selects the per-user
	// default.
	CacheDir string `toml:"cache_dir"`

	// CacheTTL bounds the lifetime of cached results.
	CacheTTL Duration `toml:"cache_ttl"`

	// RedisAddr selects the Redis cache backend when set.
	RedisAddr string `toml:"redis_addr"`

	// HistoryURI selects the MongoDB run-history backend when set.
	HistoryURI string `toml:"history_uri"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Slack:         20.0,
		MaxIterations: 6,
		CacheTTL:      Duration(DefaultCacheTTL),
	}
}

// Load reads the config file at path. An empty path tries [DefaultFile]
// in the working directory; a missing default file is not an error and
// yields [Default]. Values absent from the file keep their defaults.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return Config{}, rferrors.Wrap(rferrors.ErrCodeFileNotFound, err, "read config %s", path)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, rferrors.Wrap(rferrors.ErrCodeParse, err, "parse config %s", path)
	}
	return cfg, nil
}
