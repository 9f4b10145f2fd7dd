package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rowfit/rowfit/pkg/cache"
	"github.com/rowfit/rowfit/pkg/config"
	"github.com/rowfit/rowfit/pkg/history"
)

// backendFlags are the storage-related flags shared by the commands that
// run the pipeline. Flag values override the config file; the config file
// overrides built-in defaults.
type backendFlags struct {
	configPath string
	cacheDir   string
	redisAddr  string
	noCache    bool
	historyURI string
}

// register adds the shared flags to cmd.
func (f *backendFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "path to rowfit.toml (default: ./rowfit.toml if present)")
	cmd.Flags().StringVar(&f.cacheDir, "cache-dir", "", "result cache directory (default: per-user cache dir)")
	cmd.Flags().StringVar(&f.redisAddr, "redis", "", "redis address for a shared result cache (host:port)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().StringVar(&f.historyURI, "history-uri", "", "mongodb URI for run history")
}

// load reads the config file and merges it under the flags: any flag left
// at its zero value picks up the file's value.
func (f *backendFlags) load() (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if f.cacheDir == "" {
		f.cacheDir = cfg.CacheDir
	}
	if f.redisAddr == "" {
		f.redisAddr = cfg.RedisAddr
	}
	if f.historyURI == "" {
		f.historyURI = cfg.HistoryURI
	}
	return cfg, nil
}

// openCache selects the cache backend: disabled, redis, or file.
func (f *backendFlags) openCache(ctx context.Context, logger *log.Logger) (cache.Cache, error) {
	if f.noCache {
		return cache.NewNullCache(), nil
	}
	if f.redisAddr != "" {
		logger.Debug("using redis result cache", "addr", f.redisAddr)
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: f.redisAddr})
	}
	return cache.NewFileCache(f.cacheDir)
}

// openHistory opens the run-history store, or returns nil when none is
// configured.
func (f *backendFlags) openHistory(ctx context.Context, logger *log.Logger) (history.Store, error) {
	if f.historyURI == "" {
		return nil, nil
	}
	logger.Debug("recording run history", "uri", f.historyURI)
	return history.NewMongoStore(ctx, f.historyURI)
}
