package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/menupress/menupress/internal/config"
	"github.com/menupress/menupress/internal/server"
	"github.com/menupress/menupress/pkg/cache"
	"github.com/menupress/menupress/pkg/pipeline"
	"github.com/menupress/menupress/pkg/store"
)

// serveCommand creates the serve command for running the API server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		listenAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the menupress HTTP API server",
		Long: `Run the menupress HTTP API server.

The server exposes the layout pipeline over JSON: templates and menu
snapshots are stored through the API and layouts are computed on demand.
Backends are selected in the config file (` + "`menupress serve --config`" + `):
an in-memory or MongoDB store, and a file, Redis, or disabled cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), configPath, listenAddr)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: ~/.config/menupress/config.toml)")
	cmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (overrides config)")

	return cmd
}

// runServe loads the config, builds the backends, and runs the server
// until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, configPath, listenAddr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if listenAddr != "" {
		cfg.Server.ListenAddr = listenAddr
	}

	ca, err := c.buildCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	st, err := c.buildStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			c.Logger.Warn("close store", "err", err)
		}
	}()

	runner := pipeline.NewRunner(ca, nil, st, c.Logger)
	defer runner.Close()

	c.Logger.Info("starting server",
		"addr", cfg.Server.ListenAddr,
		"cache", cfg.Cache.Backend,
		"store", cfg.Store.Backend)

	srv := server.New(runner, st, c.Logger, cfg.Server.RequestTimeout.Duration)
	return srv.ListenAndServe(ctx, cfg.Server.ListenAddr, cfg.Server.ShutdownTimeout.Duration)
}

// buildCache constructs the configured cache backend.
func (c *CLI) buildCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheBackendNone:
		return cache.NewNullCache(), nil
	case config.CacheBackendRedis:
		return cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case config.CacheBackendFile:
		dir := cfg.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// buildStore constructs the configured store backend.
func (c *CLI) buildStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case config.StoreBackendMemory:
		return store.NewMemoryStore(), nil
	case config.StoreBackendMongo:
		return store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
