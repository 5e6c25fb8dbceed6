package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/skeinviz/skein/internal/server"
	"github.com/skeinviz/skein/pkg/cache"
	"github.com/skeinviz/skein/pkg/config"
	"github.com/skeinviz/skein/pkg/pipeline"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		configPath  string
		redisAddr   string
		redisDB     int
		cachePrefix string
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout engine over HTTP",
		Long: `Serve the layout engine over HTTP.

The API exposes one-shot layout computation (POST /api/v1/layout) and
live layout sessions (/api/v1/sessions) that clients tick and read
positions from.

By default results are cached in the local file cache. With --redis the
cache is shared, so multiple instances behind a load balancer reuse each
other's layouts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, configPath, redisAddr, redisDB, cachePrefix, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&configPath, "config", "", "tuning config file (TOML)")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for a shared cache (e.g. localhost:6379)")
	cmd.Flags().IntVar(&redisDB, "redis-db", 0, "redis database number")
	cmd.Flags().StringVar(&cachePrefix, "cache-prefix", "", "cache key prefix for namespace isolation")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, configPath, redisAddr string, redisDB int, cachePrefix string, noCache bool) error {
	tuning, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}

	store, err := c.serveCache(ctx, redisAddr, redisDB, noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	var keyer cache.Keyer
	if cachePrefix != "" {
		keyer = cache.NewScopedKeyer(nil, cachePrefix)
	}

	runner := pipeline.NewRunner(store, keyer, c.Logger)
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(runner, tuning, c.Logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}

// serveCache picks the cache backend for the API server.
func (c *CLI) serveCache(ctx context.Context, redisAddr string, redisDB int, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		store, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr, DB: redisDB})
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		c.Logger.Info("using redis cache", "addr", redisAddr, "db", redisDB)
		return store, nil
	}
	return newCache(false)
}
