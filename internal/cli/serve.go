package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridlock-dev/gridlock/internal/server"
	"github.com/gridlock-dev/gridlock/pkg/cache"
	"github.com/gridlock-dev/gridlock/pkg/pipeline"
	"github.com/gridlock-dev/gridlock/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr          string
	timeout       time.Duration
	noCache       bool
	redisAddr     string
	redisPassword string
	redisDB       int
	mongoURI      string
	mongoDB       string
}

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var configPath string
	opts := serveOpts{addr: ":8080", timeout: 30 * time.Second}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server.

Without flags the server keeps scenes in memory and caches solve results on
disk, which suits local use. For deployments point --redis-addr at a shared
cache and --mongo-uri at a scene database, or put the same settings in a
TOML file passed with --config. Flags override file values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				cfg, err := loadConfig(configPath)
				if err != nil {
					return err
				}
				applyConfig(&opts, cfg, cmd.Flags().Changed)
			}
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "per-request solve timeout")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable result caching")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "Redis address for shared caching")
	cmd.Flags().StringVar(&opts.redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB URI for scene persistence")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", "gridlock", "MongoDB database name")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	resultCache, err := c.serveCache(ctx, opts)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	sceneStore, err := c.serveStore(ctx, opts)
	if err != nil {
		resultCache.Close()
		return fmt.Errorf("initialize store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = sceneStore.Close(closeCtx)
	}()

	runner := pipeline.NewRunner(resultCache, nil, c.Logger)
	defer runner.Close()

	srv := server.New(server.Config{
		Addr:    opts.addr,
		Timeout: opts.timeout,
	}, runner, sceneStore, c.Logger)

	return srv.ListenAndServe(ctx)
}

func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisAddr != "" {
		c.Logger.Info("using Redis cache", "addr", opts.redisAddr)
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     opts.redisAddr,
			Password: opts.redisPassword,
			DB:       opts.redisDB,
		})
	}
	return newCache(false)
}

func (c *CLI) serveStore(ctx context.Context, opts serveOpts) (store.Store, error) {
	if opts.mongoURI != "" {
		c.Logger.Info("using MongoDB store", "database", opts.mongoDB)
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:      opts.mongoURI,
			Database: opts.mongoDB,
		})
	}
	c.Logger.Warn("no --mongo-uri given, scenes are kept in memory")
	return store.NewMemoryStore(), nil
}
