package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/roster/internal/api"
	"github.com/jon4hz/roster/internal/api/handler"
	"github.com/jon4hz/roster/internal/cache"
	"github.com/jon4hz/roster/internal/config"
	"github.com/jon4hz/roster/internal/database"
	"github.com/jon4hz/roster/internal/notify/email"
	"github.com/jon4hz/roster/internal/scheduler"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const purgeUserCacheJobID = "purge_user_cache"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the roster server",
	Long:  `Start the roster web server. This is also what runs when no subcommand is given.`,
	Example: `roster serve --config config.yml
roster serve -c /path/to/config.yml --log-level debug
`,
	RunE: serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := database.New(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer client.Close() //nolint: errcheck

	sched, err := scheduler.New()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	defer func() {
		if err := sched.Stop(); err != nil {
			log.Error("failed to stop scheduler", "error", err)
		}
	}()

	var db database.DB = client
	if cfg.Cache != nil && cfg.Cache.Enabled {
		cached := cache.NewCachedDB(client, cfg.Cache)
		if err := schedulePurge(sched, cached, cfg.Cache); err != nil {
			return err
		}
		db = cached
		log.Info("user cache enabled", "type", cfg.Cache.Type)
	}

	var notifier handler.WelcomeNotifier
	if cfg.Email != nil && cfg.Email.Enabled {
		notifier = email.New(cfg.Email, cfg.ServerURL)
	}

	server, err := api.New(cfg, db, notifier, log.GetLevel() == log.DebugLevel)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	sched.Start()
	log.Info("roster started successfully")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("shutting down gracefully...")
	return nil
}

func schedulePurge(sched *scheduler.Scheduler, cached *cache.CachedDB, cfg *config.CacheConfig) error {
	if cfg.PurgeSchedule == "" {
		return nil
	}
	err := sched.AddCronJob(purgeUserCacheJobID, "Purge user cache", cfg.PurgeSchedule, func(ctx context.Context) error {
		stats := cached.GetStats()
		log.Info("purging user cache", "hits", stats.Hits, "misses", stats.Miss)
		return cached.Clear(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cache purge: %w", err)
	}
	return nil
}
