package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Toidicodedao69/VAIT-Hackathon/internal/config"
	"github.com/Toidicodedao69/VAIT-Hackathon/internal/gateway"
	"github.com/Toidicodedao69/VAIT-Hackathon/internal/leaderboard"
	"github.com/Toidicodedao69/VAIT-Hackathon/internal/logging"
	"github.com/Toidicodedao69/VAIT-Hackathon/internal/observability"
	"github.com/Toidicodedao69/VAIT-Hackathon/internal/scheduler"
	"github.com/Toidicodedao69/VAIT-Hackathon/internal/scoring"
	spg "github.com/Toidicodedao69/VAIT-Hackathon/internal/storage/postgres"
	transport "github.com/Toidicodedao69/VAIT-Hackathon/internal/transport/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tracker daemon",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Parse()
	log := logging.Setup("engaged", cfg.Env)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := spg.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()

	mig := filepath.Join("migrations", "0001_init.sql")
	if err := db.RunMigration(ctx, mig); err != nil {
		return fmt.Errorf("migration: %w", err)
	}
	log.Info("database ready")

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	registry := spg.NewRegistry(db)
	windows := spg.NewWindows(db)
	ledger := spg.NewLedger(db)

	engine := scoring.NewEngine(windows, cfg.PointsPost, cfg.PointsQA)

	var granter leaderboard.Granter
	if cfg.GrantEndpoint != "" {
		granter = gateway.NewHTTPGranter(cfg.GrantEndpoint, cfg.GrantTimeout)
	} else {
		log.Warn("no grant endpoint configured, role grants are log-only")
		granter = gateway.NewLogGranter(log)
	}
	resolver := leaderboard.NewResolver(ledger, registry, granter, cfg.CommunityID, log, metrics)

	processor := gateway.NewProcessor(registry, engine, ledger, cfg.BotUserID, cfg.QueueMaxSize, log, metrics)
	processor.Start(ctx)
	log.Info("event processor started", "queue", cfg.QueueMaxSize)

	// Cycles start only once the store connection is up, mirroring the
	// original "after session ready" behavior.
	sched := scheduler.New(windows, resolver, cfg.ChargeChannelID, cfg.WeeklyInterval, cfg.DailyInterval, log, metrics)
	go sched.Run(ctx)
	log.Info("scheduler started",
		"charge_channel_id", cfg.ChargeChannelID,
		"weekly_interval", cfg.WeeklyInterval.String(),
		"daily_interval", cfg.DailyInterval.String())

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: (&transport.Server{
			Cfg:   cfg,
			Queue: processor,
			Store: db,
			Now:   func() time.Time { return time.Now().UTC() },
			Log:   log,
		}).Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("shutdown complete")
	return nil
}
