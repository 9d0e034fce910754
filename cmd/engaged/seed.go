package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Toidicodedao69/VAIT-Hackathon/internal/config"
	"github.com/Toidicodedao69/VAIT-Hackathon/internal/logging"
	spg "github.com/Toidicodedao69/VAIT-Hackathon/internal/storage/postgres"
)

var seedCmd = &cobra.Command{
	Use:   "seed-channels",
	Short: "Upsert channel registrations from a TOML file",
	Long: `Reads a channel seed file and upserts its rows into the channel
registry. Re-running the same file is a no-op; changed rows converge on
the file's contents. The event path never writes channels, so this is
the supported way to register them.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringP("file", "f", "channels.toml", "Path to the channel seed file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	cfg := config.Parse()
	log := logging.Setup("engaged-seed", cfg.Env)

	channels, err := config.LoadChannelSeed(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
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

	if err := spg.NewRegistry(db).Seed(ctx, channels); err != nil {
		return err
	}
	log.Info("channels seeded", "count", len(channels), "file", path)
	return nil
}
