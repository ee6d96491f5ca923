package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the jobs and candidates tables without running the screening",
	RunE: func(cmd *cobra.Command, _ []string) error {
		lg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
		if err != nil {
			log.Fatalf("creating a logger: %s", err)
		}

		config, err := getConfig()
		if err != nil {
			lg.Fatal("getting a config", zap.Error(err))
		}

		// Usage is only useful for flag errors.
		cmd.SilenceUsage = true
		return migrateDatabase(context.Background(), config.Database, lg)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func migrateDatabase(ctx context.Context, cfg store.Config, lg *zap.Logger) error {
	db, err := store.Open(ctx, cfg, lg)
	if err != nil {
		return fmt.Errorf("opening the database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating the database: %w", err)
	}

	lg.Info("database is ready", zap.String("driver", db.Driver()))
	return nil
}
