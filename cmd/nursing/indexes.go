package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	mongostore "github.com/homecare/nursing-api/internal/infrastructure/db/mongo"
)

var ensureIndexesCmd = &cobra.Command{
	Use:   "ensure-indexes",
	Short: "Create the MongoDB indexes the service relies on",
	Long:  `Creates unique and lookup indexes on every collection. Safe to run repeatedly.`,
	Args:  cobra.NoArgs,
	RunE:  runEnsureIndexes,
}

func init() {
	rootCmd.AddCommand(ensureIndexesCmd)
}

func runEnsureIndexes(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap(cmd)
	if err != nil {
		return err
	}

	client, db, err := mongostore.Connect(cmd.Context(), mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()

	if err := mongostore.EnsureIndexes(cmd.Context(), db); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("indexes ensured")
	return nil
}
