package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/homecare/nursing-api/internal/infrastructure/config"
	"github.com/homecare/nursing-api/pkg/logger"
)

// envFile is an optional dotenv file applied before reading the environment.
var envFile string

var rootCmd = &cobra.Command{
	Use:           "nursing",
	Short:         "In-home nursing services API",
	Long:          `Serves the client/nurse service request API backed by MongoDB and Redis.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
}

// bootstrap loads configuration and initialises the process logger.
func bootstrap(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cmd.Context(), envFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "nursing-api",
		Env:     cfg.Env,
	})
	return cfg, log, nil
}
