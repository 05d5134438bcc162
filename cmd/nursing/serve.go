package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/homecare/nursing-api/internal/api"
	"github.com/homecare/nursing-api/internal/core/service"
	mongostore "github.com/homecare/nursing-api/internal/infrastructure/db/mongo"
	redisstore "github.com/homecare/nursing-api/internal/infrastructure/db/redis"
	"github.com/homecare/nursing-api/internal/infrastructure/queue"
	"github.com/homecare/nursing-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

var skipIndexes bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipIndexes, "skip-indexes", false, "do not create MongoDB indexes at startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens, err := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	if !skipIndexes {
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			return err
		}
	}

	identities := mongostore.NewIdentityRepository(db)
	patients := mongostore.NewPatientRepository(db)
	audit := mongostore.NewAuditRepository(db)

	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, audit, logger.Component("audit"))
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	dispatcher.Start(dispatcherCtx)

	lifecycle := service.NewLifecycleService(service.LifecycleDeps{
		Requests:     mongostore.NewServiceRequestRepository(db),
		Patients:     patients,
		Identities:   identities,
		Transactions: mongostore.NewTransactionRepository(db),
		Audit:        audit,
		Events:       dispatcher,
		Idempotency:  redisstore.NewIdempotencyStore(rdb),
	}, logger.Component("lifecycle"))

	e := api.NewRouter(api.Dependencies{
		Auth:       service.NewAuthService(identities, tokens),
		Tokens:     tokens,
		Lifecycle:  lifecycle,
		Patients:   service.NewPatientService(patients, logger.Component("patients")),
		Mongo:      db,
		Redis:      rdb,
		Logger:     logger.Component("http"),
		LoginRate:  cfg.RateLimit.LoginPerSecond,
		LoginBurst: cfg.RateLimit.LoginBurst,
	})

	srvErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-srvErr:
		if err != nil {
			stopDispatcher()
			dispatcher.Wait()
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// in-flight requests are done; flush queued audit events before exiting
	stopDispatcher()
	dispatcher.Wait()
	log.Info().Msg("stopped")
	return nil
}
