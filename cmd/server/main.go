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

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/api"
	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/app"
	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/config"
	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/events/kafka"
	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/logging"
	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/scoreupdate"
)

func main() {
	if err := start(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// start returns instead of exiting so that deferred Close and Sync calls run.
func start() error {
	if err := config.InitConfig(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
		return err
	}
	logger.Info("Server stopped")
	return nil
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	arcade, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer arcade.Close()

	if cfg.SeedDemo {
		if err := arcade.SeedDemo(ctx); err != nil {
			return err
		}
	}

	scores := scoreupdate.NewHandler(arcade.Ledger, scoreupdate.StaticName("Player"), logger)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewServer(arcade.Ledger, scores, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if len(cfg.KafkaBrokers) > 0 {
		consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaScoresTopic, cfg.KafkaGroupID, scores, logger)
		g.Go(func() error {
			defer consumer.Close()
			logger.Info("Consuming score updates", zap.String("topic", cfg.KafkaScoresTopic))
			return consumer.Run(ctx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
