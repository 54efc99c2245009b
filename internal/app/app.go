// Package app wires a Ledger from configuration: store driver, event
// publisher and logger. Both binaries build through here.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/config"
	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/events/kafka"
	interfaces "github.com/sheikh-saqib/arcade-highscore-ledger/internal/interfaces"
	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/ledger"
	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/storage/postgres"
	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/storage/sqlite"
)

type App struct {
	Config config.Config
	Ledger *ledger.Ledger
	Logger *zap.Logger

	closers []io.Closer
}

// Build opens the configured store and publisher and constructs the ledger.
// Call Close when done.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	var publisher interfaces.EventPublisher = interfaces.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		p := kafka.NewPublisher(cfg.KafkaBrokers)
		a.closers = append(a.closers, p)
		publisher = p
		logger.Info("Publishing score events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaEventsTopic))
	}

	a.Ledger = ledger.NewLedger(store,
		ledger.WithNamespace(cfg.Namespace),
		ledger.WithGames(cfg.Games),
		ledger.WithMaxScores(cfg.MaxScores),
		ledger.WithPublisher(publisher, cfg.KafkaEventsTopic),
		ledger.WithLogger(logger),
	)
	return a, nil
}

func (a *App) openStore(ctx context.Context) (interfaces.LedgerStore, error) {
	switch a.Config.StoreDriver {
	case config.DriverMemory, "":
		a.Logger.Info("Using in-memory score store")
		return memory.NewMemoryLedgerStore(), nil
	case config.DriverPostgres:
		store, err := postgres.Open(ctx, a.Config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		a.closers = append(a.closers, store)
		a.Logger.Info("Using postgres score store")
		return store, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, a.Config.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		a.closers = append(a.closers, store)
		a.Logger.Info("Using sqlite score store", zap.String("path", a.Config.SQLitePath))
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, a.Config.StoreDriver)
	}
}

// SeedDemo installs the demo boards into any empty known game.
func (a *App) SeedDemo(ctx context.Context) error {
	return a.Ledger.SeedDefaults(ctx, ledger.DemoSeeds(time.Now()))
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
