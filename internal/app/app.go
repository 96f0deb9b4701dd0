// Package app wires configuration to a storage backend and an open ledger.
// The API server, the TUI and the CLI all start through Open.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/sitebook/internal/config"
	"github.com/MrJamesThe3rd/sitebook/internal/database"
	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
	"github.com/MrJamesThe3rd/sitebook/internal/seed"
	"github.com/MrJamesThe3rd/sitebook/internal/storage"
	"github.com/MrJamesThe3rd/sitebook/internal/storage/dynamo"
	"github.com/MrJamesThe3rd/sitebook/internal/storage/sqlstore"
)

type Ledger struct {
	Store   *ledger.Store
	closers []func() error
}

// Open builds the configured backend, loads the seed and opens the ledger.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Ledger, error) {
	backend, closers, err := openBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	l := &Ledger{closers: closers}

	sd, err := seed.Load(cfg.Seed.File)
	if err != nil {
		_ = l.Close(ctx)
		return nil, fmt.Errorf("loading seed: %w", err)
	}

	store, err := ledger.Open(ctx, backend, sd, ledger.WithLogger(log))
	if err != nil {
		_ = l.Close(ctx)
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	l.Store = store

	log.Info("ledger opened",
		"driver", cfg.Storage.Driver,
		"async", cfg.Storage.Async,
		"stages", len(store.Stages()),
		"expenses", len(store.Expenses()),
		"payments", len(store.Payments()),
	)

	return l, nil
}

// Close flushes pending writes and releases the backend. Closers run in
// reverse order of acquisition.
func (l *Ledger) Close(ctx context.Context) error {
	var errs []error

	if l.Store != nil {
		errs = append(errs, l.Store.Close(ctx))
	}

	for i := len(l.closers) - 1; i >= 0; i-- {
		errs = append(errs, l.closers[i]())
	}

	l.closers = nil

	return errors.Join(errs...)
}

func openBackend(ctx context.Context, cfg *config.Config, log *slog.Logger) (ledger.Backend, []func() error, error) {
	var (
		backend ledger.Backend
		closers []func() error
	)

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		backend = storage.NewMemory()

	case config.DriverSQLite:
		db, err := database.NewSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite: %w", err)
		}

		closers = append(closers, db.Close)

		s := sqlstore.New(db, sqlstore.SQLite)
		if err := s.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		backend = s

	case config.DriverPostgres:
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}

		closers = append(closers, db.Close)

		s := sqlstore.New(db, sqlstore.Postgres)
		if err := s.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		backend = s

	case config.DriverDynamoDB:
		client, err := dynamo.NewClient(ctx, dynamo.ClientConfig{
			Region:    cfg.DynamoDB.Region,
			Endpoint:  cfg.DynamoDB.Endpoint,
			AccessKey: cfg.DynamoDB.AccessKey,
			SecretKey: cfg.DynamoDB.SecretKey,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("creating dynamodb client: %w", err)
		}

		backend = dynamo.New(client, cfg.DynamoDB.Table)

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Storage.Async {
		q := storage.NewQueue(backend, log)
		closers = append(closers, q.Close)
		backend = q
	}

	return backend, closers, nil
}
