package history

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/golang-migrate/migrate/v4"
	chmigrate "github.com/golang-migrate/migrate/v4/database/clickhouse"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/sisworks/benchgate/internal/config"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// runMigrations executes all pending run_history migrations. Migration state
// lives in its own table, so reruns are cheap no-ops.
func (r *recorder) runMigrations(ctx context.Context, opts *clickhouse.Options) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	r.log.WithField("database", config.HistoryDatabase).Debug("running migrations, please wait")

	sourceDriver, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("creating source driver: %w", err)
	}

	db := clickhouse.OpenDB(opts)
	defer func() {
		_ = db.Close()
	}()

	dbDriver, err := chmigrate.WithInstance(db, &chmigrate.Config{
		DatabaseName:          config.HistoryDatabase,
		MigrationsTable:       fmt.Sprintf("schema_migrations_%s", config.HistoryDatabase),
		MultiStatementEnabled: true,
		MultiStatementMaxSize: 1024 * 1024,
	})
	if err != nil {
		return fmt.Errorf("creating clickhouse driver: %w", err)
	}

	mig, err := migrate.NewWithInstance("iofs", sourceDriver, config.HistoryDatabase, dbDriver)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			done <- fmt.Errorf("running migrations: %w", err)
			return
		}
		done <- nil
	}()

	// Respect context cancellation during migration.
	select {
	case <-ctx.Done():
		return fmt.Errorf("migration canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return err
		}
	}

	r.log.WithField("database", config.HistoryDatabase).Debug("migrations completed successfully")

	return nil
}
