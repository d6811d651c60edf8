package sqlite

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var sessionSchema embed.FS

// Migrate brings the session schema up to date on the writer connection and
// returns the resulting schema version. Canceling ctx stops between migration
// steps.
func (db *DB) Migrate(ctx context.Context) (uint, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	src, err := iofs.New(sessionSchema, "migrations")
	if err != nil {
		return 0, fmt.Errorf("open session schema: %w", err)
	}

	target, err := migratesqlite.WithInstance(db.Writer, &migratesqlite.Config{})
	if err != nil {
		return 0, fmt.Errorf("attach schema driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", target)
	if err != nil {
		return 0, fmt.Errorf("create migrator: %w", err)
	}

	stop := context.AfterFunc(ctx, func() { m.GracefulStop <- true })
	defer stop()

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
	case err != nil:
		return 0, fmt.Errorf("migrate session schema: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("session schema version %d is dirty", version)
	}

	slog.Debug("session schema ready", "path", db.path, "version", version)
	return version, nil
}
