package repos

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

func migrateUp(db *sqlx.DB, driver, dsn string) error {
	dir := "migrations/sqlite"
	if driver == DriverPostgres {
		dir = "migrations/postgres"
	}
	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	var m *migrate.Migrate
	if driver == DriverPostgres {
		m, err = migrate.NewWithSourceInstance("iofs", source, pgxMigrateURL(dsn))
		if err != nil {
			return fmt.Errorf("failed to create migrator: %w", err)
		}
		// own connection, not the pool
		defer m.Close()
	} else {
		// shares db; m.Close would close the pool too
		target, derr := sqlite.WithInstance(db.DB, &sqlite.Config{})
		if derr != nil {
			return fmt.Errorf("failed to create migration target: %w", derr)
		}
		m, err = migrate.NewWithInstance("iofs", source, "sqlite", target)
		if err != nil {
			return fmt.Errorf("failed to create migrator: %w", err)
		}
		defer source.Close()
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// pgxMigrateURL points a postgres:// DSN at migrate's pgx/v5 driver.
func pgxMigrateURL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, scheme) {
			return "pgx5://" + strings.TrimPrefix(dsn, scheme)
		}
	}
	return dsn
}
