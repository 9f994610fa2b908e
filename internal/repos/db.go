package repos

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"shopapi/internal/domain"
	applog "shopapi/internal/log"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// OpenDB connects, migrates the schema to the latest version and seeds the
// fixed roles. Safe to run on every start.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch driver {
	case "", DriverSQLite:
		db, err = sqlx.Open("sqlite", sqliteDSN(dsn))
		if err == nil {
			// sqlite serializes writers; :memory: databases also live per connection
			db.SetMaxOpenConns(1)
		}
	case DriverPostgres:
		db, err = sqlx.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := migrateUp(db, driver, dsn); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := seedRoles(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := checkRoles(context.Background(), NewRoleRepo(db)); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = ":memory:"
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

// seedRoles inserts Admin, Seller and Customer with their fixed ids.
func seedRoles(ctx context.Context, db *sqlx.DB) error {
	return withTx(ctx, db, func(tx *sqlx.Tx) error {
		q := tx.Rebind(`INSERT INTO roles(id,name) VALUES(?,?) ON CONFLICT DO NOTHING`)
		for _, r := range domain.Roles() {
			res, err := tx.ExecContext(ctx, q, r.ID, r.Name)
			if err != nil {
				return fmt.Errorf("seed role %s: %w", r.Name, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				applog.L().Info().Str("action", "seed.role").Str("role", r.Name).Send()
			}
		}
		return nil
	})
}

// checkRoles fails when a fixed role is missing after seeding, e.g. a row
// renamed by hand with its id kept.
func checkRoles(ctx context.Context, roles *RoleRepo) error {
	have, err := roles.List(ctx)
	if err != nil {
		return err
	}
	byID := make(map[string]string, len(have))
	for _, r := range have {
		byID[r.ID] = r.Name
	}
	for _, want := range domain.Roles() {
		if byID[want.ID] != want.Name {
			return fmt.Errorf("role %s (%s) missing after seed", want.Name, want.ID)
		}
	}
	applog.L().Debug().Str("action", "seed.check").Int("roles", len(have)).Send()
	return nil
}
