package sqlstore

import (
	"context"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know by name.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// DialectFor maps a database/sql driver name to its dialect. Unknown names
// fall back to MySQL, the production engine.
func DialectFor(driver string) Dialect {
	switch driver {
	case "sqlite", "sqlite3":
		return SQLite
	default:
		return MySQL
	}
}

// Open connects with the given driver ("mysql" or "sqlite") and pings.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// one writer at a time; also keeps in-memory databases alive
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates both tables when they are absent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range DialectFor(db.DriverName()).Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
