package migrate

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// DefaultDir is where the SQL migrations live relative to the working
// directory of the binaries.
const DefaultDir = "db/migrations"

// Run applies all pending migrations in dir using goose. It opens and
// closes its own DB handle so it is independent of the app store.
func Run(dsn, dir string) error {
	if dir == "" {
		dir = DefaultDir
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
