package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"

	"github.com/angelmondragon/phonedex-backend/pkg/migrate/migrations"
)

// DefaultDir is the on-disk location of the migration sources.
const DefaultDir = "pkg/migrate/migrations"

// Source picks where goose reads migrations from. An empty Dir uses the set
// embedded in the binary.
type Source struct {
	Dir string
}

// Embedded reports whether the source resolves to the compiled-in files.
func (s Source) Embedded() bool { return s.Dir == "" }

func (s Source) String() string {
	if s.Embedded() {
		return "embedded"
	}
	return s.Dir
}

// prepare points goose at the source and returns the directory it should read.
func (s Source) prepare() (string, error) {
	// migrations are written for Postgres; sqlite dev databases use AutoMigrate
	if err := goose.SetDialect("postgres"); err != nil {
		return "", fmt.Errorf("set goose dialect: %w", err)
	}
	if s.Embedded() {
		goose.SetBaseFS(migrations.FS)
		return ".", nil
	}
	goose.SetBaseFS(nil)
	return s.Dir, nil
}

// Run executes a goose command (up, down, status, ...) against db.
func Run(ctx context.Context, db *sql.DB, src Source, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	dir, err := src.prepare()
	if err != nil {
		return err
	}
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s (%s): %w", command, src, err)
	}
	return nil
}

// MigrateToVersion moves the schema up or down until it sits at targetVersion.
func MigrateToVersion(ctx context.Context, db *sql.DB, src Source, targetVersion string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	target, err := parseVersion(targetVersion)
	if err != nil {
		return err
	}
	dir, err := src.prepare()
	if err != nil {
		return err
	}

	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current < target:
		err = goose.UpToContext(ctx, db, dir, target)
	case current > target:
		err = goose.DownToContext(ctx, db, dir, target)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("goose %d -> %d: %w", current, target, err)
	}
	return nil
}

func parseVersion(raw string) (int64, error) {
	if len(raw) != len(versionLayout) {
		return 0, fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS)", raw)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	return v, nil
}
