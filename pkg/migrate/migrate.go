package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strconv"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where new migrations are created on disk.
const DefaultDir = "pkg/migrate/migrations"

//go:embed migrations
var embedded embed.FS

// Migrations exposes the embedded migration tree, one directory per dialect.
func Migrations() fs.FS {
	return embedded
}

// DirFor returns the embedded directory holding migrations for a goose dialect.
func DirFor(dialect string) (string, error) {
	switch dialect {
	case "postgres":
		return path.Join("migrations", "postgres"), nil
	case "sqlite3":
		return path.Join("migrations", "sqlite"), nil
	default:
		return "", fmt.Errorf("unsupported migration dialect %q", dialect)
	}
}

func prepare(dialect string) (string, error) {
	dir, err := DirFor(dialect)
	if err != nil {
		return "", err
	}
	goose.SetBaseFS(embedded)
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("set goose dialect: %w", err)
	}
	return dir, nil
}

// Run executes a goose command (up, down, status, reset, redo) against the
// embedded migrations for the given dialect.
func Run(ctx context.Context, db *sql.DB, dialect string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	dir, err := prepare(dialect)
	if err != nil {
		return err
	}

	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// Reset drops every migrated table and re-applies all migrations.
func Reset(ctx context.Context, db *sql.DB, dialect string) error {
	if err := Run(ctx, db, dialect, "reset"); err != nil {
		return err
	}
	return Run(ctx, db, dialect, "up")
}

// Version reports the currently applied migration version.
func Version(db *sql.DB, dialect string) (int64, error) {
	if _, err := prepare(dialect); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(db)
}

// MigrateToVersion migrates up/down to the requested version by comparing current DB version.
func MigrateToVersion(ctx context.Context, db *sql.DB, dialect string, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}

	dir, err := prepare(dialect)
	if err != nil {
		return err
	}

	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	current, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil

	case current < target:
		if err := goose.UpToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
		return nil

	default:
		if err := goose.DownToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
		return nil
	}
}
