package gormrepo

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
)

const schemaMigrationsDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  applied_at TIMESTAMP NOT NULL
);`

func ApplyMigrations(ctx context.Context, db *gorm.DB, dir string) ([]string, error) {
	return ApplyMigrationsFS(ctx, db, os.DirFS(dir))
}

// ApplyMigrationsFS runs every pending *.sql file at the root of fsys in name
// order, each in its own transaction, and returns the versions it applied.
func ApplyMigrationsFS(ctx context.Context, db *gorm.DB, fsys fs.FS) ([]string, error) {
	conn := db.WithContext(ctx)
	if err := conn.Exec(schemaMigrationsDDL).Error; err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	var done []string
	if err := conn.Table("schema_migrations").Pluck("version", &done).Error; err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	pending, err := pendingMigrations(fsys, done)
	if err != nil {
		return nil, err
	}

	applied := make([]string, 0, len(pending))
	for _, name := range pending {
		version := strings.TrimSuffix(name, ".sql")
		script, err := fs.ReadFile(fsys, name)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}
		err = conn.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(script)).Error; err != nil {
				return fmt.Errorf("apply migration %s: %w", version, err)
			}
			return tx.Exec(`INSERT INTO schema_migrations(version, applied_at) VALUES (?, ?)`, version, time.Now().UTC()).Error
		})
		if err != nil {
			return applied, err
		}
		slog.Info("migration applied", "version", version)
		applied = append(applied, version)
	}
	return applied, nil
}

func pendingMigrations(fsys fs.FS, done []string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migration dir: %w", err)
	}
	seen := make(map[string]bool, len(done))
	for _, v := range done {
		seen[v] = true
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || path.Ext(name) != ".sql" || seen[strings.TrimSuffix(name, ".sql")] {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}
