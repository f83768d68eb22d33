package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Open connects to the SQLite database at dsn and creates the tasks table if
// it does not exist yet. In-memory databases are limited to one connection so
// every query sees the same database.
func Open(ctx context.Context, dsn string) (*bun.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("sqlite: dsn is required")
	}
	if err := ensureDir(dsn); err != nil {
		return nil, fmt.Errorf("sqlite: create database directory: %w", err)
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if isMemory(dsn) {
		sqldb.SetMaxOpenConns(1)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the tables used by TaskStore.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().Model((*taskRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("sqlite: create table for %T: %w", (*taskRecord)(nil), err)
	}
	if _, err := db.NewCreateIndex().
		Model((*taskRecord)(nil)).
		Index("idx_tasks_created_at").
		IfNotExists().
		Column("created_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("sqlite: create index: %w", err)
	}
	return nil
}

func isMemory(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func ensureDir(dsn string) error {
	if isMemory(dsn) {
		return nil
	}
	path := strings.TrimPrefix(dsn, "file:")
	if idx := strings.Index(path, "?"); idx >= 0 {
		path = path[:idx]
	}
	dir := filepath.Dir(path)
	if path == "" || dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
