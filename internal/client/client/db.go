package client

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/mcamera/school-of-solana-season-8/internal/client/migrations"
	"github.com/mcamera/school-of-solana-season-8/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// DatabaseFile is the wallet database file name inside the data directory.
const DatabaseFile = "wallet.db"

// gooseUpContext is a seam for tests.
var gooseUpContext = goose.UpContext

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return gooseUpContext(ctx, db, ".")
}

// InitDatabase creates dataDir if needed, opens the wallet database in it
// and migrates it.
func InitDatabase(ctx context.Context, dataDir string) (*sql.DB, error) {
	dir, err := filex.EnsureDir("", dataDir)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, DatabaseFile))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate wallet db: %w", err)
	}

	return db, nil
}
