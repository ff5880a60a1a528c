// Package repomanager provides RepositoryManager implementations for the
// PostgreSQL and in-memory backends, wiring repository constructors, units of
// work and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mcamera/school-of-solana-season-8/internal/dbx"
	"github.com/mcamera/school-of-solana-season-8/internal/server/migrations"
	"github.com/mcamera/school-of-solana-season-8/internal/server/repositories/accounts"
	"github.com/mcamera/school-of-solana-season-8/internal/server/repositories/projects"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct {
	db *sql.DB
}

// Projects returns a projects.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Projects(db dbx.DBTX) projects.Repository {
	return projects.NewPostgresRepository(db)
}

// Accounts returns an accounts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

type boundRepositories struct {
	m  *PostgresRepositoryManager
	db dbx.DBTX
}

func (b boundRepositories) Projects() projects.Repository { return b.m.Projects(b.db) }
func (b boundRepositories) Accounts() accounts.Repository { return b.m.Accounts(b.db) }

// WithinTx runs fn inside one database transaction.
func (m *PostgresRepositoryManager) WithinTx(ctx context.Context, fn UnitFunc) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, boundRepositories{m: m, db: tx})
	})
}

// viewTxOptions give every statement of a View the same snapshot, so a
// project row and its donor rows are read from one commit.
var viewTxOptions = &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}

// View runs fn inside a read-only repeatable-read transaction.
func (m *PostgresRepositoryManager) View(ctx context.Context, fn UnitFunc) error {
	return dbx.WithTx(ctx, m.db, viewTxOptions, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, boundRepositories{m: m, db: tx})
	})
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the manager's database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(db *sql.DB) (RepositoryManager, error) {
	return &PostgresRepositoryManager{db: db}, nil
}

// OpenPostgres opens a pgx-backed connection pool for dsn.
func OpenPostgres(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}
