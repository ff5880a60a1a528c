package repomanager

import (
	"context"

	"github.com/mcamera/school-of-solana-season-8/internal/server/repositories/accounts"
	"github.com/mcamera/school-of-solana-season-8/internal/server/repositories/projects"
)

// Repositories are bound to one handle: a transaction inside WithinTx, a
// plain connection or read snapshot inside View.
type Repositories interface {
	Projects() projects.Repository
	Accounts() accounts.Repository
}

// UnitFunc is a unit of work over a set of bound repositories.
type UnitFunc func(ctx context.Context, r Repositories) error

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// WithinTx commits everything fn did, or nothing when fn fails.
	WithinTx(ctx context.Context, fn UnitFunc) error
	// View runs fn for reading only.
	View(ctx context.Context, fn UnitFunc) error
	Close() error
}
