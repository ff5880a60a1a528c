package repomanager

import (
	"context"

	"github.com/mcamera/school-of-solana-season-8/internal/server/repositories/memory"
)

// MemoryRepositoryManager serves repositories from an in-process store.
type MemoryRepositoryManager struct {
	store *memory.Store
}

func NewMemoryRepositoryManager(store *memory.Store) RepositoryManager {
	return &MemoryRepositoryManager{store: store}
}

// WithinTx mirrors dbx.WithTx: commit on success, roll back on error or
// panic, rethrowing the panic.
func (m *MemoryRepositoryManager) WithinTx(ctx context.Context, fn UnitFunc) (err error) {
	tx, err := m.store.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}

func (m *MemoryRepositoryManager) View(ctx context.Context, fn UnitFunc) error {
	tx, err := m.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	return fn(ctx, tx)
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close() error { return nil }
