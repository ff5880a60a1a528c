package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"github.com/mcamera/school-of-solana-season-8/internal/dbx"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
	"github.com/mcamera/school-of-solana-season-8/internal/safe"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Balance(ctx context.Context, addr identity.Address) (uint64, error) {
	query :=
		`SELECT lamports FROM accounts
		 WHERE address = $1
		 `

	var lamports int64
	err := r.db.QueryRowContext(ctx, query, addr.String()).Scan(&lamports)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return safe.Uint64(lamports)
}

func (r *PostgresRepository) Credit(ctx context.Context, addr identity.Address, amount uint64) error {
	v, err := safe.Int64(amount)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidAmount, err)
	}

	// The guard skips the update instead of overflowing BIGINT.
	query :=
		`INSERT INTO accounts (address, lamports)
		 VALUES ($1, $2)
		 ON CONFLICT (address) DO UPDATE SET lamports = accounts.lamports + EXCLUDED.lamports
		 WHERE accounts.lamports <= 9223372036854775807 - EXCLUDED.lamports
		 `

	res, err := r.db.ExecContext(ctx, query, addr.String(), v)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrInvalidAmount
	}
	return nil
}

func (r *PostgresRepository) Debit(ctx context.Context, addr identity.Address, amount uint64) error {
	v, err := safe.Int64(amount)
	if err != nil {
		return common.ErrInsufficientFunds
	}

	query :=
		`UPDATE accounts SET lamports = lamports - $2
		 WHERE address = $1 AND lamports >= $2
		 `

	res, err := r.db.ExecContext(ctx, query, addr.String(), v)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrInsufficientFunds
	}
	return nil
}

func (r *PostgresRepository) Close(ctx context.Context, addr identity.Address) (uint64, error) {
	query :=
		`DELETE FROM accounts
		 WHERE address = $1
		 RETURNING lamports
		 `

	var lamports int64
	err := r.db.QueryRowContext(ctx, query, addr.String()).Scan(&lamports)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return safe.Uint64(lamports)
}
