package watchlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"github.com/mcamera/school-of-solana-season-8/internal/dbx"
	"github.com/mcamera/school-of-solana-season-8/internal/safe"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, e *Entry) error {
	target, err := safe.Int64(e.FinancialTarget)
	if err != nil {
		return fmt.Errorf("financial target: %w", err)
	}
	balance, err := safe.Int64(e.Balance)
	if err != nil {
		return fmt.Errorf("balance: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO watched_projects (owner, address, name, status, financial_target, balance, donors, refreshed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner) DO UPDATE SET
			address = excluded.address,
			name = excluded.name,
			status = excluded.status,
			financial_target = excluded.financial_target,
			balance = excluded.balance,
			donors = excluded.donors,
			refreshed_at = excluded.refreshed_at
	`, e.Owner, e.Address, e.Name, e.Status, target, balance, e.Donors, e.RefreshedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert watched project[%s]: %w", e.Owner, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, owner string) (*Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT owner, address, name, status, financial_target, balance, donors, refreshed_at
		FROM watched_projects WHERE owner = ?
	`, owner)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get watched project[%s]: %w", owner, err)
	}
	return e, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT owner, address, name, status, financial_target, balance, donors, refreshed_at
		FROM watched_projects ORDER BY name, owner
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list watched projects: %w", err)
	}
	defer rows.Close()

	var result []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watched project row: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate watched project rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, owner string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM watched_projects WHERE owner = ?`, owner)
	if err != nil {
		return fmt.Errorf("failed to delete watched project[%s]: %w", owner, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var e Entry
	var target, balance, refreshed int64
	if err := s.Scan(&e.Owner, &e.Address, &e.Name, &e.Status, &target, &balance, &e.Donors, &refreshed); err != nil {
		return nil, err
	}
	var err error
	if e.FinancialTarget, err = safe.Uint64(target); err != nil {
		return nil, err
	}
	if e.Balance, err = safe.Uint64(balance); err != nil {
		return nil, err
	}
	e.RefreshedAt = time.Unix(refreshed, 0).UTC()
	return &e, nil
}
