package keys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"github.com/mcamera/school-of-solana-season-8/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, k *Key) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO keys (name, identity, salt, nonce, sealed_seed, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, k.Name, k.Identity, k.Salt, k.Nonce, k.SealedSeed, k.CreatedAt.Unix())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", ErrKeyExists, k.Name)
		}
		return fmt.Errorf("failed to save key[%s]: %w", k.Name, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, name string) (*Key, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT name, identity, salt, nonce, sealed_seed, created_at
		FROM keys WHERE name = ?
	`, name)
	k, err := scanKey(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key[%s]: %w", name, err)
	}
	return k, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*Key, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, identity, salt, nonce, sealed_seed, created_at
		FROM keys ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var result []*Key
	for rows.Next() {
		k, err := scanKey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan key row: %w", err)
		}
		result = append(result, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate key rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM keys WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete key[%s]: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete key[%s]: %w", name, err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanKey(s scanner) (*Key, error) {
	var k Key
	var created int64
	if err := s.Scan(&k.Name, &k.Identity, &k.Salt, &k.Nonce, &k.SealedSeed, &created); err != nil {
		return nil, err
	}
	k.CreatedAt = time.Unix(created, 0).UTC()
	return &k, nil
}
