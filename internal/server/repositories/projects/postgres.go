package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"github.com/mcamera/school-of-solana-season-8/internal/dbx"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
	"github.com/mcamera/school-of-solana-season-8/internal/safe"
	"github.com/mcamera/school-of-solana-season-8/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func amountArg(v uint64) (int64, error) {
	n, err := safe.Int64(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrInvalidAmount, err)
	}
	return n, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Project) error {
	target, err := amountArg(p.FinancialTarget)
	if err != nil {
		return err
	}
	balance, err := amountArg(p.Balance)
	if err != nil {
		return err
	}

	query :=
		`INSERT INTO projects (address, owner, name, financial_target, balance, status, bump, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query,
		p.Address.String(), p.Owner.String(), p.Name, target, balance,
		int16(p.Status), int16(p.Bump), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrAddressAlreadyExists
	}
	return nil
}

func (r *PostgresRepository) Lock(ctx context.Context, addr identity.Address) (*models.Project, error) {
	return r.get(ctx, addr, true)
}

func (r *PostgresRepository) Find(ctx context.Context, addr identity.Address) (*models.Project, error) {
	return r.get(ctx, addr, false)
}

func (r *PostgresRepository) get(ctx context.Context, addr identity.Address, forUpdate bool) (*models.Project, error) {
	query :=
		`SELECT owner, name, financial_target, balance, status, bump, created_at, updated_at FROM projects
		 WHERE address = $1
		 `
	if forUpdate {
		query += "FOR UPDATE"
	}

	var (
		owner           string
		target, balance int64
		status, bump    int16
	)
	p := &models.Project{Address: addr, Donors: []models.Donor{}}
	err := r.db.QueryRowContext(ctx, query, addr.String()).
		Scan(&owner, &p.Name, &target, &balance, &status, &bump, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if p.Owner, err = identity.Parse(owner); err != nil {
		return nil, fmt.Errorf("corrupt owner: %w", err)
	}
	if p.FinancialTarget, err = safe.Uint64(target); err != nil {
		return nil, fmt.Errorf("corrupt financial_target: %w", err)
	}
	if p.Balance, err = safe.Uint64(balance); err != nil {
		return nil, fmt.Errorf("corrupt balance: %w", err)
	}
	p.Status = models.Status(status)
	p.Bump = uint8(bump)

	if p.Donors, err = r.donors(ctx, addr); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresRepository) donors(ctx context.Context, addr identity.Address) ([]models.Donor, error) {
	query :=
		`SELECT identity, amount FROM donors
		 WHERE project_address = $1
		 ORDER BY position
		 `

	rows, err := r.db.QueryContext(ctx, query, addr.String())
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	donors := []models.Donor{}
	for rows.Next() {
		var (
			id     string
			amount int64
			d      models.Donor
		)
		if err := rows.Scan(&id, &amount); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if d.Identity, err = identity.Parse(id); err != nil {
			return nil, fmt.Errorf("corrupt donor: %w", err)
		}
		if d.Amount, err = safe.Uint64(amount); err != nil {
			return nil, fmt.Errorf("corrupt donor amount: %w", err)
		}
		donors = append(donors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return donors, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Project) error {
	balance, err := amountArg(p.Balance)
	if err != nil {
		return err
	}

	query :=
		`UPDATE projects SET balance = $2, status = $3, updated_at = $4
		 WHERE address = $1
		 `

	res, err := r.db.ExecContext(ctx, query, p.Address.String(), balance, int16(p.Status), p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) SaveDonor(ctx context.Context, addr identity.Address, d models.Donor) error {
	amount, err := amountArg(d.Amount)
	if err != nil {
		return err
	}

	query :=
		`INSERT INTO donors (project_address, identity, amount, position)
		 VALUES ($1, $2, $3, (SELECT COALESCE(MAX(position) + 1, 0) FROM donors WHERE project_address = $1))
		 ON CONFLICT (project_address, identity) DO UPDATE SET amount = EXCLUDED.amount
		 `

	if _, err := r.db.ExecContext(ctx, query, addr.String(), d.Identity.String(), amount); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteDonor(ctx context.Context, addr identity.Address, id identity.Identity) error {
	query :=
		`DELETE FROM donors
		 WHERE project_address = $1 AND identity = $2
		 `

	res, err := r.db.ExecContext(ctx, query, addr.String(), id.String())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, addr identity.Address) error {
	query :=
		`DELETE FROM projects
		 WHERE address = $1
		 `

	res, err := r.db.ExecContext(ctx, query, addr.String())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
