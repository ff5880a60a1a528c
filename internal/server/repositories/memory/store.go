// Package memory is an in-process storage backend. A Store serializes all
// units of work: Begin takes an exclusive lock and a private copy of the
// state, Commit publishes the copy and Rollback discards it.
package memory

import (
	"context"
	"math"

	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
	"github.com/mcamera/school-of-solana-season-8/internal/safe"
	"github.com/mcamera/school-of-solana-season-8/internal/server/models"
	"github.com/mcamera/school-of-solana-season-8/internal/server/repositories/accounts"
	"github.com/mcamera/school-of-solana-season-8/internal/server/repositories/projects"
)

type state struct {
	accounts map[identity.Address]uint64
	projects map[identity.Address]*models.Project
}

func newState() *state {
	return &state{
		accounts: map[identity.Address]uint64{},
		projects: map[identity.Address]*models.Project{},
	}
}

func (s *state) clone() *state {
	c := &state{
		accounts: make(map[identity.Address]uint64, len(s.accounts)),
		projects: make(map[identity.Address]*models.Project, len(s.projects)),
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.projects {
		c.projects[k] = v.Clone()
	}
	return c
}

type Store struct {
	// sem holds a token while a unit of work is open.
	sem   chan struct{}
	state *state
}

func NewStore() *Store {
	return &Store{sem: make(chan struct{}, 1), state: newState()}
}

// Begin blocks until no other unit of work is open or ctx is done.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &Tx{store: s, state: s.state.clone()}, nil
}

func (s *Store) release() { <-s.sem }

type Tx struct {
	store *Store
	state *state
	done  bool
}

func (t *Tx) Projects() projects.Repository { return projectRepo{st: t.state} }

func (t *Tx) Accounts() accounts.Repository { return accountRepo{st: t.state} }

func (t *Tx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.state = t.state
	t.store.release()
	return nil
}

// Rollback is a no-op after Commit.
func (t *Tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.release()
	return nil
}

type accountRepo struct{ st *state }

func (r accountRepo) Balance(_ context.Context, addr identity.Address) (uint64, error) {
	return r.st.accounts[addr], nil
}

// Credit caps balances at the BIGINT range of the postgres backend.
func (r accountRepo) Credit(_ context.Context, addr identity.Address, amount uint64) error {
	v, err := safe.Add(r.st.accounts[addr], amount)
	if err != nil || v > math.MaxInt64 {
		return common.ErrInvalidAmount
	}
	r.st.accounts[addr] = v
	return nil
}

func (r accountRepo) Debit(_ context.Context, addr identity.Address, amount uint64) error {
	v, err := safe.Sub(r.st.accounts[addr], amount)
	if err != nil {
		return common.ErrInsufficientFunds
	}
	r.st.accounts[addr] = v
	return nil
}

func (r accountRepo) Close(_ context.Context, addr identity.Address) (uint64, error) {
	v := r.st.accounts[addr]
	delete(r.st.accounts, addr)
	return v, nil
}

type projectRepo struct{ st *state }

func (r projectRepo) Create(_ context.Context, p *models.Project) error {
	if _, ok := r.st.projects[p.Address]; ok {
		return common.ErrAddressAlreadyExists
	}
	for _, existing := range r.st.projects {
		if existing.Owner == p.Owner {
			return common.ErrAddressAlreadyExists
		}
	}
	r.st.projects[p.Address] = p.Clone()
	return nil
}

// Lock is Find: the whole store is already held by the Tx.
func (r projectRepo) Lock(ctx context.Context, addr identity.Address) (*models.Project, error) {
	return r.Find(ctx, addr)
}

func (r projectRepo) Find(_ context.Context, addr identity.Address) (*models.Project, error) {
	p, ok := r.st.projects[addr]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return p.Clone(), nil
}

func (r projectRepo) Update(_ context.Context, p *models.Project) error {
	cur, ok := r.st.projects[p.Address]
	if !ok {
		return common.ErrorNotFound
	}
	cur.Balance = p.Balance
	cur.Status = p.Status
	cur.UpdatedAt = p.UpdatedAt
	return nil
}

func (r projectRepo) SaveDonor(_ context.Context, addr identity.Address, d models.Donor) error {
	cur, ok := r.st.projects[addr]
	if !ok {
		return common.ErrorNotFound
	}
	if i := cur.FindDonor(d.Identity); i >= 0 {
		cur.Donors[i].Amount = d.Amount
		return nil
	}
	cur.Donors = append(cur.Donors, d)
	return nil
}

func (r projectRepo) DeleteDonor(_ context.Context, addr identity.Address, id identity.Identity) error {
	cur, ok := r.st.projects[addr]
	if !ok {
		return common.ErrorNotFound
	}
	i := cur.FindDonor(id)
	if i < 0 {
		return common.ErrorNotFound
	}
	cur.Donors = append(cur.Donors[:i], cur.Donors[i+1:]...)
	return nil
}

func (r projectRepo) Delete(_ context.Context, addr identity.Address) error {
	if _, ok := r.st.projects[addr]; !ok {
		return common.ErrorNotFound
	}
	delete(r.st.projects, addr)
	return nil
}
