package services

import (
	"context"
	"crypto/ed25519"
	"database/sql"
	"errors"
	"time"

	"github.com/mcamera/school-of-solana-season-8/internal/api"
	"github.com/mcamera/school-of-solana-season-8/internal/client/client"
	"github.com/mcamera/school-of-solana-season-8/internal/client/repositories/watchlist"
	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
)

// FundingService drives the campaign operations on the server and keeps
// the local watchlist in step with what the server returned.
type FundingService interface {
	Ping(ctx context.Context) error
	Login(ctx context.Context, priv ed25519.PrivateKey) (identity.Identity, error)
	Logout()
	Close() error

	Airdrop(ctx context.Context, amount uint64) (uint64, error)
	Balance(ctx context.Context, address string) (uint64, error)

	CreateProject(ctx context.Context, name string, target uint64) (*api.Project, error)
	Donate(ctx context.Context, owner string, amount uint64) (*api.Project, error)
	CloseProject(ctx context.Context, owner string) (*api.Project, error)
	ClaimRefund(ctx context.Context, owner string) (uint64, error)
	DonatorCount(ctx context.Context, owner string) (uint32, error)
	Withdraw(ctx context.Context, owner string) (uint64, error)
	CloseFailedProject(ctx context.Context, owner string) (uint64, error)
	Show(ctx context.Context, owner string) (*api.Project, error)

	Watchlist(ctx context.Context) ([]*watchlist.Entry, error)
	Unwatch(ctx context.Context, owner string) error
	Refresh(ctx context.Context) (int, error)
}

type fundingService struct {
	client client.Client
	db     *sql.DB
	now    func() time.Time
}

func NewFundingService(c client.Client, db *sql.DB) FundingService {
	return &fundingService{client: c, db: db, now: time.Now}
}

func (s *fundingService) getWatchlistRepo() watchlist.Repository {
	return watchlist.NewSQLiteRepository(s.db)
}

func (s *fundingService) remember(ctx context.Context, p *api.Project) error {
	if p == nil {
		return nil
	}
	return s.getWatchlistRepo().Upsert(ctx, &watchlist.Entry{
		Owner:           p.Owner,
		Address:         p.Address,
		Name:            p.Name,
		Status:          p.Status,
		FinancialTarget: p.FinancialTarget,
		Balance:         p.Balance,
		Donors:          len(p.Donors),
		RefreshedAt:     s.now(),
	})
}

func (s *fundingService) forget(ctx context.Context, owner string) error {
	return s.getWatchlistRepo().Delete(ctx, owner)
}

func (s *fundingService) Ping(ctx context.Context) error { return s.client.Ping(ctx) }

func (s *fundingService) Login(ctx context.Context, priv ed25519.PrivateKey) (identity.Identity, error) {
	return s.client.Login(ctx, priv)
}

func (s *fundingService) Logout() { s.client.Logout() }

func (s *fundingService) Close() error { return s.client.Close() }

func (s *fundingService) Airdrop(ctx context.Context, amount uint64) (uint64, error) {
	return s.client.Airdrop(ctx, amount)
}

func (s *fundingService) Balance(ctx context.Context, address string) (uint64, error) {
	return s.client.Balance(ctx, address)
}

func (s *fundingService) CreateProject(ctx context.Context, name string, target uint64) (*api.Project, error) {
	p, err := s.client.CreateProject(ctx, name, target)
	if err != nil {
		return nil, err
	}
	return p, s.remember(ctx, p)
}

func (s *fundingService) Donate(ctx context.Context, owner string, amount uint64) (*api.Project, error) {
	p, err := s.client.Donate(ctx, owner, amount)
	if err != nil {
		return nil, err
	}
	return p, s.remember(ctx, p)
}

func (s *fundingService) CloseProject(ctx context.Context, owner string) (*api.Project, error) {
	p, err := s.client.CloseProject(ctx, owner)
	if err != nil {
		return nil, err
	}
	return p, s.remember(ctx, p)
}

// ClaimRefund returns the refunded amount and refreshes the cached view.
func (s *fundingService) ClaimRefund(ctx context.Context, owner string) (uint64, error) {
	amount, err := s.client.ClaimRefund(ctx, owner)
	if err != nil {
		return 0, err
	}
	if _, err := s.Show(ctx, owner); err != nil && !errors.Is(err, client.ErrNotFound) {
		return amount, err
	}
	return amount, nil
}

func (s *fundingService) DonatorCount(ctx context.Context, owner string) (uint32, error) {
	return s.client.DonatorCount(ctx, owner)
}

// Withdraw destroys the project on the server, so it leaves the watchlist.
func (s *fundingService) Withdraw(ctx context.Context, owner string) (uint64, error) {
	amount, err := s.client.Withdraw(ctx, owner)
	if err != nil {
		return 0, err
	}
	return amount, s.forget(ctx, owner)
}

func (s *fundingService) CloseFailedProject(ctx context.Context, owner string) (uint64, error) {
	amount, err := s.client.CloseFailedProject(ctx, owner)
	if err != nil {
		return 0, err
	}
	return amount, s.forget(ctx, owner)
}

// Show fetches the project and starts watching it. A project that no
// longer exists is dropped from the watchlist.
func (s *fundingService) Show(ctx context.Context, owner string) (*api.Project, error) {
	p, err := s.client.GetProject(ctx, owner)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			if ferr := s.forget(ctx, owner); ferr != nil {
				return nil, ferr
			}
		}
		return nil, err
	}
	return p, s.remember(ctx, p)
}

// Watchlist lists cached projects without contacting the server.
func (s *fundingService) Watchlist(ctx context.Context) ([]*watchlist.Entry, error) {
	return s.getWatchlistRepo().List(ctx)
}

func (s *fundingService) Unwatch(ctx context.Context, owner string) error {
	if _, err := s.getWatchlistRepo().Get(ctx, owner); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return client.ErrNotFound
		}
		return err
	}
	return s.forget(ctx, owner)
}

// Refresh re-fetches every watched project and returns how many are still
// live. The first transport error aborts the pass.
func (s *fundingService) Refresh(ctx context.Context) (int, error) {
	entries, err := s.Watchlist(ctx)
	if err != nil {
		return 0, err
	}
	live := 0
	for _, e := range entries {
		if _, err := s.Show(ctx, e.Owner); err != nil {
			if errors.Is(err, client.ErrNotFound) {
				continue
			}
			return live, err
		}
		live++
	}
	return live, nil
}
