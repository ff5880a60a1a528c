package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
	"github.com/mcamera/school-of-solana-season-8/internal/logging"
	"github.com/mcamera/school-of-solana-season-8/internal/server/config"
	"github.com/mcamera/school-of-solana-season-8/internal/server/metrics"
	"github.com/mcamera/school-of-solana-season-8/internal/server/repositories/repomanager"
)

const (
	OpAirdrop = "airdrop"
	OpBalance = "balance"
)

// AccountService reads native-currency balances and funds identities from
// the development faucet.
type AccountService struct {
	repomanager  repomanager.RepositoryManager
	logger       logging.Logger
	airdropLimit uint64
}

func NewAccountService(m repomanager.RepositoryManager, cfg *config.Config, l logging.Logger) *AccountService {
	return &AccountService{
		repomanager:  m,
		logger:       l.With("module", "account_service"),
		airdropLimit: cfg.AirdropLimit,
	}
}

// Airdrop credits amount to the identity's account and returns the new
// balance. Each call is capped by the configured limit; a zero limit turns
// the faucet off.
func (s *AccountService) Airdrop(ctx context.Context, id identity.Identity, amount uint64) (balance uint64, err error) {
	started := time.Now()
	defer func() { metrics.ObserveOperation(OpAirdrop, err, started) }()

	if id.IsZero() {
		return 0, common.Op(OpAirdrop, common.ErrInvalidIdentity)
	}
	if s.airdropLimit == 0 {
		return 0, common.Op(OpAirdrop, fmt.Errorf("%w: faucet disabled", common.ErrInvalidAmount))
	}
	if amount == 0 || amount > s.airdropLimit {
		return 0, common.Op(OpAirdrop, fmt.Errorf("%w: must be within 1..%d", common.ErrInvalidAmount, s.airdropLimit))
	}

	err = s.repomanager.WithinTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		if err := r.Accounts().Credit(ctx, id.Address(), amount); err != nil {
			return err
		}
		var err error
		balance, err = r.Accounts().Balance(ctx, id.Address())
		return err
	})
	if err != nil {
		s.logger.Error(ctx, "airdrop failed", "identity", id.String(), "amount", amount, "error", err)
		return 0, common.Op(OpAirdrop, err)
	}

	metrics.ObserveFundsMoved(metrics.DirectionAirdrop, amount)
	s.logger.Info(ctx, "airdrop credited", "identity", id.String(), "amount", amount, "balance", balance)
	return balance, nil
}

// Balance returns what the account at addr holds; unknown accounts hold zero.
func (s *AccountService) Balance(ctx context.Context, addr identity.Address) (balance uint64, err error) {
	err = s.repomanager.View(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		balance, err = r.Accounts().Balance(ctx, addr)
		return err
	})
	if err != nil {
		return 0, common.Op(OpBalance, err)
	}
	return balance, nil
}
