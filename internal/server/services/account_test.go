package services

import (
	"context"
	"testing"

	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
	"github.com/mcamera/school-of-solana-season-8/internal/logging"
	"github.com/mcamera/school-of-solana-season-8/internal/server/config"
	"github.com/mcamera/school-of-solana-season-8/internal/server/repositories/memory"
	"github.com/mcamera/school-of-solana-season-8/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountService(limit uint64) *AccountService {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AirdropLimit = limit
	return NewAccountService(repomanager.NewMemoryRepositoryManager(memory.NewStore()), cfg, logging.Nop{})
}

func TestAirdrop(t *testing.T) {
	ctx := context.Background()
	s := newAccountService(common.LamportsPerSOL)

	got, err := s.Airdrop(ctx, donorA, common.LamportsPerSOL)
	require.NoError(t, err)
	assert.Equal(t, common.LamportsPerSOL, got)

	got, err = s.Airdrop(ctx, donorA, 5)
	require.NoError(t, err)
	assert.Equal(t, common.LamportsPerSOL+5, got)

	bal, err := s.Balance(ctx, donorA.Address())
	require.NoError(t, err)
	assert.Equal(t, common.LamportsPerSOL+5, bal)
}

func TestAirdrop_Limits(t *testing.T) {
	ctx := context.Background()
	s := newAccountService(100)

	_, err := s.Airdrop(ctx, donorA, 101)
	requireKind(t, err, common.ErrInvalidAmount, OpAirdrop)

	_, err = s.Airdrop(ctx, donorA, 0)
	requireKind(t, err, common.ErrInvalidAmount, OpAirdrop)

	_, err = s.Airdrop(ctx, identity.Identity{}, 10)
	requireKind(t, err, common.ErrInvalidIdentity, OpAirdrop)

	_, err = newAccountService(0).Airdrop(ctx, donorA, 1)
	requireKind(t, err, common.ErrInvalidAmount, OpAirdrop)
}

func TestBalance_UnknownAccountIsZero(t *testing.T) {
	bal, err := newAccountService(1).Balance(context.Background(), nobody.Address())
	require.NoError(t, err)
	assert.Zero(t, bal)
}
