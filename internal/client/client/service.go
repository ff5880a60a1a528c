package client

import (
	"context"
	"crypto/ed25519"

	"github.com/mcamera/school-of-solana-season-8/internal/api"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
)

// Client is the remote API used by the wallet services.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Login(ctx context.Context, priv ed25519.PrivateKey) (identity.Identity, error)
	Logout()
	Airdrop(ctx context.Context, amount uint64) (uint64, error)
	Balance(ctx context.Context, address string) (uint64, error)
	CreateProject(ctx context.Context, name string, target uint64) (*api.Project, error)
	Donate(ctx context.Context, owner string, amount uint64) (*api.Project, error)
	CloseProject(ctx context.Context, owner string) (*api.Project, error)
	ClaimRefund(ctx context.Context, owner string) (uint64, error)
	DonatorCount(ctx context.Context, owner string) (uint32, error)
	Withdraw(ctx context.Context, owner string) (uint64, error)
	CloseFailedProject(ctx context.Context, owner string) (uint64, error)
	GetProject(ctx context.Context, owner string) (*api.Project, error)
}
