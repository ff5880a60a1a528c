// Package accounts stores native-currency balances keyed by address.
package accounts

import (
	"context"

	"github.com/mcamera/school-of-solana-season-8/internal/identity"
)

// Repository is satisfied by every account store and by ledger.Accounts.
// A missing account reads as an empty balance.
type Repository interface {
	Balance(ctx context.Context, addr identity.Address) (uint64, error)
	Credit(ctx context.Context, addr identity.Address, amount uint64) error
	Debit(ctx context.Context, addr identity.Address, amount uint64) error
	Close(ctx context.Context, addr identity.Address) (uint64, error)
}
