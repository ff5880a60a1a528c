// Package ledger moves native currency between accounts.
//
// Every function here must run inside a single atomic unit (see
// repomanager.RepositoryManager.WithinTx): a failed debit or credit aborts the
// unit so no partial movement is ever committed.
package ledger

import (
	"context"
	"fmt"

	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
)

// Accounts is the balance store the ledger operates on.
type Accounts interface {
	Balance(ctx context.Context, addr identity.Address) (uint64, error)
	Credit(ctx context.Context, addr identity.Address, amount uint64) error
	// Debit fails with common.ErrInsufficientFunds when the account holds
	// less than amount.
	Debit(ctx context.Context, addr identity.Address, amount uint64) error
	// Close removes the account and returns what it held.
	Close(ctx context.Context, addr identity.Address) (uint64, error)
}

// Transfer moves amount from one account to another.
func Transfer(ctx context.Context, accts Accounts, from, to identity.Address, amount uint64) error {
	if amount == 0 {
		return common.ErrInvalidAmount
	}
	if from == to {
		return nil
	}
	if err := accts.Debit(ctx, from, amount); err != nil {
		return fmt.Errorf("debit %s: %w", from, err)
	}
	if err := accts.Credit(ctx, to, amount); err != nil {
		return fmt.Errorf("credit %s: %w", to, err)
	}
	return nil
}

// Drain closes from and credits everything it held to to, returning the
// amount moved.
func Drain(ctx context.Context, accts Accounts, from, to identity.Address) (uint64, error) {
	amount, err := accts.Close(ctx, from)
	if err != nil {
		return 0, fmt.Errorf("close %s: %w", from, err)
	}
	if amount == 0 {
		return 0, nil
	}
	if err := accts.Credit(ctx, to, amount); err != nil {
		return 0, fmt.Errorf("credit %s: %w", to, err)
	}
	return amount, nil
}
