// Package watchlist caches the last seen state of projects the wallet
// follows, so they can be listed while the server is unreachable.
package watchlist

import (
	"context"
	"time"
)

// Entry is a cached project view keyed by owner.
type Entry struct {
	Owner           string
	Address         string
	Name            string
	Status          string
	FinancialTarget uint64
	Balance         uint64
	Donors          int
	RefreshedAt     time.Time
}

type Repository interface {
	Upsert(ctx context.Context, e *Entry) error
	Get(ctx context.Context, owner string) (*Entry, error)
	List(ctx context.Context) ([]*Entry, error)
	Delete(ctx context.Context, owner string) error
}
