// Package projects persists campaign records and their ordered donor lists.
package projects

import (
	"context"

	"github.com/mcamera/school-of-solana-season-8/internal/identity"
	"github.com/mcamera/school-of-solana-season-8/internal/server/models"
)

type Repository interface {
	// Create stores a new record; an occupied address yields
	// common.ErrAddressAlreadyExists.
	Create(ctx context.Context, p *models.Project) error
	// Lock loads a record and holds it until the surrounding unit of work ends.
	Lock(ctx context.Context, addr identity.Address) (*models.Project, error)
	Find(ctx context.Context, addr identity.Address) (*models.Project, error)
	// Update writes the mutable fields: balance, status and updated time.
	Update(ctx context.Context, p *models.Project) error
	SaveDonor(ctx context.Context, addr identity.Address, d models.Donor) error
	DeleteDonor(ctx context.Context, addr identity.Address, id identity.Identity) error
	Delete(ctx context.Context, addr identity.Address) error
}
