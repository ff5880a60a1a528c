// Package events publishes project lifecycle events after their unit of work
// has committed. Delivery is best effort: a failed publish never undoes the
// operation that produced the event.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
	"github.com/mcamera/school-of-solana-season-8/internal/server/models"
)

// Routing keys.
const (
	KindProjectCreated       = "project.created"
	KindProjectDonated       = "project.donated"
	KindProjectStatusChanged = "project.status_changed"
	KindProjectRefunded      = "project.refunded"
	KindProjectWithdrawn     = "project.withdrawn"
	KindProjectClosed        = "project.closed"
)

type Event struct {
	ID      uuid.UUID         `json:"id"`
	Kind    string            `json:"kind"`
	Project identity.Address  `json:"project"`
	Owner   identity.Identity `json:"owner"`
	Actor   identity.Identity `json:"actor"`
	Amount  uint64            `json:"amount,omitempty"`
	Balance uint64            `json:"balance"`
	Status  string            `json:"status"`
	// Previous is set on status changes only.
	Previous string    `json:"previous_status,omitempty"`
	At       time.Time `json:"at"`
}

// New snapshots p for an event of the given kind.
func New(kind string, p *models.Project, actor identity.Identity, amount uint64) Event {
	return Event{
		ID:      uuid.New(),
		Kind:    kind,
		Project: p.Address,
		Owner:   p.Owner,
		Actor:   actor,
		Amount:  amount,
		Balance: p.Balance,
		Status:  p.Status.String(),
		At:      time.Now().UTC(),
	}
}

// StatusChanged builds the event emitted when p moved away from prev.
func StatusChanged(p *models.Project, actor identity.Identity, prev models.Status) Event {
	e := New(KindProjectStatusChanged, p, actor, 0)
	e.Previous = prev.String()
	return e
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}
