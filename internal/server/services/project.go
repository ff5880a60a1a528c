// Package services contains server-side business logic. This file implements
// ProjectService, which runs the crowdfunding lifecycle: creation, donations,
// closing, refunds, withdrawal and final closure of failed projects.
//
// Every mutating operation loads the project under a lock, checks its
// preconditions, moves funds through the ledger and writes the record inside
// one unit of work. Events, archive snapshots and metrics are emitted only
// after the unit has committed.
package services

import (
	"context"
	"time"

	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
	"github.com/mcamera/school-of-solana-season-8/internal/logging"
	"github.com/mcamera/school-of-solana-season-8/internal/server/archive"
	"github.com/mcamera/school-of-solana-season-8/internal/server/config"
	"github.com/mcamera/school-of-solana-season-8/internal/server/events"
	"github.com/mcamera/school-of-solana-season-8/internal/server/ledger"
	"github.com/mcamera/school-of-solana-season-8/internal/server/metrics"
	"github.com/mcamera/school-of-solana-season-8/internal/server/models"
	"github.com/mcamera/school-of-solana-season-8/internal/server/repositories/repomanager"
)

// Operation names, used in errors, logs and metrics.
const (
	OpCreateProject      = "create_project"
	OpDonate             = "donate"
	OpCloseProject       = "close_project"
	OpClaimRefund        = "claim_refund"
	OpGetDonatorCount    = "get_donator_count"
	OpWithdraw           = "withdraw"
	OpCloseFailedProject = "close_failed_project"
	OpGetProject         = "get_project"
)

type ProjectService struct {
	repomanager   repomanager.RepositoryManager
	publisher     events.Publisher
	archiver      archive.Archiver
	logger        logging.Logger
	rent          uint64
	maxNameLength int
	restrictClose bool
	now           func() time.Time
}

func NewProjectService(m repomanager.RepositoryManager, cfg *config.Config, p events.Publisher,
	a archive.Archiver, l logging.Logger) *ProjectService {
	return &ProjectService{
		repomanager:   m,
		publisher:     p,
		archiver:      a,
		logger:        l.With("module", "project_service"),
		rent:          cfg.RentExemptMinimum,
		maxNameLength: cfg.MaxNameLength,
		restrictClose: cfg.RestrictCloseToOwner,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// load finds the owner's project and re-checks that it sits at the address
// its stored bump derives.
func (s *ProjectService) load(ctx context.Context, r repomanager.Repositories, owner identity.Identity, lock bool) (*models.Project, error) {
	if owner.IsZero() {
		return nil, common.ErrInvalidIdentity
	}
	addr, _, err := identity.FindProjectAddress(owner)
	if err != nil {
		return nil, err
	}

	var p *models.Project
	if lock {
		p, err = r.Projects().Lock(ctx, addr)
	} else {
		p, err = r.Projects().Find(ctx, addr)
	}
	if err != nil {
		return nil, err
	}

	if p.Owner != owner {
		return nil, common.ErrAddressMismatch
	}
	if err := identity.VerifyProjectAddress(p.Owner, p.Bump, p.Address); err != nil {
		return nil, err
	}
	return p, nil
}

// CreateProject opens a campaign owned by caller at its derived address and
// locks the storage residue from the caller's account into it.
func (s *ProjectService) CreateProject(ctx context.Context, caller identity.Identity, name string, target uint64) (p *models.Project, err error) {
	started := time.Now()
	defer func() { metrics.ObserveOperation(OpCreateProject, err, started) }()

	if caller.IsZero() {
		return nil, common.Op(OpCreateProject, common.ErrInvalidIdentity)
	}
	if len(name) > s.maxNameLength {
		return nil, common.Op(OpCreateProject, common.ErrNameTooLong)
	}

	addr, bump, err := identity.FindProjectAddress(caller)
	if err != nil {
		return nil, common.Op(OpCreateProject, err)
	}

	now := s.now()
	p = &models.Project{
		Address:         addr,
		Owner:           caller,
		Name:            name,
		FinancialTarget: target,
		Status:          models.StatusActive,
		Donors:          []models.Donor{},
		Bump:            bump,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.repomanager.WithinTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		if err := r.Projects().Create(ctx, p); err != nil {
			return err
		}
		if s.rent == 0 {
			return nil
		}
		return ledger.Transfer(ctx, r.Accounts(), caller.Address(), addr, s.rent)
	})
	if err != nil {
		s.logger.Error(ctx, "project creation failed", "owner", caller.String(), "error", err)
		return nil, common.Op(OpCreateProject, err)
	}

	s.logger.Info(ctx, "project created",
		"project", addr.String(), "owner", caller.String(), "name", name, "target", target, "bump", bump)
	s.publish(ctx, events.New(events.KindProjectCreated, p, caller, 0))
	return p, nil
}

// Donate moves amount from the donor into the project's custody and records
// it against the donor's entry. Crossing the financial target moves the
// project to TargetReached.
func (s *ProjectService) Donate(ctx context.Context, donor, owner identity.Identity, amount uint64) (p *models.Project, err error) {
	started := time.Now()
	defer func() { metrics.ObserveOperation(OpDonate, err, started) }()

	if donor.IsZero() {
		return nil, common.Op(OpDonate, common.ErrInvalidIdentity)
	}

	var (
		prev    models.Status
		reached bool
	)
	err = s.repomanager.WithinTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		if p, err = s.load(ctx, r, owner, true); err != nil {
			return err
		}
		prev = p.Status

		entry, hit, err := p.RecordDonation(donor, amount)
		if err != nil {
			return err
		}
		reached = hit

		if err := ledger.Transfer(ctx, r.Accounts(), donor.Address(), p.Address, amount); err != nil {
			return err
		}

		p.UpdatedAt = s.now()
		if err := r.Projects().SaveDonor(ctx, p.Address, entry); err != nil {
			return err
		}
		return r.Projects().Update(ctx, p)
	})
	if err != nil {
		s.logger.Error(ctx, "donation failed",
			"owner", owner.String(), "donor", donor.String(), "amount", amount, "error", err)
		return nil, common.Op(OpDonate, err)
	}

	metrics.ObserveFundsMoved(metrics.DirectionDonated, amount)
	s.logger.Info(ctx, "donation accepted",
		"project", p.Address.String(), "donor", donor.String(), "amount", amount, "balance", p.Balance)

	evs := []events.Event{events.New(events.KindProjectDonated, p, donor, amount)}
	if reached {
		metrics.ObserveStatusTransition(prev.String(), p.Status.String())
		s.logger.Info(ctx, "financial target reached",
			"project", p.Address.String(), "target", p.FinancialTarget, "balance", p.Balance)
		evs = append(evs, events.StatusChanged(p, donor, prev))
	}
	s.publish(ctx, evs...)
	return p, nil
}

// CloseProject ends the funding phase: Active projects fail and
// TargetReached projects succeed. Any caller may close unless the service
// is configured to restrict closing to the owner.
func (s *ProjectService) CloseProject(ctx context.Context, caller, owner identity.Identity) (p *models.Project, err error) {
	started := time.Now()
	defer func() { metrics.ObserveOperation(OpCloseProject, err, started) }()

	var prev models.Status
	err = s.repomanager.WithinTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		if p, err = s.load(ctx, r, owner, true); err != nil {
			return err
		}
		if s.restrictClose && caller != p.Owner {
			return common.ErrUserNotAuthorized
		}

		next, err := p.Status.AfterClose()
		if err != nil {
			return err
		}
		prev = p.Status
		p.Status = next
		p.UpdatedAt = s.now()
		return r.Projects().Update(ctx, p)
	})
	if err != nil {
		s.logger.Error(ctx, "project close failed", "owner", owner.String(), "caller", caller.String(), "error", err)
		return nil, common.Op(OpCloseProject, err)
	}

	if caller != p.Owner {
		s.logger.Warn(ctx, "project closed by non-owner", "project", p.Address.String(), "caller", caller.String())
	}
	metrics.ObserveStatusTransition(prev.String(), p.Status.String())

	switch p.Status {
	case models.StatusFailed:
		s.logger.Info(ctx, "project failed, refunds open",
			"project", p.Address.String(), "donors", len(p.Donors), "refund_total", p.Balance)
	case models.StatusSuccess:
		s.logger.Info(ctx, "project succeeded, withdrawal open",
			"project", p.Address.String(), "balance", p.Balance)
	}

	s.publish(ctx, events.StatusChanged(p, caller, prev))
	return p, nil
}

// ClaimRefund pays a donor of a failed project back in full and removes the
// donor's entry, so each donor can claim once.
func (s *ProjectService) ClaimRefund(ctx context.Context, donor, owner identity.Identity) (refund models.Donor, err error) {
	started := time.Now()
	defer func() { metrics.ObserveOperation(OpClaimRefund, err, started) }()

	var p *models.Project
	err = s.repomanager.WithinTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		if p, err = s.load(ctx, r, owner, true); err != nil {
			return err
		}
		if p.Status != models.StatusFailed {
			return common.ErrInvalidStatus
		}

		idx := p.FindDonor(donor)
		if idx < 0 {
			return common.ErrUserNotAuthorized
		}
		custody, err := r.Accounts().Balance(ctx, p.Address)
		if err != nil {
			return err
		}
		if custody < p.Donors[idx].Amount {
			return common.ErrInvalidStatus
		}

		if refund, err = p.RemoveDonor(donor); err != nil {
			return err
		}
		if err := ledger.Transfer(ctx, r.Accounts(), p.Address, donor.Address(), refund.Amount); err != nil {
			return err
		}

		p.UpdatedAt = s.now()
		if err := r.Projects().DeleteDonor(ctx, p.Address, donor); err != nil {
			return err
		}
		return r.Projects().Update(ctx, p)
	})
	if err != nil {
		s.logger.Error(ctx, "refund failed", "owner", owner.String(), "donor", donor.String(), "error", err)
		return models.Donor{}, common.Op(OpClaimRefund, err)
	}

	metrics.ObserveFundsMoved(metrics.DirectionRefunded, refund.Amount)
	s.logger.Info(ctx, "refund paid",
		"project", p.Address.String(), "donor", donor.String(), "amount", refund.Amount,
		"remaining_donors", len(p.Donors), "balance", p.Balance)
	s.publish(ctx, events.New(events.KindProjectRefunded, p, donor, refund.Amount))
	return refund, nil
}

// GetDonatorCount returns the number of donor entries.
func (s *ProjectService) GetDonatorCount(ctx context.Context, owner identity.Identity) (n int, err error) {
	started := time.Now()
	defer func() { metrics.ObserveOperation(OpGetDonatorCount, err, started) }()

	err = s.repomanager.View(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		p, err := s.load(ctx, r, owner, false)
		if err != nil {
			return err
		}
		n = len(p.Donors)
		return nil
	})
	if err != nil {
		return 0, common.Op(OpGetDonatorCount, err)
	}
	return n, nil
}

// GetProject returns the owner's project record.
func (s *ProjectService) GetProject(ctx context.Context, owner identity.Identity) (p *models.Project, err error) {
	started := time.Now()
	defer func() { metrics.ObserveOperation(OpGetProject, err, started) }()

	err = s.repomanager.View(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		p, err = s.load(ctx, r, owner, false)
		return err
	})
	if err != nil {
		return nil, common.Op(OpGetProject, err)
	}
	return p, nil
}

// Withdraw pays everything in a successful project's custody, storage
// residue included, to its owner and destroys the record.
func (s *ProjectService) Withdraw(ctx context.Context, caller, owner identity.Identity) (payout uint64, err error) {
	started := time.Now()
	defer func() { metrics.ObserveOperation(OpWithdraw, err, started) }()

	var p *models.Project
	err = s.repomanager.WithinTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		if p, err = s.load(ctx, r, owner, true); err != nil {
			return err
		}
		if p.Status != models.StatusSuccess {
			return common.ErrWithdrawNotAvailable
		}
		if caller != p.Owner {
			return common.ErrUserNotAuthorized
		}
		return s.destroy(ctx, r, p, &payout)
	})
	if err != nil {
		s.logger.Error(ctx, "withdraw failed", "owner", owner.String(), "caller", caller.String(), "error", err)
		return 0, common.Op(OpWithdraw, err)
	}

	metrics.ObserveFundsMoved(metrics.DirectionWithdrawn, payout)
	s.logger.Info(ctx, "project withdrawn",
		"project", p.Address.String(), "owner", p.Owner.String(), "donated", p.Balance, "payout", payout)
	s.publish(ctx, events.New(events.KindProjectWithdrawn, p, caller, payout))
	s.archive(ctx, archive.ReasonWithdrawn, p, payout)
	return payout, nil
}

// CloseFailedProject destroys a failed project once every donor has been
// refunded, returning the storage residue to the owner.
func (s *ProjectService) CloseFailedProject(ctx context.Context, caller, owner identity.Identity) (reclaimed uint64, err error) {
	started := time.Now()
	defer func() { metrics.ObserveOperation(OpCloseFailedProject, err, started) }()

	var p *models.Project
	err = s.repomanager.WithinTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		if p, err = s.load(ctx, r, owner, true); err != nil {
			return err
		}
		if p.Status != models.StatusFailed {
			return common.ErrInvalidStatus
		}
		if caller != p.Owner {
			return common.ErrUserNotAuthorized
		}
		if len(p.Donors) > 0 {
			return common.ErrInvalidStatus
		}
		return s.destroy(ctx, r, p, &reclaimed)
	})
	if err != nil {
		s.logger.Error(ctx, "close failed project failed", "owner", owner.String(), "caller", caller.String(), "error", err)
		return 0, common.Op(OpCloseFailedProject, err)
	}

	metrics.ObserveFundsMoved(metrics.DirectionReclaimed, reclaimed)
	s.logger.Info(ctx, "failed project closed",
		"project", p.Address.String(), "owner", p.Owner.String(), "reclaimed", reclaimed)
	s.publish(ctx, events.New(events.KindProjectClosed, p, caller, reclaimed))
	s.archive(ctx, archive.ReasonClosed, p, reclaimed)
	return reclaimed, nil
}

// destroy drains the custody account to the owner and deletes the record.
func (s *ProjectService) destroy(ctx context.Context, r repomanager.Repositories, p *models.Project, paid *uint64) error {
	amount, err := ledger.Drain(ctx, r.Accounts(), p.Address, p.Owner.Address())
	if err != nil {
		return err
	}
	if err := r.Projects().Delete(ctx, p.Address); err != nil {
		return err
	}
	*paid = amount
	return nil
}

func (s *ProjectService) publish(ctx context.Context, evs ...events.Event) {
	for _, e := range evs {
		err := s.publisher.Publish(ctx, e)
		metrics.ObserveEventPublish(e.Kind, err)
		if err != nil {
			s.logger.Warn(ctx, "event publish failed", "kind", e.Kind, "project", e.Project.String(), "error", err)
		}
	}
}

func (s *ProjectService) archive(ctx context.Context, reason string, p *models.Project, payout uint64) {
	snap := archive.Snapshot{Reason: reason, ArchivedAt: s.now(), Payout: payout, Project: p}
	if err := s.archiver.Archive(ctx, snap); err != nil {
		s.logger.Warn(ctx, "project archive failed", "project", p.Address.String(), "reason", reason, "error", err)
	}
}
