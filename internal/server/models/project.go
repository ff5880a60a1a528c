// Package models defines server-side data models persisted by the repositories.
package models

import (
	"time"

	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
	"github.com/mcamera/school-of-solana-season-8/internal/safe"
)

// Donor is one contributing identity and its cumulative contribution.
type Donor struct {
	Identity identity.Identity `json:"identity"`
	Amount   uint64            `json:"amount"`
}

// Project is a campaign record stored at its derived address.
type Project struct {
	Address         identity.Address  `json:"address"`
	Owner           identity.Identity `json:"owner"`
	Name            string            `json:"name"`
	FinancialTarget uint64            `json:"financial_target"`
	Balance         uint64            `json:"balance"`
	Status          Status            `json:"status"`
	Donors          []Donor           `json:"donors"`
	// Bump is the derivation check byte used to re-verify Address.
	Bump      uint8     `json:"bump"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy so callers can mutate without aliasing donors.
func (p *Project) Clone() *Project {
	c := *p
	c.Donors = make([]Donor, len(p.Donors))
	copy(c.Donors, p.Donors)
	return &c
}

// FindDonor returns the index of the donor entry for id, or -1.
func (p *Project) FindDonor(id identity.Identity) int {
	for i, d := range p.Donors {
		if d.Identity == id {
			return i
		}
	}
	return -1
}

// DonatedSum is the sum of all donor amounts.
func (p *Project) DonatedSum() (uint64, error) {
	var sum uint64
	for _, d := range p.Donors {
		var err error
		if sum, err = safe.Add(sum, d.Amount); err != nil {
			return 0, err
		}
	}
	return sum, nil
}

// RecordDonation adds amount to the balance and to the caller's donor entry,
// appending a new entry for first-time donors. It returns the updated entry
// and whether the donation moved the project to TargetReached.
func (p *Project) RecordDonation(donor identity.Identity, amount uint64) (Donor, bool, error) {
	if amount == 0 {
		return Donor{}, false, common.ErrInvalidAmount
	}
	if !p.Status.AcceptsDonations() {
		return Donor{}, false, common.ErrInvalidStatus
	}

	balance, err := safe.Add(p.Balance, amount)
	if err != nil {
		return Donor{}, false, common.ErrInvalidAmount
	}

	idx := p.FindDonor(donor)
	var current uint64
	if idx >= 0 {
		current = p.Donors[idx].Amount
	}
	total, err := safe.Add(current, amount)
	if err != nil {
		return Donor{}, false, common.ErrInvalidAmount
	}
	if idx < 0 {
		p.Donors = append(p.Donors, Donor{Identity: donor})
		idx = len(p.Donors) - 1
	}

	p.Donors[idx].Amount = total
	p.Balance = balance

	reached := false
	if p.Status == StatusActive && p.Balance >= p.FinancialTarget {
		p.Status = StatusTargetReached
		reached = true
	}
	return p.Donors[idx], reached, nil
}

// RemoveDonor deletes the entry for id and subtracts its amount from the
// balance, returning the removed entry.
func (p *Project) RemoveDonor(id identity.Identity) (Donor, error) {
	idx := p.FindDonor(id)
	if idx < 0 {
		return Donor{}, common.ErrUserNotAuthorized
	}
	d := p.Donors[idx]
	balance, err := safe.Sub(p.Balance, d.Amount)
	if err != nil {
		return Donor{}, common.ErrorInternal
	}
	p.Donors = append(p.Donors[:idx], p.Donors[idx+1:]...)
	p.Balance = balance
	return d, nil
}
