package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mcamera/school-of-solana-season-8/internal/api"
	"github.com/mcamera/school-of-solana-season-8/internal/cryptox"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
)

var errPassphraseMismatch = errors.New("passphrases do not match")

func usage(s string) error {
	return fmt.Errorf("usage: %s", s)
}

// call bounds a single command by the configured request timeout.
func (a *App) call(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) newPassphrase() ([]byte, error) {
	pw, err := GetPassword(a.out, "Passphrase")
	if err != nil {
		return nil, err
	}
	again, err := GetPassword(a.out, "Repeat passphrase")
	if err != nil {
		cryptox.Wipe(pw)
		return nil, err
	}
	defer cryptox.Wipe(again)
	if !bytes.Equal(pw, again) {
		cryptox.Wipe(pw)
		return nil, errPassphraseMismatch
	}
	return pw, nil
}

func (a *App) KeyGen(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("keygen <name>")
	}
	pw, err := a.newPassphrase()
	if err != nil {
		return err
	}
	defer cryptox.Wipe(pw)

	id, err := a.wallet.CreateKey(ctx, args[0], pw)
	if err != nil {
		return err
	}
	a.printf("Key %q created: %s\n", args[0], id)
	return nil
}

func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("import <name>")
	}
	seed, err := GetPassword(a.out, "Seed (base58)")
	if err != nil {
		return err
	}
	defer cryptox.Wipe(seed)

	pw, err := a.newPassphrase()
	if err != nil {
		return err
	}
	defer cryptox.Wipe(pw)

	id, err := a.wallet.ImportKey(ctx, args[0], strings.TrimSpace(string(seed)), pw)
	if err != nil {
		return err
	}
	a.printf("Key %q imported: %s\n", args[0], id)
	return nil
}

func (a *App) Keys(ctx context.Context, _ []string) error {
	list, err := a.wallet.ListKeys(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.printf("No keys yet, create one with 'keygen <name>'\n")
		return nil
	}
	for _, k := range list {
		a.printf("%-16s %s  %s\n", k.Name, k.Identity, k.CreatedAt.Format(time.DateTime))
	}
	return nil
}

func (a *App) DeleteKey(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("delkey <name>")
	}
	if _, name := a.self(); name == args[0] {
		return errors.New("log out before deleting the active key")
	}
	if err := a.wallet.DeleteKey(ctx, args[0]); err != nil {
		return err
	}
	a.printf("Key %q deleted\n", args[0])
	return nil
}

func (a *App) Login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("login <name>")
	}
	pw, err := GetPassword(a.out, "Passphrase")
	if err != nil {
		return err
	}
	defer cryptox.Wipe(pw)

	priv, err := a.wallet.Unlock(ctx, args[0], pw)
	if err != nil {
		return err
	}

	cctx, cancel := a.call(ctx)
	defer cancel()
	id, err := a.funding.Login(cctx, priv)
	if err != nil {
		cryptox.Wipe(priv)
		return err
	}

	a.mu.Lock()
	a.identity, a.keyName = id, args[0]
	a.mu.Unlock()
	a.printf("Logged in as %s\n", id)
	return nil
}

func (a *App) Logout(_ context.Context, _ []string) error {
	a.funding.Logout()
	a.mu.Lock()
	a.identity, a.keyName = identity.Identity{}, ""
	a.mu.Unlock()
	a.printf("Logged out\n")
	return nil
}

func (a *App) WhoAmI(_ context.Context, _ []string) error {
	id, name := a.self()
	addr, bump, err := identity.FindProjectAddress(id)
	if err != nil {
		return err
	}
	a.printf("Key:      %s\nIdentity: %s\nProject:  %s (bump %d)\n", name, id, addr, bump)
	return nil
}

func (a *App) Airdrop(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("airdrop <amount>")
	}
	amount, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := a.call(ctx)
	defer cancel()
	bal, err := a.funding.Airdrop(ctx, amount)
	if err != nil {
		return err
	}
	a.printf("Balance: %s\n", formatLamports(bal))
	return nil
}

func (a *App) Balance(ctx context.Context, args []string) error {
	var addr string
	switch {
	case len(args) == 1:
		addr = args[0]
	case len(args) == 0 && a.isLoggedIn():
		id, _ := a.self()
		addr = id.String()
	default:
		return usage("balance <address>")
	}
	ctx, cancel := a.call(ctx)
	defer cancel()
	bal, err := a.funding.Balance(ctx, addr)
	if err != nil {
		return err
	}
	a.printf("%s: %s\n", addr, formatLamports(bal))
	return nil
}

func (a *App) Create(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("create <target> <name...>")
	}
	target, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := a.call(ctx)
	defer cancel()
	p, err := a.funding.CreateProject(ctx, strings.Join(args[1:], " "), target)
	if err != nil {
		return err
	}
	a.printProject(p)
	return nil
}

func (a *App) Donate(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("donate <owner> <amount>")
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	ctx, cancel := a.call(ctx)
	defer cancel()
	p, err := a.funding.Donate(ctx, args[0], amount)
	if err != nil {
		return err
	}
	a.printProject(p)
	return nil
}

// ownerArg returns the single owner argument, or the signed-in identity.
func (a *App) ownerArg(args []string, use string) (string, error) {
	switch len(args) {
	case 1:
		return args[0], nil
	case 0:
		if id, _ := a.self(); !id.IsZero() {
			return id.String(), nil
		}
	}
	return "", usage(use)
}

func (a *App) Close(ctx context.Context, args []string) error {
	owner, err := a.ownerArg(args, "close [owner]")
	if err != nil {
		return err
	}
	ctx, cancel := a.call(ctx)
	defer cancel()
	p, err := a.funding.CloseProject(ctx, owner)
	if err != nil {
		return err
	}
	a.printProject(p)
	return nil
}

func (a *App) Refund(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("refund <owner>")
	}
	ctx, cancel := a.call(ctx)
	defer cancel()
	amount, err := a.funding.ClaimRefund(ctx, args[0])
	if err != nil {
		return err
	}
	a.printf("Refunded %s\n", formatLamports(amount))
	return nil
}

func (a *App) Count(ctx context.Context, args []string) error {
	owner, err := a.ownerArg(args, "count <owner>")
	if err != nil {
		return err
	}
	ctx, cancel := a.call(ctx)
	defer cancel()
	n, err := a.funding.DonatorCount(ctx, owner)
	if err != nil {
		return err
	}
	a.printf("Donors: %d\n", n)
	return nil
}

func (a *App) Withdraw(ctx context.Context, args []string) error {
	owner, err := a.ownerArg(args, "withdraw [owner]")
	if err != nil {
		return err
	}
	ctx, cancel := a.call(ctx)
	defer cancel()
	amount, err := a.funding.Withdraw(ctx, owner)
	if err != nil {
		return err
	}
	a.printf("Withdrew %s\n", formatLamports(amount))
	return nil
}

func (a *App) CloseFailed(ctx context.Context, args []string) error {
	owner, err := a.ownerArg(args, "closefailed [owner]")
	if err != nil {
		return err
	}
	ctx, cancel := a.call(ctx)
	defer cancel()
	amount, err := a.funding.CloseFailedProject(ctx, owner)
	if err != nil {
		return err
	}
	a.printf("Reclaimed %s\n", formatLamports(amount))
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	owner, err := a.ownerArg(args, "show <owner>")
	if err != nil {
		return err
	}
	ctx, cancel := a.call(ctx)
	defer cancel()
	p, err := a.funding.Show(ctx, owner)
	if err != nil {
		return err
	}
	a.printProject(p)
	return nil
}

func (a *App) Watchlist(ctx context.Context, _ []string) error {
	entries, err := a.funding.Watchlist(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.printf("Watchlist is empty\n")
		return nil
	}
	for _, e := range entries {
		a.printf("%-24s %-14s %d/%d lamports, %d donors  owner %s  (as of %s)\n",
			e.Name, e.Status, e.Balance, e.FinancialTarget, e.Donors, e.Owner, e.RefreshedAt.Format(time.DateTime))
	}
	return nil
}

func (a *App) Unwatch(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("unwatch <owner>")
	}
	return a.funding.Unwatch(ctx, args[0])
}

func (a *App) Refresh(ctx context.Context, _ []string) error {
	ctx, cancel := a.call(ctx)
	defer cancel()
	n, err := a.funding.Refresh(ctx)
	if err != nil {
		return err
	}
	a.printf("%d live projects refreshed\n", n)
	return nil
}

func (a *App) printProject(p *api.Project) {
	if p == nil {
		return
	}
	a.printf("Project %q (%s)\n", p.Name, p.Status)
	a.printf("  address: %s\n  owner:   %s\n", p.Address, p.Owner)
	a.printf("  raised:  %s of %s\n", formatLamports(p.Balance), formatLamports(p.FinancialTarget))
	for _, d := range p.Donors {
		a.printf("  donor %s  %s\n", d.Identity, formatLamports(d.Amount))
	}
}
