package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

var errNotLoggedIn = errors.New("not logged in, use 'login <key>' first")

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	KeyGen(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Keys(ctx context.Context, args []string) error
	DeleteKey(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context, args []string) error

	Airdrop(ctx context.Context, args []string) error
	Balance(ctx context.Context, args []string) error
	Create(ctx context.Context, args []string) error
	Donate(ctx context.Context, args []string) error
	Close(ctx context.Context, args []string) error
	Refund(ctx context.Context, args []string) error
	Count(ctx context.Context, args []string) error
	Withdraw(ctx context.Context, args []string) error
	CloseFailed(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error

	Watchlist(ctx context.Context, args []string) error
	Unwatch(ctx context.Context, args []string) error
	Refresh(ctx context.Context, args []string) error
}

type command struct {
	run        func(execIface, context.Context, []string) error
	needsLogin bool
}

var commands = map[string]command{
	"keygen":      {run: execIface.KeyGen},
	"import":      {run: execIface.Import},
	"keys":        {run: execIface.Keys},
	"delkey":      {run: execIface.DeleteKey},
	"login":       {run: execIface.Login},
	"logout":      {run: execIface.Logout, needsLogin: true},
	"whoami":      {run: execIface.WhoAmI, needsLogin: true},
	"airdrop":     {run: execIface.Airdrop, needsLogin: true},
	"balance":     {run: execIface.Balance},
	"create":      {run: execIface.Create, needsLogin: true},
	"donate":      {run: execIface.Donate, needsLogin: true},
	"close":       {run: execIface.Close, needsLogin: true},
	"refund":      {run: execIface.Refund, needsLogin: true},
	"count":       {run: execIface.Count},
	"withdraw":    {run: execIface.Withdraw, needsLogin: true},
	"closefailed": {run: execIface.CloseFailed, needsLogin: true},
	"show":        {run: execIface.Show},
	"watchlist":   {run: execIface.Watchlist},
	"unwatch":     {run: execIface.Unwatch},
	"refresh":     {run: execIface.Refresh},
}

const helpLoggedOut = `Available commands:
  keygen <name>                 create a new key
  import <name>                 import a base58 seed
  keys                          list stored keys
  delkey <name>                 delete a stored key
  login <name>                  unlock a key and sign in
  balance <address>             show an account balance
  count <owner>                 number of donors of a project
  show <owner>                  show a project
  watchlist | unwatch <owner> | refresh
  exit`

const helpLoggedIn = `Available commands:
  whoami | logout | keys | keygen <name> | import <name> | delkey <name>
  airdrop <amount>              fund your account (dev networks)
  balance [address]             show a balance, yours by default
  create <target> <name...>     open your campaign
  donate <owner> <amount>       donate to a campaign
  close [owner]                 end a campaign
  refund <owner>                reclaim your donation from a failed campaign
  withdraw                      collect a successful campaign
  closefailed                   reclaim storage of a fully refunded campaign
  count <owner> | show [owner]
  watchlist | unwatch <owner> | refresh
  exit
Amounts are lamports, or SOL with a "sol" suffix (e.g. 1.5sol).`

// runREPL starts a simple read–eval–print loop for the wallet CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command and passes the rest as arguments. Commands that act as the signed-in
// identity are refused until a key is unlocked. Errors returned by commands
// are printed and the loop continues. The loop exits on scanner EOF or when
// the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("fm %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		cmd, ok := commands[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if cmd.needsLogin && !a.isLoggedIn() {
			printlnFn("Error:", errNotLoggedIn)
			continue
		}
		if err := cmd.run(a, ctx, args); err != nil {
			printlnFn("Error:", err)
		}
	}
}
