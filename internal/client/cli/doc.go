// Package cli provides the interactive fundingme wallet.
//
// It wires configuration, the local SQLite wallet, the gRPC client and an
// interactive REPL. Keys are created or imported under a name and sealed
// with a passphrase; "login <name>" unlocks one and signs in with it.
// Campaign commands (create, donate, close, refund, withdraw, closefailed)
// act on a project named by its owner's identity. Every project the wallet
// touches is cached in a watchlist that stays readable while offline.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
