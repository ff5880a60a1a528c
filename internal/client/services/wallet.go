// Package services contains application services for the wallet CLI.
// This file keeps identity keys: creating, importing and unlocking ed25519
// keys sealed in the local database under a passphrase.
package services

import (
	"context"
	"crypto/ed25519"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/mcamera/school-of-solana-season-8/internal/client/repositories/keys"
	"github.com/mcamera/school-of-solana-season-8/internal/cryptox"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
)

var (
	ErrWrongPassphrase = errors.New("wrong passphrase")
	ErrEmptyPassphrase = errors.New("passphrase must not be empty")
	ErrInvalidSeed     = errors.New("seed must be 32 bytes of base58")
)

// WalletService manages the local identity keys.
//
// Contract:
//   - CreateKey / ImportKey seal a seed under passphrase and store it by name.
//   - Unlock opens a stored key; a wrong passphrase yields ErrWrongPassphrase.
//   - ExportSeed reveals the base58 seed of an unlocked key.
type WalletService interface {
	CreateKey(ctx context.Context, name string, passphrase []byte) (identity.Identity, error)
	ImportKey(ctx context.Context, name string, seed string, passphrase []byte) (identity.Identity, error)
	Unlock(ctx context.Context, name string, passphrase []byte) (ed25519.PrivateKey, error)
	ListKeys(ctx context.Context) ([]*keys.Key, error)
	DeleteKey(ctx context.Context, name string) error
}

type walletService struct {
	db  *sql.DB
	now func() time.Time
}

func NewWalletService(db *sql.DB) WalletService {
	return &walletService{db: db, now: time.Now}
}

func (w *walletService) getKeysRepo() keys.Repository {
	return keys.NewSQLiteRepository(w.db)
}

func (w *walletService) CreateKey(ctx context.Context, name string, passphrase []byte) (identity.Identity, error) {
	seed, err := cryptox.RandomBytes(ed25519.SeedSize)
	if err != nil {
		return identity.Identity{}, err
	}
	defer cryptox.Wipe(seed)
	return w.store(ctx, name, seed, passphrase)
}

func (w *walletService) ImportKey(ctx context.Context, name string, seed string, passphrase []byte) (identity.Identity, error) {
	raw := base58.Decode(seed)
	defer cryptox.Wipe(raw)
	if len(raw) != ed25519.SeedSize {
		return identity.Identity{}, ErrInvalidSeed
	}
	return w.store(ctx, name, raw, passphrase)
}

func (w *walletService) store(ctx context.Context, name string, seed, passphrase []byte) (identity.Identity, error) {
	if len(passphrase) == 0 {
		return identity.Identity{}, ErrEmptyPassphrase
	}

	priv := ed25519.NewKeyFromSeed(seed)
	defer cryptox.Wipe(priv)
	id, err := identity.FromPublicKey(priv.Public().(ed25519.PublicKey))
	if err != nil {
		return identity.Identity{}, err
	}

	salt, err := cryptox.RandomBytes(cryptox.SaltSize)
	if err != nil {
		return identity.Identity{}, err
	}
	key := cryptox.DeriveKey(passphrase, salt)
	defer cryptox.Wipe(key)

	sealed, nonce, err := cryptox.Seal(seed, key)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("seal key: %w", err)
	}

	err = w.getKeysRepo().Save(ctx, &keys.Key{
		Name:       name,
		Identity:   id.String(),
		Salt:       salt,
		Nonce:      nonce,
		SealedSeed: sealed,
		CreatedAt:  w.now(),
	})
	if err != nil {
		return identity.Identity{}, err
	}
	return id, nil
}

// Unlock returns the private key stored under name. The caller owns the
// returned key and should wipe it when done.
func (w *walletService) Unlock(ctx context.Context, name string, passphrase []byte) (ed25519.PrivateKey, error) {
	k, err := w.getKeysRepo().Get(ctx, name)
	if err != nil {
		return nil, err
	}

	key := cryptox.DeriveKey(passphrase, k.Salt)
	defer cryptox.Wipe(key)

	seed, err := cryptox.Open(k.SealedSeed, k.Nonce, key)
	if err != nil {
		if errors.Is(err, cryptox.ErrDecrypt) {
			return nil, ErrWrongPassphrase
		}
		return nil, err
	}
	defer cryptox.Wipe(seed)
	if len(seed) != ed25519.SeedSize {
		return nil, ErrInvalidSeed
	}

	priv := ed25519.NewKeyFromSeed(seed)
	if got := base58.Encode(priv.Public().(ed25519.PublicKey)); got != k.Identity {
		return nil, fmt.Errorf("key %s: stored identity %s does not match seed", name, k.Identity)
	}
	return priv, nil
}

func (w *walletService) ListKeys(ctx context.Context) ([]*keys.Key, error) {
	return w.getKeysRepo().List(ctx)
}

func (w *walletService) DeleteKey(ctx context.Context, name string) error {
	return w.getKeysRepo().Delete(ctx, name)
}
