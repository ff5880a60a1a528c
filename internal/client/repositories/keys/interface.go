// Package keys stores the wallet's identity keys. Seeds are kept sealed
// with a passphrase-derived key; the repository never sees plaintext.
package keys

import (
	"context"
	"errors"
	"time"
)

var ErrKeyExists = errors.New("key already exists")

// Key is one sealed identity key.
type Key struct {
	Name       string
	Identity   string
	Salt       []byte
	Nonce      []byte
	SealedSeed []byte
	CreatedAt  time.Time
}

type Repository interface {
	Save(ctx context.Context, k *Key) error
	Get(ctx context.Context, name string) (*Key, error)
	List(ctx context.Context) ([]*Key, error)
	Delete(ctx context.Context, name string) error
}
