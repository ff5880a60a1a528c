// Package identity models caller identity keys and the deterministic
// addresses derived from them.
//
// An Identity is a 32-byte ed25519 public key rendered in base58. Project
// records live at an Address derived from the owner identity and a fixed
// domain tag, so any caller can locate a campaign from its owner alone.
package identity

import (
	"crypto/ed25519"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/mcamera/school-of-solana-season-8/internal/common"
)

// Size is the byte length of identities and addresses.
const Size = 32

// Identity is the public key of a caller.
type Identity [Size]byte

// FromPublicKey converts an ed25519 public key into an Identity.
func FromPublicKey(pk ed25519.PublicKey) (Identity, error) {
	var id Identity
	if len(pk) != Size {
		return id, fmt.Errorf("%w: public key length %d", common.ErrInvalidIdentity, len(pk))
	}
	copy(id[:], pk)
	return id, nil
}

// Parse decodes a base58 identity.
func Parse(s string) (Identity, error) {
	var id Identity
	b := base58.Decode(s)
	if len(b) != Size {
		return id, fmt.Errorf("%w: %q", common.ErrInvalidIdentity, s)
	}
	copy(id[:], b)
	return id, nil
}

func (i Identity) String() string {
	return base58.Encode(i[:])
}

// IsZero reports whether the identity is unset.
func (i Identity) IsZero() bool {
	return i == Identity{}
}

// Address returns the account address owned by this identity.
func (i Identity) Address() Address {
	return Address(i)
}

func (i Identity) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Identity) UnmarshalText(b []byte) error {
	id, err := Parse(string(b))
	if err != nil {
		return err
	}
	*i = id
	return nil
}

// Address locates an account: either an identity's own account or a
// derived project account.
type Address [Size]byte

// ParseAddress decodes a base58 address.
func ParseAddress(s string) (Address, error) {
	id, err := Parse(s)
	return Address(id), err
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(b []byte) error {
	parsed, err := ParseAddress(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
