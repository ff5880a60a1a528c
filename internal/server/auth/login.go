package auth

import (
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
)

// MaxLoginSkew bounds how far a login timestamp may drift from server time.
const MaxLoginSkew = 5 * time.Minute

// LoginMessage is the byte string a caller signs with its identity key to
// obtain an access token.
func LoginMessage(id identity.Identity, at time.Time) []byte {
	return []byte(fmt.Sprintf("fundingme login %s %d", id, at.Unix()))
}

// SignLogin produces the login proof for the holder of priv.
func SignLogin(priv ed25519.PrivateKey, at time.Time) (identity.Identity, []byte, error) {
	id, err := identity.FromPublicKey(priv.Public().(ed25519.PublicKey))
	if err != nil {
		return identity.Identity{}, nil, err
	}
	return id, ed25519.Sign(priv, LoginMessage(id, at)), nil
}

// VerifyLogin checks that sig is id's signature over LoginMessage(id, at)
// and that at lies within MaxLoginSkew of now.
func VerifyLogin(id identity.Identity, at time.Time, sig []byte, now time.Time) error {
	skew := now.Sub(at)
	if skew < -MaxLoginSkew || skew > MaxLoginSkew {
		return fmt.Errorf("%w: timestamp outside allowed skew", common.ErrInvalidSignature)
	}
	if !ed25519.Verify(ed25519.PublicKey(id[:]), LoginMessage(id, at), sig) {
		return common.ErrInvalidSignature
	}
	return nil
}
