package identity

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mcamera/school-of-solana-season-8/internal/common"
)

// ProjectSeed is the domain tag mixed into every project address.
var ProjectSeed = []byte("project")

// maxSeedLength bounds a single seed, matching the size of an identity.
const maxSeedLength = 32

// derivationMarker separates derived addresses from any other sha256 use.
var derivationMarker = []byte("ProgramDerivedAddress")

// namespace scopes derived addresses to this service.
var namespace = sha256.Sum256([]byte("fundingme"))

var errOnCurve = errors.New("derived address lies on the ed25519 curve")

// CreateAddress hashes the seeds into an address. Results that decode as
// a valid ed25519 point are rejected so no private key can ever sign for
// a derived address.
func CreateAddress(seeds ...[]byte) (Address, error) {
	h := sha256.New()
	for _, s := range seeds {
		if len(s) > maxSeedLength {
			return Address{}, fmt.Errorf("seed length %d exceeds %d", len(s), maxSeedLength)
		}
		h.Write(s)
	}
	h.Write(namespace[:])
	h.Write(derivationMarker)

	var addr Address
	copy(addr[:], h.Sum(nil))

	if onCurve(addr[:]) {
		return Address{}, errOnCurve
	}
	return addr, nil
}

// FindProjectAddress derives the project address for owner, returning the
// bump byte that produced it. The search walks bumps from 255 down and
// keeps the first off-curve result.
func FindProjectAddress(owner Identity) (Address, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		addr, err := CreateAddress(ProjectSeed, owner[:], []byte{uint8(bump)})
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !errors.Is(err, errOnCurve) {
			return Address{}, 0, err
		}
	}
	return Address{}, 0, fmt.Errorf("no viable bump for owner %s", owner)
}

// VerifyProjectAddress recomputes the project address from owner and the
// stored bump and compares it to addr.
func VerifyProjectAddress(owner Identity, bump uint8, addr Address) error {
	derived, err := CreateAddress(ProjectSeed, owner[:], []byte{bump})
	if err != nil || derived != addr {
		return fmt.Errorf("%w: %s", common.ErrAddressMismatch, addr)
	}
	return nil
}

func onCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
