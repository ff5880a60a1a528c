package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdentity(t *testing.T) Identity {
	t.Helper()
	pk, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	id, err := FromPublicKey(pk)
	require.NoError(t, err)
	return id
}

func TestParse_RoundTrip(t *testing.T) {
	id := newIdentity(t)

	parsed, err := Parse(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
	assert.False(t, parsed.IsZero())
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "0OIl", "abc"} {
		_, err := Parse(s)
		assert.True(t, errors.Is(err, common.ErrInvalidIdentity), "input %q", s)
	}
}

func TestFromPublicKey_WrongLength(t *testing.T) {
	_, err := FromPublicKey(ed25519.PublicKey{1, 2, 3})
	assert.True(t, errors.Is(err, common.ErrInvalidIdentity))
}

func TestIdentity_JSON(t *testing.T) {
	id := newIdentity(t)

	b, err := json.Marshal(struct {
		Owner Identity `json:"owner"`
	}{Owner: id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"owner":"`+id.String()+`"}`, string(b))

	var out struct {
		Owner Identity `json:"owner"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, id, out.Owner)
}

func TestFindProjectAddress_Deterministic(t *testing.T) {
	owner := newIdentity(t)

	a1, b1, err := FindProjectAddress(owner)
	require.NoError(t, err)
	a2, b2, err := FindProjectAddress(owner)
	require.NoError(t, err)

	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
	assert.False(t, onCurve(a1[:]), "derived address must be off-curve")
	assert.NotEqual(t, owner.Address(), a1)
}

func TestFindProjectAddress_DistinctOwners(t *testing.T) {
	a1, _, err := FindProjectAddress(newIdentity(t))
	require.NoError(t, err)
	a2, _, err := FindProjectAddress(newIdentity(t))
	require.NoError(t, err)

	assert.NotEqual(t, a1, a2)
}

func TestVerifyProjectAddress(t *testing.T) {
	owner := newIdentity(t)
	addr, bump, err := FindProjectAddress(owner)
	require.NoError(t, err)

	require.NoError(t, VerifyProjectAddress(owner, bump, addr))

	err = VerifyProjectAddress(owner, bump-1, addr)
	assert.True(t, errors.Is(err, common.ErrAddressMismatch))

	err = VerifyProjectAddress(newIdentity(t), bump, addr)
	assert.True(t, errors.Is(err, common.ErrAddressMismatch))
}

func TestCreateAddress_SeedTooLong(t *testing.T) {
	_, err := CreateAddress(make([]byte, maxSeedLength+1))
	require.Error(t, err)
}
