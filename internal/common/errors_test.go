package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOp_NilStaysNil(t *testing.T) {
	assert.NoError(t, Op("donate", nil))
}

func TestOp_WrapsKindAndName(t *testing.T) {
	err := Op("withdraw", ErrWithdrawNotAvailable)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWithdrawNotAvailable))
	assert.Equal(t, "withdraw: "+ErrWithdrawNotAvailable.Error(), err.Error())

	var opErr *OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "withdraw", opErr.Op)
}

func TestOp_KeepsInnermostOperation(t *testing.T) {
	inner := Op("claim_refund", ErrUserNotAuthorized)
	outer := Op("rpc", fmt.Errorf("wrapped: %w", inner))

	var opErr *OpError
	require.True(t, errors.As(outer, &opErr))
	assert.Equal(t, "claim_refund", opErr.Op)
	assert.True(t, errors.Is(outer, ErrUserNotAuthorized))
}
