// Package common defines shared constants and sentinel errors used across
// the funding server layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Project lifecycle errors.
	ErrInvalidStatus        = errors.New("invalid project status for this operation")
	ErrWithdrawNotAvailable = errors.New("project is not available for this withdraw operation")
	ErrUserNotAuthorized    = errors.New("user not authorized for this operation")
	ErrAddressAlreadyExists = errors.New("address already exists")
	ErrAddressMismatch      = errors.New("project address does not match its derivation")

	// Fund movement errors.
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid amount")

	// Validation errors.
	ErrNameTooLong     = errors.New("project name too long")
	ErrInvalidIdentity = errors.New("invalid identity")

	// Auth errors.
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid login signature")
)

// OpError records the operation that failed together with the error kind.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Op wraps err with the operation name. A nil err stays nil, and an error
// that already carries an operation is returned unchanged.
func Op(op string, err error) error {
	if err == nil {
		return nil
	}
	var opErr *OpError
	if errors.As(err, &opErr) {
		return err
	}
	return &OpError{Op: op, Err: err}
}
