package grpc

import (
	"context"
	"errors"

	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var statusCodes = []struct {
	err  error
	code codes.Code
}{
	{common.ErrInvalidStatus, codes.FailedPrecondition},
	{common.ErrWithdrawNotAvailable, codes.FailedPrecondition},
	{common.ErrInsufficientFunds, codes.FailedPrecondition},
	{common.ErrUserNotAuthorized, codes.PermissionDenied},
	{common.ErrAddressAlreadyExists, codes.AlreadyExists},
	{common.ErrorNotFound, codes.NotFound},
	{common.ErrInvalidAmount, codes.InvalidArgument},
	{common.ErrNameTooLong, codes.InvalidArgument},
	{common.ErrInvalidIdentity, codes.InvalidArgument},
	{common.ErrInvalidToken, codes.Unauthenticated},
	{common.ErrTokenExpired, codes.Unauthenticated},
	{common.ErrInvalidSignature, codes.Unauthenticated},
}

// toStatus maps a service error onto a gRPC status. Unknown errors become
// Internal without leaking their text.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}
	for _, m := range statusCodes {
		if errors.Is(err, m.err) {
			return status.Error(m.code, err.Error())
		}
	}
	s.logger.Error(ctx, err.Error())
	return status.Error(codes.Internal, "internal error")
}
