package grpc

import (
	"context"

	"github.com/mcamera/school-of-solana-season-8/internal/api"
	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
	"github.com/mcamera/school-of-solana-season-8/internal/logging"
	"github.com/mcamera/school-of-solana-season-8/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const callerKey ctxKey = "caller"

// publicMethods are served without an access token.
var publicMethods = map[string]bool{
	api.FundingService_Ping_FullMethodName:            true,
	api.FundingService_Login_FullMethodName:           true,
	api.FundingService_Balance_FullMethodName:         true,
	api.FundingService_GetDonatorCount_FullMethodName: true,
	api.FundingService_GetProject_FullMethodName:      true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	ctx = logging.WithFields(ctx, "method", info.FullMethod)
	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	caller, err := auth.GetIdentityFromToken(accessToken, s.jwtSecret)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	return handler(withCaller(ctx, caller), req)
}

func withCaller(ctx context.Context, id identity.Identity) context.Context {
	ctx = logging.WithFields(ctx, "caller", id.String())
	return context.WithValue(ctx, callerKey, id)
}

// callerFromContext returns the identity resolved by the interceptor.
func callerFromContext(ctx context.Context) (identity.Identity, error) {
	id, ok := ctx.Value(callerKey).(identity.Identity)
	if !ok || id.IsZero() {
		return identity.Identity{}, status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return id, nil
}
