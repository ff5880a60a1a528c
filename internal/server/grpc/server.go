// Package grpc exposes the funding services over gRPC. Messages travel with
// the JSON codec from internal/api; the access token interceptor resolves
// the authenticated caller identity for mutating methods.
package grpc

import (
	"context"
	"net"
	"time"

	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/mcamera/school-of-solana-season-8/internal/api"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
	"github.com/mcamera/school-of-solana-season-8/internal/logging"
	"github.com/mcamera/school-of-solana-season-8/internal/server/models"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type projectSvc interface {
	CreateProject(ctx context.Context, caller identity.Identity, name string, target uint64) (*models.Project, error)
	Donate(ctx context.Context, donor, owner identity.Identity, amount uint64) (*models.Project, error)
	CloseProject(ctx context.Context, caller, owner identity.Identity) (*models.Project, error)
	ClaimRefund(ctx context.Context, donor, owner identity.Identity) (models.Donor, error)
	GetDonatorCount(ctx context.Context, owner identity.Identity) (int, error)
	GetProject(ctx context.Context, owner identity.Identity) (*models.Project, error)
	Withdraw(ctx context.Context, caller, owner identity.Identity) (uint64, error)
	CloseFailedProject(ctx context.Context, caller, owner identity.Identity) (uint64, error)
}

type accountSvc interface {
	Airdrop(ctx context.Context, id identity.Identity, amount uint64) (uint64, error)
	Balance(ctx context.Context, addr identity.Address) (uint64, error)
}

type authSvc interface {
	Login(ctx context.Context, id identity.Identity, signedAt time.Time, sig []byte) (string, error)
}

type GRPCServer struct {
	api.UnimplementedFundingServiceServer
	address   string
	projects  projectSvc
	accounts  accountSvc
	auth      authSvc
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, ps projectSvc, as accountSvc, au authSvc, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		projects:  ps,
		accounts:  as,
		auth:      au,
		jwtSecret: []byte(secretKey),
	}
}

// newServer builds the gRPC server with the interceptor chain and registers
// the funding service on it.
func (s *GRPCServer) newServer() *grpc.Server {
	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(grpcRecovery.WithRecoveryHandlerContext(s.recoverPanic)),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
	}
	if zl, ok := s.logger.(interface{ Zap() *zap.Logger }); ok {
		chain = append(chain, grpcZap.UnaryServerInterceptor(zl.Zap()))
	}
	chain = append(chain, s.accessTokenInterceptor)

	srv := grpc.NewServer(grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)))
	api.RegisterFundingServiceServer(srv, s)

	grpcPrometheus.EnableHandlingTimeHistogram()
	grpcPrometheus.Register(srv)

	return srv
}

func (s *GRPCServer) recoverPanic(ctx context.Context, p any) error {
	s.logger.Error(ctx, "panic in handler", "panic", p)
	return status.Error(codes.Internal, "internal error")
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	stopped := make(chan struct{})
	defer close(stopped)

	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping gRPC server...")
			srv.GracefulStop()
		case <-stopped:
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
