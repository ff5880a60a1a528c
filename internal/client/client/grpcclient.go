package client

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mcamera/school-of-solana-season-8/internal/api"
	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
	"github.com/mcamera/school-of-solana-season-8/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.FundingServiceClient
	now         func() time.Time

	mu          sync.Mutex
	accessToken string
	signer      ed25519.PrivateKey
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// accessTokenInterceptor attaches the current token. When the server
// reports it expired, it signs in again with the unlocked key and retries
// the call once.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if method == api.FundingService_Login_FullMethodName {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	token := s.token()
	if token != "" {
		ctx = withAccessToken(ctx, token)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)

	if err != nil {

		st, ok := status.FromError(err)
		if !ok {
			return err
		}

		if st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
			return err
		}

		s.mu.Lock()
		signer := s.signer
		s.mu.Unlock()
		if signer == nil {
			return err
		}

		if _, err := s.Login(ctx, signer); err != nil {
			return err
		}

		ctx = withAccessToken(ctx, s.token())
		return invoker(ctx, method, req, reply, cc, opts...)

	}

	return nil
}

// NewFundingClient connects to endpointURL. Extra dial options are applied
// after the defaults (insecure transport, token interceptor).
func NewFundingClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, now: time.Now}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = api.NewFundingServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil

}

// Login proves possession of priv and keeps the issued token and the key
// for later re-authentication.
func (s *GRPCClient) Login(ctx context.Context, priv ed25519.PrivateKey) (identity.Identity, error) {

	at := s.now()
	id, sig, err := auth.SignLogin(priv, at)
	if err != nil {
		return identity.Identity{}, err
	}

	resp, err := s.client.Login(ctx, &api.LoginRequest{Identity: id.String(), SignedAt: at.Unix(), Signature: sig})
	if err != nil {
		return identity.Identity{}, s.mapError(err)
	}

	s.mu.Lock()
	s.accessToken = resp.AccessToken
	s.signer = priv
	s.mu.Unlock()

	return id, nil

}

// Logout forgets the token and the signing key.
func (s *GRPCClient) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.signer = nil
}

func (s *GRPCClient) Airdrop(ctx context.Context, amount uint64) (uint64, error) {
	resp, err := s.client.Airdrop(ctx, &api.AirdropRequest{Amount: amount})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.Balance, nil
}

func (s *GRPCClient) Balance(ctx context.Context, address string) (uint64, error) {
	resp, err := s.client.Balance(ctx, &api.BalanceRequest{Address: address})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.Lamports, nil
}

func (s *GRPCClient) CreateProject(ctx context.Context, name string, target uint64) (*api.Project, error) {
	resp, err := s.client.CreateProject(ctx, &api.CreateProjectRequest{Name: name, FinancialTarget: target})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.GetProject(), nil
}

func (s *GRPCClient) Donate(ctx context.Context, owner string, amount uint64) (*api.Project, error) {
	resp, err := s.client.Donate(ctx, &api.DonateRequest{Owner: owner, Amount: amount})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.GetProject(), nil
}

func (s *GRPCClient) CloseProject(ctx context.Context, owner string) (*api.Project, error) {
	resp, err := s.client.CloseProject(ctx, &api.ProjectRequest{Owner: owner})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.GetProject(), nil
}

func (s *GRPCClient) ClaimRefund(ctx context.Context, owner string) (uint64, error) {
	resp, err := s.client.ClaimRefund(ctx, &api.ProjectRequest{Owner: owner})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.Amount, nil
}

func (s *GRPCClient) DonatorCount(ctx context.Context, owner string) (uint32, error) {
	resp, err := s.client.GetDonatorCount(ctx, &api.ProjectRequest{Owner: owner})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.Count, nil
}

func (s *GRPCClient) Withdraw(ctx context.Context, owner string) (uint64, error) {
	resp, err := s.client.Withdraw(ctx, &api.ProjectRequest{Owner: owner})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.Amount, nil
}

func (s *GRPCClient) CloseFailedProject(ctx context.Context, owner string) (uint64, error) {
	resp, err := s.client.CloseFailedProject(ctx, &api.ProjectRequest{Owner: owner})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.Amount, nil
}

func (s *GRPCClient) GetProject(ctx context.Context, owner string) (*api.Project, error) {
	resp, err := s.client.GetProject(ctx, &api.ProjectRequest{Owner: owner})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.GetProject(), nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
