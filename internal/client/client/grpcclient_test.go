package client

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"net"
	"sync"
	"testing"

	"github.com/mcamera/school-of-solana-season-8/internal/api"
	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// ---- fake server ----

type fakeServer struct {
	api.UnimplementedFundingServiceServer

	mu          sync.Mutex
	logins      int
	tokens      []string
	expireFirst bool
	donateErr   error
}

func (f *fakeServer) seenToken(ctx context.Context) string {
	md, _ := metadata.FromIncomingContext(ctx)
	v := md.Get(common.AccessTokenHeaderName)
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(v) == 0 {
		f.tokens = append(f.tokens, "")
		return ""
	}
	f.tokens = append(f.tokens, v[0])
	return v[0]
}

func (f *fakeServer) Ping(context.Context, *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (f *fakeServer) Login(_ context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	if req.Identity == "" || len(req.Signature) != ed25519.SignatureSize {
		return nil, status.Error(codes.InvalidArgument, "bad login")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins++
	return &api.LoginResponse{AccessToken: "token-" + string(rune('0'+f.logins))}, nil
}

func (f *fakeServer) Airdrop(ctx context.Context, req *api.AirdropRequest) (*api.AirdropResponse, error) {
	tok := f.seenToken(ctx)
	f.mu.Lock()
	expire := f.expireFirst && tok == "token-1"
	f.mu.Unlock()
	if expire {
		return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}
	if tok == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	return &api.AirdropResponse{Balance: req.Amount}, nil
}

func (f *fakeServer) Donate(ctx context.Context, req *api.DonateRequest) (*api.ProjectResponse, error) {
	f.seenToken(ctx)
	if f.donateErr != nil {
		return nil, f.donateErr
	}
	return &api.ProjectResponse{Project: &api.Project{Owner: req.Owner, Balance: req.Amount, Status: "active"}}, nil
}

func (f *fakeServer) GetDonatorCount(_ context.Context, _ *api.ProjectRequest) (*api.DonatorCountResponse, error) {
	return &api.DonatorCountResponse{Count: 4}, nil
}

// ---- helpers ----

func startFake(t *testing.T, f *fakeServer) *GRPCClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	api.RegisterFundingServiceServer(srv, f)
	go func() { _ = srv.Serve(lis) }()

	c, err := NewFundingClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		srv.Stop()
	})
	return c
}

func newKey(t *testing.T) ed25519.PrivateKey {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return priv
}

// ---- tests ----

func TestPing(t *testing.T) {
	c := startFake(t, &fakeServer{})
	require.NoError(t, c.Ping(context.Background()))
}

func TestLogin_AttachesTokenToLaterCalls(t *testing.T) {
	f := &fakeServer{}
	c := startFake(t, f)
	ctx := context.Background()

	_, err := c.Airdrop(ctx, 5)
	assert.ErrorIs(t, err, ErrUnauthorized)

	priv := newKey(t)
	id, err := c.Login(ctx, priv)
	require.NoError(t, err)
	assert.Equal(t, []byte(priv.Public().(ed25519.PublicKey)), id[:])

	bal, err := c.Airdrop(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), bal)
	assert.Equal(t, []string{"", "token-1"}, f.tokens)
}

func TestExpiredToken_ReLoginsAndRetries(t *testing.T) {
	f := &fakeServer{expireFirst: true}
	c := startFake(t, f)
	ctx := context.Background()

	_, err := c.Login(ctx, newKey(t))
	require.NoError(t, err)

	bal, err := c.Airdrop(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), bal)
	assert.Equal(t, 2, f.logins)
	assert.Equal(t, []string{"token-1", "token-2"}, f.tokens)
}

func TestLogout_ForgetsCredentials(t *testing.T) {
	f := &fakeServer{expireFirst: true}
	c := startFake(t, f)
	ctx := context.Background()

	_, err := c.Login(ctx, newKey(t))
	require.NoError(t, err)
	c.Logout()

	_, err = c.Airdrop(ctx, 1)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, f.logins)
}

func TestDonate_MapsServerErrors(t *testing.T) {
	tests := []struct {
		code codes.Code
		want error
	}{
		{codes.FailedPrecondition, ErrRejected},
		{codes.NotFound, ErrNotFound},
		{codes.PermissionDenied, ErrUnauthorized},
		{codes.InvalidArgument, ErrInvalidArgument},
		{codes.AlreadyExists, ErrAlreadyExists},
		{codes.Unavailable, ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			f := &fakeServer{donateErr: status.Error(tt.code, "nope")}
			c := startFake(t, f)
			_, err := c.Donate(context.Background(), "owner", 1)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDonate_ReturnsProject(t *testing.T) {
	c := startFake(t, &fakeServer{})
	p, err := c.Donate(context.Background(), "owner", 12)
	require.NoError(t, err)
	assert.Equal(t, "owner", p.Owner)
	assert.Equal(t, uint64(12), p.Balance)

	n, err := c.DonatorCount(context.Background(), "owner")
	require.NoError(t, err)
	assert.Equal(t, uint32(4), n)
}

func TestUnimplementedMethod(t *testing.T) {
	c := startFake(t, &fakeServer{})
	_, err := c.Withdraw(context.Background(), "owner")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRejected))
	assert.Contains(t, err.Error(), "rpc error")
}

func TestMapError_Nil(t *testing.T) {
	assert.NoError(t, (&GRPCClient{}).mapError(nil))
}
