package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mcamera/school-of-solana-season-8/internal/api"
	"github.com/mcamera/school-of-solana-season-8/internal/common"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
	"github.com/mcamera/school-of-solana-season-8/internal/logging"
	"github.com/mcamera/school-of-solana-season-8/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ---- fakes ----

type fakeProjects struct {
	project *models.Project
	donor   models.Donor
	count   int
	payout  uint64
	err     error

	lastCaller identity.Identity
	lastOwner  identity.Identity
	lastAmount uint64
	lastName   string
}

func (f *fakeProjects) CreateProject(_ context.Context, caller identity.Identity, name string, target uint64) (*models.Project, error) {
	f.lastCaller, f.lastName, f.lastAmount = caller, name, target
	return f.project, f.err
}
func (f *fakeProjects) Donate(_ context.Context, donor, owner identity.Identity, amount uint64) (*models.Project, error) {
	f.lastCaller, f.lastOwner, f.lastAmount = donor, owner, amount
	return f.project, f.err
}
func (f *fakeProjects) CloseProject(_ context.Context, caller, owner identity.Identity) (*models.Project, error) {
	f.lastCaller, f.lastOwner = caller, owner
	return f.project, f.err
}
func (f *fakeProjects) ClaimRefund(_ context.Context, donor, owner identity.Identity) (models.Donor, error) {
	f.lastCaller, f.lastOwner = donor, owner
	return f.donor, f.err
}
func (f *fakeProjects) GetDonatorCount(_ context.Context, owner identity.Identity) (int, error) {
	f.lastOwner = owner
	return f.count, f.err
}
func (f *fakeProjects) GetProject(_ context.Context, owner identity.Identity) (*models.Project, error) {
	f.lastOwner = owner
	return f.project, f.err
}
func (f *fakeProjects) Withdraw(_ context.Context, caller, owner identity.Identity) (uint64, error) {
	f.lastCaller, f.lastOwner = caller, owner
	return f.payout, f.err
}
func (f *fakeProjects) CloseFailedProject(_ context.Context, caller, owner identity.Identity) (uint64, error) {
	f.lastCaller, f.lastOwner = caller, owner
	return f.payout, f.err
}

type fakeAccounts struct {
	balance uint64
	err     error
	lastID  identity.Identity
	lastAdr identity.Address
}

func (f *fakeAccounts) Airdrop(_ context.Context, id identity.Identity, amount uint64) (uint64, error) {
	f.lastID = id
	return f.balance + amount, f.err
}
func (f *fakeAccounts) Balance(_ context.Context, addr identity.Address) (uint64, error) {
	f.lastAdr = addr
	return f.balance, f.err
}

type fakeAuth struct {
	token string
	err   error
	at    time.Time
}

func (f *fakeAuth) Login(_ context.Context, _ identity.Identity, signedAt time.Time, _ []byte) (string, error) {
	f.at = signedAt
	return f.token, f.err
}

// ---- helpers ----

func user(b byte) identity.Identity {
	var id identity.Identity
	for i := range id {
		id[i] = b + byte(i)
	}
	return id
}

var (
	ownerID  = user(10)
	callerID = user(20)
)

func newServer(p projectSvc, a accountSvc, au authSvc) *GRPCServer {
	return &GRPCServer{
		address:   "127.0.0.1:0",
		projects:  p,
		accounts:  a,
		auth:      au,
		logger:    logging.Nop{},
		jwtSecret: []byte("k"),
	}
}

func authed() context.Context {
	return withCaller(context.Background(), callerID)
}

func sampleProject() *models.Project {
	addr, bump, err := identity.FindProjectAddress(ownerID)
	if err != nil {
		panic(err)
	}
	return &models.Project{
		Address:         addr,
		Owner:           ownerID,
		Name:            "library",
		FinancialTarget: 500,
		Balance:         200,
		Status:          models.StatusActive,
		Donors:          []models.Donor{{Identity: callerID, Amount: 200}},
		Bump:            bump,
	}
}

func requireCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, status.Code(err), "err: %v", err)
}

// ---- tests ----

func TestPing_OK(t *testing.T) {
	s := newServer(&fakeProjects{}, &fakeAccounts{}, &fakeAuth{})
	resp, err := s.Ping(context.Background(), &api.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Status)
}

func TestLogin(t *testing.T) {
	au := &fakeAuth{token: "tok"}
	s := newServer(&fakeProjects{}, &fakeAccounts{}, au)

	resp, err := s.Login(context.Background(), &api.LoginRequest{Identity: callerID.String(), SignedAt: 1700000000, Signature: []byte{1}})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.AccessToken)
	assert.Equal(t, int64(1700000000), au.at.Unix())

	_, err = s.Login(context.Background(), &api.LoginRequest{Identity: "not base58 !"})
	requireCode(t, err, codes.InvalidArgument)

	au.err = common.Op("login", common.ErrInvalidSignature)
	_, err = s.Login(context.Background(), &api.LoginRequest{Identity: callerID.String()})
	requireCode(t, err, codes.Unauthenticated)
}

func TestCreateProject_UsesCallerFromContext(t *testing.T) {
	p := &fakeProjects{project: sampleProject()}
	s := newServer(p, &fakeAccounts{}, &fakeAuth{})

	resp, err := s.CreateProject(authed(), &api.CreateProjectRequest{Name: "library", FinancialTarget: 500})
	require.NoError(t, err)
	assert.Equal(t, callerID, p.lastCaller)
	assert.Equal(t, "library", p.lastName)
	assert.Equal(t, uint64(500), p.lastAmount)

	got := resp.GetProject()
	require.NotNil(t, got)
	assert.Equal(t, ownerID.String(), got.Owner)
	assert.Equal(t, "active", got.Status)
	assert.Equal(t, []api.Donor{{Identity: callerID.String(), Amount: 200}}, got.Donors)
}

func TestMutatingHandlers_RequireCaller(t *testing.T) {
	s := newServer(&fakeProjects{project: sampleProject()}, &fakeAccounts{}, &fakeAuth{})
	ctx := context.Background()
	req := &api.ProjectRequest{Owner: ownerID.String()}

	_, err := s.CreateProject(ctx, &api.CreateProjectRequest{})
	requireCode(t, err, codes.Unauthenticated)
	_, err = s.Donate(ctx, &api.DonateRequest{Owner: ownerID.String(), Amount: 1})
	requireCode(t, err, codes.Unauthenticated)
	_, err = s.CloseProject(ctx, req)
	requireCode(t, err, codes.Unauthenticated)
	_, err = s.ClaimRefund(ctx, req)
	requireCode(t, err, codes.Unauthenticated)
	_, err = s.Withdraw(ctx, req)
	requireCode(t, err, codes.Unauthenticated)
	_, err = s.CloseFailedProject(ctx, req)
	requireCode(t, err, codes.Unauthenticated)
	_, err = s.Airdrop(ctx, &api.AirdropRequest{Amount: 1})
	requireCode(t, err, codes.Unauthenticated)
}

func TestDonate_PassesOwnerAndAmount(t *testing.T) {
	p := &fakeProjects{project: sampleProject()}
	s := newServer(p, &fakeAccounts{}, &fakeAuth{})

	_, err := s.Donate(authed(), &api.DonateRequest{Owner: ownerID.String(), Amount: 42})
	require.NoError(t, err)
	assert.Equal(t, callerID, p.lastCaller)
	assert.Equal(t, ownerID, p.lastOwner)
	assert.Equal(t, uint64(42), p.lastAmount)

	_, err = s.Donate(authed(), &api.DonateRequest{Owner: "", Amount: 42})
	requireCode(t, err, codes.InvalidArgument)
}

func TestPayoutHandlers(t *testing.T) {
	p := &fakeProjects{payout: 1234, donor: models.Donor{Identity: callerID, Amount: 77}}
	s := newServer(p, &fakeAccounts{}, &fakeAuth{})
	req := &api.ProjectRequest{Owner: ownerID.String()}

	w, err := s.Withdraw(authed(), req)
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), w.Amount)

	c, err := s.CloseFailedProject(authed(), req)
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), c.Amount)

	r, err := s.ClaimRefund(authed(), req)
	require.NoError(t, err)
	assert.Equal(t, uint64(77), r.Amount)
	assert.Equal(t, ownerID, p.lastOwner)
}

func TestReadOnlyHandlers(t *testing.T) {
	p := &fakeProjects{project: sampleProject(), count: 3}
	a := &fakeAccounts{balance: 900}
	s := newServer(p, a, &fakeAuth{})
	ctx := context.Background()

	n, err := s.GetDonatorCount(ctx, &api.ProjectRequest{Owner: ownerID.String()})
	require.NoError(t, err)
	assert.Equal(t, uint32(3), n.Count)

	got, err := s.GetProject(ctx, &api.ProjectRequest{Owner: ownerID.String()})
	require.NoError(t, err)
	assert.Equal(t, sampleProject().Address.String(), got.Project.Address)

	b, err := s.Balance(ctx, &api.BalanceRequest{Address: got.Project.Address})
	require.NoError(t, err)
	assert.Equal(t, uint64(900), b.Lamports)
	assert.Equal(t, sampleProject().Address, a.lastAdr)

	_, err = s.Balance(ctx, &api.BalanceRequest{Address: "0OIl"})
	requireCode(t, err, codes.InvalidArgument)
}

func TestAirdrop_CreditsCaller(t *testing.T) {
	a := &fakeAccounts{balance: 5}
	s := newServer(&fakeProjects{}, a, &fakeAuth{})

	resp, err := s.Airdrop(authed(), &api.AirdropRequest{Amount: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(15), resp.Balance)
	assert.Equal(t, callerID, a.lastID)
}

func TestHandlers_MapServiceErrors(t *testing.T) {
	tests := []struct {
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
		{common.ErrAddressMismatch, codes.Internal},
		{errors.New("boom"), codes.Internal},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.err), func(t *testing.T) {
			p := &fakeProjects{err: common.Op("donate", tt.err)}
			s := newServer(p, &fakeAccounts{}, &fakeAuth{})
			_, err := s.Donate(authed(), &api.DonateRequest{Owner: ownerID.String(), Amount: 1})
			requireCode(t, err, tt.code)
		})
	}
}

func TestToStatus_HidesInternalText(t *testing.T) {
	s := newServer(&fakeProjects{}, &fakeAccounts{}, &fakeAuth{})
	err := s.toStatus(context.Background(), errors.New("db password is hunter2"))
	assert.Equal(t, "internal error", status.Convert(err).Message())
}
