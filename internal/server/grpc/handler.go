package grpc

import (
	"context"
	"time"

	"github.com/mcamera/school-of-solana-season-8/internal/api"
	"github.com/mcamera/school-of-solana-season-8/internal/identity"
	"github.com/mcamera/school-of-solana-season-8/internal/safe"
	"github.com/mcamera/school-of-solana-season-8/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {

	return &api.PingResponse{Status: "OK"}, nil

}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {

	id, err := parseIdentity("identity", req.Identity)
	if err != nil {
		return nil, err
	}

	token, err := s.auth.Login(ctx, id, time.Unix(req.SignedAt, 0), req.Signature)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.LoginResponse{AccessToken: token}, nil

}

func (s *GRPCServer) Airdrop(ctx context.Context, req *api.AirdropRequest) (*api.AirdropResponse, error) {

	caller, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	balance, err := s.accounts.Airdrop(ctx, caller, req.Amount)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.AirdropResponse{Balance: balance}, nil

}

func (s *GRPCServer) Balance(ctx context.Context, req *api.BalanceRequest) (*api.BalanceResponse, error) {

	addr, err := identity.ParseAddress(req.Address)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "address: %v", err)
	}

	lamports, err := s.accounts.Balance(ctx, addr)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.BalanceResponse{Lamports: lamports}, nil

}

func (s *GRPCServer) CreateProject(ctx context.Context, req *api.CreateProjectRequest) (*api.ProjectResponse, error) {

	caller, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.projects.CreateProject(ctx, caller, req.Name, req.FinancialTarget)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.ProjectResponse{Project: toAPIProject(p)}, nil

}

func (s *GRPCServer) Donate(ctx context.Context, req *api.DonateRequest) (*api.ProjectResponse, error) {

	caller, owner, err := s.callerAndOwner(ctx, req.Owner)
	if err != nil {
		return nil, err
	}

	p, err := s.projects.Donate(ctx, caller, owner, req.Amount)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.ProjectResponse{Project: toAPIProject(p)}, nil

}

func (s *GRPCServer) CloseProject(ctx context.Context, req *api.ProjectRequest) (*api.ProjectResponse, error) {

	caller, owner, err := s.callerAndOwner(ctx, req.Owner)
	if err != nil {
		return nil, err
	}

	p, err := s.projects.CloseProject(ctx, caller, owner)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.ProjectResponse{Project: toAPIProject(p)}, nil

}

func (s *GRPCServer) ClaimRefund(ctx context.Context, req *api.ProjectRequest) (*api.RefundResponse, error) {

	caller, owner, err := s.callerAndOwner(ctx, req.Owner)
	if err != nil {
		return nil, err
	}

	d, err := s.projects.ClaimRefund(ctx, caller, owner)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.RefundResponse{Amount: d.Amount}, nil

}

func (s *GRPCServer) GetDonatorCount(ctx context.Context, req *api.ProjectRequest) (*api.DonatorCountResponse, error) {

	owner, err := parseIdentity("owner", req.Owner)
	if err != nil {
		return nil, err
	}

	n, err := s.projects.GetDonatorCount(ctx, owner)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	count, err := safe.Uint32(n)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.DonatorCountResponse{Count: count}, nil

}

func (s *GRPCServer) Withdraw(ctx context.Context, req *api.ProjectRequest) (*api.PayoutResponse, error) {

	caller, owner, err := s.callerAndOwner(ctx, req.Owner)
	if err != nil {
		return nil, err
	}

	amount, err := s.projects.Withdraw(ctx, caller, owner)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.PayoutResponse{Amount: amount}, nil

}

func (s *GRPCServer) CloseFailedProject(ctx context.Context, req *api.ProjectRequest) (*api.PayoutResponse, error) {

	caller, owner, err := s.callerAndOwner(ctx, req.Owner)
	if err != nil {
		return nil, err
	}

	amount, err := s.projects.CloseFailedProject(ctx, caller, owner)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.PayoutResponse{Amount: amount}, nil

}

func (s *GRPCServer) GetProject(ctx context.Context, req *api.ProjectRequest) (*api.ProjectResponse, error) {

	owner, err := parseIdentity("owner", req.Owner)
	if err != nil {
		return nil, err
	}

	p, err := s.projects.GetProject(ctx, owner)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.ProjectResponse{Project: toAPIProject(p)}, nil

}

func (s *GRPCServer) callerAndOwner(ctx context.Context, rawOwner string) (identity.Identity, identity.Identity, error) {
	caller, err := callerFromContext(ctx)
	if err != nil {
		return identity.Identity{}, identity.Identity{}, err
	}
	owner, err := parseIdentity("owner", rawOwner)
	if err != nil {
		return identity.Identity{}, identity.Identity{}, err
	}
	return caller, owner, nil
}

func parseIdentity(field, raw string) (identity.Identity, error) {
	id, err := identity.Parse(raw)
	if err != nil {
		return identity.Identity{}, status.Errorf(codes.InvalidArgument, "%s: %v", field, err)
	}
	return id, nil
}

func toAPIProject(p *models.Project) *api.Project {
	donors := make([]api.Donor, 0, len(p.Donors))
	for _, d := range p.Donors {
		donors = append(donors, api.Donor{Identity: d.Identity.String(), Amount: d.Amount})
	}
	return &api.Project{
		Address:         p.Address.String(),
		Owner:           p.Owner.String(),
		Name:            p.Name,
		FinancialTarget: p.FinancialTarget,
		Balance:         p.Balance,
		Status:          p.Status.String(),
		Donors:          donors,
		Bump:            p.Bump,
	}
}
