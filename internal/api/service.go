package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "fundingme.v1.FundingService"

const (
	FundingService_Ping_FullMethodName               = "/" + ServiceName + "/Ping"
	FundingService_Login_FullMethodName              = "/" + ServiceName + "/Login"
	FundingService_Airdrop_FullMethodName            = "/" + ServiceName + "/Airdrop"
	FundingService_Balance_FullMethodName            = "/" + ServiceName + "/Balance"
	FundingService_CreateProject_FullMethodName      = "/" + ServiceName + "/CreateProject"
	FundingService_Donate_FullMethodName             = "/" + ServiceName + "/Donate"
	FundingService_CloseProject_FullMethodName       = "/" + ServiceName + "/CloseProject"
	FundingService_ClaimRefund_FullMethodName        = "/" + ServiceName + "/ClaimRefund"
	FundingService_GetDonatorCount_FullMethodName    = "/" + ServiceName + "/GetDonatorCount"
	FundingService_Withdraw_FullMethodName           = "/" + ServiceName + "/Withdraw"
	FundingService_CloseFailedProject_FullMethodName = "/" + ServiceName + "/CloseFailedProject"
	FundingService_GetProject_FullMethodName         = "/" + ServiceName + "/GetProject"
)

// FundingServiceServer is the server API for FundingService.
type FundingServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Airdrop(context.Context, *AirdropRequest) (*AirdropResponse, error)
	Balance(context.Context, *BalanceRequest) (*BalanceResponse, error)
	CreateProject(context.Context, *CreateProjectRequest) (*ProjectResponse, error)
	Donate(context.Context, *DonateRequest) (*ProjectResponse, error)
	CloseProject(context.Context, *ProjectRequest) (*ProjectResponse, error)
	ClaimRefund(context.Context, *ProjectRequest) (*RefundResponse, error)
	GetDonatorCount(context.Context, *ProjectRequest) (*DonatorCountResponse, error)
	Withdraw(context.Context, *ProjectRequest) (*PayoutResponse, error)
	CloseFailedProject(context.Context, *ProjectRequest) (*PayoutResponse, error)
	GetProject(context.Context, *ProjectRequest) (*ProjectResponse, error)
}

// UnimplementedFundingServiceServer answers every method with
// codes.Unimplemented. Embed it to stay forward compatible.
type UnimplementedFundingServiceServer struct{}

func (UnimplementedFundingServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedFundingServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedFundingServiceServer) Airdrop(context.Context, *AirdropRequest) (*AirdropResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Airdrop not implemented")
}
func (UnimplementedFundingServiceServer) Balance(context.Context, *BalanceRequest) (*BalanceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Balance not implemented")
}
func (UnimplementedFundingServiceServer) CreateProject(context.Context, *CreateProjectRequest) (*ProjectResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateProject not implemented")
}
func (UnimplementedFundingServiceServer) Donate(context.Context, *DonateRequest) (*ProjectResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Donate not implemented")
}
func (UnimplementedFundingServiceServer) CloseProject(context.Context, *ProjectRequest) (*ProjectResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CloseProject not implemented")
}
func (UnimplementedFundingServiceServer) ClaimRefund(context.Context, *ProjectRequest) (*RefundResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ClaimRefund not implemented")
}
func (UnimplementedFundingServiceServer) GetDonatorCount(context.Context, *ProjectRequest) (*DonatorCountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDonatorCount not implemented")
}
func (UnimplementedFundingServiceServer) Withdraw(context.Context, *ProjectRequest) (*PayoutResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Withdraw not implemented")
}
func (UnimplementedFundingServiceServer) CloseFailedProject(context.Context, *ProjectRequest) (*PayoutResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CloseFailedProject not implemented")
}
func (UnimplementedFundingServiceServer) GetProject(context.Context, *ProjectRequest) (*ProjectResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProject not implemented")
}

func RegisterFundingServiceServer(s grpc.ServiceRegistrar, srv FundingServiceServer) {
	s.RegisterService(&FundingService_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to grpc.MethodHandler.
func unaryHandler[Req, Resp any](fullMethod string, call func(FundingServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FundingServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(FundingServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var FundingService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FundingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unaryHandler(FundingService_Ping_FullMethodName, FundingServiceServer.Ping)},
		{MethodName: "Login", Handler: unaryHandler(FundingService_Login_FullMethodName, FundingServiceServer.Login)},
		{MethodName: "Airdrop", Handler: unaryHandler(FundingService_Airdrop_FullMethodName, FundingServiceServer.Airdrop)},
		{MethodName: "Balance", Handler: unaryHandler(FundingService_Balance_FullMethodName, FundingServiceServer.Balance)},
		{MethodName: "CreateProject", Handler: unaryHandler(FundingService_CreateProject_FullMethodName, FundingServiceServer.CreateProject)},
		{MethodName: "Donate", Handler: unaryHandler(FundingService_Donate_FullMethodName, FundingServiceServer.Donate)},
		{MethodName: "CloseProject", Handler: unaryHandler(FundingService_CloseProject_FullMethodName, FundingServiceServer.CloseProject)},
		{MethodName: "ClaimRefund", Handler: unaryHandler(FundingService_ClaimRefund_FullMethodName, FundingServiceServer.ClaimRefund)},
		{MethodName: "GetDonatorCount", Handler: unaryHandler(FundingService_GetDonatorCount_FullMethodName, FundingServiceServer.GetDonatorCount)},
		{MethodName: "Withdraw", Handler: unaryHandler(FundingService_Withdraw_FullMethodName, FundingServiceServer.Withdraw)},
		{MethodName: "CloseFailedProject", Handler: unaryHandler(FundingService_CloseFailedProject_FullMethodName, FundingServiceServer.CloseFailedProject)},
		{MethodName: "GetProject", Handler: unaryHandler(FundingService_GetProject_FullMethodName, FundingServiceServer.GetProject)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fundingme/v1/funding.proto",
}

// FundingServiceClient is the client API for FundingService. Every call is
// sent with the JSON content subtype.
type FundingServiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	Airdrop(ctx context.Context, in *AirdropRequest, opts ...grpc.CallOption) (*AirdropResponse, error)
	Balance(ctx context.Context, in *BalanceRequest, opts ...grpc.CallOption) (*BalanceResponse, error)
	CreateProject(ctx context.Context, in *CreateProjectRequest, opts ...grpc.CallOption) (*ProjectResponse, error)
	Donate(ctx context.Context, in *DonateRequest, opts ...grpc.CallOption) (*ProjectResponse, error)
	CloseProject(ctx context.Context, in *ProjectRequest, opts ...grpc.CallOption) (*ProjectResponse, error)
	ClaimRefund(ctx context.Context, in *ProjectRequest, opts ...grpc.CallOption) (*RefundResponse, error)
	GetDonatorCount(ctx context.Context, in *ProjectRequest, opts ...grpc.CallOption) (*DonatorCountResponse, error)
	Withdraw(ctx context.Context, in *ProjectRequest, opts ...grpc.CallOption) (*PayoutResponse, error)
	CloseFailedProject(ctx context.Context, in *ProjectRequest, opts ...grpc.CallOption) (*PayoutResponse, error)
	GetProject(ctx context.Context, in *ProjectRequest, opts ...grpc.CallOption) (*ProjectResponse, error)
}

type fundingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewFundingServiceClient(cc grpc.ClientConnInterface) FundingServiceClient {
	return &fundingServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fundingServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, FundingService_Ping_FullMethodName, in, opts)
}

func (c *fundingServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, FundingService_Login_FullMethodName, in, opts)
}

func (c *fundingServiceClient) Airdrop(ctx context.Context, in *AirdropRequest, opts ...grpc.CallOption) (*AirdropResponse, error) {
	return invoke[AirdropResponse](ctx, c.cc, FundingService_Airdrop_FullMethodName, in, opts)
}

func (c *fundingServiceClient) Balance(ctx context.Context, in *BalanceRequest, opts ...grpc.CallOption) (*BalanceResponse, error) {
	return invoke[BalanceResponse](ctx, c.cc, FundingService_Balance_FullMethodName, in, opts)
}

func (c *fundingServiceClient) CreateProject(ctx context.Context, in *CreateProjectRequest, opts ...grpc.CallOption) (*ProjectResponse, error) {
	return invoke[ProjectResponse](ctx, c.cc, FundingService_CreateProject_FullMethodName, in, opts)
}

func (c *fundingServiceClient) Donate(ctx context.Context, in *DonateRequest, opts ...grpc.CallOption) (*ProjectResponse, error) {
	return invoke[ProjectResponse](ctx, c.cc, FundingService_Donate_FullMethodName, in, opts)
}

func (c *fundingServiceClient) CloseProject(ctx context.Context, in *ProjectRequest, opts ...grpc.CallOption) (*ProjectResponse, error) {
	return invoke[ProjectResponse](ctx, c.cc, FundingService_CloseProject_FullMethodName, in, opts)
}

func (c *fundingServiceClient) ClaimRefund(ctx context.Context, in *ProjectRequest, opts ...grpc.CallOption) (*RefundResponse, error) {
	return invoke[RefundResponse](ctx, c.cc, FundingService_ClaimRefund_FullMethodName, in, opts)
}

func (c *fundingServiceClient) GetDonatorCount(ctx context.Context, in *ProjectRequest, opts ...grpc.CallOption) (*DonatorCountResponse, error) {
	return invoke[DonatorCountResponse](ctx, c.cc, FundingService_GetDonatorCount_FullMethodName, in, opts)
}

func (c *fundingServiceClient) Withdraw(ctx context.Context, in *ProjectRequest, opts ...grpc.CallOption) (*PayoutResponse, error) {
	return invoke[PayoutResponse](ctx, c.cc, FundingService_Withdraw_FullMethodName, in, opts)
}

func (c *fundingServiceClient) CloseFailedProject(ctx context.Context, in *ProjectRequest, opts ...grpc.CallOption) (*PayoutResponse, error) {
	return invoke[PayoutResponse](ctx, c.cc, FundingService_CloseFailedProject_FullMethodName, in, opts)
}

func (c *fundingServiceClient) GetProject(ctx context.Context, in *ProjectRequest, opts ...grpc.CallOption) (*ProjectResponse, error) {
	return invoke[ProjectResponse](ctx, c.cc, FundingService_GetProject_FullMethodName, in, opts)
}
