package grpc

// service.go describes loanrisk.v1.RiskEngineService by hand. Messages are
// the application DTOs carried by the JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/domain/model"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "loanrisk.v1.RiskEngineService"

// RiskEngineServiceServer is the server API for RiskEngineService.
type RiskEngineServiceServer interface {
	VerifyDocument(context.Context, *dto.VerifyDocumentRequest) (*model.VerificationResult, error)
	AssessApplication(context.Context, *dto.AssessApplicationRequest) (*dto.AssessApplicationResponse, error)
	AssessRisk(context.Context, *dto.AssessRiskRequest) (*model.RiskAssessment, error)
	Decide(context.Context, *dto.DecideRequest) (*model.DecisionResult, error)
	BuildSchedule(context.Context, *dto.BuildScheduleRequest) (*dto.ScheduleResponse, error)
	GetDecision(context.Context, *dto.GetDecisionRequest) (*dto.DecisionResponse, error)
}

// RegisterRiskEngineServiceServer registers srv with s.
func RegisterRiskEngineServiceServer(s grpclib.ServiceRegistrar, srv RiskEngineServiceServer) {
	s.RegisterService(&riskEngineServiceDesc, srv)
}

var riskEngineServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RiskEngineServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		unary("VerifyDocument", RiskEngineServiceServer.VerifyDocument),
		unary("AssessApplication", RiskEngineServiceServer.AssessApplication),
		unary("AssessRisk", RiskEngineServiceServer.AssessRisk),
		unary("Decide", RiskEngineServiceServer.Decide),
		unary("BuildSchedule", RiskEngineServiceServer.BuildSchedule),
		unary("GetDecision", RiskEngineServiceServer.GetDecision),
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "loanrisk/v1/risk_engine.proto",
}

func unary[Req, Resp any](
	method string,
	call func(RiskEngineServiceServer, context.Context, *Req) (*Resp, error),
) grpclib.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + method
	return grpclib.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(RiskEngineServiceServer), ctx, in)
			}
			info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(RiskEngineServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// RiskEngineServiceClient calls RiskEngineService over the JSON codec.
type RiskEngineServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewRiskEngineServiceClient wraps a client connection.
func NewRiskEngineServiceClient(cc grpclib.ClientConnInterface) *RiskEngineServiceClient {
	return &RiskEngineServiceClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpclib.ClientConnInterface, method string, in *Req, opts []grpclib.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RiskEngineServiceClient) VerifyDocument(ctx context.Context, in *dto.VerifyDocumentRequest, opts ...grpclib.CallOption) (*model.VerificationResult, error) {
	return invoke[dto.VerifyDocumentRequest, model.VerificationResult](ctx, c.cc, "VerifyDocument", in, opts)
}

func (c *RiskEngineServiceClient) AssessApplication(ctx context.Context, in *dto.AssessApplicationRequest, opts ...grpclib.CallOption) (*dto.AssessApplicationResponse, error) {
	return invoke[dto.AssessApplicationRequest, dto.AssessApplicationResponse](ctx, c.cc, "AssessApplication", in, opts)
}

func (c *RiskEngineServiceClient) AssessRisk(ctx context.Context, in *dto.AssessRiskRequest, opts ...grpclib.CallOption) (*model.RiskAssessment, error) {
	return invoke[dto.AssessRiskRequest, model.RiskAssessment](ctx, c.cc, "AssessRisk", in, opts)
}

func (c *RiskEngineServiceClient) Decide(ctx context.Context, in *dto.DecideRequest, opts ...grpclib.CallOption) (*model.DecisionResult, error) {
	return invoke[dto.DecideRequest, model.DecisionResult](ctx, c.cc, "Decide", in, opts)
}

func (c *RiskEngineServiceClient) BuildSchedule(ctx context.Context, in *dto.BuildScheduleRequest, opts ...grpclib.CallOption) (*dto.ScheduleResponse, error) {
	return invoke[dto.BuildScheduleRequest, dto.ScheduleResponse](ctx, c.cc, "BuildSchedule", in, opts)
}

func (c *RiskEngineServiceClient) GetDecision(ctx context.Context, in *dto.GetDecisionRequest, opts ...grpclib.CallOption) (*dto.DecisionResponse, error) {
	return invoke[dto.GetDecisionRequest, dto.DecisionResponse](ctx, c.cc, "GetDecision", in, opts)
}
