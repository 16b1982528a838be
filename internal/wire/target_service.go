package wire

import (
	"context"

	"google.golang.org/grpc"
)

// TargetServiceServer is implemented by the Target (§4.6).
type TargetServiceServer interface {
	GetPosition(context.Context, *GetPositionRequest) (*GetPositionResponse, error)
}

func _TargetService_GetPosition_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetPositionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TargetServiceServer).GetPosition(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/multilatsensornet.TargetService/GetPosition",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TargetServiceServer).GetPosition(ctx, req.(*GetPositionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// TargetServiceServiceDesc is the hand-authored equivalent of what
// protoc-gen-go-grpc would emit for TargetService.
var TargetServiceServiceDesc = grpc.ServiceDesc{
	ServiceName: "multilatsensornet.TargetService",
	HandlerType: (*TargetServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetPosition", Handler: _TargetService_GetPosition_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "multilatsensornet/target_service.wire",
}

// TargetServiceClient is a thin wrapper around grpc.ClientConn.Invoke.
type TargetServiceClient struct {
	cc *grpc.ClientConn
}

// NewTargetServiceClient builds a client for TargetService over cc.
func NewTargetServiceClient(cc *grpc.ClientConn) *TargetServiceClient {
	return &TargetServiceClient{cc: cc}
}

func (c *TargetServiceClient) GetPosition(ctx context.Context, in *GetPositionRequest, opts ...grpc.CallOption) (*GetPositionResponse, error) {
	out := new(GetPositionResponse)
	if err := c.cc.Invoke(ctx, "/multilatsensornet.TargetService/GetPosition", in, out, append(callOpts(), opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}
