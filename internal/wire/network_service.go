package wire

import (
	"context"

	"google.golang.org/grpc"
)

// NetworkServiceServer is implemented by the Network coordinator (§4.4).
type NetworkServiceServer interface {
	AddNode(context.Context, *AddNodeRequest) (*AddNodeResponse, error)
	StartNetwork(context.Context, *StartNetworkRequest) (*StartNetworkResponse, error)
	GetTargetGlobalPosition(context.Context, *GetTargetGlobalPositionRequest) (*GetTargetGlobalPositionResponse, error)
}

func _NetworkService_AddNode_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(AddNodeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NetworkServiceServer).AddNode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/multilatsensornet.NetworkService/AddNode",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NetworkServiceServer).AddNode(ctx, req.(*AddNodeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _NetworkService_StartNetwork_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(StartNetworkRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NetworkServiceServer).StartNetwork(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/multilatsensornet.NetworkService/StartNetwork",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NetworkServiceServer).StartNetwork(ctx, req.(*StartNetworkRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _NetworkService_GetTargetGlobalPosition_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetTargetGlobalPositionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NetworkServiceServer).GetTargetGlobalPosition(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/multilatsensornet.NetworkService/GetTargetGlobalPosition",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NetworkServiceServer).GetTargetGlobalPosition(ctx, req.(*GetTargetGlobalPositionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// NetworkServiceServiceDesc is the hand-authored equivalent of what
// protoc-gen-go-grpc would emit for NetworkService.
var NetworkServiceServiceDesc = grpc.ServiceDesc{
	ServiceName: "multilatsensornet.NetworkService",
	HandlerType: (*NetworkServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AddNode", Handler: _NetworkService_AddNode_Handler},
		{MethodName: "StartNetwork", Handler: _NetworkService_StartNetwork_Handler},
		{MethodName: "GetTargetGlobalPosition", Handler: _NetworkService_GetTargetGlobalPosition_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "multilatsensornet/network_service.wire",
}

// NetworkServiceClient is a thin wrapper around grpc.ClientConn.Invoke,
// mirroring what a generated client stub would look like.
type NetworkServiceClient struct {
	cc *grpc.ClientConn
}

// NewNetworkServiceClient builds a client for NetworkService over cc.
func NewNetworkServiceClient(cc *grpc.ClientConn) *NetworkServiceClient {
	return &NetworkServiceClient{cc: cc}
}

func (c *NetworkServiceClient) AddNode(ctx context.Context, in *AddNodeRequest, opts ...grpc.CallOption) (*AddNodeResponse, error) {
	out := new(AddNodeResponse)
	if err := c.cc.Invoke(ctx, "/multilatsensornet.NetworkService/AddNode", in, out, append(callOpts(), opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *NetworkServiceClient) StartNetwork(ctx context.Context, in *StartNetworkRequest, opts ...grpc.CallOption) (*StartNetworkResponse, error) {
	out := new(StartNetworkResponse)
	if err := c.cc.Invoke(ctx, "/multilatsensornet.NetworkService/StartNetwork", in, out, append(callOpts(), opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *NetworkServiceClient) GetTargetGlobalPosition(ctx context.Context, in *GetTargetGlobalPositionRequest, opts ...grpc.CallOption) (*GetTargetGlobalPositionResponse, error) {
	out := new(GetTargetGlobalPositionResponse)
	if err := c.cc.Invoke(ctx, "/multilatsensornet.NetworkService/GetTargetGlobalPosition", in, out, append(callOpts(), opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}

// callOpts forces every client call onto the JSON codec regardless of what
// content-subtype the transport would otherwise negotiate.
func callOpts() []grpc.CallOption {
	return []grpc.CallOption{grpc.CallContentSubtype(CodecName)}
}
