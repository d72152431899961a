package simd

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The service carries protobuf well-known types only, so no generated
// code is needed:
//
//	CreateSimulation(Struct{config_yaml, callback_url}) -> Struct
//	GetSimulation(StringValue id)                      -> Struct
//	ListSimulations(Empty)                             -> ListValue
//	StreamEvents(StringValue id)                       -> stream Struct
const (
	SimulationServiceName = "gasim.v1.SimulationService"

	createSimulationMethod = "/" + SimulationServiceName + "/CreateSimulation"
	getSimulationMethod    = "/" + SimulationServiceName + "/GetSimulation"
	listSimulationsMethod  = "/" + SimulationServiceName + "/ListSimulations"
	streamEventsMethod     = "/" + SimulationServiceName + "/StreamEvents"
)

// SimulationServiceServer is the server API of gasim.v1.SimulationService
type SimulationServiceServer interface {
	CreateSimulation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSimulation(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ListSimulations(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	StreamEvents(*wrapperspb.StringValue, SimulationService_StreamEventsServer) error
}

// SimulationService_StreamEventsServer is the server side of StreamEvents
type SimulationService_StreamEventsServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type simulationServiceStreamEventsServer struct {
	grpc.ServerStream
}

func (x *simulationServiceStreamEventsServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

// RegisterSimulationServiceServer registers srv on s
func RegisterSimulationServiceServer(s grpc.ServiceRegistrar, srv SimulationServiceServer) {
	s.RegisterService(&SimulationService_ServiceDesc, srv)
}

func _SimulationService_CreateSimulation_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SimulationServiceServer).CreateSimulation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: createSimulationMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SimulationServiceServer).CreateSimulation(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _SimulationService_GetSimulation_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SimulationServiceServer).GetSimulation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getSimulationMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SimulationServiceServer).GetSimulation(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _SimulationService_ListSimulations_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SimulationServiceServer).ListSimulations(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listSimulationsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SimulationServiceServer).ListSimulations(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _SimulationService_StreamEvents_Handler(srv any, stream grpc.ServerStream) error {
	in := new(wrapperspb.StringValue)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(SimulationServiceServer).StreamEvents(in, &simulationServiceStreamEventsServer{stream})
}

// SimulationService_ServiceDesc is the grpc.ServiceDesc for gasim.v1.SimulationService
var SimulationService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: SimulationServiceName,
	HandlerType: (*SimulationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateSimulation", Handler: _SimulationService_CreateSimulation_Handler},
		{MethodName: "GetSimulation", Handler: _SimulationService_GetSimulation_Handler},
		{MethodName: "ListSimulations", Handler: _SimulationService_ListSimulations_Handler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamEvents",
			Handler:       _SimulationService_StreamEvents_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "gasim/v1/simulation.proto",
}

// SimulationServiceClient is the client API of gasim.v1.SimulationService
type SimulationServiceClient interface {
	CreateSimulation(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetSimulation(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListSimulations(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	StreamEvents(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (SimulationService_StreamEventsClient, error)
}

type simulationServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSimulationServiceClient(cc grpc.ClientConnInterface) SimulationServiceClient {
	return &simulationServiceClient{cc}
}

func (c *simulationServiceClient) CreateSimulation(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, createSimulationMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *simulationServiceClient) GetSimulation(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getSimulationMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *simulationServiceClient) ListSimulations(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, listSimulationsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// SimulationService_StreamEventsClient is the client side of StreamEvents
type SimulationService_StreamEventsClient interface {
	Recv() (*structpb.Struct, error)
	grpc.ClientStream
}

type simulationServiceStreamEventsClient struct {
	grpc.ClientStream
}

func (x *simulationServiceStreamEventsClient) Recv() (*structpb.Struct, error) {
	m := new(structpb.Struct)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *simulationServiceClient) StreamEvents(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (SimulationService_StreamEventsClient, error) {
	stream, err := c.cc.NewStream(ctx, &SimulationService_ServiceDesc.Streams[0], streamEventsMethod, opts...)
	if err != nil {
		return nil, err
	}
	x := &simulationServiceStreamEventsClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
