package stateapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "mudproxy.state.v1.StateService"

// Full method names.
const (
	MethodListSessions = "/" + ServiceName + "/ListSessions"
	MethodSnapshot     = "/" + ServiceName + "/Snapshot"
	MethodFlag         = "/" + ServiceName + "/Flag"
	MethodSetFlag      = "/" + ServiceName + "/SetFlag"
)

// StateServer is the server API for the state service. Requests and
// responses are structpb.Struct values so external tools need no generated
// stubs.
type StateServer interface {
	// ListSessions returns {"sessions": [id, ...]}.
	ListSessions(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// Snapshot takes {"session_id"} and returns the session state.
	Snapshot(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// Flag takes {"session_id", "key"} and returns {"key", "value", "match"}.
	Flag(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// SetFlag takes {"session_id", "key", "value"} and returns {"key", "value"}.
	SetFlag(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterStateServer registers srv on s.
func RegisterStateServer(s grpc.ServiceRegistrar, srv StateServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes the state service to grpc.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StateServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListSessions", Handler: listSessionsHandler},
		{MethodName: "Snapshot", Handler: structHandler(MethodSnapshot, StateServer.Snapshot)},
		{MethodName: "Flag", Handler: structHandler(MethodFlag, StateServer.Flag)},
		{MethodName: "SetFlag", Handler: structHandler(MethodSetFlag, StateServer.SetFlag)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mudproxy/state/v1/state.proto",
}

func listSessionsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StateServer).ListSessions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodListSessions}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StateServer).ListSessions(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

type structMethod func(StateServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func structHandler(fullMethod string, call structMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(StateServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(StateServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
