package grpc_server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "zenmindful.v1.ChallengeService"

// ChallengeServiceServer is the challenge API. Messages are plain
// google.protobuf.Struct values carrying the same JSON shapes as HTTP.
type ChallengeServiceServer interface {
	Join(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordProgress(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProgress(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCompleted(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(ChallengeServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ChallengeServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ChallengeServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

var ChallengeServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChallengeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Join", ChallengeServiceServer.Join),
		unary("RecordProgress", ChallengeServiceServer.RecordProgress),
		unary("GetProgress", ChallengeServiceServer.GetProgress),
		unary("ListCompleted", ChallengeServiceServer.ListCompleted),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "zenmindful/v1/challenge.proto",
}

func RegisterChallengeServiceServer(s grpc.ServiceRegistrar, srv ChallengeServiceServer) {
	s.RegisterService(&ChallengeServiceDesc, srv)
}
