package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "userdirectory.v1.UserOperations"
	// ExecuteMethod is the full method name of UserOperations.Execute.
	ExecuteMethod = "/" + ServiceName + "/Execute"
)

// UserOperationsServer executes one named operation. Request and response
// carry the same shapes as the HTTP operation endpoint.
type UserOperationsServer interface {
	Execute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// UserOperationsServiceDesc describes the UserOperations service. Messages are
// google.protobuf.Struct, so no generated stubs are needed.
var UserOperationsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UserOperationsServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Execute",
			Handler:    executeHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "userdirectory/v1/user_operations.proto",
}

func executeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserOperationsServer).Execute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ExecuteMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(UserOperationsServer).Execute(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// RegisterUserOperationsServer registers srv on s.
func RegisterUserOperationsServer(s grpc.ServiceRegistrar, srv UserOperationsServer) {
	s.RegisterService(&UserOperationsServiceDesc, srv)
}

// UserOperationsClient calls the UserOperations service.
type UserOperationsClient struct {
	cc grpc.ClientConnInterface
}

// NewUserOperationsClient creates a client over cc.
func NewUserOperationsClient(cc grpc.ClientConnInterface) *UserOperationsClient {
	return &UserOperationsClient{cc: cc}
}

// Execute invokes UserOperations.Execute.
func (c *UserOperationsClient) Execute(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ExecuteMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
