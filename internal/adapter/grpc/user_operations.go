package grpc

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"user-directory-service/internal/adapter/resolver"
	apperrors "user-directory-service/pkg/errors"
	"user-directory-service/pkg/logger"
)

// UserOperations implements the gRPC UserOperations service on top of the resolver.
type UserOperations struct {
	resolver *resolver.Resolver
	log      *zap.Logger
}

var _ UserOperationsServer = (*UserOperations)(nil)

// NewUserOperations creates a new gRPC user operations server
func NewUserOperations(r *resolver.Resolver, log *zap.Logger) *UserOperations {
	return &UserOperations{resolver: r, log: log}
}

// Execute handles gRPC Execute requests. Operation failures travel in the
// response envelope; only a malformed request is a gRPC error.
func (s *UserOperations) Execute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.AsMap()

	op, ok := fields["operation"].(string)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "Invalid argument: operation must be a string")
	}

	var args map[string]any
	if raw, present := fields["arguments"]; present && raw != nil {
		if args, ok = raw.(map[string]any); !ok {
			return nil, status.Error(codes.InvalidArgument, "Invalid argument: arguments must be an object")
		}
	}

	resp := s.resolver.Execute(ctx, resolver.Request{Operation: op, Arguments: args})

	out, err := toStruct(resp)
	if err != nil {
		logger.WithContext(ctx, s.log).Error("failed to encode response", zap.String("operation", op), zap.Error(err))
		return nil, status.Error(codes.Internal, apperrors.InternalMessage)
	}
	return out, nil
}

// toStruct converts a response to a Struct through its JSON form so field
// names match the HTTP endpoint.
func toStruct(resp resolver.Response) (*structpb.Struct, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}
