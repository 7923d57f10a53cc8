package tools_service_api

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Domenick1991/agentair/internal/domain"
	"github.com/Domenick1991/agentair/internal/tools"
)

// Registry is satisfied by *tools.Registry.
type Registry interface {
	List() []tools.Descriptor
	Has(name string) bool
	Call(ctx context.Context, name string, args json.RawMessage) tools.Result
}

// Server exposes the tool registry over gRPC. Every call is made on
// behalf of the agent.
type Server struct {
	registry Registry
}

func NewServer(registry Registry) *Server {
	return &Server{registry: registry}
}

func (s *Server) ListTools(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(map[string]any{"tools": s.registry.List()})
}

// CallTool expects {"name": string, "arguments": object} and returns the
// tool result. Tool failures are reported inside the result, not as gRPC
// errors.
func (s *Server) CallTool(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name := req.GetFields()["name"].GetStringValue()
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "name is required")
	}
	if !s.registry.Has(name) {
		return nil, status.Errorf(codes.NotFound, "unknown tool: %s", name)
	}

	var args json.RawMessage
	if v, ok := req.GetFields()["arguments"]; ok {
		raw, err := json.Marshal(v.AsInterface())
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid arguments: %v", err)
		}
		args = raw
	}

	result := s.registry.Call(tools.WithSource(ctx, domain.SourceAgent), name, args)
	return toStruct(result)
}

// toStruct round-trips v through JSON so struct tags decide field names.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("failed to encode response: %v", err))
	}
	return out, nil
}
