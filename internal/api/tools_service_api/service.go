package tools_service_api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	serviceName       = "agentair.tools.v1.ToolsService"
	listToolsFullName = "/" + serviceName + "/ListTools"
	callToolFullName  = "/" + serviceName + "/CallTool"
)

// ToolsServiceServer uses well-known message types only, so no generated
// code is needed.
type ToolsServiceServer interface {
	ListTools(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	CallTool(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var ToolsService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ToolsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListTools", Handler: listToolsHandler},
		{MethodName: "CallTool", Handler: callToolHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "agentair/tools/v1/tools.proto",
}

func RegisterToolsServiceServer(s grpc.ServiceRegistrar, srv ToolsServiceServer) {
	s.RegisterService(&ToolsService_ServiceDesc, srv)
}

func listToolsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ToolsServiceServer).ListTools(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listToolsFullName}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(ToolsServiceServer).ListTools(ctx, req.(*emptypb.Empty))
	})
}

func callToolHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ToolsServiceServer).CallTool(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: callToolFullName}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(ToolsServiceServer).CallTool(ctx, req.(*structpb.Struct))
	})
}

// Client is a thin client for ToolsService.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) ListTools(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, listToolsFullName, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CallTool(ctx context.Context, name string, args map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(map[string]any{"name": name})
	if err != nil {
		return nil, err
	}
	if args != nil {
		a, err := structpb.NewStruct(args)
		if err != nil {
			return nil, err
		}
		req.Fields["arguments"] = structpb.NewStructValue(a)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, callToolFullName, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
