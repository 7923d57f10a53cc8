// Package mcp serves the tool registry over the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Domenick1991/agentair/internal/domain"
	"github.com/Domenick1991/agentair/internal/logger"
	"github.com/Domenick1991/agentair/internal/tools"
)

const instructions = "AgentAir booking assistant. Check get_consent before anything else and ask the user when consent is pending."

// ToolCaller is satisfied by *tools.Registry.
type ToolCaller interface {
	List() []tools.Descriptor
	Call(ctx context.Context, name string, args json.RawMessage) tools.Result
}

type Server struct {
	server *mcp.Server
	log    logger.Logger
}

// NewServer registers every tool of tc on an MCP server. Calls arriving
// through it are tagged as agent calls.
func NewServer(tc ToolCaller, log logger.Logger, name, version string) *Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, &mcp.ServerOptions{
		Instructions: instructions,
	})

	descriptors := tc.List()
	for _, d := range descriptors {
		srv.AddTool(&mcp.Tool{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: d.InputSchema,
		}, handlerFor(tc, d.Name))
	}
	log.Debug("mcp tools registered", "count", len(descriptors))

	return &Server{server: srv, log: log}
}

func handlerFor(tc ToolCaller, name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args json.RawMessage
		if req.Params != nil {
			args = req.Params.Arguments
		}
		return toCallResult(tc.Call(tools.WithSource(ctx, domain.SourceAgent), name, args)), nil
	}
}

func toCallResult(r tools.Result) *mcp.CallToolResult {
	out := &mcp.CallToolResult{
		StructuredContent: r.StructuredContent,
		IsError:           r.IsError,
	}
	for _, block := range r.Content {
		out.Content = append(out.Content, &mcp.TextContent{Text: block.Text})
	}
	if r.ErrorInfo != nil {
		out.Meta = mcp.Meta{"category": r.ErrorInfo.Category}
	}
	return out
}

// Run serves one session on t until the client disconnects or ctx is
// cancelled.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	s.log.Info("mcp server started")
	defer s.log.Info("mcp server stopped")
	return s.server.Run(ctx, t)
}
