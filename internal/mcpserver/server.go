// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes Cairn tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rlowrie/cairn/internal/apperr"
	"github.com/rlowrie/cairn/internal/hikeservice"
)

// Server wraps the MCP server with Cairn tools.
type Server struct {
	mcp *server.MCPServer
	svc *hikeservice.Service
}

// New creates a new MCP server with all Cairn tools registered.
func New(svc *hikeservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Cairn",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("log_hike",
		mcp.WithDescription("Log a new hike. The record MUST follow the hike "+
			"record contract; read it first via the get_hike_contract tool or "+
			"the cairn://hike-format resource."),
		mcp.WithString("record", mcp.Required(), mcp.Description("Hike record as a JSON object")),
	), s.logHike)

	s.mcp.AddTool(mcp.NewTool("get_hike",
		mcp.WithDescription("Read one logged hike by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Hike id")),
	), s.getHike)

	s.mcp.AddTool(mcp.NewTool("list_hikes",
		mcp.WithDescription("List all logged hikes, most recent date first."),
	), s.listHikes)

	s.mcp.AddTool(mcp.NewTool("delete_hike",
		mcp.WithDescription("Delete one logged hike by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Hike id")),
	), s.deleteHike)

	s.mcp.AddTool(mcp.NewTool("hike_stats",
		mcp.WithDescription("Report the number of logged hikes."),
	), s.hikeStats)

	s.mcp.AddTool(mcp.NewTool("get_hike_contract",
		mcp.WithDescription("Returns the canonical hike record contract. "+
			"Call this before logging hikes to ensure correct structure."),
	), s.getHikeContract)

	// Resource: hike record contract.
	s.mcp.AddResource(
		mcp.NewResource("cairn://hike-format", "Hike Record Contract",
			mcp.WithResourceDescription("Canonical hike record format that all logged hikes must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readHikeFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) logHike(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	record, err := req.RequireString("record")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var in hikeservice.HikeInput
	if err := json.Unmarshal([]byte(record), &in); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid record JSON: %v", err)), nil
	}

	h, err := s.svc.CreateHike(ctx, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("logged: %s (%s)", h.Name, h.ID)), nil
}

func (s *Server) getHike(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	h, err := s.svc.GetHike(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(h, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listHikes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hikes, err := s.svc.ListHikes(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(hikes, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) deleteHike(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.DeleteHike(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", id)), nil
}

func (s *Server) hikeStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	count, err := s.svc.Stats(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%d hikes logged", count)), nil
}

func (s *Server) getHikeContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(HikeFormatContract), nil
}

func (s *Server) readHikeFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "cairn://hike-format",
			MIMEType: "text/markdown",
			Text:     HikeFormatContract,
		},
	}, nil
}
