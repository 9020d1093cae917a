// Package mcp exposes the auditor as MCP tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/siteops/siteaudit/internal/audit"
	"github.com/siteops/siteaudit/internal/media"
	"github.com/siteops/siteaudit/internal/store"
)

// Server wraps the audit layer and exposes it as MCP tools.
type Server struct {
	store   store.Store
	auditor *audit.Auditor
	probe   *media.Probe
}

// NewServer creates the MCP server wrapper.
func NewServer(s store.Store, a *audit.Auditor, p *media.Probe) *Server {
	return &Server{store: s, auditor: a, probe: p}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("siteaudit", "1.0.0", server.WithToolCapabilities(true))

	srv.AddTool(s.runAuditTool())
	srv.AddTool(s.categoriesTool())
	srv.AddTool(s.saveAltTextTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// audit_run
func (s *Server) runAuditTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("audit_run",
		mcp.WithDescription("Run the full site audit. Returns the categorized report as JSON: check results per category plus flagged images."),
	)
	return tool, s.handleRunAudit
}

func (s *Server) handleRunAudit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.auditor.RunAll(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("audit run failed: %v", err)), nil
	}

	data, err := json.Marshal(report)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal report: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// audit_categories
func (s *Server) categoriesTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("audit_categories",
		mcp.WithDescription("List the audit report categories in display order. Returns a JSON array of {key, label}."),
	)
	return tool, s.handleCategories
}

func (s *Server) handleCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(s.auditor.Categories())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal categories: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// audit_save_alt_text
func (s *Server) saveAltTextTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("audit_save_alt_text",
		mcp.WithDescription("Set the alt text for an image in the media library."),
		mcp.WithString("image_id", mcp.Required(), mcp.Description("Attachment ID")),
		mcp.WithString("alt_text", mcp.Required(), mcp.Description("New alternative text")),
	)
	return tool, s.handleSaveAltText
}

func (s *Server) handleSaveAltText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	imageID, err := request.RequireString("image_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: image_id"), nil
	}
	altText, err := request.RequireString("alt_text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: alt_text"), nil
	}
	if media.SanitizeAltText(altText) == "" {
		return mcp.NewToolResultError("alt_text cannot be empty"), nil
	}

	if err := s.probe.SetAltText(ctx, imageID, altText); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set alt text: %v", err)), nil
	}
	return mcp.NewToolResultText(`{"status":"updated"}`), nil
}
